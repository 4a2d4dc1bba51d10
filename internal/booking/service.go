// Package booking implements the seat-booking use case: capacity and
// duplicate checks against the participation store, persistence of the
// new participation, and an organizer notification on success.
package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seatwave/backend/internal/models"
)

// NotificationSubject is the subject of the organizer email sent on
// every successful booking.
const NotificationSubject = "New participant registered"

// Message is an outbound notification. To is an addressing key (here
// the organizer's user id); resolving it to a deliverable address is
// the notifier's responsibility.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// WebinarStore is the read-only webinar lookup used by the booking flow.
// FindByID returns (nil, nil) when no webinar exists for the id.
type WebinarStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Webinar, error)
}

// ParticipationStore persists seat bookings. FindByWebinarID returns
// existing participations in no particular order.
type ParticipationStore interface {
	FindByWebinarID(ctx context.Context, webinarID uuid.UUID) ([]models.Participation, error)
	Save(ctx context.Context, p *models.Participation) error
}

// Notifier dispatches a single message. Delivery is fire-and-forget;
// retries and queuing are the implementation's concern.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// UserRef identifies the requesting user. Only the id and email take
// part in the booking flow.
type UserRef struct {
	ID    uuid.UUID
	Email string
}

// Service orchestrates seat bookings against the stores and notifier.
type Service struct {
	webinars       WebinarStore
	participations ParticipationStore
	notifier       Notifier
	logger         *zap.Logger
}

// NewService creates a booking service.
func NewService(webinars WebinarStore, participations ParticipationStore, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{webinars: webinars, participations: participations, notifier: notifier, logger: logger}
}

// BookSeat reserves one seat for the user in the webinar and notifies
// the organizer. Validations run before any write: a missing webinar,
// exhausted capacity, or an existing (user, webinar) participation fail
// the call with no side effects. Capacity is checked before the
// duplicate check, so a full webinar reports ErrNotEnoughSeats even
// when the requesting user is among the participants. If notification
// dispatch fails after the participation was persisted, the booking
// stands and the notifier's error is returned as-is.
func (s *Service) BookSeat(ctx context.Context, webinarID uuid.UUID, user UserRef) error {
	webinar, err := s.webinars.FindByID(ctx, webinarID)
	if err != nil {
		return err
	}
	if webinar == nil {
		return ErrWebinarNotFound
	}

	participations, err := s.participations.FindByWebinarID(ctx, webinarID)
	if err != nil {
		return err
	}

	if len(participations) >= webinar.Seats {
		return ErrNotEnoughSeats
	}
	for _, p := range participations {
		if p.UserID == user.ID {
			return ErrAlreadyParticipating
		}
	}

	participation := &models.Participation{WebinarID: webinarID, UserID: user.ID}
	if err := s.participations.Save(ctx, participation); err != nil {
		return err
	}

	msg := Message{
		To:      webinar.OrganizerID.String(),
		Subject: NotificationSubject,
		Body:    fmt.Sprintf("User %s has registered for the webinar %s.", user.Email, webinar.Title),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		// Seat already persisted; no rollback on notification failure.
		s.logger.Warn("organizer notification failed",
			zap.String("webinar_id", webinarID.String()),
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("seat booked",
		zap.String("webinar_id", webinarID.String()),
		zap.String("user_id", user.ID.String()),
	)
	return nil
}
