package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seatwave/backend/internal/booking"
	"github.com/seatwave/backend/internal/models"
	"github.com/seatwave/backend/pkg/queue"
)

// RecipientResolver looks up a user for an addressing key. Satisfied by
// the auth repository.
type RecipientResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ResolveRecipient turns an addressing key into a deliverable email
// address: a user id is looked up, anything that parses as an email
// address passes through unchanged.
func ResolveRecipient(ctx context.Context, resolver RecipientResolver, key string) (string, error) {
	if id, err := uuid.Parse(key); err == nil {
		u, err := resolver.GetByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("resolve recipient %s: %w", key, err)
		}
		if u == nil {
			return "", fmt.Errorf("resolve recipient %s: user not found", key)
		}
		return u.Email, nil
	}
	if _, err := mail.ParseAddress(key); err == nil {
		return key, nil
	}
	return "", fmt.Errorf("resolve recipient %s: not a user id or email address", key)
}

// QueueNotifier implements the booking Notifier by enqueueing the
// message as an email job. Dispatch is fire-and-forget: a successful
// enqueue acknowledges the send, delivery happens in the worker.
type QueueNotifier struct {
	queue  *queue.Queue
	logger *zap.Logger
}

// NewQueueNotifier creates a queue-backed notifier.
func NewQueueNotifier(q *queue.Queue, logger *zap.Logger) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{queue: q, logger: logger}
}

// Send enqueues the message for asynchronous delivery.
func (n *QueueNotifier) Send(ctx context.Context, msg booking.Message) error {
	return n.queue.EnqueueEmail(ctx, queue.EmailPayload{
		EmailType:    models.EmailTypeNewParticipant,
		RecipientKey: msg.To,
		Subject:      msg.Subject,
		Body:         msg.Body,
	})
}

// Direct implements the booking Notifier by resolving the recipient
// and delivering inline over SMTP. Used when Redis is not available.
type Direct struct {
	resolver RecipientResolver
	sender   Sender
	logger   *zap.Logger
}

// NewDirect creates a direct (inline SMTP) notifier.
func NewDirect(resolver RecipientResolver, sender Sender, logger *zap.Logger) *Direct {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Direct{resolver: resolver, sender: sender, logger: logger}
}

// Send resolves the addressing key and delivers the message.
func (n *Direct) Send(ctx context.Context, msg booking.Message) error {
	to, err := ResolveRecipient(ctx, n.resolver, msg.To)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, to, msg.Subject, msg.Body)
}
