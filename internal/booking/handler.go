package booking

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seatwave/backend/internal/middleware"
	"github.com/seatwave/backend/internal/models"
	"github.com/seatwave/backend/pkg/response"
)

// ParticipationReader provides booking counts and listings for the
// availability and participants endpoints.
type ParticipationReader interface {
	CountByWebinar(ctx context.Context, webinarID uuid.UUID) (int, error)
	ListDetailed(ctx context.Context, webinarID uuid.UUID) ([]models.ParticipantDetail, error)
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	svc      *Service
	webinars WebinarStore
	reader   ParticipationReader
	logger   *zap.Logger
}

// NewHandler creates a booking handler.
func NewHandler(svc *Service, webinars WebinarStore, reader ParticipationReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, webinars: webinars, reader: reader, logger: logger}
}

// Book handles POST /webinars/:id/book. The requesting user comes from
// the JWT claims set by the auth middleware.
func (h *Handler) Book(c *gin.Context) {
	webinarID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid webinar id")
		return
	}

	userIDVal, ok := c.Get(middleware.ContextUserID)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	email, _ := c.Get(middleware.ContextUserEmail)
	emailStr, _ := email.(string)

	user := UserRef{ID: userID, Email: emailStr}
	if err := h.svc.BookSeat(c.Request.Context(), webinarID, user); err != nil {
		switch {
		case errors.Is(err, ErrWebinarNotFound):
			response.NotFound(c, "webinar not found")
		case errors.Is(err, ErrNotEnoughSeats):
			response.Conflict(c, "not enough seats")
		case errors.Is(err, ErrAlreadyParticipating):
			response.Conflict(c, "already participating")
		default:
			h.logger.Error("book seat failed", zap.Error(err), zap.String("webinar_id", webinarID.String()))
			response.Internal(c, "failed to book seat")
		}
		return
	}

	response.Created(c, gin.H{"webinar_id": webinarID, "user_id": userID})
}

// Availability handles GET /webinars/:id/availability. Returns total
// seats, booked count and remaining seats.
func (h *Handler) Availability(c *gin.Context) {
	webinarID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid webinar id")
		return
	}

	w, err := h.webinars.FindByID(c.Request.Context(), webinarID)
	if err != nil {
		response.Internal(c, "failed to load webinar")
		return
	}
	if w == nil {
		response.NotFound(c, "webinar not found")
		return
	}

	booked, err := h.reader.CountByWebinar(c.Request.Context(), webinarID)
	if err != nil {
		response.Internal(c, "failed to count participations")
		return
	}

	remaining := w.Seats - booked
	if remaining < 0 {
		remaining = 0
	}
	response.OK(c, gin.H{
		"webinar_id": w.ID,
		"seats":      w.Seats,
		"booked":     booked,
		"remaining":  remaining,
	})
}

// Participants handles GET /webinars/:id/participants. Returns the
// booked users for the webinar (admin/speaker only; gated by route
// middleware).
func (h *Handler) Participants(c *gin.Context) {
	webinarID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid webinar id")
		return
	}

	w, err := h.webinars.FindByID(c.Request.Context(), webinarID)
	if err != nil {
		response.Internal(c, "failed to load webinar")
		return
	}
	if w == nil {
		response.NotFound(c, "webinar not found")
		return
	}

	list, err := h.reader.ListDetailed(c.Request.Context(), webinarID)
	if err != nil {
		response.Internal(c, "failed to list participants")
		return
	}
	response.OK(c, list)
}
