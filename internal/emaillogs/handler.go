package emaillogs

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seatwave/backend/pkg/queue"
	"github.com/seatwave/backend/pkg/response"
)

const defaultListLimit = 100

// Handler handles email log HTTP endpoints (admin only; gate with
// RequireRole on the routes).
type Handler struct {
	repo   *Repository
	queue  *queue.Queue // nil when Redis is not configured
	logger *zap.Logger
}

// NewHandler creates an email logs handler.
func NewHandler(repo *Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, queue: q, logger: logger}
}

// List handles GET /emails. Returns recent notification logs.
func (h *Handler) List(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = n
	}
	logs, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, logs)
}

// ResendRequest is the body for POST /emails/resend.
type ResendRequest struct {
	LogID string `json:"log_id" binding:"required,uuid"`
}

// Resend handles POST /emails/resend. Re-enqueues the logged
// notification for another delivery attempt.
func (h *Handler) Resend(c *gin.Context) {
	var body ResendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "log_id required")
		return
	}
	if h.queue == nil {
		response.Internal(c, "email queue not configured")
		return
	}

	logID := uuid.MustParse(body.LogID)
	el, err := h.repo.GetByID(c.Request.Context(), logID)
	if err != nil {
		response.Internal(c, "failed to load email log")
		return
	}
	if el == nil {
		response.NotFound(c, "email log not found")
		return
	}

	payload := queue.EmailPayload{
		EmailType:    el.EmailType,
		RecipientKey: el.RecipientKey,
		Subject:      el.Subject,
		Body:         el.Body,
	}
	if el.WebinarID != nil {
		payload.WebinarID = *el.WebinarID
	}
	if err := h.queue.EnqueueEmail(c.Request.Context(), payload); err != nil {
		h.logger.Error("resend enqueue failed", zap.Error(err), zap.String("log_id", logID.String()))
		response.Internal(c, "failed to enqueue resend")
		return
	}
	response.OK(c, gin.H{"message": "resend queued"})
}
