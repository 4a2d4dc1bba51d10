package webinars

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/seatwave/backend/internal/middleware"
	"github.com/seatwave/backend/internal/models"
	"github.com/seatwave/backend/pkg/response"
)

// CreateRequest is the body for POST /webinars.
type CreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Seats       int        `json:"seats" binding:"required,min=1"`
}

// UpdateRequest is the body for PATCH /webinars/:id.
type UpdateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Seats       *int       `json:"seats"`
}

// Handler handles webinar HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a webinar handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /webinars (admin only). The authenticated user
// becomes the organizer.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	organizerVal, ok := c.Get(middleware.ContextUserID)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	organizerID, _ := organizerVal.(uuid.UUID)

	w := &models.Webinar{
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Seats:       req.Seats,
	}
	if err := h.repo.Create(c.Request.Context(), w); err != nil {
		response.Internal(c, "failed to create webinar")
		return
	}
	response.Created(c, w)
}

// GetByID handles GET /webinars/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid webinar id")
		return
	}
	w, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load webinar")
		return
	}
	if w == nil {
		response.NotFound(c, "webinar not found")
		return
	}
	response.OK(c, w)
}

// List handles GET /webinars. Optional ?organizer_id= filter.
func (h *Handler) List(c *gin.Context) {
	var organizerID *uuid.UUID
	if v := c.Query("organizer_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(c, "invalid organizer_id")
			return
		}
		organizerID = &id
	}
	list, err := h.repo.List(c.Request.Context(), organizerID)
	if err != nil {
		response.Internal(c, "failed to list webinars")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /webinars/:id (organizer or admin).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid webinar id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Seats != nil && *req.Seats < 1 {
		response.BadRequest(c, "seats must be positive")
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, req.Title, req.Description, req.StartsAt, req.EndsAt, req.Seats); err != nil {
		response.Internal(c, "failed to update webinar")
		return
	}
	response.OK(c, gin.H{"updated": true})
}

// Delete handles DELETE /webinars/:id (organizer or admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid webinar id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.Internal(c, "failed to delete webinar")
		return
	}
	response.NoContent(c)
}

// RequireOrganizerAccess returns a middleware allowing the webinar's
// organizer or a platform admin through. Mount after the JWT middleware
// on routes with an :id webinar parameter.
func RequireOrganizerAccess(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		webinarID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid webinar id")
			c.Abort()
			return
		}
		roleVal, _ := c.Get(middleware.ContextUserRole)
		if role, _ := roleVal.(string); role == string(models.RoleAdmin) {
			c.Next()
			return
		}
		userVal, ok := c.Get(middleware.ContextUserID)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		userID, _ := userVal.(uuid.UUID)
		isOrganizer, err := repo.IsOrganizer(c.Request.Context(), webinarID, userID)
		if err != nil {
			response.Internal(c, "failed to check webinar access")
			c.Abort()
			return
		}
		if !isOrganizer {
			response.Forbidden(c, "organizer access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
