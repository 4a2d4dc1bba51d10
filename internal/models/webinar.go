package models

import (
	"time"

	"github.com/google/uuid"
)

// Webinar represents a scheduled webinar with a fixed seat capacity.
// The core booking path only reads it; creation and editing go through
// the webinars management endpoints.
type Webinar struct {
	ID          uuid.UUID  `json:"id"`
	OrganizerID uuid.UUID  `json:"organizer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Seats       int        `json:"seats"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
