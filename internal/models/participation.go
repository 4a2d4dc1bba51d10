package models

import (
	"time"

	"github.com/google/uuid"
)

// Participation records that a user has claimed one seat in a webinar.
// The pair (WebinarID, UserID) is the identity; at most one row exists per pair.
type Participation struct {
	WebinarID uuid.UUID `json:"webinar_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ParticipantDetail is a participation joined with user info for listings.
type ParticipantDetail struct {
	WebinarID uuid.UUID `json:"webinar_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	BookedAt  time.Time `json:"booked_at"`
}
