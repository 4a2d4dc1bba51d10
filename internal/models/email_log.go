package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailType for notification emails.
const (
	EmailTypeNewParticipant = "organizer_new_participant"
)

// EmailLogStatus for delivery.
const (
	EmailLogStatusPending = "pending"
	EmailLogStatusSent    = "sent"
	EmailLogStatusFailed  = "failed"
)

// EmailLog records dispatched notification emails.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	WebinarID      *uuid.UUID `json:"webinar_id,omitempty"`
	EmailType      string     `json:"email_type"`
	RecipientKey   string     `json:"recipient_key"`
	RecipientEmail string     `json:"recipient_email,omitempty"`
	Subject        string     `json:"subject,omitempty"`
	Body           string     `json:"-"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
