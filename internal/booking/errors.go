package booking

import "errors"

var (
	// ErrWebinarNotFound is returned when the referenced webinar does not exist.
	ErrWebinarNotFound = errors.New("webinar not found")
	// ErrNotEnoughSeats is returned when the webinar capacity is exhausted.
	ErrNotEnoughSeats = errors.New("webinar has not enough seats")
	// ErrAlreadyParticipating is returned when the user already holds a seat.
	ErrAlreadyParticipating = errors.New("user already participating in webinar")
)
