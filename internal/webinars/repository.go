package webinars

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwave/backend/internal/models"
)

// Repository handles webinar persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a webinar repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new webinar.
func (r *Repository) Create(ctx context.Context, w *models.Webinar) error {
	const q = `INSERT INTO webinars (id, organizer_id, title, description, starts_at, ends_at, seats)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, w.OrganizerID, w.Title, w.Description, w.StartsAt, w.EndsAt, w.Seats).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

// FindByID returns a webinar by ID, or nil when it does not exist.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Webinar, error) {
	const q = `SELECT id, organizer_id, title, description, starts_at, ends_at, seats, created_at, updated_at
		FROM webinars WHERE id = $1`
	var w models.Webinar
	err := r.pool.QueryRow(ctx, q, id).Scan(&w.ID, &w.OrganizerID, &w.Title, &w.Description, &w.StartsAt, &w.EndsAt, &w.Seats, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns all webinars, optionally filtered by organizer.
func (r *Repository) List(ctx context.Context, organizerID *uuid.UUID) ([]models.Webinar, error) {
	base := `SELECT id, organizer_id, title, description, starts_at, ends_at, seats, created_at, updated_at FROM webinars`
	var args []interface{}
	var cond string
	if organizerID != nil {
		cond = " WHERE organizer_id = $1"
		args = append(args, *organizerID)
	}
	rows, err := r.pool.Query(ctx, base+cond+" ORDER BY starts_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Webinar
	for rows.Next() {
		var w models.Webinar
		if err := rows.Scan(&w.ID, &w.OrganizerID, &w.Title, &w.Description, &w.StartsAt, &w.EndsAt, &w.Seats, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Update updates webinar fields (title, description, schedule, seats).
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title, description string, startsAt, endsAt *time.Time, seats *int) error {
	const q = `UPDATE webinars SET title = $1, description = $2,
		starts_at = COALESCE($3, starts_at), ends_at = COALESCE($4, ends_at),
		seats = COALESCE($5, seats), updated_at = NOW() WHERE id = $6`
	_, err := r.pool.Exec(ctx, q, title, description, startsAt, endsAt, seats, id)
	return err
}

// Delete removes a webinar by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM webinars WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

// IsOrganizer returns true if the user organizes the webinar.
func (r *Repository) IsOrganizer(ctx context.Context, webinarID, userID uuid.UUID) (bool, error) {
	w, err := r.FindByID(ctx, webinarID)
	if err != nil {
		return false, err
	}
	if w == nil {
		return false, nil
	}
	return w.OrganizerID == userID, nil
}
