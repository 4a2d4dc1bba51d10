// Package participations provides the PostgreSQL adapter for seat
// bookings. The (webinar_id, user_id) primary key is the store's own
// duplicate guard; the booking service still performs its documented
// read-then-check validation before writing.
package participations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwave/backend/internal/models"
)

// Repository handles participation persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a participations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByWebinarID returns all participations for a webinar.
func (r *Repository) FindByWebinarID(ctx context.Context, webinarID uuid.UUID) ([]models.Participation, error) {
	const q = `SELECT webinar_id, user_id, created_at FROM participations WHERE webinar_id = $1`
	rows, err := r.pool.Query(ctx, q, webinarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Participation
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(&p.WebinarID, &p.UserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Save inserts a participation.
func (r *Repository) Save(ctx context.Context, p *models.Participation) error {
	const q = `INSERT INTO participations (webinar_id, user_id)
		VALUES ($1, $2)
		RETURNING created_at`
	return r.pool.QueryRow(ctx, q, p.WebinarID, p.UserID).Scan(&p.CreatedAt)
}

// CountByWebinar returns the number of booked seats for a webinar.
func (r *Repository) CountByWebinar(ctx context.Context, webinarID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM participations WHERE webinar_id = $1`
	var count int
	err := r.pool.QueryRow(ctx, q, webinarID).Scan(&count)
	return count, err
}

// ListDetailed returns participations joined with user info, newest first.
func (r *Repository) ListDetailed(ctx context.Context, webinarID uuid.UUID) ([]models.ParticipantDetail, error) {
	const q = `SELECT p.webinar_id, p.user_id, u.email, u.full_name, p.created_at
		FROM participations p
		JOIN users u ON u.id = p.user_id
		WHERE p.webinar_id = $1
		ORDER BY p.created_at DESC`
	rows, err := r.pool.Query(ctx, q, webinarID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.ParticipantDetail
	for rows.Next() {
		var d models.ParticipantDetail
		if err := rows.Scan(&d.WebinarID, &d.UserID, &d.Email, &d.FullName, &d.BookedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
