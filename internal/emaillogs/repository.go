package emaillogs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwave/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert creates a pending email log entry.
func (r *Repository) Insert(ctx context.Context, el *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, webinar_id, email_type, recipient_key, recipient_email, subject, body, status)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), $7)
		RETURNING id, created_at`
	status := el.Status
	if status == "" {
		status = models.EmailLogStatusPending
	}
	return r.pool.QueryRow(ctx, q, el.WebinarID, el.EmailType, el.RecipientKey, el.RecipientEmail, el.Subject, el.Body, status).
		Scan(&el.ID, &el.CreatedAt)
}

// MarkSent records a successful delivery.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, recipientEmail string) error {
	const q = `UPDATE email_logs SET status = $1, recipient_email = COALESCE(NULLIF($2,''), recipient_email), sent_at = NOW() WHERE id = $3`
	_, err := r.pool.Exec(ctx, q, models.EmailLogStatusSent, recipientEmail, id)
	return err
}

// MarkFailed records a failed delivery with the error message.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	const q = `UPDATE email_logs SET status = $1, error_message = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, q, models.EmailLogStatusFailed, errMsg, id)
	return err
}

// GetByID returns an email log by ID, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailLog, error) {
	const q = `SELECT id, webinar_id, email_type, recipient_key, COALESCE(recipient_email,''), COALESCE(subject,''), COALESCE(body,''), status, sent_at, COALESCE(error_message,''), created_at
		FROM email_logs WHERE id = $1`
	var el models.EmailLog
	err := r.pool.QueryRow(ctx, q, id).Scan(&el.ID, &el.WebinarID, &el.EmailType, &el.RecipientKey, &el.RecipientEmail, &el.Subject, &el.Body, &el.Status, &el.SentAt, &el.ErrorMessage, &el.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &el, nil
}

// ListRecent returns the most recent email logs, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*models.EmailLog, error) {
	const q = `SELECT id, webinar_id, email_type, recipient_key, COALESCE(recipient_email,''), COALESCE(subject,''), COALESCE(body,''), status, sent_at, COALESCE(error_message,''), created_at
		FROM email_logs
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		if err := rows.Scan(&el.ID, &el.WebinarID, &el.EmailType, &el.RecipientKey, &el.RecipientEmail, &el.Subject, &el.Body, &el.Status, &el.SentAt, &el.ErrorMessage, &el.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &el)
	}
	return list, rows.Err()
}
