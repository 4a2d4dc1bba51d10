// Package worker runs the notification delivery loop: dequeue email
// jobs, resolve the recipient key, deliver over SMTP and record the
// outcome in the email log.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seatwave/backend/internal/emaillogs"
	"github.com/seatwave/backend/internal/mailer"
	"github.com/seatwave/backend/internal/models"
	"github.com/seatwave/backend/pkg/queue"
)

// EmailProcessor processes email jobs: resolve recipient, send via
// SMTP, audit-log the attempt.
type EmailProcessor struct {
	resolver mailer.RecipientResolver
	sender   mailer.Sender
	logs     *emaillogs.Repository
	queue    *queue.Queue
	logger   *zap.Logger
}

// NewEmailProcessor creates an email delivery processor.
func NewEmailProcessor(resolver mailer.RecipientResolver, sender mailer.Sender, logs *emaillogs.Repository, q *queue.Queue, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{resolver: resolver, sender: sender, logs: logs, queue: q, logger: logger}
}

// Process executes one email job. Every attempt gets its own audit row.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	entry := &models.EmailLog{
		EmailType:    payload.EmailType,
		RecipientKey: payload.RecipientKey,
		Subject:      payload.Subject,
		Body:         payload.Body,
	}
	if payload.WebinarID != uuid.Nil {
		id := payload.WebinarID
		entry.WebinarID = &id
	}
	if err := p.logs.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}

	to, err := mailer.ResolveRecipient(ctx, p.resolver, payload.RecipientKey)
	if err != nil {
		if logErr := p.logs.MarkFailed(ctx, entry.ID, err.Error()); logErr != nil {
			p.logger.Error("mark email log failed", zap.Error(logErr), zap.String("log_id", entry.ID.String()))
		}
		return err
	}

	if err := p.sender.Send(ctx, to, payload.Subject, payload.Body); err != nil {
		if logErr := p.logs.MarkFailed(ctx, entry.ID, err.Error()); logErr != nil {
			p.logger.Error("mark email log failed", zap.Error(logErr), zap.String("log_id", entry.ID.String()))
		}
		return err
	}

	if err := p.logs.MarkSent(ctx, entry.ID, to); err != nil {
		p.logger.Error("mark email log sent failed", zap.Error(err), zap.String("log_id", entry.ID.String()))
	}
	p.logger.Info("email delivered", zap.String("to", to), zap.String("email_type", payload.EmailType))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
