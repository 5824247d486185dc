package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/model"
)

type WebhookStore struct {
	db *sql.DB
}

func NewWebhookStore(db *sql.DB) *WebhookStore {
	return &WebhookStore{db: db}
}

// Insert records one received event. Returns ErrDuplicate when the
// (processor_id, event_id) pair already exists, which is the system's replay
// protection for at-least-once delivery.
func (s *WebhookStore) Insert(ctx context.Context, ev *model.WebhookEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO webhook_events (id, processor_id, event_id, event_type, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, ev.ID, ev.ProcessorID, ev.EventID, ev.EventType, nullBytes(ev.Payload)).
		Scan(&ev.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}

func (s *WebhookStore) MarkProcessed(ctx context.Context, id, transactionID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE webhook_events
		SET processed = TRUE,
		    processed_at = NOW(),
		    attempts = attempts + 1,
		    transaction_id = NULLIF($1, '')::uuid
		WHERE id = $2
	`, transactionID, id)
	if err != nil {
		return fmt.Errorf("mark webhook processed: %w", err)
	}
	return nil
}

func (s *WebhookStore) RecordFailure(ctx context.Context, id, lastError string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE webhook_events
		SET attempts = attempts + 1, last_error = $1
		WHERE id = $2
	`, lastError, id)
	if err != nil {
		return fmt.Errorf("record webhook failure: %w", err)
	}
	return nil
}

