package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storefront/internal/model"
)

type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, t *model.PaymentTransaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO payment_transactions (id, order_id, processor_id, intent_id, amount, currency, status, raw_response)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, t.ID, t.OrderID, t.ProcessorID, t.IntentID, t.Amount, t.Currency, t.Status, nullBytes(t.RawResponse)).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *TransactionStore) GetByIntentID(ctx context.Context, intentID string) (*model.PaymentTransaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, order_id, processor_id, intent_id, amount, currency, status,
		       failure_reason, processed_at, failed_at, created_at, updated_at
		FROM payment_transactions WHERE intent_id = $1
	`, intentID)
	return scanTransaction(row)
}

// ApplyProcessorResult writes the outcome of one processor observation:
// mapped status, raw payload for audit and the relevant timestamps, all in a
// single UPDATE.
func (s *TransactionStore) ApplyProcessorResult(ctx context.Context, id string, status model.TransactionStatus, raw []byte, failureReason string, processedAt, failedAt *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE payment_transactions
		SET status = $1,
		    raw_response = COALESCE($2, raw_response),
		    failure_reason = COALESCE(NULLIF($3, ''), failure_reason),
		    processed_at = COALESCE($4, processed_at),
		    failed_at = COALESCE($5, failed_at),
		    updated_at = NOW()
		WHERE id = $6
	`, status, nullBytes(raw), failureReason, processedAt, failedAt, id)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStaleProcessing returns transactions stuck in processing since before
// the cutoff, oldest first.
func (s *TransactionStore) ListStaleProcessing(ctx context.Context, cutoff time.Time, limit int) ([]model.PaymentTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, processor_id, intent_id, amount, currency, status,
		       failure_reason, processed_at, failed_at, created_at, updated_at
		FROM payment_transactions
		WHERE status = $1 AND updated_at < $2 AND intent_id IS NOT NULL
		ORDER BY updated_at ASC
		LIMIT $3
	`, model.TransactionProcessing, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.PaymentTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return txns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.PaymentTransaction, error) {
	var t model.PaymentTransaction
	var intentID, failureReason sql.NullString
	var processedAt, failedAt sql.NullTime
	err := row.Scan(&t.ID, &t.OrderID, &t.ProcessorID, &intentID, &t.Amount, &t.Currency, &t.Status,
		&failureReason, &processedAt, &failedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if intentID.Valid {
		t.IntentID = intentID.String
	}
	if failureReason.Valid {
		t.FailureReason = failureReason.String
	}
	if processedAt.Valid {
		t.ProcessedAt = &processedAt.Time
	}
	if failedAt.Valid {
		t.FailedAt = &failedAt.Time
	}
	return &t, nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
