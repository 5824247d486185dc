package model

import "time"

type TransactionStatus string

const (
	TransactionPending           TransactionStatus = "pending"
	TransactionProcessing        TransactionStatus = "processing"
	TransactionSucceeded         TransactionStatus = "succeeded"
	TransactionFailed            TransactionStatus = "failed"
	TransactionCancelled         TransactionStatus = "cancelled"
	TransactionRefunded          TransactionStatus = "refunded"
	TransactionPartiallyRefunded TransactionStatus = "partially_refunded"
)

// PaymentTransaction is the local record of one payment attempt against the
// processor. Rows are created by intent initiation and mutated only by the
// two reconciliation paths; they are never deleted.
type PaymentTransaction struct {
	ID            string            `json:"id"`
	OrderID       string            `json:"order_id"`
	ProcessorID   string            `json:"processor_id"`
	IntentID      string            `json:"intent_id,omitempty"`
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	FailureReason string            `json:"failure_reason,omitempty"`
	RawResponse   []byte            `json:"-"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
	FailedAt      *time.Time        `json:"failed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
