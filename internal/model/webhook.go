package model

import "time"

// WebhookEvent is the audit row for one processor notification. The unique
// (processor_id, event_id) pair is the sole dedup mechanism for the
// processor's at-least-once delivery.
type WebhookEvent struct {
	ID            string     `json:"id"`
	ProcessorID   string     `json:"processor_id"`
	EventID       string     `json:"event_id"`
	EventType     string     `json:"event_type"`
	Payload       []byte     `json:"-"`
	Processed     bool       `json:"processed"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PaymentProcessor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
