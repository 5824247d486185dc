package handler

import (
	"context"
	"io"
	"net/http"
)

type WebhookProcessor interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) error
}

// Stripe caps webhook payloads well below this.
const maxWebhookBody = 64 * 1024

type webhookAck struct {
	Received bool `json:"received"`
	Success  bool `json:"success"`
}

// StripeWebhookHandler acknowledges events with 200 only after reconciliation
// fully applied (or the event was a duplicate). Any other outcome returns a
// non-2xx so the processor redelivers.
func StripeWebhookHandler(svc WebhookProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		if err := svc.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, webhookAck{Received: true, Success: true})
	}
}
