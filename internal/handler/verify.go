package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/service"
)

type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, in service.VerifyInput) (*service.VerifyResult, error)
}

type verifyRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	TransactionID   string `json:"transactionId,omitempty"`
	OrderID         string `json:"orderId"`
}

func VerifyPaymentHandler(svc PaymentVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		result, err := svc.VerifyPayment(r.Context(), service.VerifyInput{
			PaymentIntentID: req.PaymentIntentID,
			TransactionID:   req.TransactionID,
			OrderID:         req.OrderID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
