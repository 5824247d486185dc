package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/mw"
	"storefront/internal/service"
)

type PaymentInitiator interface {
	InitiateIntent(ctx context.Context, in service.IntentInput) (*service.IntentResult, error)
}

type createIntentRequest struct {
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	OrderID           string  `json:"orderId"`
	UserID            string  `json:"userId"`
	PaymentMethodType string  `json:"paymentMethodType,omitempty"`
}

func CreateIntentHandler(svc PaymentInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req createIntentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// The bearer identifies the caller; a body userId is accepted for
		// compatibility but the token wins.
		if customerID, ok := r.Context().Value(mw.CustomerCtxKey).(string); ok && customerID != "" {
			req.UserID = customerID
		}

		result, err := svc.InitiateIntent(r.Context(), service.IntentInput{
			Amount:            req.Amount,
			Currency:          req.Currency,
			OrderID:           req.OrderID,
			CustomerID:        req.UserID,
			PaymentMethodType: req.PaymentMethodType,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
