package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/mw"
	"storefront/internal/service"
)

type checkoutRequest struct {
	Total        float64 `json:"total"`
	Currency     string  `json:"currency,omitempty"`
	DiscountCode string  `json:"discountCode,omitempty"`
}

func CheckoutHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		customerID, ok := r.Context().Value(mw.CustomerCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		order, err := orderSvc.Checkout(r.Context(), customerID, req.Total, req.Currency, req.DiscountCode)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, order)
	}
}

func ListOrdersHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		customerID := r.Context().Value(mw.CustomerCtxKey).(string)

		orders, err := orderSvc.ListByCustomer(r.Context(), customerID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, orders)
	}
}
