package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeServiceError is the single boundary translation from the service
// error taxonomy to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		validationErr *service.ValidationError
		configErr     *service.ConfigurationError
		processorErr  *service.ProcessorError
		notFoundErr   *service.NotFoundError
		persistErr    *service.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Msg, http.StatusBadRequest)
	case errors.As(err, &configErr):
		slog.Error("configuration error", "error", err)
		http.Error(w, configErr.Msg, http.StatusInternalServerError)
	case errors.As(err, &processorErr):
		slog.Error("processor error", "error", err)
		http.Error(w, processorErr.Msg, http.StatusInternalServerError)
	case errors.As(err, &notFoundErr):
		slog.Error("data consistency error", "error", err)
		http.Error(w, notFoundErr.Msg, http.StatusInternalServerError)
	case errors.As(err, &persistErr):
		slog.Error("persistence error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		slog.Error("unexpected error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
