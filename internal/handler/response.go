package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/givetix/donation-bridge/internal/domain"
)

// AckResponse is the acknowledgment returned to the webhook sender once
// dispatch has been attempted, regardless of the downstream outcome.
type AckResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondAck(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusOK, AckResponse{
		Status:    "ok",
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError) {
	RespondJSON(w, appErr.Status, ErrorResponse{Error: appErr.Message})
}

// RespondDomainError maps dispatcher errors onto the webhook sender's
// contract: 401 for authentication failures, 500 for everything else.
func RespondDomainError(w http.ResponseWriter, err error) {
	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		appErr = ErrInvalidSignature
	case errors.Is(err, domain.ErrMalformedPayload):
		appErr = ErrInvalidPayload
	default:
		slog.Error("unhandled dispatch error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr)
}
