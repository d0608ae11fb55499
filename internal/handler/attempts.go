package handler

import (
	"net/http"

	"github.com/givetix/donation-bridge/internal/domain"
)

type attemptLister interface {
	List() []domain.DonationAttempt
}

type AttemptsHandler struct {
	store attemptLister
}

func NewAttemptsHandler(store attemptLister) *AttemptsHandler {
	return &AttemptsHandler{store: store}
}

// ListAttempts exposes the nuanced downstream outcomes that the webhook
// acknowledgment deliberately hides.
func (h *AttemptsHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	attempts := h.store.List()
	RespondJSON(w, http.StatusOK, map[string]any{
		"count":    len(attempts),
		"attempts": attempts,
	})
}
