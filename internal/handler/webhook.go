package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/givetix/donation-bridge/internal/logging"
)

const signatureHeader = "X-Webhook-Signature"

type webhookDispatcher interface {
	ProcessWebhook(ctx context.Context, body []byte, sigHeader string) error
}

type WebhookHandler struct {
	dispatcher webhookDispatcher
}

func NewWebhookHandler(dispatcher webhookDispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

// ReceiveTicketWebhook hands the raw body and signature header to the
// dispatcher. The body must reach the dispatcher byte-exact; verification
// runs over the unparsed content.
func (h *WebhookHandler) ReceiveTicketWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		log.Error("failed to read webhook body", "error", err)
		RespondAppError(w, ErrInternalError)
		return
	}

	if err := h.dispatcher.ProcessWebhook(r.Context(), body, r.Header.Get(signatureHeader)); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondAck(w, "event processed")
}
