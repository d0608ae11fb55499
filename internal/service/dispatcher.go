package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givetix/donation-bridge/internal/domain"
	"github.com/givetix/donation-bridge/internal/gateway"
	"github.com/givetix/donation-bridge/internal/logging"
	"github.com/givetix/donation-bridge/internal/signature"
)

type attemptStore interface {
	Put(a domain.DonationAttempt)
	Get(orderID string) (domain.DonationAttempt, bool)
}

type donationGateway interface {
	CreateDonation(ctx context.Context, req gateway.CreateRequest) (*domain.GatewayResult, error)
}

type tokenIssuer interface {
	Issue(orderID, eventID string) (string, error)
}

// Dispatcher authenticates each inbound webhook, routes it by event kind,
// and drives the donation-attempt lifecycle. Events for the same order are
// serialized on a per-order lock; distinct orders proceed in parallel.
type Dispatcher struct {
	verifier       *signature.Verifier
	tokens         tokenIssuer
	store          attemptStore
	gateway        donationGateway
	locks          keyedMutex
	sourcePlatform string
	campaignID     string
	replayWindow   time.Duration
	now            func() time.Time
}

func NewDispatcher(
	verifier *signature.Verifier,
	tokens tokenIssuer,
	store attemptStore,
	gw donationGateway,
	sourcePlatform string,
	campaignID string,
	replayWindow time.Duration,
) *Dispatcher {
	return &Dispatcher{
		verifier:       verifier,
		tokens:         tokens,
		store:          store,
		gateway:        gw,
		sourcePlatform: sourcePlatform,
		campaignID:     campaignID,
		replayWindow:   replayWindow,
		now:            time.Now,
	}
}

type webhookEnvelope struct {
	Event     string       `json:"event"`
	Timestamp string       `json:"timestamp,omitempty"`
	Data      orderPayload `json:"data"`
}

type orderPayload struct {
	OrderIdentifier string          `json:"order_identifier"`
	EventID         string          `json:"event_id"`
	EventName       string          `json:"event_name"`
	Amount          decimal.Decimal `json:"amount"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Email           string          `json:"email"`
	Status          string          `json:"status"`
}

// ProcessWebhook runs the full pipeline for one raw webhook: signature
// verification, payload parsing, and lifecycle dispatch. It returns
// domain.ErrUnauthorized or domain.ErrMalformedPayload before any state
// mutation; gateway failures are recorded on the attempt and do not
// surface as errors.
func (d *Dispatcher) ProcessWebhook(ctx context.Context, body []byte, sigHeader string) error {
	log := logging.FromContext(ctx)

	if !d.verifier.Verify(body, sigHeader) {
		log.Warn("webhook signature verification failed")
		return domain.ErrUnauthorized
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Error("failed to parse webhook payload", "error", err)
		return domain.ErrMalformedPayload
	}

	if envelope.Timestamp != "" && !d.verifier.VerifyTimestamp(envelope.Timestamp, d.replayWindow) {
		log.Warn("webhook timestamp outside replay window", "timestamp", envelope.Timestamp)
		return domain.ErrUnauthorized
	}

	event := domain.InboundEvent{
		Kind:      domain.EventKind(envelope.Event),
		Timestamp: envelope.Timestamp,
		Order: domain.OrderData{
			OrderID:   envelope.Data.OrderIdentifier,
			EventID:   envelope.Data.EventID,
			EventName: envelope.Data.EventName,
			Amount:    envelope.Data.Amount,
			FirstName: envelope.Data.FirstName,
			LastName:  envelope.Data.LastName,
			Email:     envelope.Data.Email,
			Status:    envelope.Data.Status,
		},
	}

	switch event.Kind {
	case domain.EventKindOrderApproved:
		if event.Order.OrderID == "" {
			return domain.ErrMalformedPayload
		}
		d.handleApproved(ctx, event)
	case domain.EventKindOrderCancelled:
		if event.Order.OrderID == "" {
			return domain.ErrMalformedPayload
		}
		d.handleTerminal(ctx, event, domain.AttemptStatusCancelled)
	case domain.EventKindOrderRefunded:
		if event.Order.OrderID == "" {
			return domain.ErrMalformedPayload
		}
		d.handleTerminal(ctx, event, domain.AttemptStatusRefunded)
	case domain.EventKindOrderCreated:
		log.Info("order created", "order_id", event.Order.OrderID, "event_name", event.Order.EventName)
	default:
		log.Info("ignoring unrecognized event kind", "kind", envelope.Event)
	}

	return nil
}

// handleApproved runs the whole creation flow, even for an order already
// seen: the new record replaces the prior outcome (last write wins).
func (d *Dispatcher) handleApproved(ctx context.Context, event domain.InboundEvent) {
	log := logging.FromContext(ctx)

	unlock := d.locks.lock(event.Order.OrderID)
	defer unlock()

	now := d.now().UTC()

	tok, err := d.tokens.Issue(event.Order.OrderID, event.Order.EventID)
	if err != nil {
		log.Error("failed to issue attempt token", "order_id", event.Order.OrderID, "error", err)
	}

	attempt := domain.DonationAttempt{
		ID:         uuid.New(),
		OrderID:    event.Order.OrderID,
		EventID:    event.Order.EventID,
		Status:     domain.AttemptStatusPendingUserAction,
		Token:      tok,
		DonorName:  event.Order.BuyerName(),
		DonorEmail: event.Order.Email,
		EventName:  event.Order.EventName,
		Amount:     event.Order.Amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	d.store.Put(attempt)

	result, err := d.gateway.CreateDonation(ctx, gateway.CreateRequest{
		SourcePlatform: d.sourcePlatform,
		SourceOrderID:  event.Order.OrderID,
		SourceEventID:  event.Order.EventID,
		DonorName:      attempt.DonorName,
		DonorEmail:     attempt.DonorEmail,
		DonationValue:  event.Order.Amount,
		CampaignID:     d.campaignID,
	})

	attempt.UpdatedAt = d.now().UTC()
	if err != nil {
		attempt.Status = domain.AttemptStatusDeclined
		attempt.FailureReason = err.Error()
		log.Error("donation creation failed", "order_id", attempt.OrderID, "error", err)
	} else {
		attempt.Status = domain.AttemptStatusCompleted
		attempt.DonationID = result.DonationID
		attempt.CertificateURL = result.CertificateURL
		log.Info("donation created",
			"order_id", attempt.OrderID,
			"donation_id", result.DonationID,
			"gateway_status", result.Status,
		)
	}
	d.store.Put(attempt)
}

// handleTerminal moves an existing attempt into status, or creates one
// directly in status when the order has never been seen. A fresh terminal
// attempt carries no token: there is nothing left for a donor to act on.
func (d *Dispatcher) handleTerminal(ctx context.Context, event domain.InboundEvent, status domain.AttemptStatus) {
	log := logging.FromContext(ctx)

	unlock := d.locks.lock(event.Order.OrderID)
	defer unlock()

	now := d.now().UTC()

	attempt, ok := d.store.Get(event.Order.OrderID)
	if !ok {
		attempt = domain.DonationAttempt{
			ID:         uuid.New(),
			OrderID:    event.Order.OrderID,
			EventID:    event.Order.EventID,
			DonorName:  event.Order.BuyerName(),
			DonorEmail: event.Order.Email,
			EventName:  event.Order.EventName,
			Amount:     event.Order.Amount,
			CreatedAt:  now,
		}
	}

	attempt.Status = status
	attempt.UpdatedAt = now
	d.store.Put(attempt)

	log.Info("attempt moved to terminal state", "order_id", attempt.OrderID, "status", status)
}
