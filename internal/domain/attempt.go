package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AttemptStatus string

const (
	AttemptStatusPendingUserAction AttemptStatus = "PENDING_USER_ACTION"
	AttemptStatusCompleted         AttemptStatus = "COMPLETED"
	AttemptStatusDeclined          AttemptStatus = "DECLINED"
	AttemptStatusCancelled         AttemptStatus = "CANCELLED"
	AttemptStatusRefunded          AttemptStatus = "REFUNDED"
)

// DonationAttempt tracks one order's progress toward a created donation.
// Records are keyed by OrderID in the store; a later event for the same
// order replaces the whole record (last write wins).
type DonationAttempt struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        string          `json:"order_id"`
	EventID        string          `json:"event_id"`
	Status         AttemptStatus   `json:"status"`
	Token          string          `json:"token,omitempty"`
	DonorName      string          `json:"donor_name"`
	DonorEmail     string          `json:"donor_email"`
	EventName      string          `json:"event_name"`
	Amount         decimal.Decimal `json:"amount"`
	DonationID     string          `json:"donation_id,omitempty"`
	CertificateURL string          `json:"certificate_url,omitempty"`
	FailureReason  string          `json:"failure_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// GatewayResult is the donation API's response to a creation request.
type GatewayResult struct {
	DonationID     string
	Status         string
	CreatedAt      time.Time
	CertificateURL string
}
