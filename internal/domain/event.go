package domain

import "github.com/shopspring/decimal"

type EventKind string

const (
	EventKindOrderApproved  EventKind = "order.approved"
	EventKindOrderCreated   EventKind = "order.created"
	EventKindOrderCancelled EventKind = "order.cancelled"
	EventKindOrderRefunded  EventKind = "order.refunded"
)

// InboundEvent is one parsed webhook notification from the ticketing
// platform. It is built once per request and never mutated.
type InboundEvent struct {
	Kind      EventKind
	Order     OrderData
	Timestamp string
}

type OrderData struct {
	OrderID   string
	EventID   string
	EventName string
	Amount    decimal.Decimal
	FirstName string
	LastName  string
	Email     string
	Status    string
}

func (o OrderData) BuyerName() string {
	if o.FirstName == "" {
		return o.LastName
	}
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}
