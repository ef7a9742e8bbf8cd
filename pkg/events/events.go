package events

import (
	"context"
)

// GatewayEvent is an inbound webhook event from the external trading platform.
// It maps onto exactly one trade via the stored trade-offer ID and drives the
// same transition table as user-initiated actions.
type GatewayEvent struct {
	TradeOfferID string `json:"trade_offer_id"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	Raw          string `json:"raw,omitempty"`
}

// Enqueuer defines the interface for handing a gateway event off for
// asynchronous processing.
type Enqueuer interface {
	// EnqueueGatewayEvent enqueues a webhook event for the consumer to apply.
	EnqueueGatewayEvent(ctx context.Context, ev *GatewayEvent) error
}
