package gateway

import (
	"context"
	"fmt"
)

// ExchangeState is the state of a trade offer as reported by the external
// trading platform.
type ExchangeState string

const (
	ExchangeAccepted  ExchangeState = "accepted"
	ExchangePending   ExchangeState = "pending"
	ExchangeDeclined  ExchangeState = "declined"
	ExchangeCancelled ExchangeState = "cancelled"
	ExchangeNotFound  ExchangeState = "not_found"
)

// Exchange is a snapshot of an external trade offer. Raw preserves the
// platform's response body for auditing; the platform may return stale state.
type Exchange struct {
	TradeOfferID string
	State        ExchangeState
	Raw          string
}

// CreateExchangeRequest carries everything the platform needs to open a trade
// offer moving the seller's assets to the buyer.
type CreateExchangeRequest struct {
	SellerSteamID  string
	BuyerSteamID   string
	BuyerTradeURL  string
	SellerAssetIDs []string
	BuyerAssetIDs  []string
	Note           string
}

// Gateway abstracts the external trading platform. Implementations are treated
// as an untrusted, sometimes-slow black box: every call must carry a bounded
// timeout, and callers must tolerate errors and stale answers.
type Gateway interface {
	// CreateExchange opens a trade offer on the platform and returns its ID.
	CreateExchange(ctx context.Context, req CreateExchangeRequest) (string, error)

	// QueryExchange fetches the current state of a trade offer.
	QueryExchange(ctx context.Context, tradeOfferID string) (*Exchange, error)

	// CancelExchange cancels a trade offer. Best-effort: callers must not let
	// a failure here block local state.
	CancelExchange(ctx context.Context, tradeOfferID string) error

	// ParseOfferRef extracts a trade-offer ID from a user-supplied reference
	// (a bare ID or a trade-offer URL).
	ParseOfferRef(ref string) (string, error)
}

// Error wraps a failure talking to the external platform so callers can
// distinguish gateway trouble from local failures with errors.As.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
