package storage

import (
	"context"
	"time"

	"github.com/skinsge/marketplace/pkg/models"
)

// TradeReader defines the interface for reading trade data.
type TradeReader interface {
	// GetTrade retrieves a trade by its ID.
	GetTrade(ctx context.Context, tradeID string) (*models.Trade, error)

	// GetTradeByOfferID retrieves the trade holding the given external
	// trade-offer ID. Used to route inbound webhook events.
	GetTradeByOfferID(ctx context.Context, tradeOfferID string) (*models.Trade, error)

	// ListTradesByUser retrieves all trades in which the user participates,
	// as buyer or seller.
	ListTradesByUser(ctx context.Context, userID string) ([]models.Trade, error)

	// GetStuckTrades retrieves trades sitting in the given status for longer
	// than maxAge.
	GetStuckTrades(ctx context.Context, status models.TradeStatus, maxAge time.Duration) ([]models.Trade, error)
}

// TradeManager defines the privileged mutations of the trade lifecycle. Every
// mutation that touches more than one aggregate is a single atomic write, and
// every status change is guarded by the trade's current status; a failed guard
// surfaces as ErrStateConflict.
type TradeManager interface {
	// CreateTrade atomically delists the item, records the buyer's advisory
	// fund reservation and creates the trade record. The trade arrives in
	// awaiting_seller with its creation history already appended.
	CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error)

	// AcceptOfferAndCreateTrade is the accepted-offer entry point: it marks the
	// accepted offer, declines every other pending offer on the item, delists
	// the item, records the reservation and creates the trade, all atomically.
	AcceptOfferAndCreateTrade(ctx context.Context, accepted *models.Offer, otherPending []models.Offer, trade *models.Trade) (*models.Trade, error)

	// TransitionTrade moves the trade from its current status to the given one,
	// appending a history event.
	TransitionTrade(ctx context.Context, trade *models.Trade, to models.TradeStatus, note string) error

	// MarkDispatched records the external trade-offer ID on the trade and its
	// item and moves the trade from offer_sent to awaiting_confirmation.
	MarkDispatched(ctx context.Context, trade *models.Trade, tradeOfferID, note string) error

	// CloseTrade terminates a trade as cancelled or failed: the item is
	// relisted, the buyer's reservation is voided (no balance ever moved) and
	// the trade status is updated with a history event.
	CloseTrade(ctx context.Context, trade *models.Trade, to models.TradeStatus, note string) error

	// RecordWebhook stores the raw payload of the latest gateway webhook on the
	// trade without changing its status.
	RecordWebhook(ctx context.Context, trade *models.Trade, payload string) error
}

// TradeStore combines the reader and manager interfaces.
type TradeStore interface {
	TradeReader
	TradeManager
}
