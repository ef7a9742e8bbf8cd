package handlers

import (
	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/events"
	"github.com/skinsge/marketplace/pkg/handlers/ledger"
	"github.com/skinsge/marketplace/pkg/handlers/listings"
	"github.com/skinsge/marketplace/pkg/handlers/offers"
	"github.com/skinsge/marketplace/pkg/handlers/trades"
	"github.com/skinsge/marketplace/pkg/handlers/wallets"
	"github.com/skinsge/marketplace/pkg/handlers/webhooks"
	"github.com/skinsge/marketplace/pkg/storage"
	"github.com/skinsge/marketplace/pkg/trade"
)

// ApiHandler implements the server interface by composing the per-resource
// handlers over one storage layer and one trade service.
type ApiHandler struct {
	*listings.ListingsHandler
	*offers.OffersHandler
	*trades.TradesHandler
	*wallets.WalletsHandler
	*ledger.LedgerHandler
	*webhooks.WebhooksHandler
}

// NewApiHandler creates a new ApiHandler. Pass a nil enqueuer to apply
// gateway webhooks inline instead of through a queue.
func NewApiHandler(store storage.Storage, service *trade.Service, enqueuer events.Enqueuer) *ApiHandler {
	return &ApiHandler{
		ListingsHandler: listings.NewListingsHandler(store),
		OffersHandler:   offers.NewOffersHandler(store, service.Notifier),
		TradesHandler:   trades.NewTradesHandler(service, store),
		WalletsHandler:  wallets.NewWalletsHandler(store),
		LedgerHandler:   ledger.NewLedgerHandler(store),
		WebhooksHandler: webhooks.NewWebhooksHandler(enqueuer, service),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
