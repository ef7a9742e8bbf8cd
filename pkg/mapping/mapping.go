package mapping

import (
	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/models"
)

// ToDomainItem builds a new Item from a listing request. The GEL price is
// derived from the USD price at the submitted rate and frozen on the listing.
func ToDomainItem(ownerID string, req api.NewListing) *models.Item {
	return &models.Item{
		AssetId:     req.AssetId,
		OwnerId:     ownerID,
		Name:        req.Name,
		PriceUSD:    req.PriceUSD,
		PriceGEL:    models.DeriveGEL(req.PriceUSD, req.Rate),
		Rate:        req.Rate,
		AllowOffers: req.AllowOffers,
	}
}

// ToApiListing converts an Item into its API representation.
func ToApiListing(item *models.Item) api.Listing {
	history := make([]api.PricePoint, len(item.PriceHistory))
	for i, p := range item.PriceHistory {
		history[i] = api.PricePoint{PriceUSD: p.PriceUSD, PriceGEL: p.PriceGEL, At: p.At}
	}
	return api.Listing{
		Id:           item.Id,
		AssetId:      item.AssetId,
		OwnerId:      item.OwnerId,
		Name:         item.Name,
		PriceUSD:     item.PriceUSD,
		PriceGEL:     item.PriceGEL,
		Rate:         item.Rate,
		IsListed:     item.IsListed,
		AllowOffers:  item.AllowOffers,
		TradeStatus:  string(item.TradeStatus),
		PriceHistory: history,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// ToApiListings converts a slice of Items.
func ToApiListings(items []models.Item) []api.Listing {
	out := make([]api.Listing, len(items))
	for i := range items {
		out[i] = ToApiListing(&items[i])
	}
	return out
}

// ToDomainOffer builds a new Offer from a bid request, priced at the
// listing's frozen rate.
func ToDomainOffer(bidderID string, item *models.Item, req api.NewOffer) *models.Offer {
	return &models.Offer{
		ItemId:   item.Id,
		BidderId: bidderID,
		Amount:   req.Amount,
		Currency: models.Currency(req.Currency),
		Rate:     item.Rate,
		Message:  req.Message,
		TradeURL: req.TradeURL,
	}
}

// ToApiOffer converts an Offer into its API representation.
func ToApiOffer(offer *models.Offer) api.Offer {
	return api.Offer{
		Id:        offer.Id,
		ItemId:    offer.ItemId,
		BidderId:  offer.BidderId,
		Amount:    offer.Amount,
		Currency:  string(offer.Currency),
		Rate:      offer.Rate,
		Status:    string(offer.Status),
		Message:   offer.Message,
		CounterOf: offer.CounterOf,
		ExpiresAt: offer.ExpiresAt,
		CreatedAt: offer.CreatedAt,
	}
}

// ToApiOffers converts a slice of Offers.
func ToApiOffers(offers []models.Offer) []api.Offer {
	out := make([]api.Offer, len(offers))
	for i := range offers {
		out[i] = ToApiOffer(&offers[i])
	}
	return out
}

// ToApiTrade converts a Trade into its API representation. The external
// identities and the raw webhook payload stay internal.
func ToApiTrade(trade *models.Trade) api.Trade {
	history := make([]api.TradeEvent, len(trade.History))
	for i, e := range trade.History {
		history[i] = api.TradeEvent{Status: string(e.Status), At: e.At, Note: e.Note}
	}
	return api.Trade{
		Id:           trade.Id,
		SellerId:     trade.SellerId,
		BuyerId:      trade.BuyerId,
		ItemId:       trade.ItemId,
		AssetId:      trade.AssetId,
		Price:        trade.Price,
		Currency:     string(trade.Currency),
		Fee:          trade.Fee,
		Status:       string(trade.Status),
		TradeOfferId: trade.TradeOfferId,
		History:      history,
		CompletedAt:  trade.CompletedAt,
		CreatedAt:    trade.CreatedAt,
		UpdatedAt:    trade.UpdatedAt,
	}
}

// ToApiTrades converts a slice of Trades.
func ToApiTrades(trades []models.Trade) []api.Trade {
	out := make([]api.Trade, len(trades))
	for i := range trades {
		out[i] = ToApiTrade(&trades[i])
	}
	return out
}

// ToApiWallet converts a Wallet into its API representation. Version is an
// internal locking detail and is not exposed.
func ToApiWallet(wallet *models.Wallet) api.Wallet {
	return api.Wallet{
		UserId:   wallet.UserId,
		Currency: string(wallet.Currency),
		Balance:  wallet.Balance,
	}
}

// ToApiWallets converts a slice of Wallets.
func ToApiWallets(wallets []models.Wallet) []api.Wallet {
	out := make([]api.Wallet, len(wallets))
	for i := range wallets {
		out[i] = ToApiWallet(&wallets[i])
	}
	return out
}

// ToApiLedgerEntry converts a LedgerEntry into its API representation.
func ToApiLedgerEntry(entry *models.LedgerEntry) api.LedgerEntry {
	return api.LedgerEntry{
		EntryId:     entry.EntryID,
		TradeId:     entry.TradeID,
		UserId:      entry.UserID,
		Type:        string(entry.Type),
		Amount:      entry.Amount,
		Currency:    string(entry.Currency),
		Status:      string(entry.Status),
		Description: entry.Description,
		Timestamp:   entry.Timestamp,
	}
}

// ToApiLedgerEntries converts a slice of LedgerEntries.
func ToApiLedgerEntries(entries []models.LedgerEntry) []api.LedgerEntry {
	out := make([]api.LedgerEntry, len(entries))
	for i := range entries {
		out[i] = ToApiLedgerEntry(&entries[i])
	}
	return out
}
