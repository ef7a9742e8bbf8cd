package api

import "time"

// NewListing is the request body for listing an item for sale. The GEL price
// is derived server-side from the USD price and the rate.
type NewListing struct {
	AssetId     string  `json:"asset_id"`
	Name        string  `json:"name"`
	PriceUSD    int64   `json:"price_usd"`
	Rate        float64 `json:"rate"`
	AllowOffers bool    `json:"allow_offers"`
}

// PriceUpdate is the request body for changing a listing's price.
type PriceUpdate struct {
	PriceUSD int64   `json:"price_usd"`
	Rate     float64 `json:"rate"`
}

// PricePoint is one historical price of a listing.
type PricePoint struct {
	PriceUSD int64     `json:"price_usd"`
	PriceGEL int64     `json:"price_gel"`
	At       time.Time `json:"at"`
}

// Listing is the API representation of a listed (or previously listed) item.
type Listing struct {
	Id           string       `json:"id"`
	AssetId      string       `json:"asset_id"`
	OwnerId      string       `json:"owner_id"`
	Name         string       `json:"name"`
	PriceUSD     int64        `json:"price_usd"`
	PriceGEL     int64        `json:"price_gel"`
	Rate         float64      `json:"rate"`
	IsListed     bool         `json:"is_listed"`
	AllowOffers  bool         `json:"allow_offers"`
	TradeStatus  string       `json:"trade_status"`
	PriceHistory []PricePoint `json:"price_history,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewOffer is the request body for bidding on a listing.
type NewOffer struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Message  string `json:"message,omitempty"`
	TradeURL string `json:"trade_url"`
}

// NewCounterOffer is the request body for countering a pending offer.
type NewCounterOffer struct {
	Amount  int64  `json:"amount"`
	Message string `json:"message,omitempty"`
}

// Offer is the API representation of an offer on a listing.
type Offer struct {
	Id        string    `json:"id"`
	ItemId    string    `json:"item_id"`
	BidderId  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CounterOf string    `json:"counter_of,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPurchase is the request body for buying a listing outright.
type NewPurchase struct {
	ItemId   string `json:"item_id"`
	SteamId  string `json:"steam_id,omitempty"`
	TradeURL string `json:"trade_url"`
}

// TradeEvent is one entry of a trade's status history.
type TradeEvent struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

// Trade is the API representation of a trade.
type Trade struct {
	Id           string       `json:"id"`
	SellerId     string       `json:"seller_id"`
	BuyerId      string       `json:"buyer_id"`
	ItemId       string       `json:"item_id"`
	AssetId      string       `json:"asset_id"`
	Price        int64        `json:"price"`
	Currency     string       `json:"currency"`
	Fee          int64        `json:"fee"`
	Status       string       `json:"status"`
	TradeOfferId string       `json:"trade_offer_id,omitempty"`
	History      []TradeEvent `json:"history"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DispatchRequest carries the seller's reference to the external trade offer,
// either a bare trade-offer ID or a full offer URL.
type DispatchRequest struct {
	OfferRef string `json:"offer_ref"`
}

// ConfirmRequest is the request body for the buyer's receipt confirmation.
type ConfirmRequest struct {
	Force bool `json:"force,omitempty"`
}

// Confirmation outcome statuses.
const (
	ConfirmCompleted     = "completed"
	ConfirmNeedsOverride = "needs_override"
)

// ConfirmResponse is the tagged outcome of a confirmation attempt.
type ConfirmResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Trade  *Trade `json:"trade,omitempty"`
}

// CancelRequest is the request body for cancelling a trade.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Wallet is the API representation of a user's per-currency wallet.
type Wallet struct {
	UserId   string `json:"user_id"`
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// AmountRequest is the request body for deposits and withdrawals.
type AmountRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// LedgerEntry is the API representation of one money movement.
type LedgerEntry struct {
	EntryId     string    `json:"entry_id"`
	TradeId     string    `json:"trade_id,omitempty"`
	UserId      string    `json:"user_id"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// GatewayWebhook is the inbound payload posted by the external trade platform.
type GatewayWebhook struct {
	TradeOfferId string `json:"trade_offer_id"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
}
