package models

import (
	"time"
)

// Currency identifies a wallet currency. USD is the base pricing currency;
// GEL prices are derived from USD via a per-listing exchange rate.
type Currency string

const (
	USD Currency = "USD"
	GEL Currency = "GEL"
)

// TradeStatus defines the possible states of a trade.
type TradeStatus string

const (
	TradeCreated              TradeStatus = "created"
	TradeAwaitingSeller       TradeStatus = "awaiting_seller"
	TradeOfferSent            TradeStatus = "offer_sent"
	TradeAwaitingConfirmation TradeStatus = "awaiting_confirmation"
	TradeCompleted            TradeStatus = "completed"
	TradeCancelled            TradeStatus = "cancelled"
	TradeFailed               TradeStatus = "failed"
)

// ItemTradeStatus mirrors the state of the trade an item is (or last was) part of.
type ItemTradeStatus string

const (
	ItemTradeNone      ItemTradeStatus = "none"
	ItemTradePending   ItemTradeStatus = "pending"
	ItemTradeCompleted ItemTradeStatus = "completed"
	ItemTradeFailed    ItemTradeStatus = "failed"
	ItemTradeCancelled ItemTradeStatus = "cancelled"
)

// OfferStatus defines the possible states of an offer on a listing.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
	OfferExpired  OfferStatus = "expired"
)

// OfferTTL is how long an offer stays open before it is lazily expired.
const OfferTTL = 48 * time.Hour

// LedgerEntryType classifies a ledger entry.
type LedgerEntryType string

const (
	EntryDeposit    LedgerEntryType = "deposit"
	EntryWithdrawal LedgerEntryType = "withdrawal"
	EntrySale       LedgerEntryType = "sale"
	EntryPurchase   LedgerEntryType = "purchase"
	EntryFee        LedgerEntryType = "fee"
)

// LedgerEntryStatus defines the possible states of a ledger entry.
type LedgerEntryStatus string

const (
	EntryPending   LedgerEntryStatus = "pending"
	EntryCompleted LedgerEntryStatus = "completed"
	EntryFailed    LedgerEntryStatus = "failed"
	EntryCancelled LedgerEntryStatus = "cancelled"
)

// PricePoint records one historical price of a listing.
type PricePoint struct {
	PriceUSD int64     `dynamodbav:"price_usd"`
	PriceGEL int64     `dynamodbav:"price_gel"`
	At       time.Time `dynamodbav:"at"`
}

// Item represents a unique tradable asset and, when IsListed is true, its listing.
// Prices are stored in minor units (cents / tetri).
type Item struct {
	Id           string          `dynamodbav:"id"`
	AssetId      string          `dynamodbav:"asset_id"`
	OwnerId      string          `dynamodbav:"owner_id"`
	Name         string          `dynamodbav:"name"`
	PriceUSD     int64           `dynamodbav:"price_usd"`
	PriceGEL     int64           `dynamodbav:"price_gel"`
	Rate         float64         `dynamodbav:"rate"`
	IsListed     bool            `dynamodbav:"is_listed"`
	AllowOffers  bool            `dynamodbav:"allow_offers"`
	TradeStatus  ItemTradeStatus `dynamodbav:"trade_status"`
	TradeOfferId string          `dynamodbav:"trade_offer_id,omitempty"`
	PriceHistory []PricePoint    `dynamodbav:"price_history"`
	CreatedAt    time.Time       `dynamodbav:"created_at"`
	UpdatedAt    time.Time       `dynamodbav:"updated_at"`
}

// Offer is a bid on a listed item, negotiable via counter-offers.
type Offer struct {
	ItemId    string      `dynamodbav:"item_id"`
	Id        string      `dynamodbav:"offer_id"`
	BidderId  string      `dynamodbav:"bidder_id"`
	Amount    int64       `dynamodbav:"amount"`
	Currency  Currency    `dynamodbav:"currency"`
	Rate      float64     `dynamodbav:"rate"`
	Status    OfferStatus `dynamodbav:"status"`
	Message   string      `dynamodbav:"message,omitempty"`
	TradeURL  string      `dynamodbav:"trade_url,omitempty"`
	CounterOf string      `dynamodbav:"counter_of,omitempty"`
	ExpiresAt time.Time   `dynamodbav:"expires_at"`
	CreatedAt time.Time   `dynamodbav:"created_at"`
	UpdatedAt time.Time   `dynamodbav:"updated_at"`
}

// PendingAt reports whether the offer is still open at the given time.
// Expiry is enforced lazily; a pending offer past its deadline is treated
// as expired without ever being rewritten.
func (o *Offer) PendingAt(now time.Time) bool {
	return o.Status == OfferPending && now.Before(o.ExpiresAt)
}

// TradeEvent is one entry of a trade's append-only status history.
type TradeEvent struct {
	Status TradeStatus `dynamodbav:"status"`
	At     time.Time   `dynamodbav:"at"`
	Note   string      `dynamodbav:"note,omitempty"`
}

// Trade is the stateful record of one item changing hands, from acceptance
// through settlement. Once completed, cancelled or failed it is immutable.
type Trade struct {
	Id             string       `dynamodbav:"id"`
	SellerId       string       `dynamodbav:"seller_id"`
	BuyerId        string       `dynamodbav:"buyer_id"`
	SellerSteamId  string       `dynamodbav:"seller_steam_id,omitempty"`
	BuyerSteamId   string       `dynamodbav:"buyer_steam_id,omitempty"`
	BuyerTradeURL  string       `dynamodbav:"buyer_trade_url,omitempty"`
	ItemId         string       `dynamodbav:"item_id"`
	AssetId        string       `dynamodbav:"asset_id"`
	Price          int64        `dynamodbav:"price"`
	Currency       Currency     `dynamodbav:"currency"`
	Fee            int64        `dynamodbav:"fee"`
	Status         TradeStatus  `dynamodbav:"status"`
	History        []TradeEvent `dynamodbav:"history"`
	TradeOfferId   string       `dynamodbav:"trade_offer_id,omitempty"`
	ReservationId  string       `dynamodbav:"reservation_id,omitempty"`
	OfferId        string       `dynamodbav:"offer_id,omitempty"`
	WebhookPayload string       `dynamodbav:"webhook_payload,omitempty"`
	CompletedAt    *time.Time   `dynamodbav:"completed_at,omitempty"`
	CreatedAt      time.Time    `dynamodbav:"created_at"`
	UpdatedAt      time.Time    `dynamodbav:"updated_at"`
}

// Terminal reports whether the trade has reached a final state.
func (t *Trade) Terminal() bool {
	switch t.Status {
	case TradeCompleted, TradeCancelled, TradeFailed:
		return true
	}
	return false
}

// Participant reports whether the given user is the buyer or the seller.
func (t *Trade) Participant(userID string) bool {
	return userID == t.BuyerId || userID == t.SellerId
}

// Wallet holds a user's balance in one currency.
// Version implements optimistic locking for concurrent updates.
type Wallet struct {
	UserId    string    `json:"user_id" dynamodbav:"user_id"`
	Currency  Currency  `json:"currency" dynamodbav:"currency"`
	Balance   int64     `json:"balance" dynamodbav:"balance"`
	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// LedgerEntry is a single append-only entry in the money ledger.
// Amount is signed: negative for money leaving the user's wallet.
type LedgerEntry struct {
	EntryID     string            `dynamodbav:"entry_id"`
	TradeID     string            `dynamodbav:"trade_id,omitempty"`
	UserID      string            `dynamodbav:"user_id"`
	Type        LedgerEntryType   `dynamodbav:"type"`
	Amount      int64             `dynamodbav:"amount"`
	Currency    Currency          `dynamodbav:"currency"`
	Status      LedgerEntryStatus `dynamodbav:"status"`
	Description string            `dynamodbav:"description"`
	Timestamp   time.Time         `dynamodbav:"timestamp"`
	GSI1PK      string            `dynamodbav:"gsi1pk"`
}
