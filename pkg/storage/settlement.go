package storage

import (
	"context"

	"github.com/skinsge/marketplace/pkg/models"
)

// SettlementStore defines the highly-privileged interface for settling a
// trade. Settlement is a single atomic write across four aggregates: both
// wallets, the ledger, the trade and the item. It should only be exposed to
// the component that completes confirmed trades.
type SettlementStore interface {
	// SettleTrade atomically debits the buyer by the agreed price, credits the
	// seller by price minus fee, completes the buyer's pending reservation
	// entry, appends sale and fee entries, transfers item ownership to the
	// buyer and marks the trade completed.
	//
	// The buyer's balance is re-validated at settlement time: the reservation
	// made at purchase is advisory only, so the balance may have been spent
	// elsewhere in the meantime. In that case SettleTrade fails with
	// ErrInsufficientFunds and the trade is left untouched in
	// awaiting_confirmation.
	SettleTrade(ctx context.Context, trade *models.Trade) error
}
