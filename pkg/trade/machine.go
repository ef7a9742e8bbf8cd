package trade

import (
	"github.com/skinsge/marketplace/pkg/models"
)

// The trade lifecycle:
//
//	created -> awaiting_seller -> offer_sent -> awaiting_confirmation -> completed
//
// cancelled and failed are terminal off-ramps reachable from any non-terminal
// state. created is instantaneous: a trade is promoted to awaiting_seller in
// the same write that creates it.
var transitions = map[models.TradeStatus][]models.TradeStatus{
	models.TradeCreated:              {models.TradeAwaitingSeller, models.TradeCancelled, models.TradeFailed},
	models.TradeAwaitingSeller:       {models.TradeOfferSent, models.TradeCancelled, models.TradeFailed},
	models.TradeOfferSent:            {models.TradeAwaitingConfirmation, models.TradeCancelled, models.TradeFailed},
	models.TradeAwaitingConfirmation: {models.TradeCompleted, models.TradeCancelled, models.TradeFailed},
}

// CanTransition reports whether the state machine permits moving a trade from
// one status to another.
func CanTransition(from, to models.TradeStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UserCancellable reports whether a participant may cancel a trade in the
// given status. Once the buyer has been asked to confirm, only the gateway
// (via webhook) can drive the trade to a terminal failure.
func UserCancellable(status models.TradeStatus) bool {
	return status == models.TradeAwaitingSeller || status == models.TradeOfferSent
}
