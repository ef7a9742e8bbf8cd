package trade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skinsge/marketplace/pkg/events"
	"github.com/skinsge/marketplace/pkg/gateway"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/notify"
	"github.com/skinsge/marketplace/pkg/storage"
)

// Service orchestrates the trade lifecycle: creation, seller approval,
// external offer dispatch, buyer confirmation, cancellation and settlement.
// It coordinates the store, the external gateway and the notification sink.
type Service struct {
	Store    storage.Storage
	Gateway  gateway.Gateway
	Notifier notify.Publisher
	FeeRate  float64
}

// NewService creates a new trade Service.
func NewService(store storage.Storage, gw gateway.Gateway, notifier notify.Publisher, feeRate float64) *Service {
	return &Service{Store: store, Gateway: gw, Notifier: notifier, FeeRate: feeRate}
}

// PurchaseRequest carries the buy-now parameters. The buyer must have an
// external trade identity for the asset to be deliverable.
type PurchaseRequest struct {
	ItemID        string
	BuyerID       string
	BuyerSteamID  string
	BuyerTradeURL string
}

// ConfirmResult is the tagged outcome of a confirmation attempt. When the
// gateway reports the external offer as not yet accepted, NeedsOverride is set
// and the buyer must explicitly re-confirm with force.
type ConfirmResult struct {
	Completed     bool
	NeedsOverride bool
	Reason        string
	Trade         *models.Trade
}

// Purchase is the buy-now entry point. It validates the listing and the
// buyer's balance (advisory, funds are not held), then atomically delists the
// item and creates the trade in awaiting_seller.
func (s *Service) Purchase(ctx context.Context, req PurchaseRequest) (*models.Trade, error) {
	item, err := s.Store.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsListed || item.TradeStatus == models.ItemTradePending {
		return nil, storage.ErrNotListed
	}
	if item.OwnerId == req.BuyerID {
		return nil, ErrSelfTrade
	}
	if req.BuyerSteamID == "" && req.BuyerTradeURL == "" {
		return nil, ErrMissingTradeIdentity
	}
	if item.AssetId == "" {
		return nil, fmt.Errorf("item %s has no external asset id", item.Id)
	}

	// Advisory reservation: check the balance now, debit only at settlement.
	wallet, err := s.Store.GetWallet(ctx, req.BuyerID, models.USD)
	if err != nil {
		return nil, fmt.Errorf("failed to get buyer's wallet: %w", err)
	}
	if wallet.Balance < item.PriceUSD {
		return nil, storage.ErrInsufficientFunds
	}

	trade := s.newTrade(item, req.BuyerID, item.PriceUSD, models.USD, "purchased at listing price")
	trade.BuyerSteamId = req.BuyerSteamID
	trade.BuyerTradeURL = req.BuyerTradeURL

	created, err := s.Store.CreateTrade(ctx, trade)
	if err != nil {
		return nil, err
	}

	s.push(ctx, notify.Notification{
		UserID: created.SellerId, Type: notify.TypeTradeCreated,
		Title:   "Item sold",
		Message: fmt.Sprintf("%s was purchased. Approve the trade to continue.", item.Name),
		Link:    "/trades/" + created.Id,
	})
	s.push(ctx, notify.Notification{
		UserID: created.BuyerId, Type: notify.TypeTradeCreated,
		Title:   "Purchase created",
		Message: fmt.Sprintf("Waiting for the seller to approve the trade for %s.", item.Name),
		Link:    "/trades/" + created.Id,
	})

	return created, nil
}

// AcceptOffer is the accepted-offer entry point into the state machine. A
// regular offer is accepted by the item owner; a counter-offer is accepted by
// the bidder it was countered to. Every other pending offer on the item is
// declined in the same atomic write that creates the trade.
func (s *Service) AcceptOffer(ctx context.Context, itemID, offerID, actorID string) (*models.Trade, error) {
	item, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsListed {
		return nil, storage.ErrNotListed
	}

	offer, err := s.Store.GetOffer(ctx, itemID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.CounterOf != "" {
		if offer.BidderId != actorID {
			return nil, ErrNotBuyer
		}
	} else if item.OwnerId != actorID {
		return nil, ErrNotSeller
	}
	now := time.Now()
	if !offer.PendingAt(now) {
		return nil, storage.ErrOfferNotPending
	}
	if offer.TradeURL == "" {
		return nil, ErrMissingTradeIdentity
	}

	wallet, err := s.Store.GetWallet(ctx, offer.BidderId, offer.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to get bidder's wallet: %w", err)
	}
	if wallet.Balance < offer.Amount {
		return nil, storage.ErrInsufficientFunds
	}

	all, err := s.Store.ListOffersByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	var otherPending []models.Offer
	for _, o := range all {
		if o.Id != offer.Id && o.PendingAt(now) {
			otherPending = append(otherPending, o)
		}
	}

	trade := s.newTrade(item, offer.BidderId, offer.Amount, offer.Currency, fmt.Sprintf("offer %s accepted", offer.Id))
	trade.OfferId = offer.Id
	trade.BuyerTradeURL = offer.TradeURL

	created, err := s.Store.AcceptOfferAndCreateTrade(ctx, offer, otherPending, trade)
	if err != nil {
		return nil, err
	}

	s.push(ctx, notify.Notification{
		UserID: created.BuyerId, Type: notify.TypeTradeCreated,
		Title:   "Offer accepted",
		Message: fmt.Sprintf("Your offer on %s was accepted. Waiting for the seller to send the trade.", item.Name),
		Link:    "/trades/" + created.Id,
	})
	for _, o := range otherPending {
		s.push(ctx, notify.Notification{
			UserID: o.BidderId, Type: notify.TypeOfferDeclined,
			Title:   "Offer declined",
			Message: fmt.Sprintf("Your offer on %s was declined: the item was sold.", item.Name),
		})
	}

	return created, nil
}

// Approve is the seller's signal to proceed with dispatching the external
// trade offer.
func (s *Service) Approve(ctx context.Context, tradeID, actorID string) (*models.Trade, error) {
	trade, err := s.Store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.SellerId != actorID {
		return nil, ErrNotSeller
	}
	if trade.Status != models.TradeAwaitingSeller {
		return nil, stateConflict(trade)
	}

	if err := s.Store.TransitionTrade(ctx, trade, models.TradeOfferSent, "seller approved the trade"); err != nil {
		return nil, err
	}

	s.push(ctx, notify.Notification{
		UserID: trade.BuyerId, Type: notify.TypeTradeApproved,
		Title:   "Trade approved",
		Message: "The seller approved your trade and will send the trade offer shortly.",
		Link:    "/trades/" + trade.Id,
	})

	return trade, nil
}

// RecordDispatch records that the seller sent the external trade offer. The
// reference must parse to a valid trade-offer ID, which is stored on both the
// trade and the item.
func (s *Service) RecordDispatch(ctx context.Context, tradeID, actorID, offerRef string) (*models.Trade, error) {
	trade, err := s.Store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.SellerId != actorID {
		return nil, ErrNotSeller
	}
	if trade.Status != models.TradeOfferSent {
		return nil, stateConflict(trade)
	}

	tradeOfferID, err := s.Gateway.ParseOfferRef(offerRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOfferRef, err)
	}

	if err := s.Store.MarkDispatched(ctx, trade, tradeOfferID, "trade offer dispatched"); err != nil {
		return nil, err
	}

	s.push(ctx, notify.Notification{
		UserID: trade.BuyerId, Type: notify.TypeTradeSent,
		Title:   "Trade offer sent",
		Message: "The seller sent the trade offer. Accept it on the platform, then confirm receipt.",
		Link:    "/trades/" + trade.Id,
	})

	return trade, nil
}

// Confirm is the buyer's acknowledgement that the item arrived. When an
// external trade-offer ID is on file, the gateway is cross-checked: an offer
// the platform does not consider accepted yields a NeedsOverride result
// instead of settling, unless force is set. A gateway failure is tolerated so
// an unreachable platform cannot lock the buyer's funds forever.
func (s *Service) Confirm(ctx context.Context, tradeID, actorID string, force bool) (*ConfirmResult, error) {
	trade, err := s.Store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.BuyerId != actorID {
		return nil, ErrNotBuyer
	}
	if trade.Status != models.TradeAwaitingConfirmation {
		return nil, stateConflict(trade)
	}

	if trade.TradeOfferId != "" && !force {
		ex, err := s.Gateway.QueryExchange(ctx, trade.TradeOfferId)
		if err != nil {
			slog.Warn("gateway check failed during confirmation, proceeding",
				"tradeId", trade.Id, "tradeOfferId", trade.TradeOfferId, "error", err)
		} else if ex.State != gateway.ExchangeAccepted {
			return &ConfirmResult{
				NeedsOverride: true,
				Reason:        fmt.Sprintf("the platform reports the trade offer as %s, not accepted; confirm again with force to complete anyway", ex.State),
				Trade:         trade,
			}, nil
		}
	}

	// Settlement re-validates the buyer's balance; on ErrInsufficientFunds the
	// trade stays in awaiting_confirmation and the buyer must top up and retry.
	if err := s.Store.SettleTrade(ctx, trade); err != nil {
		return nil, err
	}

	s.push(ctx, notify.Notification{
		UserID: trade.SellerId, Type: notify.TypeTradeCompleted,
		Title:   "Trade completed",
		Message: fmt.Sprintf("The buyer confirmed receipt. %s was credited to your wallet.", formatAmount(trade.Price-trade.Fee, trade.Currency)),
		Link:    "/trades/" + trade.Id,
	})
	s.push(ctx, notify.Notification{
		UserID: trade.BuyerId, Type: notify.TypeTradeCompleted,
		Title:   "Trade completed",
		Message: "Trade completed. The item is now yours.",
		Link:    "/trades/" + trade.Id,
	})

	return &ConfirmResult{Completed: true, Trade: trade}, nil
}

// Cancel lets either participant abort a trade that has not yet reached buyer
// confirmation. The external offer, if any, is cancelled best-effort; a
// gateway failure never blocks the local cancellation.
func (s *Service) Cancel(ctx context.Context, tradeID, actorID, reason string) (*models.Trade, error) {
	trade, err := s.Store.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.Participant(actorID) {
		return nil, ErrNotParticipant
	}
	if !UserCancellable(trade.Status) {
		return nil, stateConflict(trade)
	}

	if trade.TradeOfferId != "" && actorID == trade.SellerId {
		if err := s.Gateway.CancelExchange(ctx, trade.TradeOfferId); err != nil {
			slog.Warn("best-effort gateway cancel failed",
				"tradeId", trade.Id, "tradeOfferId", trade.TradeOfferId, "error", err)
		}
	}

	note := "cancelled by buyer"
	if actorID == trade.SellerId {
		note = "cancelled by seller"
	}
	if reason != "" {
		note = note + ": " + reason
	}

	if err := s.Store.CloseTrade(ctx, trade, models.TradeCancelled, note); err != nil {
		return nil, err
	}

	other := trade.BuyerId
	if actorID == trade.BuyerId {
		other = trade.SellerId
	}
	s.push(ctx, notify.Notification{
		UserID: other, Type: notify.TypeTradeCancelled,
		Title:   "Trade cancelled",
		Message: note,
		Link:    "/trades/" + trade.Id,
	})

	return trade, nil
}

// ApplyGatewayEvent processes an inbound webhook from the external platform.
// Terminal platform states drive the trade to failed/cancelled from any
// non-terminal status; non-terminal states are recorded for the audit trail.
func (s *Service) ApplyGatewayEvent(ctx context.Context, ev *events.GatewayEvent) error {
	trade, err := s.Store.GetTradeByOfferID(ctx, ev.TradeOfferID)
	if err != nil {
		return err
	}
	if trade.Terminal() {
		// Late or duplicate webhook; nothing to reconcile.
		return nil
	}

	payload := ev.Raw
	if payload == "" {
		payload = fmt.Sprintf(`{"trade_offer_id":%q,"status":%q,"message":%q}`, ev.TradeOfferID, ev.Status, ev.Message)
	}

	switch gateway.ExchangeState(ev.Status) {
	case gateway.ExchangeDeclined:
		if err := s.Store.CloseTrade(ctx, trade, models.TradeFailed, webhookNote("platform reported the offer declined", ev.Message)); err != nil {
			return err
		}
		s.notifyTerminal(ctx, trade, notify.TypeTradeFailed, "The trade offer was declined on the platform.")
	case gateway.ExchangeCancelled:
		if err := s.Store.CloseTrade(ctx, trade, models.TradeCancelled, webhookNote("platform reported the offer cancelled", ev.Message)); err != nil {
			return err
		}
		s.notifyTerminal(ctx, trade, notify.TypeTradeCancelled, "The trade offer was cancelled on the platform.")
	case gateway.ExchangeAccepted:
		if err := s.Store.RecordWebhook(ctx, trade, payload); err != nil {
			return err
		}
		s.push(ctx, notify.Notification{
			UserID: trade.BuyerId, Type: notify.TypeTradeSent,
			Title:   "Trade offer accepted",
			Message: "The platform reports the trade offer as accepted. Confirm receipt to complete the trade.",
			Link:    "/trades/" + trade.Id,
		})
	default:
		if err := s.Store.RecordWebhook(ctx, trade, payload); err != nil {
			return err
		}
		slog.Info("recorded non-terminal gateway event", "tradeId", trade.Id, "status", ev.Status)
	}

	return nil
}

// ExpireStale closes trades abandoned by the seller in awaiting_seller for
// longer than maxAge. Used by the scheduled sweeper.
func (s *Service) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	stuck, err := s.Store.GetStuckTrades(ctx, models.TradeAwaitingSeller, maxAge)
	if err != nil {
		return 0, fmt.Errorf("failed to get stuck trades: %w", err)
	}

	closed := 0
	for i := range stuck {
		trade := &stuck[i]
		if err := s.Store.CloseTrade(ctx, trade, models.TradeCancelled, "cancelled automatically: seller did not respond"); err != nil {
			slog.Error("failed to close stale trade", "tradeId", trade.Id, "error", err)
			continue
		}
		s.notifyTerminal(ctx, trade, notify.TypeTradeCancelled, "The trade was cancelled because the seller did not respond.")
		closed++
	}

	return closed, nil
}

// newTrade builds a trade in awaiting_seller with its creation history.
func (s *Service) newTrade(item *models.Item, buyerID string, price int64, currency models.Currency, note string) *models.Trade {
	now := time.Now()
	return &models.Trade{
		Id:            uuid.New().String(),
		SellerId:      item.OwnerId,
		BuyerId:       buyerID,
		ItemId:        item.Id,
		AssetId:       item.AssetId,
		Price:         price,
		Currency:      currency,
		Fee:           models.PlatformFee(price, s.FeeRate),
		Status:        models.TradeAwaitingSeller,
		ReservationId: uuid.New().String(),
		History: []models.TradeEvent{
			{Status: models.TradeCreated, At: now, Note: note},
			{Status: models.TradeAwaitingSeller, At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) notifyTerminal(ctx context.Context, trade *models.Trade, typ, message string) {
	for _, userID := range []string{trade.BuyerId, trade.SellerId} {
		s.push(ctx, notify.Notification{
			UserID: userID, Type: typ,
			Title:   "Trade closed",
			Message: message,
			Link:    "/trades/" + trade.Id,
		})
	}
}

// push delivers a notification fire-and-forget; failures are logged, never
// propagated.
func (s *Service) push(ctx context.Context, n notify.Notification) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Push(ctx, n); err != nil {
		slog.Error("failed to push notification", "userId", n.UserID, "type", n.Type, "error", err)
	}
}

func stateConflict(trade *models.Trade) error {
	return fmt.Errorf("%w: trade %s is %s", storage.ErrStateConflict, trade.Id, trade.Status)
}

func webhookNote(note, message string) string {
	if message == "" {
		return note
	}
	return note + ": " + message
}

func formatAmount(minor int64, currency models.Currency) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, currency)
}
