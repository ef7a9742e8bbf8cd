package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skinsge/marketplace/pkg/events"
	"github.com/skinsge/marketplace/pkg/gateway"
	gateway_mocks "github.com/skinsge/marketplace/pkg/gateway/mocks"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/notify"
	"github.com/skinsge/marketplace/pkg/storage"
	storage_mocks "github.com/skinsge/marketplace/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestService(store *storage_mocks.Storage, gw *gateway_mocks.Gateway) *Service {
	return NewService(store, gw, &notify.NoOpPublisher{}, 0.05)
}

func listedItem() *models.Item {
	return &models.Item{
		Id:          "item-1",
		AssetId:     "asset-1",
		OwnerId:     "seller",
		Name:        "AK-47 | Redline",
		PriceUSD:    5000,
		PriceGEL:    9000,
		Rate:        1.8,
		IsListed:    true,
		AllowOffers: true,
		TradeStatus: models.ItemTradeNone,
	}
}

func TestPurchase(t *testing.T) {
	req := PurchaseRequest{ItemID: "item-1", BuyerID: "buyer", BuyerTradeURL: "https://steamcommunity.com/tradeoffer/new/?partner=1"}

	t.Run("Success", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStore.On("GetWallet", mock.Anything, "buyer", models.USD).Return(&models.Wallet{Balance: 5000}, nil)
		mockStore.On("CreateTrade", mock.Anything, mock.AnythingOfType("*models.Trade")).
			Return(func(ctx context.Context, tr *models.Trade) *models.Trade { return tr }, nil)

		trade, err := svc.Purchase(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, models.TradeAwaitingSeller, trade.Status)
		assert.Equal(t, int64(5000), trade.Price)
		assert.Equal(t, int64(250), trade.Fee, "5% platform fee")
		assert.Equal(t, "seller", trade.SellerId)
		assert.NotEmpty(t, trade.ReservationId)
		// History starts at created and ends at the current status.
		assert.Equal(t, models.TradeCreated, trade.History[0].Status)
		assert.Equal(t, trade.Status, trade.History[len(trade.History)-1].Status)
		mockStore.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStore.On("GetWallet", mock.Anything, "buyer", models.USD).Return(&models.Wallet{Balance: 4999}, nil)

		_, err := svc.Purchase(context.Background(), req)

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		mockStore.AssertNotCalled(t, "CreateTrade", mock.Anything, mock.Anything)
	})

	t.Run("Not Listed", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		item := listedItem()
		item.IsListed = false
		mockStore.On("GetItem", mock.Anything, "item-1").Return(item, nil)

		_, err := svc.Purchase(context.Background(), req)

		assert.ErrorIs(t, err, storage.ErrNotListed)
	})

	t.Run("Self Purchase", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)

		_, err := svc.Purchase(context.Background(), PurchaseRequest{ItemID: "item-1", BuyerID: "seller", BuyerTradeURL: "x"})

		assert.ErrorIs(t, err, ErrSelfTrade)
	})

	t.Run("Missing Trade Identity", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)

		_, err := svc.Purchase(context.Background(), PurchaseRequest{ItemID: "item-1", BuyerID: "buyer"})

		assert.ErrorIs(t, err, ErrMissingTradeIdentity)
	})
}

func TestAcceptOffer(t *testing.T) {
	pendingOffer := func() *models.Offer {
		return &models.Offer{
			ItemId:    "item-1",
			Id:        "offer-1",
			BidderId:  "buyer",
			Amount:    9500,
			Currency:  models.GEL,
			Status:    models.OfferPending,
			TradeURL:  "https://steamcommunity.com/tradeoffer/new/?partner=2",
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("Success Declines Other Pending Offers", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		other := models.Offer{ItemId: "item-1", Id: "offer-2", BidderId: "rival", Status: models.OfferPending, ExpiresAt: time.Now().Add(time.Hour)}
		expired := models.Offer{ItemId: "item-1", Id: "offer-3", BidderId: "late", Status: models.OfferPending, ExpiresAt: time.Now().Add(-time.Hour)}

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStore.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(pendingOffer(), nil)
		mockStore.On("GetWallet", mock.Anything, "buyer", models.GEL).Return(&models.Wallet{Balance: 10000}, nil)
		mockStore.On("ListOffersByItem", mock.Anything, "item-1").Return([]models.Offer{*pendingOffer(), other, expired}, nil)
		mockStore.On("AcceptOfferAndCreateTrade", mock.Anything, mock.AnythingOfType("*models.Offer"),
			mock.MatchedBy(func(offers []models.Offer) bool {
				// Only the live rival offer is declined; the lazily-expired one is left alone.
				return len(offers) == 1 && offers[0].Id == "offer-2"
			}),
			mock.AnythingOfType("*models.Trade")).
			Return(func(ctx context.Context, o *models.Offer, other []models.Offer, tr *models.Trade) *models.Trade { return tr }, nil)

		trade, err := svc.AcceptOffer(context.Background(), "item-1", "offer-1", "seller")

		assert.NoError(t, err)
		assert.Equal(t, models.TradeAwaitingSeller, trade.Status)
		assert.Equal(t, int64(9500), trade.Price)
		assert.Equal(t, models.GEL, trade.Currency)
		assert.Equal(t, "offer-1", trade.OfferId)
		mockStore.AssertExpectations(t)
	})

	t.Run("Not Owner", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStore.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(pendingOffer(), nil)

		_, err := svc.AcceptOffer(context.Background(), "item-1", "offer-1", "someone-else")

		assert.ErrorIs(t, err, ErrNotSeller)
	})

	t.Run("Counter Accepted By Bidder", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		counter := pendingOffer()
		counter.Id = "offer-4"
		counter.CounterOf = "offer-1"
		counter.Amount = 9800

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStore.On("GetOffer", mock.Anything, "item-1", "offer-4").Return(counter, nil)
		mockStore.On("GetWallet", mock.Anything, "buyer", models.GEL).Return(&models.Wallet{Balance: 10000}, nil)
		mockStore.On("ListOffersByItem", mock.Anything, "item-1").Return([]models.Offer{*counter}, nil)
		mockStore.On("AcceptOfferAndCreateTrade", mock.Anything, mock.AnythingOfType("*models.Offer"), mock.Anything, mock.AnythingOfType("*models.Trade")).
			Return(func(ctx context.Context, o *models.Offer, other []models.Offer, tr *models.Trade) *models.Trade { return tr }, nil)

		trade, err := svc.AcceptOffer(context.Background(), "item-1", "offer-4", "buyer")

		assert.NoError(t, err)
		assert.Equal(t, int64(9800), trade.Price)
		mockStore.AssertExpectations(t)
	})

	t.Run("Counter Not Accepted By Owner", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		counter := pendingOffer()
		counter.CounterOf = "offer-0"

		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStore.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(counter, nil)

		_, err := svc.AcceptOffer(context.Background(), "item-1", "offer-1", "seller")

		assert.ErrorIs(t, err, ErrNotBuyer)
	})

	t.Run("Offer Expired", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		offer := pendingOffer()
		offer.ExpiresAt = time.Now().Add(-time.Minute)
		mockStore.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStore.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(offer, nil)

		_, err := svc.AcceptOffer(context.Background(), "item-1", "offer-1", "seller")

		assert.ErrorIs(t, err, storage.ErrOfferNotPending)
	})
}

func TestApprove(t *testing.T) {
	awaiting := func() *models.Trade {
		return &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeAwaitingSeller}
	}

	t.Run("Success", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(awaiting(), nil)
		mockStore.On("TransitionTrade", mock.Anything, mock.AnythingOfType("*models.Trade"), models.TradeOfferSent, mock.AnythingOfType("string")).Return(nil)

		_, err := svc.Approve(context.Background(), "trade-1", "seller")

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("Wrong Actor", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(awaiting(), nil)

		_, err := svc.Approve(context.Background(), "trade-1", "buyer")

		assert.ErrorIs(t, err, ErrNotSeller)
	})

	t.Run("Wrong Status", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := awaiting()
		trade.Status = models.TradeOfferSent
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)

		_, err := svc.Approve(context.Background(), "trade-1", "seller")

		assert.ErrorIs(t, err, storage.ErrStateConflict)
	})
}

func TestRecordDispatch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeOfferSent}
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)
		mockGw.On("ParseOfferRef", "https://steamcommunity.com/tradeoffer/6479284729").Return("6479284729", nil)
		mockStore.On("MarkDispatched", mock.Anything, trade, "6479284729", mock.AnythingOfType("string")).Return(nil)

		_, err := svc.RecordDispatch(context.Background(), "trade-1", "seller", "https://steamcommunity.com/tradeoffer/6479284729")

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
		mockGw.AssertExpectations(t)
	})

	t.Run("Bad Reference", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", Status: models.TradeOfferSent}
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)
		mockGw.On("ParseOfferRef", "garbage").Return("", errors.New("no id"))

		_, err := svc.RecordDispatch(context.Background(), "trade-1", "seller", "garbage")

		assert.ErrorIs(t, err, ErrInvalidOfferRef)
		mockStore.AssertNotCalled(t, "MarkDispatched", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestConfirm(t *testing.T) {
	confirmable := func() *models.Trade {
		return &models.Trade{
			Id: "trade-1", SellerId: "seller", BuyerId: "buyer",
			Status: models.TradeAwaitingConfirmation, TradeOfferId: "6479284729",
			Price: 5000, Currency: models.USD, Fee: 250,
		}
	}

	t.Run("Gateway Accepted", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(confirmable(), nil)
		mockGw.On("QueryExchange", mock.Anything, "6479284729").Return(&gateway.Exchange{State: gateway.ExchangeAccepted}, nil)
		mockStore.On("SettleTrade", mock.Anything, mock.AnythingOfType("*models.Trade")).Return(nil)

		res, err := svc.Confirm(context.Background(), "trade-1", "buyer", false)

		assert.NoError(t, err)
		assert.True(t, res.Completed)
		assert.False(t, res.NeedsOverride)
		mockStore.AssertExpectations(t)
	})

	t.Run("Gateway Pending Requires Override", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(confirmable(), nil)
		mockGw.On("QueryExchange", mock.Anything, "6479284729").Return(&gateway.Exchange{State: gateway.ExchangePending}, nil)

		res, err := svc.Confirm(context.Background(), "trade-1", "buyer", false)

		assert.NoError(t, err)
		assert.False(t, res.Completed)
		assert.True(t, res.NeedsOverride)
		assert.Contains(t, res.Reason, "pending")
		mockStore.AssertNotCalled(t, "SettleTrade", mock.Anything, mock.Anything)
	})

	t.Run("Force Overrides Gateway", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(confirmable(), nil)
		mockStore.On("SettleTrade", mock.Anything, mock.AnythingOfType("*models.Trade")).Return(nil)

		res, err := svc.Confirm(context.Background(), "trade-1", "buyer", true)

		assert.NoError(t, err)
		assert.True(t, res.Completed)
		mockGw.AssertNotCalled(t, "QueryExchange", mock.Anything, mock.Anything)
	})

	t.Run("Gateway Error Is Lenient", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(confirmable(), nil)
		mockGw.On("QueryExchange", mock.Anything, "6479284729").Return(nil, &gateway.Error{Op: "query", Err: errors.New("timeout")})
		mockStore.On("SettleTrade", mock.Anything, mock.AnythingOfType("*models.Trade")).Return(nil)

		res, err := svc.Confirm(context.Background(), "trade-1", "buyer", false)

		assert.NoError(t, err)
		assert.True(t, res.Completed, "an unreachable gateway must not block the buyer")
	})

	t.Run("Settlement Insufficient Funds", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(confirmable(), nil)
		mockGw.On("QueryExchange", mock.Anything, "6479284729").Return(&gateway.Exchange{State: gateway.ExchangeAccepted}, nil)
		mockStore.On("SettleTrade", mock.Anything, mock.AnythingOfType("*models.Trade")).Return(storage.ErrInsufficientFunds)

		_, err := svc.Confirm(context.Background(), "trade-1", "buyer", false)

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
	})

	t.Run("Wrong Actor", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(confirmable(), nil)

		_, err := svc.Confirm(context.Background(), "trade-1", "seller", false)

		assert.ErrorIs(t, err, ErrNotBuyer)
	})

	t.Run("Premature Confirm", func(t *testing.T) {
		// Seller approved but has not dispatched yet: status is offer_sent.
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := confirmable()
		trade.Status = models.TradeOfferSent
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)

		_, err := svc.Confirm(context.Background(), "trade-1", "buyer", false)

		assert.ErrorIs(t, err, storage.ErrStateConflict)
	})
}

func TestCancel(t *testing.T) {
	t.Run("Seller Cancels With External Offer", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeOfferSent, TradeOfferId: "6479284729"}
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)
		mockGw.On("CancelExchange", mock.Anything, "6479284729").Return(nil)
		mockStore.On("CloseTrade", mock.Anything, trade, models.TradeCancelled, mock.AnythingOfType("string")).Return(nil)

		_, err := svc.Cancel(context.Background(), "trade-1", "seller", "changed my mind")

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
		mockGw.AssertExpectations(t)
	})

	t.Run("Gateway Cancel Failure Does Not Block", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		mockGw := new(gateway_mocks.Gateway)
		svc := newTestService(mockStore, mockGw)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeOfferSent, TradeOfferId: "6479284729"}
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)
		mockGw.On("CancelExchange", mock.Anything, "6479284729").Return(&gateway.Error{Op: "cancel", Err: errors.New("timeout")})
		mockStore.On("CloseTrade", mock.Anything, trade, models.TradeCancelled, mock.AnythingOfType("string")).Return(nil)

		_, err := svc.Cancel(context.Background(), "trade-1", "seller", "")

		assert.NoError(t, err, "local cancellation proceeds even if the gateway call fails")
	})

	t.Run("Buyer Cancels Awaiting Seller", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeAwaitingSeller}
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)
		mockStore.On("CloseTrade", mock.Anything, trade, models.TradeCancelled, mock.AnythingOfType("string")).Return(nil)

		_, err := svc.Cancel(context.Background(), "trade-1", "buyer", "")

		assert.NoError(t, err)
	})

	t.Run("Stranger Cannot Cancel", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeAwaitingSeller}
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)

		_, err := svc.Cancel(context.Background(), "trade-1", "stranger", "")

		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("Too Late To Cancel", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeAwaitingConfirmation}
		mockStore.On("GetTrade", mock.Anything, "trade-1").Return(trade, nil)

		_, err := svc.Cancel(context.Background(), "trade-1", "buyer", "")

		assert.ErrorIs(t, err, storage.ErrStateConflict)
	})
}

func TestApplyGatewayEvent(t *testing.T) {
	t.Run("Declined Fails The Trade", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := &models.Trade{Id: "trade-1", SellerId: "seller", BuyerId: "buyer", Status: models.TradeAwaitingConfirmation, TradeOfferId: "6479284729"}
		mockStore.On("GetTradeByOfferID", mock.Anything, "6479284729").Return(trade, nil)
		mockStore.On("CloseTrade", mock.Anything, trade, models.TradeFailed, mock.AnythingOfType("string")).Return(nil)

		err := svc.ApplyGatewayEvent(context.Background(), &events.GatewayEvent{TradeOfferID: "6479284729", Status: "declined"})

		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("Accepted Records Webhook Only", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := &models.Trade{Id: "trade-1", BuyerId: "buyer", Status: models.TradeAwaitingConfirmation, TradeOfferId: "6479284729"}
		mockStore.On("GetTradeByOfferID", mock.Anything, "6479284729").Return(trade, nil)
		mockStore.On("RecordWebhook", mock.Anything, trade, mock.AnythingOfType("string")).Return(nil)

		err := svc.ApplyGatewayEvent(context.Background(), &events.GatewayEvent{TradeOfferID: "6479284729", Status: "accepted"})

		assert.NoError(t, err)
		mockStore.AssertNotCalled(t, "SettleTrade", mock.Anything, mock.Anything)
	})

	t.Run("Terminal Trade Is Idempotent", func(t *testing.T) {
		mockStore := new(storage_mocks.Storage)
		svc := newTestService(mockStore, nil)

		trade := &models.Trade{Id: "trade-1", Status: models.TradeCompleted, TradeOfferId: "6479284729"}
		mockStore.On("GetTradeByOfferID", mock.Anything, "6479284729").Return(trade, nil)

		err := svc.ApplyGatewayEvent(context.Background(), &events.GatewayEvent{TradeOfferID: "6479284729", Status: "cancelled"})

		assert.NoError(t, err)
		mockStore.AssertNotCalled(t, "CloseTrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestExpireStale(t *testing.T) {
	mockStore := new(storage_mocks.Storage)
	svc := newTestService(mockStore, nil)

	stuck := []models.Trade{
		{Id: "trade-1", SellerId: "s1", BuyerId: "b1", Status: models.TradeAwaitingSeller},
		{Id: "trade-2", SellerId: "s2", BuyerId: "b2", Status: models.TradeAwaitingSeller},
	}
	mockStore.On("GetStuckTrades", mock.Anything, models.TradeAwaitingSeller, 48*time.Hour).Return(stuck, nil)
	mockStore.On("CloseTrade", mock.Anything, mock.AnythingOfType("*models.Trade"), models.TradeCancelled, mock.AnythingOfType("string")).Return(nil).Twice()

	closed, err := svc.ExpireStale(context.Background(), 48*time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, 2, closed)
	mockStore.AssertExpectations(t)
}
