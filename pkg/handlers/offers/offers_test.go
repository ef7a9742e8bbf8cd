package offers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/notify"
	notify_mocks "github.com/skinsge/marketplace/pkg/notify/mocks"
	"github.com/skinsge/marketplace/pkg/storage"
	"github.com/skinsge/marketplace/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func listedItem() *models.Item {
	return &models.Item{
		Id:          "item-1",
		AssetId:     "asset-1",
		OwnerId:     "seller",
		Name:        "AK-47 | Redline",
		PriceUSD:    5000,
		PriceGEL:    13500,
		Rate:        2.70,
		IsListed:    true,
		AllowOffers: true,
	}
}

func pendingOffer() *models.Offer {
	return &models.Offer{
		ItemId:    "item-1",
		Id:        "offer-1",
		BidderId:  "buyer",
		Amount:    4500,
		Currency:  models.USD,
		Rate:      2.70,
		Status:    models.OfferPending,
		TradeURL:  "https://steamcommunity.com/tradeoffer/new/?partner=2",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestCreateOffer(t *testing.T) {
	newOffer := api.NewOffer{
		Amount:   4500,
		Currency: "USD",
		TradeURL: "https://steamcommunity.com/tradeoffer/new/?partner=2",
	}

	t.Run("Success Freezes Listing Rate", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockNotifier := new(notify_mocks.Publisher)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("CreateOffer", mock.Anything, mock.MatchedBy(func(o *models.Offer) bool {
			return o.BidderId == "buyer" && o.Rate == 2.70
		})).Return(pendingOffer(), nil)
		mockNotifier.On("Push", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
			return n.UserID == "seller" && n.Type == notify.TypeOfferReceived
		})).Return(nil)

		h := NewOffersHandler(mockStorage, mockNotifier)

		body, _ := json.Marshal(newOffer)
		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "buyer")
		rr := httptest.NewRecorder()

		h.CreateOffer(rr, req, "item-1")

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockStorage.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Own Listing", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)

		h := NewOffersHandler(mockStorage, nil)

		body, _ := json.Marshal(newOffer)
		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.CreateOffer(rr, req, "item-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "CreateOffer", mock.Anything, mock.Anything)
	})

	t.Run("Offers Disabled", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		item := listedItem()
		item.AllowOffers = false
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(item, nil)

		h := NewOffersHandler(mockStorage, nil)

		body, _ := json.Marshal(newOffer)
		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "buyer")
		rr := httptest.NewRecorder()

		h.CreateOffer(rr, req, "item-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Duplicate Pending Offer", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("CreateOffer", mock.Anything, mock.Anything).Return(nil, storage.ErrDuplicatePendingOffer)

		h := NewOffersHandler(mockStorage, nil)

		body, _ := json.Marshal(newOffer)
		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "buyer")
		rr := httptest.NewRecorder()

		h.CreateOffer(rr, req, "item-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Unsupported Currency", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		h := NewOffersHandler(mockStorage, nil)

		bad := newOffer
		bad.Currency = "EUR"
		body, _ := json.Marshal(bad)
		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "buyer")
		rr := httptest.NewRecorder()

		h.CreateOffer(rr, req, "item-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
	})
}

func TestListOffers(t *testing.T) {
	offers := []models.Offer{
		{ItemId: "item-1", Id: "offer-1", BidderId: "buyer", Status: models.OfferPending},
		{ItemId: "item-1", Id: "offer-2", BidderId: "rival", Status: models.OfferPending},
	}

	t.Run("Owner Sees All Offers", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("ListOffersByItem", mock.Anything, "item-1").Return(offers, nil)

		h := NewOffersHandler(mockStorage, nil)

		req := httptest.NewRequest(http.MethodGet, "/listings/item-1/offers", nil)
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.ListOffers(rr, req, "item-1")

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned []api.Offer
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Len(t, returned, 2)
	})

	t.Run("Bidder Sees Only Their Own", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("ListOffersByItem", mock.Anything, "item-1").Return(offers, nil)

		h := NewOffersHandler(mockStorage, nil)

		req := httptest.NewRequest(http.MethodGet, "/listings/item-1/offers", nil)
		req.Header.Set(api.UserIDHeader, "rival")
		rr := httptest.NewRecorder()

		h.ListOffers(rr, req, "item-1")

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned []api.Offer
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Len(t, returned, 1)
		assert.Equal(t, "offer-2", returned[0].Id)
	})
}

func TestDeclineOffer(t *testing.T) {
	t.Run("Owner Declines", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(pendingOffer(), nil)
		mockStorage.On("UpdateOfferStatus", mock.Anything, mock.AnythingOfType("*models.Offer"), models.OfferDeclined).Return(nil)

		h := NewOffersHandler(mockStorage, nil)

		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers/offer-1/decline", nil)
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.DeclineOffer(rr, req, "item-1", "offer-1")

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Stranger Cannot Decline", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(pendingOffer(), nil)

		h := NewOffersHandler(mockStorage, nil)

		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers/offer-1/decline", nil)
		req.Header.Set(api.UserIDHeader, "stranger")
		rr := httptest.NewRecorder()

		h.DeclineOffer(rr, req, "item-1", "offer-1")

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockStorage.AssertNotCalled(t, "UpdateOfferStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lazily Expired Offer", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		offer := pendingOffer()
		offer.ExpiresAt = time.Now().Add(-time.Minute)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(offer, nil)

		h := NewOffersHandler(mockStorage, nil)

		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers/offer-1/decline", nil)
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.DeclineOffer(rr, req, "item-1", "offer-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestCounterOffer(t *testing.T) {
	t.Run("Success Addresses Counter To Bidder", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		counter := pendingOffer()
		counter.Id = "offer-2"
		counter.Amount = 4800
		counter.CounterOf = "offer-1"

		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("GetOffer", mock.Anything, "item-1", "offer-1").Return(pendingOffer(), nil)
		mockStorage.On("CounterOffer", mock.Anything, mock.AnythingOfType("*models.Offer"), mock.MatchedBy(func(c *models.Offer) bool {
			// The counter stays addressed to the original bidder at the same rate.
			return c.BidderId == "buyer" && c.CounterOf == "offer-1" && c.Amount == 4800 && c.Rate == 2.70
		})).Return(counter, nil)

		h := NewOffersHandler(mockStorage, nil)

		body, _ := json.Marshal(api.NewCounterOffer{Amount: 4800})
		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers/offer-1/counter", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.CounterOffer(rr, req, "item-1", "offer-1")

		assert.Equal(t, http.StatusCreated, rr.Code)

		var returned api.Offer
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, "offer-1", returned.CounterOf)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Only Owner May Counter", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)

		h := NewOffersHandler(mockStorage, nil)

		body, _ := json.Marshal(api.NewCounterOffer{Amount: 4800})
		req := httptest.NewRequest(http.MethodPost, "/listings/item-1/offers/offer-1/counter", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "buyer")
		rr := httptest.NewRecorder()

		h.CounterOffer(rr, req, "item-1", "offer-1")

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockStorage.AssertNotCalled(t, "CounterOffer", mock.Anything, mock.Anything, mock.Anything)
	})
}
