package listings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/models"
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
		TradeStatus: models.ItemTradeNone,
	}
}

func TestCreateListing(t *testing.T) {
	newListing := api.NewListing{
		AssetId:     "asset-1",
		Name:        "AK-47 | Redline",
		PriceUSD:    5000,
		Rate:        2.70,
		AllowOffers: true,
	}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateListing", mock.Anything, mock.MatchedBy(func(item *models.Item) bool {
			// The GEL price is derived server-side at the submitted rate.
			return item.OwnerId == "seller" && item.PriceGEL == 13500
		})).Return(listedItem(), nil)

		h := NewListingsHandler(mockStorage)

		body, _ := json.Marshal(newListing)
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.CreateListing(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var returned api.Listing
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, "item-1", returned.Id)
		assert.Equal(t, int64(13500), returned.PriceGEL)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Missing Identity", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		h := NewListingsHandler(mockStorage)

		body, _ := json.Marshal(newListing)
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.CreateListing(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockStorage.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate Listing", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("CreateListing", mock.Anything, mock.Anything).Return(nil, storage.ErrDuplicateListing)

		h := NewListingsHandler(mockStorage)

		body, _ := json.Marshal(newListing)
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.CreateListing(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Bad Request - Invalid JSON", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		h := NewListingsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodPost, "/listings", strings.NewReader("not-json"))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.CreateListing(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Bad Request - Zero Price", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		h := NewListingsHandler(mockStorage)

		bad := newListing
		bad.PriceUSD = 0
		body, _ := json.Marshal(bad)
		req := httptest.NewRequest(http.MethodPost, "/listings", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.CreateListing(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything)
	})
}

func TestDeleteListing(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("CancelListing", mock.Anything, "item-1").Return(nil)

		h := NewListingsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodDelete, "/listings/item-1", nil)
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.DeleteListing(rr, req, "item-1")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Not Owner", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)

		h := NewListingsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodDelete, "/listings/item-1", nil)
		req.Header.Set(api.UserIDHeader, "someone-else")
		rr := httptest.NewRecorder()

		h.DeleteListing(rr, req, "item-1")

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockStorage.AssertNotCalled(t, "CancelListing", mock.Anything, mock.Anything)
	})

	t.Run("Locked Into Pending Trade", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		item := listedItem()
		item.TradeStatus = models.ItemTradePending
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(item, nil)

		h := NewListingsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodDelete, "/listings/item-1", nil)
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.DeleteListing(rr, req, "item-1")

		assert.Equal(t, http.StatusConflict, rr.Code)
		mockStorage.AssertNotCalled(t, "CancelListing", mock.Anything, mock.Anything)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "nope").Return(nil, storage.ErrNotFound)

		h := NewListingsHandler(mockStorage)

		req := httptest.NewRequest(http.MethodDelete, "/listings/nope", nil)
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.DeleteListing(rr, req, "nope")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateListingPrice(t *testing.T) {
	t.Run("Success Derives GEL", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		updated := listedItem()
		updated.PriceUSD = 6000
		updated.PriceGEL = 16800
		updated.Rate = 2.80

		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("UpdateListingPrice", mock.Anything, "item-1", int64(6000), int64(16800), 2.80).Return(updated, nil)

		h := NewListingsHandler(mockStorage)

		body, _ := json.Marshal(api.PriceUpdate{PriceUSD: 6000, Rate: 2.80})
		req := httptest.NewRequest(http.MethodPatch, "/listings/item-1/price", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.UpdateListingPrice(rr, req, "item-1")

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.Listing
		json.Unmarshal(rr.Body.Bytes(), &returned)
		assert.Equal(t, int64(16800), returned.PriceGEL)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Delisted Concurrently", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetItem", mock.Anything, "item-1").Return(listedItem(), nil)
		mockStorage.On("UpdateListingPrice", mock.Anything, "item-1", mock.Anything, mock.Anything, mock.Anything).Return(nil, storage.ErrNotListed)

		h := NewListingsHandler(mockStorage)

		body, _ := json.Marshal(api.PriceUpdate{PriceUSD: 6000, Rate: 2.80})
		req := httptest.NewRequest(http.MethodPatch, "/listings/item-1/price", bytes.NewReader(body))
		req.Header.Set(api.UserIDHeader, "seller")
		rr := httptest.NewRecorder()

		h.UpdateListingPrice(rr, req, "item-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
