package listings

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/mapping"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/storage"
)

// ListingsHandler holds the dependencies for listing-related handlers.
type ListingsHandler struct {
	Store storage.ListingStore
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(store storage.ListingStore) *ListingsHandler {
	return &ListingsHandler{Store: store}
}

// CreateListing handles the logic for listing an item for sale.
func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return
	}

	var newListing api.NewListing
	if err := json.NewDecoder(r.Body).Decode(&newListing); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newListing.AssetId == "" || newListing.PriceUSD <= 0 || newListing.Rate <= 0 {
		http.Error(w, "asset_id, a positive price_usd and a positive rate are required", http.StatusBadRequest)
		return
	}

	domainItem := mapping.ToDomainItem(userID, newListing)

	createdItem, err := h.Store.CreateListing(r.Context(), domainItem)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiListing(createdItem))
}

// ListListings handles the logic for retrieving all items currently for sale.
func (h *ListingsHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	domainItems, err := h.Store.ListListings(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve listings: %v", err), http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiListings(domainItems))
}

// GetListing handles the logic for retrieving a single item by its ID.
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request, itemId string) {
	domainItem, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiListing(domainItem))
}

// DeleteListing handles the logic for taking an item off sale. Only the owner
// may delist, and an item locked into a pending trade cannot be delisted.
func (h *ListingsHandler) DeleteListing(w http.ResponseWriter, r *http.Request, itemId string) {
	userID := api.UserID(r)

	domainItem, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if domainItem.OwnerId != userID {
		http.Error(w, "Only the owner may delist an item", http.StatusForbidden)
		return
	}
	if domainItem.TradeStatus == models.ItemTradePending {
		http.Error(w, "Item is locked into a pending trade", http.StatusConflict)
		return
	}

	if err := h.Store.CancelListing(r.Context(), itemId); err != nil {
		api.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateListingPrice handles the logic for changing a listing's price. The GEL
// price is re-derived at the submitted rate and the previous price is kept in
// the item's history.
func (h *ListingsHandler) UpdateListingPrice(w http.ResponseWriter, r *http.Request, itemId string) {
	userID := api.UserID(r)

	var update api.PriceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if update.PriceUSD <= 0 || update.Rate <= 0 {
		http.Error(w, "A positive price_usd and a positive rate are required", http.StatusBadRequest)
		return
	}

	domainItem, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if domainItem.OwnerId != userID {
		http.Error(w, "Only the owner may update the price", http.StatusForbidden)
		return
	}

	priceGEL := models.DeriveGEL(update.PriceUSD, update.Rate)
	updatedItem, err := h.Store.UpdateListingPrice(r.Context(), itemId, update.PriceUSD, priceGEL, update.Rate)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiListing(updatedItem))
}
