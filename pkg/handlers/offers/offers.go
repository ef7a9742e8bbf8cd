package offers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/mapping"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/notify"
	"github.com/skinsge/marketplace/pkg/storage"
)

// Store is the slice of storage the offer handlers need.
type Store interface {
	storage.ListingStore
	storage.OfferStore
}

// OffersHandler holds the dependencies for offer-related handlers.
type OffersHandler struct {
	Store    Store
	Notifier notify.Publisher
}

// NewOffersHandler creates a new OffersHandler.
func NewOffersHandler(store Store, notifier notify.Publisher) *OffersHandler {
	return &OffersHandler{Store: store, Notifier: notifier}
}

// push delivers a notification fire-and-forget.
func (h *OffersHandler) push(ctx context.Context, n notify.Notification) {
	if h.Notifier == nil {
		return
	}
	if err := h.Notifier.Push(ctx, n); err != nil {
		slog.Error("failed to push notification", "userId", n.UserID, "type", n.Type, "error", err)
	}
}

// CreateOffer handles the logic for bidding on a listing.
func (h *OffersHandler) CreateOffer(w http.ResponseWriter, r *http.Request, itemId string) {
	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return
	}

	var newOffer api.NewOffer
	if err := json.NewDecoder(r.Body).Decode(&newOffer); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newOffer.Amount <= 0 {
		http.Error(w, "A positive amount is required", http.StatusBadRequest)
		return
	}
	currency := models.Currency(newOffer.Currency)
	if currency != models.USD && currency != models.GEL {
		http.Error(w, fmt.Sprintf("Unsupported currency: %q", newOffer.Currency), http.StatusBadRequest)
		return
	}

	item, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if !item.IsListed {
		http.Error(w, "Item is not listed for sale", http.StatusBadRequest)
		return
	}
	if !item.AllowOffers {
		http.Error(w, "Listing does not accept offers", http.StatusBadRequest)
		return
	}
	if item.OwnerId == userID {
		http.Error(w, "Cannot bid on your own listing", http.StatusBadRequest)
		return
	}

	domainOffer := mapping.ToDomainOffer(userID, item, newOffer)

	createdOffer, err := h.Store.CreateOffer(r.Context(), domainOffer)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	h.push(r.Context(), notify.Notification{
		UserID: item.OwnerId, Type: notify.TypeOfferReceived,
		Title:   "New offer",
		Message: fmt.Sprintf("You received an offer on %s.", item.Name),
		Link:    "/listings/" + item.Id,
	})

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiOffer(createdOffer))
}

// ListOffers handles the logic for retrieving the offers on a listing. Only
// the owner sees every offer; a bidder sees just their own.
func (h *OffersHandler) ListOffers(w http.ResponseWriter, r *http.Request, itemId string) {
	userID := api.UserID(r)

	item, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	domainOffers, err := h.Store.ListOffersByItem(r.Context(), itemId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve offers: %v", err), http.StatusInternalServerError)
		return
	}

	if item.OwnerId != userID {
		visible := domainOffers[:0]
		for _, o := range domainOffers {
			if o.BidderId == userID {
				visible = append(visible, o)
			}
		}
		domainOffers = visible
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiOffers(domainOffers))
}

// DeclineOffer handles the logic for declining a pending offer. The owner may
// decline any offer; a bidder may decline (retract) their own, including a
// counter-offer sent to them.
func (h *OffersHandler) DeclineOffer(w http.ResponseWriter, r *http.Request, itemId, offerId string) {
	userID := api.UserID(r)

	item, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	offer, err := h.Store.GetOffer(r.Context(), itemId, offerId)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if userID != item.OwnerId && userID != offer.BidderId {
		http.Error(w, "Only the owner or the bidder may decline an offer", http.StatusForbidden)
		return
	}
	if !offer.PendingAt(time.Now()) {
		http.Error(w, "Offer is no longer pending", http.StatusConflict)
		return
	}

	if err := h.Store.UpdateOfferStatus(r.Context(), offer, models.OfferDeclined); err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiOffer(offer))
}

// CounterOffer handles the logic for the owner countering a pending offer.
// The original is declined and the counter, addressed back to the bidder,
// replaces it atomically.
func (h *OffersHandler) CounterOffer(w http.ResponseWriter, r *http.Request, itemId, offerId string) {
	userID := api.UserID(r)

	var req api.NewCounterOffer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "A positive amount is required", http.StatusBadRequest)
		return
	}

	item, err := h.Store.GetItem(r.Context(), itemId)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if item.OwnerId != userID {
		http.Error(w, "Only the owner may counter an offer", http.StatusForbidden)
		return
	}

	original, err := h.Store.GetOffer(r.Context(), itemId, offerId)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if !original.PendingAt(time.Now()) {
		http.Error(w, "Offer is no longer pending", http.StatusConflict)
		return
	}

	counter := &models.Offer{
		ItemId:    item.Id,
		BidderId:  original.BidderId,
		Amount:    req.Amount,
		Currency:  original.Currency,
		Rate:      original.Rate,
		Message:   req.Message,
		TradeURL:  original.TradeURL,
		CounterOf: original.Id,
	}

	createdCounter, err := h.Store.CounterOffer(r.Context(), original, counter)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	h.push(r.Context(), notify.Notification{
		UserID: original.BidderId, Type: notify.TypeOfferCountered,
		Title:   "Counter-offer",
		Message: fmt.Sprintf("The seller countered your offer on %s.", item.Name),
		Link:    "/listings/" + item.Id,
	})

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiOffer(createdCounter))
}
