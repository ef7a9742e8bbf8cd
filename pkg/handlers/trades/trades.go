package trades

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/mapping"
	"github.com/skinsge/marketplace/pkg/storage"
	"github.com/skinsge/marketplace/pkg/trade"
)

// TradesHandler holds the dependencies for trade-related handlers. Lifecycle
// mutations go through the trade service; reads hit the store directly.
type TradesHandler struct {
	Service *trade.Service
	Store   storage.TradeReader
}

// NewTradesHandler creates a new TradesHandler.
func NewTradesHandler(service *trade.Service, store storage.TradeReader) *TradesHandler {
	return &TradesHandler{Service: service, Store: store}
}

// Purchase handles the buy-now flow: delist the item and open a trade in one
// step.
func (h *TradesHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return
	}

	var req api.NewPurchase
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.ItemId == "" {
		http.Error(w, "item_id is required", http.StatusBadRequest)
		return
	}

	createdTrade, err := h.Service.Purchase(r.Context(), trade.PurchaseRequest{
		ItemID:        req.ItemId,
		BuyerID:       userID,
		BuyerSteamID:  req.SteamId,
		BuyerTradeURL: req.TradeURL,
	})
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiTrade(createdTrade))
}

// AcceptOffer handles accepting an offer on a listing, opening a trade.
func (h *TradesHandler) AcceptOffer(w http.ResponseWriter, r *http.Request, itemId, offerId string) {
	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return
	}

	createdTrade, err := h.Service.AcceptOffer(r.Context(), itemId, offerId, userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, mapping.ToApiTrade(createdTrade))
}

// GetTrade handles retrieving a single trade. Trades are visible only to
// their participants.
func (h *TradesHandler) GetTrade(w http.ResponseWriter, r *http.Request, tradeId string) {
	userID := api.UserID(r)

	domainTrade, err := h.Store.GetTrade(r.Context(), tradeId)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	if !domainTrade.Participant(userID) {
		http.Error(w, "Trade is visible to its participants only", http.StatusForbidden)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiTrade(domainTrade))
}

// ListMyTrades handles retrieving every trade the caller participates in.
func (h *TradesHandler) ListMyTrades(w http.ResponseWriter, r *http.Request) {
	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return
	}

	domainTrades, err := h.Store.ListTradesByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve trades: %v", err), http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiTrades(domainTrades))
}

// ApproveTrade handles the seller's go-ahead, moving the trade to offer_sent.
func (h *TradesHandler) ApproveTrade(w http.ResponseWriter, r *http.Request, tradeId string) {
	userID := api.UserID(r)

	updatedTrade, err := h.Service.Approve(r.Context(), tradeId, userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiTrade(updatedTrade))
}

// DispatchTrade handles the seller reporting the external trade offer they
// sent, identified by a bare trade-offer ID or an offer URL.
func (h *TradesHandler) DispatchTrade(w http.ResponseWriter, r *http.Request, tradeId string) {
	userID := api.UserID(r)

	var req api.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.OfferRef == "" {
		http.Error(w, "offer_ref is required", http.StatusBadRequest)
		return
	}

	updatedTrade, err := h.Service.RecordDispatch(r.Context(), tradeId, userID, req.OfferRef)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiTrade(updatedTrade))
}

// ConfirmTrade handles the buyer's receipt confirmation. The response is a
// tagged outcome: either the trade settled, or the gateway still disagrees and
// the buyer must re-confirm with force.
func (h *TradesHandler) ConfirmTrade(w http.ResponseWriter, r *http.Request, tradeId string) {
	userID := api.UserID(r)

	var req api.ConfirmRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	result, err := h.Service.Confirm(r.Context(), tradeId, userID, req.Force)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	resp := api.ConfirmResponse{Reason: result.Reason}
	if result.Completed {
		resp.Status = api.ConfirmCompleted
		apiTrade := mapping.ToApiTrade(result.Trade)
		resp.Trade = &apiTrade
		api.WriteJSON(w, http.StatusOK, resp)
		return
	}

	resp.Status = api.ConfirmNeedsOverride
	api.WriteJSON(w, http.StatusConflict, resp)
}

// CancelTrade handles a participant cancelling a trade before settlement.
func (h *TradesHandler) CancelTrade(w http.ResponseWriter, r *http.Request, tradeId string) {
	userID := api.UserID(r)

	var req api.CancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	cancelledTrade, err := h.Service.Cancel(r.Context(), tradeId, userID, req.Reason)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiTrade(cancelledTrade))
}
