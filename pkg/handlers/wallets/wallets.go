package wallets

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/mapping"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/storage"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Store storage.WalletStore
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(store storage.WalletStore) *WalletsHandler {
	return &WalletsHandler{Store: store}
}

// ListMyWallets handles retrieving the caller's wallets.
func (h *WalletsHandler) ListMyWallets(w http.ResponseWriter, r *http.Request) {
	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return
	}

	domainWallets, err := h.Store.ListWalletsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve wallets: %v", err), http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWallets(domainWallets))
}

// Deposit handles crediting the caller's wallet.
func (h *WalletsHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decodeAmount(w, r)
	if !ok {
		return
	}

	updatedWallet, err := h.Store.Deposit(r.Context(), userID, models.Currency(req.Currency), req.Amount)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(updatedWallet))
}

// Withdraw handles debiting the caller's wallet.
func (h *WalletsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, req, ok := decodeAmount(w, r)
	if !ok {
		return
	}

	updatedWallet, err := h.Store.Withdraw(r.Context(), userID, models.Currency(req.Currency), req.Amount)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiWallet(updatedWallet))
}

func decodeAmount(w http.ResponseWriter, r *http.Request) (string, api.AmountRequest, bool) {
	var req api.AmountRequest

	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return "", req, false
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return "", req, false
	}
	if req.Amount <= 0 {
		http.Error(w, "A positive amount is required", http.StatusBadRequest)
		return "", req, false
	}
	currency := models.Currency(req.Currency)
	if currency != models.USD && currency != models.GEL {
		http.Error(w, fmt.Sprintf("Unsupported currency: %q", req.Currency), http.StatusBadRequest)
		return "", req, false
	}

	return userID, req, true
}
