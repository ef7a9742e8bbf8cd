package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/skinsge/marketplace/pkg/gateway"
	"github.com/skinsge/marketplace/pkg/storage"
	"github.com/skinsge/marketplace/pkg/trade"
)

// WriteJSON encodes v as the JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// WriteError maps domain errors onto HTTP statuses: missing records to 404,
// actor mismatches to 403, status-guard losses to 409, uncovered balances to
// 422 and gateway failures to 502.
func WriteError(w http.ResponseWriter, err error) {
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, trade.ErrNotSeller),
		errors.Is(err, trade.ErrNotBuyer),
		errors.Is(err, trade.ErrNotParticipant):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, storage.ErrStateConflict),
		errors.Is(err, storage.ErrDuplicateListing),
		errors.Is(err, storage.ErrDuplicatePendingOffer),
		errors.Is(err, storage.ErrOfferNotPending):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrInsufficientFunds):
		http.Error(w, "Insufficient funds", http.StatusUnprocessableEntity)
	case errors.Is(err, storage.ErrNotListed),
		errors.Is(err, trade.ErrSelfTrade),
		errors.Is(err, trade.ErrMissingTradeIdentity),
		errors.Is(err, trade.ErrInvalidOfferRef):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &gwErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
