package ledger

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/mapping"
	"github.com/skinsge/marketplace/pkg/storage"
)

const defaultLimit = 50

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Store storage.LedgerReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(store storage.LedgerReader) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

// ListLedger handles retrieving the most recent ledger entries.
func (h *LedgerHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			http.Error(w, fmt.Sprintf("Invalid limit: %q", raw), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.Store.ListLedgerEntries(r.Context(), int32(limit))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve ledger entries: %v", err), http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiLedgerEntries(entries))
}

// ListMyLedger handles retrieving the caller's ledger entries.
func (h *LedgerHandler) ListMyLedger(w http.ResponseWriter, r *http.Request) {
	userID := api.UserID(r)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusUnauthorized)
		return
	}

	entries, err := h.Store.ListLedgerEntriesByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve ledger entries: %v", err), http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusOK, mapping.ToApiLedgerEntries(entries))
}
