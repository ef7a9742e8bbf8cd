package webhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/events"
	"github.com/skinsge/marketplace/pkg/storage"
	"github.com/skinsge/marketplace/pkg/trade"
)

// WebhooksHandler receives trade-offer status callbacks from the external
// platform. With an Enqueuer configured the event is queued for the consumer
// lambda; without one it is applied inline.
type WebhooksHandler struct {
	Enqueuer events.Enqueuer
	Service  *trade.Service
}

// NewWebhooksHandler creates a new WebhooksHandler.
func NewWebhooksHandler(enqueuer events.Enqueuer, service *trade.Service) *WebhooksHandler {
	return &WebhooksHandler{Enqueuer: enqueuer, Service: service}
}

// HandleGatewayWebhook handles an inbound platform callback. Webhooks carrying
// a trade-offer ID we never issued are acknowledged and dropped, so the
// platform does not retry them forever.
func (h *WebhooksHandler) HandleGatewayWebhook(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read request body: %v", err), http.StatusBadRequest)
		return
	}

	var payload api.GatewayWebhook
	if err := json.Unmarshal(raw, &payload); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if payload.TradeOfferId == "" || payload.Status == "" {
		http.Error(w, "trade_offer_id and status are required", http.StatusBadRequest)
		return
	}

	ev := &events.GatewayEvent{
		TradeOfferID: payload.TradeOfferId,
		Status:       payload.Status,
		Message:      payload.Message,
		Raw:          string(raw),
	}

	if h.Enqueuer != nil {
		if err := h.Enqueuer.EnqueueGatewayEvent(r.Context(), ev); err != nil {
			http.Error(w, fmt.Sprintf("Failed to enqueue gateway event: %v", err), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := h.Service.ApplyGatewayEvent(r.Context(), ev); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("dropping webhook for unknown trade offer", "tradeOfferId", payload.TradeOfferId)
			w.WriteHeader(http.StatusOK)
			return
		}
		api.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
