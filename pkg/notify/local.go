package notify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// LocalSocketHandler serves WebSocket connections for the local development
// server, registering each connection under the user announced in the
// X-User-Id header.
type LocalSocketHandler struct {
	connManager ConnectionManager
}

// NewLocalSocketHandler creates a new LocalSocketHandler.
func NewLocalSocketHandler(connManager ConnectionManager) *LocalSocketHandler {
	return &LocalSocketHandler{connManager: connManager}
}

// ServeHTTP upgrades the request and keeps the connection registered until the
// client disconnects.
func (h *LocalSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	slog.Info("client connected locally", "connectionId", connectionID, "userId", userID)

	ctx := context.Background()
	if err := h.connManager.AddConnection(ctx, connectionID, userID); err != nil {
		slog.Error("failed to save local connection ID", "error", err)
		return
	}

	defer func() {
		slog.Info("client disconnected locally", "connectionId", connectionID)
		if err := h.connManager.RemoveConnection(ctx, connectionID); err != nil {
			slog.Error("failed to delete local connection ID", "error", err)
		}
	}()

	// The server never processes incoming messages; this loop only detects the
	// client closing the connection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected close error", "error", err)
			}
			break
		}
	}
}
