package notify

import "context"

// Notification is a push event delivered to a single user.
type Notification struct {
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// Notification types emitted by the core.
const (
	TypeOfferReceived  = "offer_received"
	TypeOfferDeclined  = "offer_declined"
	TypeOfferCountered = "offer_countered"
	TypeTradeCreated   = "trade_created"
	TypeTradeApproved  = "trade_approved"
	TypeTradeSent      = "trade_sent"
	TypeTradeCompleted = "trade_completed"
	TypeTradeCancelled = "trade_cancelled"
	TypeTradeFailed    = "trade_failed"
)

// Publisher pushes notifications to users. Delivery is fire-and-forget from
// the core's perspective: a Push failure must never block or fail the
// operation that produced it.
type Publisher interface {
	Push(ctx context.Context, n Notification) error
}

// ConnectionManager stores the mapping from live push connections to users.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID, userID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetConnectionsByUser(ctx context.Context, userID string) ([]string, error)
}

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// Push does nothing.
func (p *NoOpPublisher) Push(ctx context.Context, n Notification) error {
	return nil
}
