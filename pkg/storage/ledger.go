package storage

import (
	"context"

	"github.com/skinsge/marketplace/pkg/models"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent ledger entries.
	ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error)

	// ListLedgerEntriesByUser retrieves a user's ledger entries.
	ListLedgerEntriesByUser(ctx context.Context, userID string) ([]models.LedgerEntry, error)
}
