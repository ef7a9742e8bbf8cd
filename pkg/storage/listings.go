package storage

import (
	"context"

	"github.com/skinsge/marketplace/pkg/models"
)

// ListingStore defines the interface for the listing registry.
type ListingStore interface {
	// CreateListing creates a new listed item. It fails with ErrDuplicateListing
	// if the owner already has an active listing for the same asset.
	CreateListing(ctx context.Context, item *models.Item) (*models.Item, error)

	// GetItem retrieves an item by its ID.
	GetItem(ctx context.Context, itemID string) (*models.Item, error)

	// ListListings retrieves all items currently for sale.
	ListListings(ctx context.Context) ([]models.Item, error)

	// CancelListing removes an item from sale. It fails with ErrNotListed if the
	// item is not currently listed, which makes repeated cancellation attempts
	// observable rather than silently idempotent.
	CancelListing(ctx context.Context, itemID string) error

	// UpdateListingPrice updates both prices and the frozen rate, appending the
	// previous price to the item's price history. Fails with ErrNotListed if the
	// item was removed from sale concurrently.
	UpdateListingPrice(ctx context.Context, itemID string, priceUSD, priceGEL int64, rate float64) (*models.Item, error)
}
