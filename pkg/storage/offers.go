package storage

import (
	"context"

	"github.com/skinsge/marketplace/pkg/models"
)

// OfferStore defines the interface for offers attached to listings.
type OfferStore interface {
	// CreateOffer stores a new pending offer. It fails with
	// ErrDuplicatePendingOffer if the bidder already holds a pending offer on
	// the item.
	CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error)

	// GetOffer retrieves a single offer.
	GetOffer(ctx context.Context, itemID, offerID string) (*models.Offer, error)

	// ListOffersByItem retrieves all offers on an item, newest first.
	ListOffersByItem(ctx context.Context, itemID string) ([]models.Offer, error)

	// UpdateOfferStatus moves an offer from pending to the given status. It
	// fails with ErrOfferNotPending if the offer already left the pending state.
	UpdateOfferStatus(ctx context.Context, offer *models.Offer, to models.OfferStatus) error

	// CounterOffer atomically declines the original offer and creates the
	// counter, which references the original via CounterOf.
	CounterOffer(ctx context.Context, original *models.Offer, counter *models.Offer) (*models.Offer, error)
}
