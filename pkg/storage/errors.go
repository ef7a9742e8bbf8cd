package storage

import "errors"

// ErrInsufficientFunds is returned when a wallet balance cannot cover a spend.
// At settlement time it means the advisory reservation could not be honored.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrDuplicateListing is returned when the owner already has an active listing
// for the same external asset.
var ErrDuplicateListing = errors.New("asset is already listed")

// ErrNotListed is returned when an operation requires an active listing and the
// item is not (or no longer) for sale.
var ErrNotListed = errors.New("item is not listed for sale")

// ErrDuplicatePendingOffer is returned when a bidder already holds a pending
// offer on the same item.
var ErrDuplicatePendingOffer = errors.New("bidder already has a pending offer on this item")

// ErrOfferNotPending is returned when an offer mutation requires the offer to
// still be pending.
var ErrOfferNotPending = errors.New("offer is not pending")

// ErrStateConflict is returned when a status guard fails, i.e. the record
// changed since it was read. The caller should refetch and retry.
var ErrStateConflict = errors.New("state conflict: record changed concurrently")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")
