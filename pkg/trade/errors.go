package trade

import "errors"

// ErrNotSeller is returned when an action reserved for the seller is attempted
// by someone else.
var ErrNotSeller = errors.New("only the seller may perform this action")

// ErrNotBuyer is returned when an action reserved for the buyer is attempted
// by someone else.
var ErrNotBuyer = errors.New("only the buyer may perform this action")

// ErrNotParticipant is returned when the actor is neither buyer nor seller.
var ErrNotParticipant = errors.New("user is not a participant in this trade")

// ErrSelfTrade is returned when a user attempts to buy or bid on their own item.
var ErrSelfTrade = errors.New("cannot trade with yourself")

// ErrMissingTradeIdentity is returned when the buyer has no external trade
// identity (steam id / trade URL) and did not supply one.
var ErrMissingTradeIdentity = errors.New("buyer external trade identity is required")

// ErrInvalidOfferRef is returned when a submitted trade-offer reference does
// not parse to a valid external trade-offer id.
var ErrInvalidOfferRef = errors.New("invalid trade-offer reference")
