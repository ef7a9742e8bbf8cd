package storage

// MarketStore defines the complete set of non-privileged operations needed by
// the API handlers. It composes other interfaces to provide a clear boundary
// for the API's data access.
type MarketStore interface {
	ListingStore
	OfferStore
	TradeStore
	WalletStore
	LedgerReader
}
