package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UserIDHeader carries the authenticated caller's user ID. Authentication
// itself happens upstream; the API trusts this header.
const UserIDHeader = "X-User-Id"

// UserID extracts the acting user's ID from the request.
func UserID(r *http.Request) string {
	return r.Header.Get(UserIDHeader)
}

// ServerInterface is the full HTTP surface of the marketplace.
type ServerInterface interface {
	// Listings
	CreateListing(w http.ResponseWriter, r *http.Request)
	ListListings(w http.ResponseWriter, r *http.Request)
	GetListing(w http.ResponseWriter, r *http.Request, itemID string)
	DeleteListing(w http.ResponseWriter, r *http.Request, itemID string)
	UpdateListingPrice(w http.ResponseWriter, r *http.Request, itemID string)

	// Offers
	CreateOffer(w http.ResponseWriter, r *http.Request, itemID string)
	ListOffers(w http.ResponseWriter, r *http.Request, itemID string)
	AcceptOffer(w http.ResponseWriter, r *http.Request, itemID, offerID string)
	DeclineOffer(w http.ResponseWriter, r *http.Request, itemID, offerID string)
	CounterOffer(w http.ResponseWriter, r *http.Request, itemID, offerID string)

	// Trades
	Purchase(w http.ResponseWriter, r *http.Request)
	GetTrade(w http.ResponseWriter, r *http.Request, tradeID string)
	ListMyTrades(w http.ResponseWriter, r *http.Request)
	ApproveTrade(w http.ResponseWriter, r *http.Request, tradeID string)
	DispatchTrade(w http.ResponseWriter, r *http.Request, tradeID string)
	ConfirmTrade(w http.ResponseWriter, r *http.Request, tradeID string)
	CancelTrade(w http.ResponseWriter, r *http.Request, tradeID string)

	// Wallets and ledger
	ListMyWallets(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	ListLedger(w http.ResponseWriter, r *http.Request)
	ListMyLedger(w http.ResponseWriter, r *http.Request)

	// Webhooks
	HandleGatewayWebhook(w http.ResponseWriter, r *http.Request)
}

// HandlerFromMux mounts the server on a chi router.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	r.Route("/listings", func(r chi.Router) {
		r.Post("/", si.CreateListing)
		r.Get("/", si.ListListings)
		r.Route("/{itemId}", func(r chi.Router) {
			r.Get("/", withItem(si.GetListing))
			r.Delete("/", withItem(si.DeleteListing))
			r.Patch("/price", withItem(si.UpdateListingPrice))
			r.Route("/offers", func(r chi.Router) {
				r.Post("/", withItem(si.CreateOffer))
				r.Get("/", withItem(si.ListOffers))
				r.Post("/{offerId}/accept", withOffer(si.AcceptOffer))
				r.Post("/{offerId}/decline", withOffer(si.DeclineOffer))
				r.Post("/{offerId}/counter", withOffer(si.CounterOffer))
			})
		})
	})

	r.Route("/trades", func(r chi.Router) {
		r.Post("/", si.Purchase)
		r.Get("/", si.ListMyTrades)
		r.Route("/{tradeId}", func(r chi.Router) {
			r.Get("/", withTrade(si.GetTrade))
			r.Post("/approve", withTrade(si.ApproveTrade))
			r.Post("/dispatch", withTrade(si.DispatchTrade))
			r.Post("/confirm", withTrade(si.ConfirmTrade))
			r.Post("/cancel", withTrade(si.CancelTrade))
		})
	})

	r.Route("/wallets", func(r chi.Router) {
		r.Get("/", si.ListMyWallets)
		r.Post("/deposit", si.Deposit)
		r.Post("/withdraw", si.Withdraw)
	})

	r.Get("/ledger", si.ListLedger)
	r.Get("/ledger/mine", si.ListMyLedger)

	r.Post("/webhooks/gateway", si.HandleGatewayWebhook)

	return r
}

func withItem(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, chi.URLParam(r, "itemId"))
	}
}

func withOffer(fn func(http.ResponseWriter, *http.Request, string, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, chi.URLParam(r, "itemId"), chi.URLParam(r, "offerId"))
	}
}

func withTrade(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, chi.URLParam(r, "tradeId"))
	}
}
