package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/skinsge/marketplace/pkg/gateway"
)

const defaultTimeout = 10 * time.Second

// Client talks to the Steam-compatible trade-offer API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// New creates a new Client with a bounded request timeout.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Make sure we conform to the interface
var _ gateway.Gateway = (*Client)(nil)

// offerRefPattern matches a trade-offer URL of the form
// .../tradeoffer/123456789 as well as a bare numeric ID.
var offerRefPattern = regexp.MustCompile(`(?:tradeoffer/)?(\d{5,})/?$`)

// ParseOfferRef extracts the trade-offer ID from a URL or bare ID.
func (c *Client) ParseOfferRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty trade-offer reference")
	}
	m := offerRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", fmt.Errorf("reference %q does not contain a trade-offer id", ref)
	}
	return m[1], nil
}

type createOfferResponse struct {
	TradeOfferID string `json:"tradeofferid"`
	Error        string `json:"error,omitempty"`
}

type offerStateResponse struct {
	TradeOfferID string `json:"tradeofferid"`
	State        string `json:"trade_offer_state"`
}

// CreateExchange opens a trade offer moving the seller's assets to the buyer.
func (c *Client) CreateExchange(ctx context.Context, req gateway.CreateExchangeRequest) (string, error) {
	form := url.Values{}
	form.Set("key", c.APIKey)
	form.Set("seller_steamid", req.SellerSteamID)
	form.Set("buyer_steamid", req.BuyerSteamID)
	form.Set("trade_url", req.BuyerTradeURL)
	form.Set("seller_assetids", strings.Join(req.SellerAssetIDs, ","))
	form.Set("buyer_assetids", strings.Join(req.BuyerAssetIDs, ","))
	form.Set("message", req.Note)

	body, err := c.post(ctx, "/ITradeService/CreateTradeOffer/v1/", form)
	if err != nil {
		return "", &gateway.Error{Op: "create", Err: err}
	}

	var resp createOfferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &gateway.Error{Op: "create", Err: fmt.Errorf("decoding response: %w", err)}
	}
	if resp.Error != "" {
		return "", &gateway.Error{Op: "create", Err: fmt.Errorf("platform rejected offer: %s", resp.Error)}
	}
	if resp.TradeOfferID == "" {
		return "", &gateway.Error{Op: "create", Err: fmt.Errorf("platform returned no trade-offer id")}
	}
	return resp.TradeOfferID, nil
}

// QueryExchange fetches the current state of a trade offer.
func (c *Client) QueryExchange(ctx context.Context, tradeOfferID string) (*gateway.Exchange, error) {
	endpoint := fmt.Sprintf("%s/ITradeService/GetTradeOffer/v1/?key=%s&tradeofferid=%s",
		c.BaseURL, url.QueryEscape(c.APIKey), url.QueryEscape(tradeOfferID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &gateway.Error{Op: "query", Err: err}
	}

	httpResp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &gateway.Error{Op: "query", Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &gateway.Error{Op: "query", Err: err}
	}

	if httpResp.StatusCode == http.StatusNotFound {
		return &gateway.Exchange{TradeOfferID: tradeOfferID, State: gateway.ExchangeNotFound, Raw: string(body)}, nil
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &gateway.Error{Op: "query", Err: fmt.Errorf("unexpected status %d", httpResp.StatusCode)}
	}

	var resp offerStateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &gateway.Error{Op: "query", Err: fmt.Errorf("decoding response: %w", err)}
	}

	return &gateway.Exchange{
		TradeOfferID: tradeOfferID,
		State:        mapOfferState(resp.State),
		Raw:          string(body),
	}, nil
}

// CancelExchange cancels a trade offer on the platform.
func (c *Client) CancelExchange(ctx context.Context, tradeOfferID string) error {
	form := url.Values{}
	form.Set("key", c.APIKey)
	form.Set("tradeofferid", tradeOfferID)

	if _, err := c.post(ctx, "/ITradeService/CancelTradeOffer/v1/", form); err != nil {
		return &gateway.Error{Op: "cancel", Err: err}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, body)
	}
	return body, nil
}

// mapOfferState converts the platform's trade-offer states onto the gateway's.
// Anything the platform considers still in flight maps to pending.
func mapOfferState(state string) gateway.ExchangeState {
	switch strings.ToLower(state) {
	case "accepted", "3":
		return gateway.ExchangeAccepted
	case "declined", "7":
		return gateway.ExchangeDeclined
	case "canceled", "cancelled", "6":
		return gateway.ExchangeCancelled
	case "invalid", "1":
		return gateway.ExchangeNotFound
	default:
		return gateway.ExchangePending
	}
}
