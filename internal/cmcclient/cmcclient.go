// Package cmcclient fetches the CoinMarketCap symbol/platform map used to
// cross-check a descriptor's declared address against an independent
// source. The API key is always supplied by the caller (configuration),
// never compiled in.
package cmcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/map"

// Platform is the chain a CMC asset is deployed on.
type Platform struct {
	Symbol       string `json:"symbol"`
	TokenAddress string `json:"token_address"`
}

// Asset is one entry of the CoinMarketCap symbol map.
type Asset struct {
	Symbol   string    `json:"symbol"`
	Platform *Platform `json:"platform"`
}

type mapResponse struct {
	Data []Asset `json:"data"`
}

// Client fetches the full CMC map in one call; FetchAll indexes the
// result by symbol (a later entry for a repeated symbol wins, same as
// the original's dict-comprehension load).
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the CMC map endpoint, for testing.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// New builds a Client. apiKey is required; an empty key still builds a
// Client but every FetchAll call will be rejected by CMC with a 401.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll retrieves the full symbol->asset map.
func (c *Client) FetchAll(ctx context.Context) (map[string]Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("cmcclient: build request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cmcclient: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cmcclient: unexpected status %d: %s", resp.StatusCode, body)
	}

	var parsed mapResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("cmcclient: decode response: %w", err)
	}

	out := make(map[string]Asset, len(parsed.Data))
	for _, a := range parsed.Data {
		out[a.Symbol] = a
	}
	return out, nil
}
