// Package coinranking is the REST client for the Coinranking market-data API
// as exposed through RapidAPI. It fetches the top coins by market cap and
// validates the response shape at the boundary so malformed upstream payloads
// surface as typed errors instead of leaking into arithmetic.
package coinranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrMalformedResponse indicates the upstream payload did not match the
// expected schema.
var ErrMalformedResponse = errors.New("coinranking: malformed response")

// Config holds the endpoint, credentials, and query parameters for the coins
// request. RapidAPI requires both the key and host headers on every call.
type Config struct {
	BaseURL               string
	APIKey                string
	APIHost               string
	ReferenceCurrencyUUID string
	TimePeriod            string
	Tiers                 string
	OrderBy               string
	OrderDirection        string
	Limit                 int
	Offset                int
	Timeout               time.Duration
}

// Client is the Coinranking REST client.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a Client. A zero Timeout defaults to 10 seconds.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchCoins requests the configured page of coins and returns the decoded
// entries. It returns an error for network failures, non-2xx statuses, and
// schema violations (wrapped in ErrMalformedResponse).
func (c *Client) FetchCoins(ctx context.Context) ([]APICoin, error) {
	params := url.Values{}
	params.Set("referenceCurrencyUuid", c.cfg.ReferenceCurrencyUUID)
	params.Set("timePeriod", c.cfg.TimePeriod)
	params.Set("tiers", c.cfg.Tiers)
	params.Set("orderBy", c.cfg.OrderBy)
	params.Set("orderDirection", c.cfg.OrderDirection)
	params.Set("limit", strconv.Itoa(c.cfg.Limit))
	params.Set("offset", strconv.Itoa(c.cfg.Offset))

	reqURL := c.cfg.BaseURL + "/coins?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("coinranking: create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", c.cfg.APIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coinranking: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("coinranking: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coinranking: read body: %w", err)
	}

	var decoded APIResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if decoded.Status != "success" {
		return nil, fmt.Errorf("%w: status %q", ErrMalformedResponse, decoded.Status)
	}
	if decoded.Data.Coins == nil {
		return nil, fmt.Errorf("%w: missing data.coins", ErrMalformedResponse)
	}

	return decoded.Data.Coins, nil
}
