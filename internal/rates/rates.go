// Package rates fetches the USD exchange rate table consumed once at
// startup by the preference store.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const DefaultURL = "https://open.er-api.com/v6/latest/USD"

type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a rate client for the given endpoint; an empty url
// selects the public open.er-api.com feed.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Rate returns the USD->code rate. Any transport problem, non-2xx status,
// malformed body, or missing code is an error; the caller decides what to
// fall back to.
func (c *Client) Rate(ctx context.Context, code string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("rate endpoint returned %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode rates: %w", err)
	}

	rate, ok := body.Rates[code]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no usable rate for %s", code)
	}
	return rate, nil
}
