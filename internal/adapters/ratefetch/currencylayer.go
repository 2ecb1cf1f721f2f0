// Package ratefetch implements the external rate lookup against a
// currencylayer-style "live" endpoint. The payload quotes every currency
// against the provider's source currency (usually USD), so rates are re-based
// onto the requested base before being returned.
package ratefetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfledger/finance_ledger_app/internal/core/ports"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// Client fetches exchange rates over HTTP. It is stateless and safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a rate fetcher against the given endpoint URL. A
// non-positive timeout selects the 10-second default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ ports.RateFetcher = (*Client)(nil)

type livePayload struct {
	Success bool               `json:"success"`
	Source  string             `json:"source"`
	Quotes  map[string]float64 `json:"quotes"`
}

// FetchRates performs the network lookup and normalizes the payload into a
// mapping of target code to foreign-units-per-base-unit. Non-positive and
// NaN rates are dropped. Any transport, decode or provider failure is
// returned as an error; the caller treats it as an empty result.
func (c *Client) FetchRates(ctx context.Context, base string, symbols []string, apiKey string) (map[string]decimal.Decimal, error) {
	query := url.Values{}
	query.Set("access_key", apiKey)
	query.Set("currencies", strings.Join(append(append([]string{}, symbols...), base), ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	// The provider reports errors in the body with a 200 status as often as
	// not, so decode regardless of the status code.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read rate response: %w", err)
	}

	var payload livePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed rate payload: %w", err)
	}
	if !payload.Success {
		return nil, fmt.Errorf("rate provider reported failure (status %d)", resp.StatusCode)
	}
	if len(payload.Quotes) == 0 {
		return nil, fmt.Errorf("rate payload contained no quotes")
	}

	return rebaseQuotes(payload, base)
}

// rebaseQuotes converts source-relative quotes into base-relative rates.
// Quotes are keyed SOURCE+CODE and valued code-units-per-source-unit; when
// the source differs from the requested base, each quote is divided by the
// source→base quote.
func rebaseQuotes(payload livePayload, base string) (map[string]decimal.Decimal, error) {
	baseCode := strings.ToUpper(strings.TrimSpace(base))
	source := strings.ToUpper(strings.TrimSpace(payload.Source))
	if source == "" {
		source = "USD"
	}

	sourceToBase := 1.0
	if source != baseCode {
		sourceToBase = payload.Quotes[source+baseCode]
		if math.IsNaN(sourceToBase) || sourceToBase <= 0 {
			return nil, fmt.Errorf("rate payload is missing the %s%s quote", source, baseCode)
		}
	}

	rates := make(map[string]decimal.Decimal)
	for key, raw := range payload.Quotes {
		if !strings.HasPrefix(key, source) || len(key) <= len(source) {
			continue
		}
		code := strings.ToUpper(key[len(source):])
		if code == baseCode {
			continue
		}
		if math.IsNaN(raw) || raw <= 0 {
			continue
		}
		rate := raw
		if source != baseCode {
			rate = raw / sourceToBase
		}
		rates[code] = decimal.NewFromFloat(rate)
	}
	return rates, nil
}
