package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPSource fetches quotes from a twelvedata-style REST endpoint:
// GET {base}/quote?symbol=AAPL&apikey=... returning a JSON object whose
// "close" field is the latest price as a decimal string.
type HTTPSource struct {
	base   string
	apiKey string
	client *http.Client
}

func NewHTTPSource(base, apiKey string) *HTTPSource {
	return &HTTPSource{
		base:   base,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type quoteResponse struct {
	Symbol  string `json:"symbol"`
	Close   string `json:"close"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *HTTPSource) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("apikey", h.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+"/quote?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build quote request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("fetch quote for %s: status %d", symbol, resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode quote for %s: %w", symbol, err)
	}

	// The API reports errors (including unknown symbols) in-band with a
	// code and message instead of an HTTP status.
	if body.Code != 0 {
		if body.Code == http.StatusNotFound {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
		}
		return decimal.Zero, fmt.Errorf("quote API error for %s: %d %s", symbol, body.Code, body.Message)
	}

	price, err := decimal.NewFromString(body.Close)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse quote %q for %s: %w", body.Close, symbol, err)
	}
	return price, nil
}
