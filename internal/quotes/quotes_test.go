package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPrice(t *testing.T) {
	feed := NewStatic(map[string]decimal.Decimal{
		"AAPL": decimal.RequireFromString("150.25"),
	})

	price, err := feed.Price(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("150.25")))
}

func TestStaticUnknownSymbol(t *testing.T) {
	feed := NewStatic(nil)

	_, err := feed.Price(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestStaticSetUpdatesPrice(t *testing.T) {
	feed := NewStatic(map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(150)})
	feed.Set("AAPL", decimal.NewFromInt(160))

	price, err := feed.Price(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(160)))
}

// TestHTTPSourcePrice verifies the happy path against a fake quote endpoint,
// including the query parameters the API expects.
func TestHTTPSourcePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","close":"189.4300"}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "test-key")

	price, err := source.Price(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("189.43")), "got %s", price)
}

// TestHTTPSourceInBandNotFound verifies the API's in-band error convention:
// HTTP 200 with a code/message body.
func TestHTTPSourceInBandNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":404,"message":"symbol not found"}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "test-key")

	_, err := source.Price(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestHTTPSourceInBandAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":429,"message":"rate limited"}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "test-key")

	_, err := source.Price(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestHTTPSourceNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "test-key")

	_, err := source.Price(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPSourceMalformedPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"AAPL","close":"not-a-number"}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "test-key")

	_, err := source.Price(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestHTTPSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	source := NewHTTPSource(srv.URL, "test-key")

	_, err := source.Price(context.Background(), "AAPL")
	require.Error(t, err)
}
