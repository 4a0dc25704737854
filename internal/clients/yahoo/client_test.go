package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestGetQuote(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"regularMarketPrice": 200.0, "previousClose": 190.0},
					"timestamp": [1700000000],
					"indicators": {"quote": [{"close": [200.0]}]}
				}],
				"error": null
			}
		}`))
	})

	quote, err := client.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Ticker)
	assert.Equal(t, 200.0, quote.CurrentPrice)
	assert.Equal(t, 190.0, quote.PreviousClose)
	assert.InDelta(t, 5.26, quote.DailyChange, 0.01)
}

func TestGetQuote_ErrorPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}
		}`))
	})

	_, err := client.GetQuote(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuoteUnavailable))
}

func TestGetQuote_HTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuoteUnavailable))
}

func TestGetQuote_MissingPrices(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart": {"result": [{"meta": {}}], "error": null}}`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, ErrQuoteUnavailable))
}

func TestGetDailyCloses(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		assert.NotEmpty(t, r.URL.Query().Get("period2"))

		_, _ = w.Write([]byte(`{
			"chart": {
				"result": [{
					"meta": {"regularMarketPrice": 101.2, "previousClose": 100.5},
					"timestamp": [1, 2, 3],
					"indicators": {"quote": [{"close": [100.5, null, 101.2]}]}
				}],
				"error": null
			}
		}`))
	})

	closes, err := client.GetDailyCloses(context.Background(), "AAPL", 30)
	require.NoError(t, err)

	// Null entries are dropped
	assert.Equal(t, []float64{100.5, 101.2}, closes)
}

func TestGetDailyCloses_Error(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GetDailyCloses(context.Background(), "AAPL", 30)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHistoryUnavailable))
}

func TestGetQuote_ContextCancelled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetQuote(ctx, "AAPL")
	assert.Error(t, err)
}
