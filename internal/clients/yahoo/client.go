// Package yahoo provides a Yahoo Finance chart API client for quotes and
// historical closing prices.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Sentinel errors for the two fetch operations. Both are transient and
// per-ticker; retry policy belongs to the caller.
var (
	ErrQuoteUnavailable   = errors.New("quote unavailable")
	ErrHistoryUnavailable = errors.New("history unavailable")
)

// DefaultBaseURL is the public Yahoo Finance chart endpoint
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Client is a Yahoo Finance chart API client
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client. baseURL may be empty to use
// the public endpoint; timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

// GetQuote fetches the current price and previous close for a ticker.
// Daily change is computed as (current - previousClose) / previousClose * 100.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*Quote, error) {
	params := url.Values{}
	params.Add("interval", "1d")

	result, err := c.fetchChart(ctx, ticker, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}

	currentPrice := result.Meta.RegularMarketPrice
	previousClose := result.Meta.PreviousClose
	if previousClose == 0 {
		previousClose = result.Meta.ChartPreviousClose
	}
	if currentPrice == 0 || previousClose == 0 {
		return nil, fmt.Errorf("%w: no price data for %s", ErrQuoteUnavailable, ticker)
	}

	return &Quote{
		Ticker:        ticker,
		CurrentPrice:  currentPrice,
		PreviousClose: previousClose,
		DailyChange:   (currentPrice - previousClose) / previousClose * 100,
	}, nil
}

// GetDailyCloses fetches up to lookbackDays of daily closing prices,
// oldest first. Null entries are dropped, so the result may be shorter
// than requested when the provider has less history.
func (c *Client) GetDailyCloses(ctx context.Context, ticker string, lookbackDays int) ([]float64, error) {
	end := time.Now().Unix()
	start := end - int64(lookbackDays)*24*60*60

	params := url.Values{}
	params.Add("period1", fmt.Sprintf("%d", start))
	params.Add("period2", fmt.Sprintf("%d", end))
	params.Add("interval", "1d")

	result, err := c.fetchChart(ctx, ticker, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote indicators for %s", ErrHistoryUnavailable, ticker)
	}

	var closes []float64
	for _, price := range result.Indicators.Quote[0].Close {
		if price != nil {
			closes = append(closes, *price)
		}
	}

	c.log.Debug().
		Str("ticker", ticker).
		Int("days", lookbackDays).
		Int("count", len(closes)).
		Msg("Fetched historical closes")

	return closes, nil
}

// fetchChart performs a single chart API request. Transport errors,
// non-success statuses and error payloads are all failures.
func (c *Client) fetchChart(ctx context.Context, ticker string, params url.Values) (*chartResult, error) {
	reqURL := c.baseURL + "/" + url.PathEscape(ticker) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Yahoo rejects requests without a browser-like user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PortfolioDashboard/1.0)")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chart API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %v", parsed.Chart.Error)
	}

	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data returned for %s", ticker)
	}

	return &parsed.Chart.Result[0], nil
}
