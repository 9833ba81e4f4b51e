package stockdata

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Alpha Vantage API base URL
const AlphaVantageBaseURL = "https://www.alphavantage.co/query"

// Minimum delay between requests. The free tier allows 5 requests/minute.
const rateLimitDelay = 12 * time.Second

// AlphaVantageClient fetches daily OHLCV data from the Alpha Vantage API.
// Calls are serialized and spaced out to respect the rate limit.
type AlphaVantageClient struct {
	apiKey     string
	ticker     string
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// NewAlphaVantageClient creates an Alpha Vantage client for one ticker
func NewAlphaVantageClient(apiKey, ticker string, timeout time.Duration) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:  apiKey,
		ticker:  ticker,
		baseURL: AlphaVantageBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// makeRequest performs a rate-limited GET against the API
func (c *AlphaVantageClient) makeRequest(params url.Values) (map[string]json.RawMessage, error) {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < rateLimitDelay {
		wait := rateLimitDelay - elapsed
		log.Printf("Alpha Vantage rate limiting: waiting %.1fs", wait.Seconds())
		time.Sleep(wait)
	}
	c.mu.Unlock()

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.mu.Lock()
	c.lastRequest = time.Now()
	c.mu.Unlock()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if raw, ok := payload["Error Message"]; ok {
		return nil, fmt.Errorf("API error: %s", string(raw))
	}
	if raw, ok := payload["Note"]; ok {
		log.Printf("Alpha Vantage note: %s", string(raw))
	}

	return payload, nil
}

// avDailyValues mirrors one day inside "Time Series (Daily)"
type avDailyValues struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// GetDailyData fetches the daily time series. outputsize is "compact"
// (100 days) or "full" (20+ years). Days with unparsable fields are skipped
// with a warning.
func (c *AlphaVantageClient) GetDailyData(outputsize string) ([]DailyBar, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", c.ticker)
	params.Set("outputsize", outputsize)

	log.Printf("Fetching daily data for %s from Alpha Vantage", c.ticker)
	payload, err := c.makeRequest(params)
	if err != nil {
		return nil, err
	}

	raw, ok := payload["Time Series (Daily)"]
	if !ok {
		return nil, fmt.Errorf("no time series data in response")
	}

	var series map[string]avDailyValues
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("failed to parse time series: %w", err)
	}

	bars := make([]DailyBar, 0, len(series))
	for date, v := range series {
		bar, err := parseBar(date, v)
		if err != nil {
			log.Printf("Skipping invalid bar for %s: %v", date, err)
			continue
		}
		bars = append(bars, bar)
	}

	// Oldest first
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })

	log.Printf("Fetched %d days of data for %s", len(bars), c.ticker)
	return bars, nil
}

func parseBar(date string, v avDailyValues) (DailyBar, error) {
	open, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return DailyBar{}, fmt.Errorf("open: %w", err)
	}
	high, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return DailyBar{}, fmt.Errorf("high: %w", err)
	}
	low, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return DailyBar{}, fmt.Errorf("low: %w", err)
	}
	closePrice, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return DailyBar{}, fmt.Errorf("close: %w", err)
	}
	volume, err := strconv.ParseInt(v.Volume, 10, 64)
	if err != nil {
		return DailyBar{}, fmt.Errorf("volume: %w", err)
	}

	return DailyBar{
		Date:   date,
		Open:   round2(open),
		High:   round2(high),
		Low:    round2(low),
		Close:  round2(closePrice),
		Volume: volume,
	}, nil
}

// GetHistoricalData fetches daily bars trimmed to a named period
func (c *AlphaVantageClient) GetHistoricalData(period string) ([]DailyBar, error) {
	days := PeriodDays(period)

	// compact covers 100 days, anything longer needs the full series
	outputsize := "compact"
	if days > 100 {
		outputsize = "full"
	}

	bars, err := c.GetDailyData(outputsize)
	if err != nil {
		return nil, err
	}

	if days < len(bars) {
		return bars[len(bars)-days:], nil
	}
	return bars, nil
}

// GetGlobalQuote fetches the realtime quote endpoint, which is cheaper than
// pulling the whole daily series.
func (c *AlphaVantageClient) GetGlobalQuote() (*Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", c.ticker)

	payload, err := c.makeRequest(params)
	if err != nil {
		return nil, err
	}

	raw, ok := payload["Global Quote"]
	if !ok {
		return nil, fmt.Errorf("no quote data in response")
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse quote: %w", err)
	}

	price, err := strconv.ParseFloat(fields["05. price"], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quote price: %w", err)
	}
	change, _ := strconv.ParseFloat(fields["09. change"], 64)
	volume, _ := strconv.ParseInt(fields["06. volume"], 10, 64)

	return &Quote{
		Price:            round2(price),
		Change:           round2(change),
		ChangePercent:    fields["10. change percent"],
		Volume:           volume,
		LatestTradingDay: fields["07. latest trading day"],
	}, nil
}
