package fred

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// FRED API base URL
const BaseURL = "https://api.stlouisfed.org/fred"

// Series IDs used by the dashboard
const (
	SeriesFederalFunds = "FEDFUNDS"        // Federal Funds Effective Rate, monthly
	SeriesRealGDP      = "A191RL1Q225SBEA" // Real GDP, percent change from previous period, quarterly
	SeriesCPI          = "CPIAUCSL"        // CPI for All Urban Consumers, monthly
)

// Observation is a single raw data point from a FRED series. Value stays a
// string: FRED reports missing points as "." and the reconciliation step
// decides what to skip.
type Observation struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Value string `json:"value"`
}

// observationsResponse mirrors the FRED series/observations envelope
type observationsResponse struct {
	Observations []Observation `json:"observations"`
}

// Client fetches economic series from the FRED API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a FRED API client
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// fetchSeries fetches raw observations for a series over a date range.
// Failures are logged and reported as an empty slice; callers treat empty
// as "no data available".
func (c *Client) fetchSeries(seriesID, startDate, endDate string) []Observation {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("observation_start", startDate)
	params.Set("observation_end", endDate)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	reqURL := fmt.Sprintf("%s/series/observations?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		log.Printf("FRED API request failed for %s: %v", seriesID, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("FRED API error for %s (status %d): %s", seriesID, resp.StatusCode, string(body))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed to read FRED response for %s: %v", seriesID, err)
		return nil
	}

	var obsResp observationsResponse
	if err := json.Unmarshal(body, &obsResp); err != nil {
		log.Printf("Failed to parse FRED response for %s: %v", seriesID, err)
		return nil
	}

	log.Printf("Fetched %d observations for FRED series %s", len(obsResp.Observations), seriesID)
	return obsResp.Observations
}

// GetFederalFundsRate returns the last year of monthly federal funds rate
// observations.
func (c *Client) GetFederalFundsRate() []Observation {
	end := time.Now()
	start := end.AddDate(-1, 0, 0)
	return c.fetchSeries(SeriesFederalFunds, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// GetGDPGrowth returns the last two years of quarterly US real GDP growth
// observations.
func (c *Client) GetGDPGrowth() []Observation {
	end := time.Now()
	start := end.AddDate(-2, 0, 0)
	return c.fetchSeries(SeriesRealGDP, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// GetCPI returns the last three years of monthly CPI index levels. Three
// years gives the year-over-year calculation enough lead-in.
func (c *Client) GetCPI() []Observation {
	end := time.Now()
	start := end.AddDate(-3, 0, 0)
	return c.fetchSeries(SeriesCPI, start.Format("2006-01-02"), end.Format("2006-01-02"))
}
