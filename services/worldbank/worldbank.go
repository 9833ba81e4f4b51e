package worldbank

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// World Bank API base URL
const BaseURL = "https://api.worldbank.org/v2"

// GDP growth (annual %) indicator code
const IndicatorGDPGrowth = "NY.GDP.MKTP.KD.ZG"

// DefaultRegions are the World Bank aggregate region codes served by the
// regional GDP endpoint.
var DefaultRegions = []string{"NAC", "EAS", "ECS", "LCN", "MEA", "SAS", "SSF"}

// AnnualPoint is one year of an annual indicator
type AnnualPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// wbEntry mirrors one element of the World Bank data array
type wbEntry struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Client fetches annual indicators from the World Bank API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a World Bank API client
func NewClient(timeout time.Duration) *Client {
	return &Client{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// fetchIndicator fetches an annual indicator for a country or aggregate.
// The API returns [metadata, data]; only the data array is used. Failures
// are logged and reported as an empty slice.
func (c *Client) fetchIndicator(country, indicator string, startYear, endYear int) []AnnualPoint {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("per_page", "100")
	params.Set("date", fmt.Sprintf("%d:%d", startYear, endYear))

	reqURL := fmt.Sprintf("%s/country/%s/indicator/%s?%s", c.baseURL, country, indicator, params.Encode())

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		log.Printf("World Bank API request failed for %s/%s: %v", country, indicator, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("World Bank API error for %s (status %d): %s", country, resp.StatusCode, string(body))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed to read World Bank response for %s: %v", country, err)
		return nil
	}

	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope) < 2 {
		log.Printf("Unexpected World Bank response shape for %s", country)
		return nil
	}

	var entries []wbEntry
	if err := json.Unmarshal(envelope[1], &entries); err != nil {
		log.Printf("Failed to parse World Bank data for %s: %v", country, err)
		return nil
	}

	points := make([]AnnualPoint, 0, len(entries))
	for _, e := range entries {
		if e.Value == nil {
			continue
		}
		year, err := strconv.Atoi(e.Date)
		if err != nil {
			continue
		}
		points = append(points, AnnualPoint{
			Year:  year,
			Value: roundTwo(*e.Value),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })

	log.Printf("Fetched %d annual points for %s/%s", len(points), country, indicator)
	return points
}

// GetGlobalGDPGrowth returns world GDP growth for the last five years
func (c *Client) GetGlobalGDPGrowth() []AnnualPoint {
	year := time.Now().Year()
	return c.fetchIndicator("WLD", IndicatorGDPGrowth, year-5, year)
}

// GetUSGDPGrowth returns United States GDP growth for the last five years
func (c *Client) GetUSGDPGrowth() []AnnualPoint {
	year := time.Now().Year()
	return c.fetchIndicator("USA", IndicatorGDPGrowth, year-5, year)
}

// GetRegionalGDPGrowth returns GDP growth per region aggregate. Regions that
// fail to fetch are simply absent from the result.
func (c *Client) GetRegionalGDPGrowth(regions []string) map[string][]AnnualPoint {
	if len(regions) == 0 {
		regions = DefaultRegions
	}

	year := time.Now().Year()
	result := make(map[string][]AnnualPoint, len(regions))
	for _, region := range regions {
		points := c.fetchIndicator(region, IndicatorGDPGrowth, year-5, year)
		if len(points) > 0 {
			result[region] = points
		}
	}
	return result
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
