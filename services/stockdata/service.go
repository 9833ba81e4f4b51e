package stockdata

import (
	"log"
	"math"
	"time"
)

// DataSource identifies where stock data comes from. The choice is made once
// at construction and logged, never silently at call time.
type DataSource string

const (
	SourceLive      DataSource = "live"      // Alpha Vantage API
	SourceSynthetic DataSource = "synthetic" // generated fallback data
)

// DailyBar is one trading day of OHLCV data
type DailyBar struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Quote is a realtime snapshot of the tracked ticker
type Quote struct {
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    string  `json:"change_percent"`
	Volume           int64   `json:"volume"`
	LatestTradingDay string  `json:"latest_trading_day"`
}

// PeriodDays maps a dashboard period name to calendar days
func PeriodDays(period string) int {
	switch period {
	case "1d":
		return 1
	case "5d":
		return 5
	case "1mo":
		return 30
	case "3mo":
		return 90
	case "6mo":
		return 180
	case "1y", "ytd":
		return 365
	case "2y":
		return 730
	case "5y", "max":
		return 1825
	case "10y":
		return 3650
	default:
		return 365
	}
}

// Service serves daily stock data for one ticker, from Alpha Vantage when an
// API key is configured and from the synthetic generator otherwise. A live
// service still degrades to synthetic data when the API returns nothing.
type Service struct {
	ticker    string
	source    DataSource
	client    *AlphaVantageClient
	generator *SyntheticGenerator
}

// NewService creates a stock data service. The data source variant is chosen
// here, by the presence of an API key, and logged.
func NewService(apiKey, ticker string, timeout time.Duration) *Service {
	s := &Service{
		ticker:    ticker,
		generator: NewSyntheticGenerator(),
	}

	if apiKey != "" && apiKey != "demo" {
		s.source = SourceLive
		s.client = NewAlphaVantageClient(apiKey, ticker, timeout)
		log.Printf("Stock data source for %s: live (Alpha Vantage)", ticker)
	} else {
		s.source = SourceSynthetic
		log.Printf("Stock data source for %s: synthetic (no Alpha Vantage API key)", ticker)
	}

	return s
}

// Ticker returns the tracked symbol
func (s *Service) Ticker() string {
	return s.ticker
}

// Source returns the configured data source variant
func (s *Service) Source() DataSource {
	return s.source
}

// GetHistoricalData returns daily bars for the named period, oldest first.
// An empty result means no data was available, not an error.
func (s *Service) GetHistoricalData(period string) []DailyBar {
	if s.source == SourceLive {
		bars, err := s.client.GetHistoricalData(period)
		if err != nil {
			log.Printf("Alpha Vantage failed (%v), falling back to synthetic data", err)
		} else if len(bars) > 0 {
			return bars
		} else {
			log.Printf("Alpha Vantage returned no data, falling back to synthetic data")
		}
	}

	bars := s.generator.Generate(PeriodDays(period))
	log.Printf("Generated %d synthetic bars for %s", len(bars), s.ticker)
	return bars
}

// GetCurrentPrice returns the most recent close, or the realtime quote when
// the live source is available.
func (s *Service) GetCurrentPrice() *float64 {
	if s.source == SourceLive {
		quote, err := s.client.GetGlobalQuote()
		if err != nil {
			log.Printf("Global quote failed, using daily data: %v", err)
		} else if quote.Price > 0 {
			return &quote.Price
		}
	}

	bars := s.GetHistoricalData("5d")
	if len(bars) == 0 {
		return nil
	}
	price := bars[len(bars)-1].Close
	return &price
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
