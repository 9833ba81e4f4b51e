package stockdata

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testAVClient(serverURL string) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     "test-key",
		ticker:     "NVDA",
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGetDailyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("want TIME_SERIES_DAILY, got %s", q.Get("function"))
		}
		if q.Get("symbol") != "NVDA" {
			t.Errorf("want symbol NVDA, got %s", q.Get("symbol"))
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("want apikey test-key, got %s", q.Get("apikey"))
		}

		w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "NVDA"},
			"Time Series (Daily)": {
				"2024-03-04": {"1. open": "121.10", "2. high": "122.00", "3. low": "120.50", "4. close": "121.789", "5. volume": "31000000"},
				"2024-03-01": {"1. open": "118.00", "2. high": "121.00", "3. low": "117.00", "4. close": "120.00", "5. volume": "30000000"},
				"2024-03-02": {"1. open": "bad", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}
			}
		}`))
	}))
	defer server.Close()

	bars, err := testAVClient(server.URL).GetDailyData("compact")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Invalid bar dropped, rest sorted oldest first
	if len(bars) != 2 {
		t.Fatalf("want 2 bars, got %d: %+v", len(bars), bars)
	}
	if bars[0].Date != "2024-03-01" || bars[1].Date != "2024-03-04" {
		t.Fatalf("bars not sorted oldest first: %+v", bars)
	}
	if bars[1].Close != 121.79 {
		t.Fatalf("want rounded close 121.79, got %v", bars[1].Close)
	}
	if bars[0].Volume != 30000000 {
		t.Fatalf("want volume 30000000, got %d", bars[0].Volume)
	}
}

func TestGetDailyData_APIErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call"}`))
	}))
	defer server.Close()

	if _, err := testAVClient(server.URL).GetDailyData("compact"); err == nil {
		t.Fatal("want error for API error message")
	}
}

func TestGetHistoricalData_TrimsToPeriod(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("outputsize"); got != "compact" {
			t.Errorf("5d should use compact output, got %s", got)
		}
		w.Write([]byte(`{
			"Time Series (Daily)": {
				"2024-03-01": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"},
				"2024-03-04": {"1. open": "2", "2. high": "2", "3. low": "2", "4. close": "2", "5. volume": "2"},
				"2024-03-05": {"1. open": "3", "2. high": "3", "3. low": "3", "4. close": "3", "5. volume": "3"},
				"2024-03-06": {"1. open": "4", "2. high": "4", "3. low": "4", "4. close": "4", "5. volume": "4"},
				"2024-03-07": {"1. open": "5", "2. high": "5", "3. low": "5", "4. close": "5", "5. volume": "5"},
				"2024-03-08": {"1. open": "6", "2. high": "6", "3. low": "6", "4. close": "6", "5. volume": "6"}
			}
		}`))
	}))
	defer server.Close()

	bars, err := testAVClient(server.URL).GetHistoricalData("5d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 5 {
		t.Fatalf("want 5 bars, got %d", len(bars))
	}
	if bars[0].Date != "2024-03-04" {
		t.Fatalf("trim should drop the oldest bar, got first %s", bars[0].Date)
	}
}

func TestGetGlobalQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("want GLOBAL_QUOTE, got %s", got)
		}
		w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "NVDA",
				"05. price": "121.7890",
				"06. volume": "31000000",
				"07. latest trading day": "2024-03-04",
				"09. change": "1.50",
				"10. change percent": "1.2470%"
			}
		}`))
	}))
	defer server.Close()

	quote, err := testAVClient(server.URL).GetGlobalQuote()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 121.79 {
		t.Fatalf("want price 121.79, got %v", quote.Price)
	}
	if quote.ChangePercent != "1.2470%" {
		t.Fatalf("want change percent 1.2470%%, got %s", quote.ChangePercent)
	}
	if quote.LatestTradingDay != "2024-03-04" {
		t.Fatalf("want latest trading day 2024-03-04, got %s", quote.LatestTradingDay)
	}
}
