package datafeed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/fazecat/orbwatch/Internal/types"
	"github.com/fazecat/orbwatch/Internal/utils"
)

type Bar = types.Bar

const (
	dataBaseURL  = "https://data.alpaca.markets"
	paperBaseURL = "https://paper-api.alpaca.markets"
)

// rawBar matches the Alpaca v2 bar payload; timestamps arrive as RFC3339
// strings and are parsed into types.Bar.
type rawBar struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
}

func (rb rawBar) toBar() (Bar, error) {
	ts, err := time.Parse(time.RFC3339, rb.Timestamp)
	if err != nil {
		return Bar{}, fmt.Errorf("parse bar timestamp %q: %w", rb.Timestamp, err)
	}
	return Bar{Timestamp: ts, Open: rb.Open, High: rb.High, Low: rb.Low, Close: rb.Close, Volume: rb.Volume}, nil
}

// GetIntradayBars fetches today's 1-minute bars for a symbol from the
// Alpaca data API, oldest first.
func GetIntradayBars(symbol string, sessionOpen time.Time, limit int) ([]Bar, error) {
	apiURL := fmt.Sprintf(
		"%s/v2/stocks/%s/bars?timeframe=1Min&limit=%d&start=%s",
		dataBaseURL, url.PathEscape(symbol), limit, url.QueryEscape(sessionOpen.UTC().Format(time.RFC3339)),
	)
	return fetchBars(apiURL)
}

// GetDailyBars fetches the most recent `days` daily bars for a symbol,
// oldest first. Used for the trailing average-volume baseline.
func GetDailyBars(symbol string, days int) ([]Bar, error) {
	start := time.Now().UTC().AddDate(0, 0, -(days*2 + 5)) // pad for weekends/holidays
	apiURL := fmt.Sprintf(
		"%s/v2/stocks/%s/bars?timeframe=1Day&limit=%d&start=%s",
		dataBaseURL, url.PathEscape(symbol), days, url.QueryEscape(start.Format(time.RFC3339)),
	)
	return fetchBars(apiURL)
}

func fetchBars(apiURL string) ([]Bar, error) {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	var bars []Bar
	retryConfig := utils.DefaultRetryConfig()

	err := utils.RetryWithBackoff(func() error {
		req, _ := http.NewRequest("GET", apiURL, nil)
		req.Header.Set("APCA-API-KEY-ID", apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", secretKey)

		client := &http.Client{Timeout: 15 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("data API returned status %d", resp.StatusCode)
		}

		type barsResponse struct {
			Bars []rawBar `json:"bars"`
		}
		var r barsResponse
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return err
		}

		bars = bars[:0]
		for _, rb := range r.Bars {
			b, err := rb.toBar()
			if err != nil {
				return err
			}
			bars = append(bars, b)
		}
		return nil
	}, retryConfig)

	if err != nil {
		return nil, err
	}
	return bars, nil
}

// GetLatestPrice returns the latest trade price for a symbol, which may
// sit ahead of the last bar's close mid-interval.
func GetLatestPrice(symbol string) (float64, error) {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	apiURL := fmt.Sprintf("%s/v2/stocks/%s/trades/latest", dataBaseURL, url.PathEscape(symbol))

	var price float64
	retryConfig := utils.DefaultRetryConfig()

	err := utils.RetryWithBackoff(func() error {
		req, _ := http.NewRequest("GET", apiURL, nil)
		req.Header.Set("APCA-API-KEY-ID", apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", secretKey)

		client := &http.Client{Timeout: 15 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to get latest trade: %s", resp.Status)
		}

		type tradeResponse struct {
			Trade struct {
				Price float64 `json:"p"`
			} `json:"trade"`
		}
		var r tradeResponse
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return err
		}
		price = r.Trade.Price
		return nil
	}, retryConfig)

	return price, err
}

// GetAverageDailyVolume computes the trailing average daily volume over
// the most recent `days` sessions.
func GetAverageDailyVolume(symbol string, days int) (float64, error) {
	bars, err := GetDailyBars(symbol, days)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, nil
	}
	volumes := make([]int64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return utils.CalculateAvgVolume(volumes, days), nil
}

var alpacaClient *alpaca.Client

func InitAlpacaClient() error {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	if apiKey == "" || secretKey == "" {
		return fmt.Errorf("ALPACA_API_KEY or ALPACA_API_SECRET not set")
	}

	alpacaClient = alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
		BaseURL:   paperBaseURL,
	})
	return nil
}

func GetAlpacaClient() *alpaca.Client {
	return alpacaClient
}

// GetTradableSymbols lists active tradable US equities via the Alpaca
// client. Useful for widening the scan universe beyond the config list.
func GetTradableSymbols() ([]string, error) {
	client := GetAlpacaClient()
	if client == nil {
		return nil, fmt.Errorf("alpaca client not initialized - call InitAlpacaClient() first")
	}

	assets, err := client.GetAssets(alpaca.GetAssetsRequest{Status: "active"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets from Alpaca: %v", err)
	}

	symbols := make([]string, 0, len(assets))
	for _, asset := range assets {
		if asset.Class == "us_equity" && asset.Tradable {
			symbols = append(symbols, asset.Symbol)
		}
	}
	return symbols, nil
}
