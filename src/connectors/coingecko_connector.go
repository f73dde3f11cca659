// REST API CLIENT FOR THE COINGECKO PUBLIC MARKET DATA
// RESTY ONLY + INTERNAL RETRY
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"papertrader/src/model"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

type CoinGeckoMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             float64  `json:"current_price"`
	MarketCap                float64  `json:"market_cap"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// -----------------------------
// CLIENT
// -----------------------------
type CoinGeckoClient struct {
	baseURL string
	http    *resty.Client
	limiter *rate.Limiter
}

func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	retryCount := defaultRetryAttempts - 1

	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultCoinGeckoBaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	// CoinGecko's free tier allows roughly 30 calls per minute.
	limiter := rate.NewLimiter(rate.Every(2*time.Second), 5)

	return &CoinGeckoClient{
		baseURL: baseURL,
		http:    httpClient,
		limiter: limiter,
	}
}

// FetchTopAssets returns the top-100 assets by market cap, descending.
// Symbols come back normalized to uppercase; a missing 24h change maps to 0.
func (c *CoinGeckoClient) FetchTopAssets(ctx context.Context) ([]model.Asset, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"order":       "market_cap_desc",
			"per_page":    "100",
			"page":        "1",
			"sparkline":   "false",
		}).
		Get("/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrNetwork, resp.StatusCode(), resp.Body())
	}

	var rows []CoinGeckoMarket
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	assets := make([]model.Asset, 0, len(rows))
	for _, row := range rows {
		change := 0.0
		if row.PriceChangePercentage24h != nil {
			change = *row.PriceChangePercentage24h
		}
		assets = append(assets, model.Asset{
			ID:             row.ID,
			Symbol:         strings.ToUpper(row.Symbol),
			Name:           row.Name,
			Price:          row.CurrentPrice,
			PriceChange24h: change,
			MarketCap:      row.MarketCap,
			ImageURL:       row.Image,
		})
	}
	return assets, nil
}

// FetchMarketChart returns the price series for one asset spanning the
// requested number of days, ascending by timestamp.
func (c *CoinGeckoClient) FetchMarketChart(ctx context.Context, assetID string, days int) ([]model.PricePoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	endpoint := fmt.Sprintf("/coins/%s/market_chart", url.PathEscape(assetID))

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"days":        fmt.Sprintf("%d", days),
		}).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrNetwork, resp.StatusCode(), resp.Body())
	}

	var decoded marketChartResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	points := make([]model.PricePoint, 0, len(decoded.Prices))
	for _, pair := range decoded.Prices {
		if len(pair) < 2 {
			continue
		}
		points = append(points, model.PricePoint{
			Timestamp: time.UnixMilli(int64(pair[0])).UTC(),
			Price:     pair[1],
		})
	}
	return points, nil
}
