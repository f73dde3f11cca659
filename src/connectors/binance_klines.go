package connectors

import (
	"fmt"
	"net/http"
	"time"

	"papertrader/src/model"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/shopspring/decimal"
)

// BinanceKlines fetches hourly candles for the chart surface. Consumers only
// read it, nothing in the core depends on it.
type BinanceKlines struct {
	exchange goex.API
}

func NewBinanceKlines(endpoint string) *BinanceKlines {
	if endpoint == "" {
		endpoint = binance.GLOBAL_API_BASE_URL
	}
	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   endpoint,
	}
	return &BinanceKlines{exchange: binance.NewWithConfig(apiConfig)}
}

// Fetch returns up to limit 1h candles for symbol/quote, e.g. ("BTC", "USDT", 100).
func (b *BinanceKlines) Fetch(symbol, quote string, limit int) ([]model.Candle, error) {
	pair := goex.NewCurrencyPair(goex.Currency{Symbol: symbol}, goex.Currency{Symbol: quote})

	klines, err := b.exchange.GetKlineRecords(pair, goex.KLINE_PERIOD_1H, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	candles := make([]model.Candle, 0, len(klines))
	for i := range klines {
		k := klines[i]
		candles = append(candles, model.Candle{
			Datetime: time.Unix(k.Timestamp, 0).UTC(),
			Open:     decimal.NewFromFloat(k.Open),
			High:     decimal.NewFromFloat(k.High),
			Low:      decimal.NewFromFloat(k.Low),
			Close:    decimal.NewFromFloat(k.Close),
			Volume:   decimal.NewFromFloat(k.Vol),
			Symbol:   k.Pair.String(),
		})
	}
	return candles, nil
}
