package klines

import (
	"papertrader/src/connectors"

	logger "github.com/sirupsen/logrus"
)

// Klines fetches recent hourly candles and logs them, useful for checking
// the candlestick feed without starting the server.
type Klines struct {
	Log    *logger.Entry
	Config *Config
}

func (k *Klines) Start() error {
	k.Config = GetConfig()

	fetcher := connectors.NewBinanceKlines(k.Config.Endpoint)

	candles, err := fetcher.Fetch(k.Config.Symbol, k.Config.Quote, k.Config.Limit)
	if err != nil {
		return err
	}

	for i := range candles {
		c := candles[i]
		k.Log.WithFields(logger.Fields{
			"Datetime": c.Datetime,
			"Open":     c.Open.String(),
			"High":     c.High.String(),
			"Low":      c.Low.String(),
			"Close":    c.Close.String(),
			"Volume":   c.Volume.String(),
			"Symbol":   c.Symbol,
		}).Info("candle")
	}

	return nil
}
