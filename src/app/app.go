package app

import (
	"context"
	"fmt"

	"papertrader/src/connectors"
	"papertrader/src/ledger"
	"papertrader/src/marketdata"
	"papertrader/src/prefs"
	"papertrader/src/server"
	"papertrader/src/stream"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

// Run wires the core components together and serves the API until the
// process is signalled to stop.
func Run() error {
	config := GetConfig()

	settings, err := prefs.Open(prefs.GetConfig().DBPath)
	if err != nil {
		return fmt.Errorf("init preferences store: %w", err)
	}

	book := ledger.NewPaperLedger(decimal.NewFromFloat(config.InitialBalance))
	store := marketdata.NewSnapshotStore(connectors.NewCoinGeckoClient(config.CoinGeckoBaseURL))
	ticker := stream.NewTickerClient(config.StreamBaseURL)
	klines := connectors.NewBinanceKlines(config.KlinesEndpoint)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.StartPolling(ctx, config.PollPeriod)

	// Daily roll of the 24h reference balance.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(config.RollSchedule, book.RollPreviousBalance); err != nil {
		return fmt.Errorf("invalid roll schedule %q: %w", config.RollSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if err := ticker.Connect(config.DefaultSymbol); err != nil {
		logger.WithError(err).Warn("initial ticker connect failed, reconnect pending")
	}
	defer ticker.Disconnect()

	server.StartServer(server.GetConfig().Port, server.Deps{
		Store:    store,
		Ticker:   ticker,
		Ledger:   book,
		Klines:   klines,
		Settings: settings,
	})
	return nil
}
