package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"papertrader/src/connectors"
	"papertrader/src/handler"
	"papertrader/src/ledger"
	"papertrader/src/marketdata"
	"papertrader/src/prefs"
	"papertrader/src/stream"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

// Deps bundles the core components the HTTP surface reads from.
type Deps struct {
	Store    *marketdata.SnapshotStore
	Ticker   *stream.TickerClient
	Ledger   *ledger.PaperLedger
	Klines   *connectors.BinanceKlines
	Settings *prefs.Store
}

// NewRouter mounts the JSON API over the core components.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("\"/healthcheck\" error")
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/assets", handler.ListAssetsHandler(deps.Store))
		r.Get("/assets/{id}/history", handler.PriceHistoryHandler(deps.Store))
		r.Get("/assets/{symbol}/klines", handler.KlinesHandler(deps.Klines))

		r.Get("/portfolio", handler.PortfolioHandler(deps.Ledger))
		r.Post("/positions", handler.OpenPositionHandler(deps.Ledger, deps.Settings))

		r.Get("/ticker", handler.TickerStatusHandler(deps.Ticker))
		r.Post("/ticker", handler.SwitchTickerHandler(deps.Ticker))
		r.Delete("/ticker", handler.StopTickerHandler(deps.Ticker))

		r.Get("/settings", handler.GetSettingsHandler(deps.Settings))
		r.Put("/settings", handler.PutSettingsHandler(deps.Settings))
	})

	return r
}

// StartServer blocks until SIGINT or SIGTERM, then shuts down gracefully.
func StartServer(port string, deps Deps) {
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(deps),
	}

	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
