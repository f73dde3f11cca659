package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"papertrader/src/marketdata"
	"papertrader/src/model"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

type snapshotReader interface {
	Assets() []model.Asset
	Search(query string) []model.Asset
	Status() marketdata.LoadStatus
	Loading() bool
	Err() error
	PriceHistory(ctx context.Context, assetID string, days int) []model.PricePoint
}

type assetListResponse struct {
	Status  marketdata.LoadStatus `json:"status"`
	Loading bool                  `json:"loading"`
	Error   string                `json:"error,omitempty"`
	Assets  []model.Asset         `json:"assets"`
}

// ListAssetsHandler returns the current snapshot, optionally filtered by the
// q parameter. Stale data with an error beats an empty error response.
func ListAssetsHandler(store snapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets := store.Assets()
		if q := r.URL.Query().Get("q"); q != "" {
			assets = store.Search(q)
		}

		out := assetListResponse{
			Status:  store.Status(),
			Loading: store.Loading(),
			Assets:  assets,
		}
		if err := store.Err(); err != nil {
			out.Error = err.Error()
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// PriceHistoryHandler serves the historical series for one asset. The fetch
// is best effort; with fallback=mock an empty result is replaced by the
// deterministic mock series for the given symbol.
func PriceHistoryHandler(store snapshotReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID := chi.URLParam(r, "id")

		days := 1
		if daysParam := r.URL.Query().Get("days"); daysParam != "" {
			parsed, err := strconv.Atoi(daysParam)
			if err != nil || parsed <= 0 {
				http.Error(w, "invalid days", http.StatusBadRequest)
				return
			}
			days = parsed
		}

		points := store.PriceHistory(r.Context(), assetID, days)
		if len(points) == 0 && r.URL.Query().Get("fallback") == "mock" {
			symbol := strings.ToUpper(r.URL.Query().Get("symbol"))
			points = model.MockSeries(symbol, time.Now().UTC())
		}

		writeJSON(w, http.StatusOK, points)
	}
}

type klinesFetcher interface {
	Fetch(symbol, quote string, limit int) ([]model.Candle, error)
}

// KlinesHandler serves hourly candles for the chart surface.
func KlinesHandler(fetcher klinesFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

		limit := 100
		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			parsed, err := strconv.Atoi(limitParam)
			if err != nil || parsed <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		candles, err := fetcher.Fetch(symbol, "USDT", limit)
		if err != nil {
			logger.WithError(err).WithField("symbol", symbol).Error("klines fetch failed")
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, candles)
	}
}
