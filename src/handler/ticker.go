package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"papertrader/src/stream"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

type tickerAPI interface {
	Connect(symbol string) error
	Disconnect()
	Price() decimal.Decimal
	State() stream.State
	Symbol() string
}

type tickerResponse struct {
	Symbol string          `json:"symbol"`
	State  stream.State    `json:"state"`
	Price  decimal.Decimal `json:"price"`
}

// TickerStatusHandler reports the live stream's symbol, state and last price.
func TickerStatusHandler(ticker tickerAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tickerResponse{
			Symbol: ticker.Symbol(),
			State:  ticker.State(),
			Price:  ticker.Price(),
		})
	}
}

// SwitchTickerHandler replaces the live stream subscription with the
// requested symbol. A dial failure is not fatal, the client keeps retrying,
// so it still answers 202.
func SwitchTickerHandler(ticker tickerAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Symbol string `json:"symbol"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Symbol) == "" {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if err := ticker.Connect(in.Symbol); err != nil {
			logger.WithError(err).WithField("symbol", in.Symbol).Warn("ticker connect failed, reconnect pending")
		}

		writeJSON(w, http.StatusAccepted, tickerResponse{
			Symbol: ticker.Symbol(),
			State:  ticker.State(),
			Price:  ticker.Price(),
		})
	}
}

// StopTickerHandler disconnects the live stream.
func StopTickerHandler(ticker tickerAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticker.Disconnect()
		w.WriteHeader(http.StatusNoContent)
	}
}
