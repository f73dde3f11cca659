package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"papertrader/src/ledger"
	"papertrader/src/model"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

type ledgerAPI interface {
	OpenPosition(req ledger.OpenPositionRequest) (model.Position, error)
	Balance() decimal.Decimal
	PreviousBalance() decimal.Decimal
	BalanceChange() decimal.Decimal
	BalanceChangePercentage() (decimal.Decimal, bool)
	TotalPositionValue() decimal.Decimal
	Positions() []model.Position
}

type settingsLoader interface {
	Load(ctx context.Context) (model.Settings, error)
}

type portfolioResponse struct {
	Balance            decimal.Decimal  `json:"balance"`
	PreviousBalance    decimal.Decimal  `json:"previous_balance"`
	BalanceChange      decimal.Decimal  `json:"balance_change"`
	BalanceChangePct   *decimal.Decimal `json:"balance_change_percentage"`
	TotalPositionValue decimal.Decimal  `json:"total_position_value"`
	Positions          []model.Position `json:"positions"`
}

// PortfolioHandler returns the ledger state and its derived aggregates.
// balance_change_percentage is null when previousBalance is zero.
func PortfolioHandler(book ledgerAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := portfolioResponse{
			Balance:            book.Balance(),
			PreviousBalance:    book.PreviousBalance(),
			BalanceChange:      book.BalanceChange(),
			TotalPositionValue: book.TotalPositionValue(),
			Positions:          book.Positions(),
		}
		if pct, ok := book.BalanceChangePercentage(); ok {
			out.BalanceChangePct = &pct
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type openPositionRequest struct {
	Symbol     string           `json:"symbol"`
	Amount     decimal.Decimal  `json:"amount"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	Leverage   decimal.Decimal  `json:"leverage"`
	StopLoss   *decimal.Decimal `json:"stop_loss,omitempty"`
	TakeProfit *decimal.Decimal `json:"take_profit,omitempty"`
}

type tradeRejection struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// OpenPositionHandler opens a simulated position. Validation failures come
// back as 422 naming the precondition that failed; the leverage ceiling from
// the user settings is enforced here, not in the ledger.
func OpenPositionHandler(book ledgerAPI, settings settingsLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in openPositionRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		cfg, err := settings.Load(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to load settings")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if in.Leverage.GreaterThan(decimal.NewFromFloat(cfg.MaxLeverage)) {
			writeJSON(w, http.StatusUnprocessableEntity, tradeRejection{
				Field:  "leverage",
				Reason: "exceeds configured maximum",
			})
			return
		}

		pos, err := book.OpenPosition(ledger.OpenPositionRequest{
			Symbol:     in.Symbol,
			Amount:     in.Amount,
			EntryPrice: in.EntryPrice,
			Leverage:   in.Leverage,
			StopLoss:   in.StopLoss,
			TakeProfit: in.TakeProfit,
		})
		if err != nil {
			var verr *ledger.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, tradeRejection{
					Field:  verr.Field,
					Reason: verr.Reason,
				})
				return
			}
			logger.WithError(err).Error("failed to open position")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, pos)
	}
}
