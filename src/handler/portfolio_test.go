package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"papertrader/src/ledger"
	"papertrader/src/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	settings model.Settings
	err      error
}

func (f *fakeSettings) Load(context.Context) (model.Settings, error) {
	return f.settings, f.err
}

func defaultFakeSettings() *fakeSettings {
	return &fakeSettings{settings: model.Settings{MaxLeverage: 10, DefaultLeverage: 1, AccentColor: "#007AFF", Theme: "system"}}
}

func TestOpenPositionHandlerSuccess(t *testing.T) {
	book := ledger.NewPaperLedger(decimal.NewFromInt(100000))
	h := OpenPositionHandler(book, defaultFakeSettings())

	body := `{"symbol":"ETH","amount":"2","entry_price":"2300","leverage":"2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/positions", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var pos model.Position
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pos))
	assert.Equal(t, "ETH", pos.Symbol)
	assert.True(t, book.Balance().Equal(decimal.NewFromInt(90800)), "balance %s", book.Balance())
	assert.Len(t, book.Positions(), 1)
}

func TestOpenPositionHandlerValidationFailure(t *testing.T) {
	book := ledger.NewPaperLedger(decimal.NewFromInt(100))
	h := OpenPositionHandler(book, defaultFakeSettings())

	body := `{"symbol":"BTC","amount":"1","entry_price":"45000","leverage":"1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/positions", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var rej tradeRejection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rej))
	assert.Equal(t, "order_value", rej.Field)
	assert.True(t, book.Balance().Equal(decimal.NewFromInt(100)), "rejected trade must not touch the balance")
}

func TestOpenPositionHandlerLeverageCeiling(t *testing.T) {
	book := ledger.NewPaperLedger(decimal.NewFromInt(100000))
	h := OpenPositionHandler(book, defaultFakeSettings())

	body := `{"symbol":"BTC","amount":"0.1","entry_price":"45000","leverage":"25"}`
	req := httptest.NewRequest(http.MethodPost, "/api/positions", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var rej tradeRejection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rej))
	assert.Equal(t, "leverage", rej.Field)
	assert.Empty(t, book.Positions())
}

func TestOpenPositionHandlerBadBody(t *testing.T) {
	book := ledger.NewPaperLedger(decimal.NewFromInt(100000))
	h := OpenPositionHandler(book, defaultFakeSettings())

	req := httptest.NewRequest(http.MethodPost, "/api/positions", strings.NewReader(`{"amount": what}`))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPortfolioHandler(t *testing.T) {
	book := ledger.NewPaperLedger(decimal.NewFromInt(100000))
	_, err := book.OpenPosition(ledger.OpenPositionRequest{
		Symbol:     "ETH",
		Amount:     decimal.NewFromInt(2),
		EntryPrice: decimal.NewFromInt(2300),
		Leverage:   decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	h := PortfolioHandler(book)
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		Balance            decimal.Decimal  `json:"balance"`
		PreviousBalance    decimal.Decimal  `json:"previous_balance"`
		BalanceChange      decimal.Decimal  `json:"balance_change"`
		BalanceChangePct   *decimal.Decimal `json:"balance_change_percentage"`
		TotalPositionValue decimal.Decimal  `json:"total_position_value"`
		Positions          []model.Position `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))

	assert.True(t, out.Balance.Equal(decimal.NewFromInt(90800)))
	assert.True(t, out.PreviousBalance.Equal(decimal.NewFromInt(100000)))
	assert.True(t, out.BalanceChange.Equal(decimal.NewFromInt(-9200)))
	require.NotNil(t, out.BalanceChangePct)
	assert.True(t, out.BalanceChangePct.Equal(decimal.RequireFromString("-9.2")), "pct %s", out.BalanceChangePct)
	assert.True(t, out.TotalPositionValue.Equal(decimal.NewFromInt(9200)))
	assert.Len(t, out.Positions, 1)
}

func TestPortfolioHandlerUndefinedPercentage(t *testing.T) {
	book := ledger.NewPaperLedger(decimal.Zero)

	h := PortfolioHandler(book)
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "null", string(out["balance_change_percentage"]))
}
