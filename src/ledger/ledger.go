package ledger

import (
	"strings"
	"sync"
	"time"

	"papertrader/src/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

// DefaultInitialBalance is the paper account's starting cash in USD.
var DefaultInitialBalance = decimal.NewFromInt(100000)

var oneHundred = decimal.NewFromInt(100)

// PaperLedger is the single source of truth for the simulated account.
// All mutations are serialized on its mutex, so the balance check and debit
// of OpenPosition are atomic as observed by any reader.
type PaperLedger struct {
	mu              sync.Mutex
	balance         decimal.Decimal
	previousBalance decimal.Decimal
	positions       []model.Position
	log             *logger.Entry
}

func NewPaperLedger(initialBalance decimal.Decimal) *PaperLedger {
	return &PaperLedger{
		balance:         initialBalance,
		previousBalance: initialBalance,
		log:             logger.WithField("component", "ledger"),
	}
}

// OpenPositionRequest carries the trade parameters supplied by the caller.
// The caller is responsible for providing a current entry price; the ledger
// knows nothing about market data.
type OpenPositionRequest struct {
	Symbol     string
	Amount     decimal.Decimal
	EntryPrice decimal.Decimal
	Leverage   decimal.Decimal
	StopLoss   *decimal.Decimal
	TakeProfit *decimal.Decimal
}

// OpenPosition validates and records a position, debiting the balance by
// amount * entryPrice * leverage. This is the only mutation path for balance
// and positions besides RollPreviousBalance; there is no close operation.
func (l *PaperLedger) OpenPosition(req OpenPositionRequest) (model.Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(req.Symbol) == "" {
		return model.Position{}, &ValidationError{Field: "symbol", Reason: "is required"}
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return model.Position{}, &ValidationError{Field: "amount", Reason: "must be > 0"}
	}
	if req.EntryPrice.LessThanOrEqual(decimal.Zero) {
		return model.Position{}, &ValidationError{Field: "entry_price", Reason: "must be > 0"}
	}
	if req.Leverage.LessThanOrEqual(decimal.Zero) {
		return model.Position{}, &ValidationError{Field: "leverage", Reason: "must be > 0"}
	}

	orderValue := req.Amount.Mul(req.EntryPrice).Mul(req.Leverage)
	if orderValue.GreaterThan(l.balance) {
		return model.Position{}, &ValidationError{Field: "order_value", Reason: "exceeds available balance"}
	}

	pos := model.Position{
		ID:         uuid.New(),
		Symbol:     strings.ToUpper(req.Symbol),
		Amount:     req.Amount,
		EntryPrice: req.EntryPrice,
		Leverage:   req.Leverage,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		OpenedAt:   time.Now().UTC(),
	}
	l.positions = append(l.positions, pos)
	l.balance = l.balance.Sub(orderValue)

	l.log.WithFields(logger.Fields{
		"symbol":     pos.Symbol,
		"orderValue": orderValue.String(),
		"balance":    l.balance.String(),
	}).Info("position opened")

	return pos, nil
}

func (l *PaperLedger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *PaperLedger) PreviousBalance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.previousBalance
}

// Positions returns a copy of the open positions in open order.
func (l *PaperLedger) Positions() []model.Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Position, len(l.positions))
	copy(out, l.positions)
	return out
}

// BalanceChange is balance - previousBalance.
func (l *PaperLedger) BalanceChange() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance.Sub(l.previousBalance)
}

// BalanceChangePercentage is the change relative to previousBalance in
// percent. ok is false when previousBalance is zero and the ratio is
// undefined.
func (l *PaperLedger) BalanceChangePercentage() (pct decimal.Decimal, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.previousBalance.IsZero() {
		return decimal.Zero, false
	}
	return l.balance.Sub(l.previousBalance).Div(l.previousBalance).Mul(oneHundred), true
}

// TotalPositionValue sums Value over all open positions, recomputed on every
// call.
func (l *PaperLedger) TotalPositionValue() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, p := range l.positions {
		total = total.Add(p.Value())
	}
	return total
}

// MaxOpenableAmount is the largest base-asset amount affordable at the given
// price and leverage. ok is false when price or leverage is not positive.
func (l *PaperLedger) MaxOpenableAmount(price, leverage decimal.Decimal) (amount decimal.Decimal, ok bool) {
	if price.LessThanOrEqual(decimal.Zero) || leverage.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance.Div(price).Div(leverage), true
}

// RollPreviousBalance snapshots the current balance as the new 24h reference
// point. The schedule is the caller's concern, typically a daily job.
func (l *PaperLedger) RollPreviousBalance() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.previousBalance = l.balance
	l.log.WithField("previousBalance", l.previousBalance.String()).Info("previous balance rolled")
}
