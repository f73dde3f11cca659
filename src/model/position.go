package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position is a simulated leveraged holding opened against the paper
// balance. Immutable once created; the simulator has no close or edit path.
// StopLoss and TakeProfit are informational trigger levels, nothing watches
// them in the background.
type Position struct {
	ID         uuid.UUID        `json:"id"`
	Symbol     string           `json:"symbol"`
	Amount     decimal.Decimal  `json:"amount"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	Leverage   decimal.Decimal  `json:"leverage"`
	StopLoss   *decimal.Decimal `json:"stop_loss,omitempty"`
	TakeProfit *decimal.Decimal `json:"take_profit,omitempty"`
	OpenedAt   time.Time        `json:"opened_at"`
}

// Value is the notional debited at open time: amount * entryPrice * leverage.
func (p Position) Value() decimal.Decimal {
	return p.Amount.Mul(p.EntryPrice).Mul(p.Leverage)
}
