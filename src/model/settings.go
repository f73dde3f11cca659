package model

import "time"

// Settings are the persisted user preferences. Single row, no schema
// versioning.
type Settings struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	Theme           string    `gorm:"size:50" json:"theme"`
	AccentColor     string    `gorm:"size:7" json:"accent_color"`
	DefaultLeverage float64   `json:"default_leverage"`
	MaxLeverage     float64   `json:"max_leverage"`
	PriceAlerts     bool      `json:"price_alerts"`
	UpdatedAt       time.Time `json:"updated_at"`
}
