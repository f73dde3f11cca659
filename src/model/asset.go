package model

// Asset is one tradable instrument as last reported by the market-data
// provider. Identity is ID; everything else is a snapshot value that is
// replaced wholesale on each successful refresh, never merged.
type Asset struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	PriceChange24h float64 `json:"price_change_24h"`
	MarketCap      float64 `json:"market_cap"`
	ImageURL       string  `json:"image_url"`
}

// Same reports whether two snapshots describe the same instrument.
func (a Asset) Same(b Asset) bool {
	return a.ID == b.ID
}

// PlaceholderAsset is shown before the first snapshot lands.
var PlaceholderAsset = Asset{
	ID:     "bitcoin",
	Symbol: "BTC",
	Name:   "Bitcoin",
}
