package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	PollPeriod       time.Duration `envconfig:"POLL_PERIOD" default:"30s"`
	InitialBalance   float64       `envconfig:"INITIAL_BALANCE" default:"100000"`
	DefaultSymbol    string        `envconfig:"DEFAULT_SYMBOL" default:"BTC"`
	CoinGeckoBaseURL string        `envconfig:"COINGECKO_BASE_URL" default:""`
	StreamBaseURL    string        `envconfig:"STREAM_BASE_URL" default:""`
	KlinesEndpoint   string        `envconfig:"KLINES_ENDPOINT" default:""`
	RollSchedule     string        `envconfig:"BALANCE_ROLL_SCHEDULE" default:"0 0 * * *"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
