package klines

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Symbol   string `envconfig:"SYMBOL" default:"BTC"`
	Quote    string `envconfig:"QUOTE" default:"USDT"`
	Limit    int    `envconfig:"LIMIT" default:"100"`
	Endpoint string `envconfig:"KLINES_ENDPOINT" default:""`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
