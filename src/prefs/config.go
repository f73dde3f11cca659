package prefs

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DBPath string `envconfig:"PREFS_DB_PATH" default:"prefs.db"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
