package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	MonitorWSURL string `env:"MONITOR_WS_URL,required"`
	DappID       string `env:"DAPP_ID,required"`
	NetworkID    int    `env:"NETWORK_ID"`

	// WatchHash is an optional transaction hash to start tracking on
	// boot, for trying the pipeline end to end.
	WatchHash string `env:"WATCH_HASH"`

	LogLevel string `env:"LOG_LEVEL"`
}

func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: .env file not found, relying on environment variables")
	}

	config := Config{
		NetworkID: 1,
		LogLevel:  "info",
	}

	if err := env.Parse(&config); err != nil {
		return Config{}, err
	}

	return config, nil
}
