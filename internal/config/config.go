package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is populated from the environment; a .env file is honored when
// present so local runs need no exported variables.
type Config struct {
	Addr            string `envconfig:"ADDR" default:":8080"`
	DBPath          string `envconfig:"DB_PATH" default:"sep_chat.db"`
	AppSecret       string `envconfig:"APP_SECRET" required:"true"`
	RatePerSecond   int    `envconfig:"RATE_PER_SECOND" default:"5"`
	RateBurst       int    `envconfig:"RATE_BURST" default:"10"`
}

func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the process environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
