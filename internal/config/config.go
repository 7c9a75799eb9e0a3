package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment. A .env
// file in the working directory is loaded first when present.
type Config struct {
	Addr           string        `env:"COUP_ADDR" envDefault:":8080"`
	ResponseWindow time.Duration `env:"COUP_RESPONSE_WINDOW" envDefault:"30s"`
	TickInterval   time.Duration `env:"COUP_TICK_INTERVAL" envDefault:"1s"`
	Debug          bool          `env:"COUP_DEBUG" envDefault:"false"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
