package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	CatalogURL string `env:"CATALOG_URL" envDefault:"https://interveiw-mock-api.vercel.app/api/getProducts"`

	CartStore   string `env:"CART_STORE" envDefault:"file"`
	CartFile    string `env:"CART_FILE" envDefault:"snowboard_cart.json"`
	DatabaseURL string `env:"DATABASE_URL"`

	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`
	CartRatePerMin int           `env:"CART_RATE_LIMIT" envDefault:"120"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsToken   string `env:"METRICS_TOKEN"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.CartStore {
	case StoreMemory, StoreFile:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("CART_STORE=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown CART_STORE %q", cfg.CartStore)
	}

	return cfg, nil
}
