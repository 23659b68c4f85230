package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/ecotrip.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../front_end"`

	// Game balance.
	StartOrigin       string `env:"START_ORIGIN" envDefault:"EFHK"`
	FinalStage        int    `env:"FINAL_STAGE" envDefault:"3"`
	CountriesPerStage int    `env:"COUNTRIES_PER_STAGE" envDefault:"3"`

	// External weather API. Empty selects the public open-meteo endpoint.
	WeatherURL string `env:"WEATHER_URL"`

	// bcrypt hash guarding the leaderboard reset endpoint. Empty disables it.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

func Load() (*Config, error) {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
