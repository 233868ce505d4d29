// Package config loads server configuration from the process
// environment, optionally seeded from a local .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries everything the server needs at startup.
type Config struct {
	// Relays queried for posts and profile metadata.
	Relays []string `env:"ZAPCAMPAIGN_RELAYS" envSeparator:"," envDefault:"wss://relay.damus.io,wss://relay.nostr.band,wss://nos.lol"`

	// FetchLimit caps the selection pool fetched during simulation.
	FetchLimit int `env:"ZAPCAMPAIGN_FETCH_LIMIT" envDefault:"100"`

	// HTTPTimeout bounds each LNURL metadata/invoice fetch.
	HTTPTimeout time.Duration `env:"ZAPCAMPAIGN_HTTP_TIMEOUT" envDefault:"10s"`

	// GeminiAPIKey enables the AI scoring tools when set.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-exp"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config. Local .env files are
// overlaid first when present so development setups need no exports.
func Load() (*Config, error) {
	for _, file := range []string{".env", ".env.dev"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Overload(file)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 100
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if len(cfg.Relays) == 0 {
		return nil, fmt.Errorf("at least one relay is required")
	}
	return &cfg, nil
}
