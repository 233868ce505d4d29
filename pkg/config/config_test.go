package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"wss://relay.damus.io", "wss://relay.nostr.band", "wss://nos.lol"}, cfg.Relays)
	assert.Equal(t, 100, cfg.FetchLimit)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.GeminiModel)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ZAPCAMPAIGN_RELAYS", "wss://a.example,wss://b.example")
	t.Setenv("ZAPCAMPAIGN_FETCH_LIMIT", "25")
	t.Setenv("ZAPCAMPAIGN_HTTP_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"wss://a.example", "wss://b.example"}, cfg.Relays)
	assert.Equal(t, 25, cfg.FetchLimit)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadSanitizesBadValues(t *testing.T) {
	t.Setenv("ZAPCAMPAIGN_FETCH_LIMIT", "-5")
	t.Setenv("ZAPCAMPAIGN_HTTP_TIMEOUT", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.FetchLimit)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}
