package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/zapcampaign/zapcampaign/pkg/ai"
	"github.com/zapcampaign/zapcampaign/pkg/campaign"
	"github.com/zapcampaign/zapcampaign/pkg/config"
	"github.com/zapcampaign/zapcampaign/pkg/logging"
	"github.com/zapcampaign/zapcampaign/pkg/mcp"
	"github.com/zapcampaign/zapcampaign/pkg/nostr"
	"github.com/zapcampaign/zapcampaign/pkg/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't up yet; fail loud on stderr.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New("zapcampaign-mcp", cfg.LogLevel)
	log.WithField("relays", cfg.Relays).Info("starting zap campaign MCP server")

	relayClient := nostr.NewClient(cfg.Relays, log)
	preparer := zap.NewPreparer(relayClient, cfg.Relays, cfg.HTTPTimeout, log)

	service := campaign.NewService(campaign.Options{
		Store:      campaign.NewMemoryStore(),
		Source:     relayClient,
		Preparer:   preparer,
		FetchLimit: cfg.FetchLimit,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Log:        log,
	})

	var aiClient *ai.Client
	if cfg.GeminiAPIKey != "" {
		aiClient, err = ai.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.WithError(err).Warn("gemini client unavailable, AI tools disabled")
			aiClient = nil
		} else {
			defer aiClient.Close()
		}
	} else {
		log.Info("GEMINI_API_KEY not set, AI tools disabled")
	}

	srv := mcp.NewServer(mcp.Options{
		Campaigns: service,
		Source:    relayClient,
		Preparer:  preparer,
		AI:        aiClient,
		Log:       log,
	})

	log.Info("serving MCP on stdio")
	if err := srv.Start(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
