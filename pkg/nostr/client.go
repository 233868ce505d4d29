// Package nostr is the event-source boundary: relay queries for
// hashtag posts and profile metadata. Every query opens its own relay
// connections and closes them before returning, so connections never
// leak across calls.
package nostr

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"
)

// Client queries a fixed set of relays.
type Client struct {
	relays []string
	log    *logrus.Entry
}

// NewClient creates a relay client for the given relay URLs.
func NewClient(relays []string, log *logrus.Entry) *Client {
	return &Client{relays: relays, log: log}
}

// Relays returns the configured relay URLs.
func (c *Client) Relays() []string {
	return append([]string(nil), c.relays...)
}

// Query fans the filter out to every configured relay and merges the
// results, deduplicating by event ID. A relay that fails to connect or
// answer is skipped; the query only errors when no relay answered at
// all.
func (c *Client) Query(ctx context.Context, filter nostr.Filter) ([]*nostr.Event, error) {
	seen := make(map[string]struct{})
	var events []*nostr.Event
	var lastErr error
	answered := 0

	for _, url := range c.relays {
		evs, err := c.queryRelay(ctx, url, filter)
		if err != nil {
			c.log.WithError(err).WithField("relay", url).Debug("relay query failed")
			lastErr = err
			continue
		}
		answered++
		for _, ev := range evs {
			if _, dup := seen[ev.ID]; dup {
				continue
			}
			seen[ev.ID] = struct{}{}
			events = append(events, ev)
		}
	}

	if answered == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("query relays: %w", lastErr)
		}
		return nil, fmt.Errorf("query relays: no relays configured")
	}
	return events, nil
}

// queryRelay opens one connection, runs the query, and closes the
// connection regardless of outcome.
func (c *Client) queryRelay(ctx context.Context, url string, filter nostr.Filter) ([]*nostr.Event, error) {
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}
	defer relay.Close()

	evs, err := relay.QuerySync(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", url, err)
	}
	return evs, nil
}
