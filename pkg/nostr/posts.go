package nostr

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"github.com/zapcampaign/zapcampaign/pkg/errors"
	"github.com/zapcampaign/zapcampaign/pkg/types"
)

// maxFetchLimit caps how many posts a single query may request.
const maxFetchLimit = 100

// NormalizeHashtag strips a leading # and lowercases the tag; relays
// index t tags in lowercase.
func NormalizeHashtag(hashtag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(hashtag), "#"))
}

// FetchPosts queries the relays for kind-1 notes carrying the hashtag,
// newest first, capped at limit. Since/until bound the query window
// when non-nil.
func (c *Client) FetchPosts(ctx context.Context, hashtag string, limit int, since, until *int64) ([]types.Post, error) {
	if limit <= 0 || limit > maxFetchLimit {
		limit = maxFetchLimit
	}

	filter := nostr.Filter{
		Kinds: []int{nostr.KindTextNote},
		Tags:  nostr.TagMap{"t": []string{NormalizeHashtag(hashtag)}},
		Limit: limit,
	}
	if since != nil {
		ts := nostr.Timestamp(*since)
		filter.Since = &ts
	}
	if until != nil {
		ts := nostr.Timestamp(*until)
		filter.Until = &ts
	}

	events, err := c.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt > events[j].CreatedAt
	})
	if len(events) > limit {
		events = events[:limit]
	}

	posts := make([]types.Post, 0, len(events))
	for _, ev := range events {
		posts = append(posts, eventToPost(ev))
	}
	return posts, nil
}

// profileMetadata is the subset of a kind-0 content document we read.
// lud16 is the modern lightning address field, lud06 the legacy LNURL.
type profileMetadata struct {
	Lud16 string `json:"lud16"`
	Lud06 string `json:"lud06"`
}

// LightningAddress resolves a pubkey to a payment address from their
// most recent profile-metadata event. It fails with a
// no_payment_address kind when no profile exists or neither field is
// present.
func (c *Client) LightningAddress(ctx context.Context, pubkey string) (string, error) {
	filter := nostr.Filter{
		Kinds:   []int{nostr.KindProfileMetadata},
		Authors: []string{pubkey},
		Limit:   1,
	}

	events, err := c.Query(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "", errors.New(errors.KindNoPaymentAddress, "no profile found for %s", abbreviate(pubkey))
	}

	// Relays may answer with different revisions; take the newest.
	newest := events[0]
	for _, ev := range events[1:] {
		if ev.CreatedAt > newest.CreatedAt {
			newest = ev
		}
	}

	var meta profileMetadata
	if err := json.Unmarshal([]byte(newest.Content), &meta); err != nil {
		return "", errors.Wrap(err, errors.KindNoPaymentAddress, "unreadable profile for %s", abbreviate(pubkey))
	}
	if meta.Lud16 != "" {
		return meta.Lud16, nil
	}
	if meta.Lud06 != "" {
		return meta.Lud06, nil
	}
	return "", errors.New(errors.KindNoPaymentAddress, "no lightning address for %s", abbreviate(pubkey))
}

func eventToPost(ev *nostr.Event) types.Post {
	tags := make([][]string, 0, len(ev.Tags))
	for _, tag := range ev.Tags {
		tags = append(tags, []string(tag))
	}
	return types.Post{
		ID:          ev.ID,
		PubKey:      ev.PubKey,
		Content:     ev.Content,
		CreatedAt:   int64(ev.CreatedAt),
		CreatedDate: time.Unix(int64(ev.CreatedAt), 0).UTC().Format(time.RFC3339),
		Tags:        tags,
		Kind:        ev.Kind,
	}
}

func abbreviate(pubkey string) string {
	if len(pubkey) <= 16 {
		return pubkey
	}
	return pubkey[:16] + "..."
}
