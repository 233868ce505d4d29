// Package filter implements the post filtering pipeline: a heuristic
// spam stage followed by the campaign's optional constraints. Both
// stages are pure, order-stable subsequence transformations.
package filter

import (
	"regexp"
	"strings"

	"github.com/zapcampaign/zapcampaign/pkg/types"
)

const (
	// An author posting more than this many times in one fetched batch
	// is treated as a spammer and excluded entirely.
	maxPostsPerAuthor = 4

	minContentLength = 10
	maxHashtagCount  = 10
)

var imageURLPattern = regexp.MustCompile(`(?i)https?://\S+\.(jpg|jpeg|png|gif|webp)`)

// Options controls the unified pipeline.
type Options struct {
	// DisableSpam skips the heuristic spam stage.
	DisableSpam bool
	// Campaign, when non-nil, applies the campaign's constraints after
	// the spam stage.
	Campaign *types.CampaignFilters
}

// Apply runs the spam stage (on by default) and then the campaign
// stage. Empty input yields empty output.
func Apply(posts []types.Post, opts Options) []types.Post {
	filtered := posts
	if !opts.DisableSpam {
		filtered = Spam(filtered)
	}
	if opts.Campaign != nil {
		filtered = Campaign(filtered, opts.Campaign)
	}
	return filtered
}

// Spam drops spam-like posts: duplicated content (first occurrence
// wins), prolific authors, very short posts, and hashtag stuffing.
// Author counts compare against the untouched input batch, so a
// spamming author is excluded completely rather than capped.
func Spam(posts []types.Post) []types.Post {
	authorCounts := make(map[string]int, len(posts))
	for _, post := range posts {
		authorCounts[post.PubKey]++
	}

	seen := make(map[string]struct{}, len(posts))
	out := make([]types.Post, 0, len(posts))
	for _, post := range posts {
		normalized := strings.ToLower(strings.TrimSpace(post.Content))
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		if authorCounts[post.PubKey] > maxPostsPerAuthor {
			continue
		}
		if len(strings.TrimSpace(post.Content)) < minContentLength {
			continue
		}
		if countTags(post, "t") > maxHashtagCount {
			continue
		}
		out = append(out, post)
	}
	return out
}

// Campaign rejects any post violating one of the supplied constraints.
// Constraints are conjunctive; a nil filters value is a pass-through.
func Campaign(posts []types.Post, filters *types.CampaignFilters) []types.Post {
	if filters == nil {
		return posts
	}

	excluded := make(map[string]struct{}, len(filters.ExcludeAuthors))
	for _, author := range filters.ExcludeAuthors {
		excluded[author] = struct{}{}
	}

	out := make([]types.Post, 0, len(posts))
	for _, post := range posts {
		if _, skip := excluded[post.PubKey]; skip {
			continue
		}
		if filters.MinEngagement != nil && engagementCount(post) < *filters.MinEngagement {
			continue
		}
		if filters.MinContentLength != nil && len(post.Content) < *filters.MinContentLength {
			continue
		}
		if filters.MaxContentLength != nil && len(post.Content) > *filters.MaxContentLength {
			continue
		}
		if filters.Since != nil && post.CreatedAt < *filters.Since {
			continue
		}
		if filters.Until != nil && post.CreatedAt > *filters.Until {
			continue
		}
		if filters.RequireImages && !hasImage(post) {
			continue
		}
		if filters.ExcludeReplies && isReply(post) {
			continue
		}
		out = append(out, post)
	}
	return out
}

// engagementCount approximates engagement from e/p tags carried on the
// event itself; relays don't return reaction counts.
func engagementCount(post types.Post) int {
	return countTags(post, "e") + countTags(post, "p")
}

func hasImage(post types.Post) bool {
	if imageURLPattern.MatchString(post.Content) {
		return true
	}
	return countTags(post, "image") > 0 || countTags(post, "imeta") > 0
}

func isReply(post types.Post) bool {
	for _, tag := range post.Tags {
		if len(tag) == 0 {
			continue
		}
		if tag[0] == "e" {
			return true
		}
		if tag[0] == "t" && len(tag) > 1 && strings.EqualFold(tag[1], "reply") {
			return true
		}
	}
	return false
}

func countTags(post types.Post, key string) int {
	n := 0
	for _, tag := range post.Tags {
		if len(tag) > 0 && tag[0] == key {
			n++
		}
	}
	return n
}
