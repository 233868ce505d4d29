// Package selection picks the reward winners: one slot per author,
// uniformly sampled from the deduplicated pool.
package selection

import (
	"math/rand"

	"github.com/zapcampaign/zapcampaign/pkg/types"
)

// Pick deduplicates posts by author (first post per author wins),
// shuffles the pool with the supplied generator, and returns the first
// count entries. The result length is min(count, distinct authors);
// the pool is never padded or duplicated. The generator is injected so
// tests can seed it deterministically.
func Pick(posts []types.Post, count int, rng *rand.Rand) []types.Post {
	if count <= 0 || len(posts) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(posts))
	pool := make([]types.Post, 0, len(posts))
	for _, post := range posts {
		if _, dup := seen[post.PubKey]; dup {
			continue
		}
		seen[post.PubKey] = struct{}{}
		pool = append(pool, post)
	}

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}
