package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapcampaign/zapcampaign/pkg/types"
)

func TestPickOnePostPerAuthor(t *testing.T) {
	posts := []types.Post{
		{ID: "a1", PubKey: "alice", Content: "first from alice"},
		{ID: "a2", PubKey: "alice", Content: "second from alice"},
		{ID: "b1", PubKey: "bob", Content: "first from bob"},
	}

	out := Pick(posts, 10, rand.New(rand.NewSource(1)))

	assert.Len(t, out, 2)
	ids := map[string]bool{}
	for _, p := range out {
		ids[p.ID] = true
	}
	assert.True(t, ids["a1"], "first post per author wins the slot")
	assert.True(t, ids["b1"])
	assert.False(t, ids["a2"])
}

func TestPickCapsAtCount(t *testing.T) {
	var posts []types.Post
	for i := 0; i < 10; i++ {
		posts = append(posts, types.Post{ID: fmt.Sprintf("p%d", i), PubKey: fmt.Sprintf("author%d", i)})
	}

	out := Pick(posts, 3, rand.New(rand.NewSource(42)))

	assert.Len(t, out, 3)
}

func TestPickDeterministicWithSeed(t *testing.T) {
	var posts []types.Post
	for i := 0; i < 20; i++ {
		posts = append(posts, types.Post{ID: fmt.Sprintf("p%d", i), PubKey: fmt.Sprintf("author%d", i)})
	}

	first := Pick(posts, 5, rand.New(rand.NewSource(7)))
	second := Pick(posts, 5, rand.New(rand.NewSource(7)))

	assert.Equal(t, first, second)
}

func TestPickEdgeCases(t *testing.T) {
	posts := []types.Post{{ID: "a", PubKey: "alice"}}

	assert.Nil(t, Pick(posts, 0, rand.New(rand.NewSource(1))))
	assert.Nil(t, Pick(posts, -1, rand.New(rand.NewSource(1))))
	assert.Nil(t, Pick(nil, 3, rand.New(rand.NewSource(1))))
}
