package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zapcampaign/zapcampaign/pkg/types"
)

func post(id, pubkey, content string) types.Post {
	return types.Post{ID: id, PubKey: pubkey, Content: content}
}

func TestSpamDropsDuplicateContent(t *testing.T) {
	posts := []types.Post{
		post("a", "alice", "an original thought about bitcoin"),
		post("b", "bob", "  An Original Thought About Bitcoin  "),
		post("c", "carol", "something completely different here"),
	}

	out := Spam(posts)

	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}

func TestSpamExcludesProlificAuthorsEntirely(t *testing.T) {
	var posts []types.Post
	for i := 0; i < 5; i++ {
		posts = append(posts, post(fmt.Sprintf("spam-%d", i), "flooder", fmt.Sprintf("unique flood content number %d", i)))
	}
	posts = append(posts, post("ok", "alice", "a normal post from a normal author"))

	out := Spam(posts)

	assert.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].ID)
}

func TestSpamKeepsAuthorAtThreshold(t *testing.T) {
	var posts []types.Post
	for i := 0; i < 4; i++ {
		posts = append(posts, post(fmt.Sprintf("p-%d", i), "busy", fmt.Sprintf("post number %d with enough length", i)))
	}

	out := Spam(posts)

	assert.Len(t, out, 4)
}

func TestSpamDropsShortContent(t *testing.T) {
	posts := []types.Post{
		post("short", "alice", "gm"),
		post("padded", "bob", "   gm!!   "),
		post("long", "carol", "long enough to keep around"),
	}

	out := Spam(posts)

	assert.Len(t, out, 1)
	assert.Equal(t, "long", out[0].ID)
}

func TestSpamDropsHashtagStuffing(t *testing.T) {
	tags := make([][]string, 0, 11)
	for i := 0; i < 11; i++ {
		tags = append(tags, []string{"t", fmt.Sprintf("tag%d", i)})
	}
	posts := []types.Post{
		{ID: "stuffed", PubKey: "alice", Content: "content with far too many hashtags", Tags: tags},
		{ID: "clean", PubKey: "bob", Content: "content with a reasonable tag count", Tags: [][]string{{"t", "bitcoin"}}},
	}

	out := Spam(posts)

	assert.Len(t, out, 1)
	assert.Equal(t, "clean", out[0].ID)
}

func TestCampaignFiltersAreConjunctive(t *testing.T) {
	minLen := 20
	filters := &types.CampaignFilters{
		MinContentLength: &minLen,
		ExcludeAuthors:   []string{"banned"},
	}
	posts := []types.Post{
		post("a", "alice", "long enough but still quite ordinary"),
		post("b", "banned", "long enough but from an excluded author"),
		post("c", "carol", "too short"),
	}

	out := Campaign(posts, filters)

	assert.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestCampaignTimeWindow(t *testing.T) {
	since, until := int64(100), int64(200)
	filters := &types.CampaignFilters{Since: &since, Until: &until}
	posts := []types.Post{
		{ID: "early", PubKey: "a", Content: "posted before the window", CreatedAt: 99},
		{ID: "in", PubKey: "b", Content: "posted inside the window", CreatedAt: 150},
		{ID: "edge", PubKey: "c", Content: "posted right on the edge", CreatedAt: 200},
		{ID: "late", PubKey: "d", Content: "posted after the window", CreatedAt: 201},
	}

	out := Campaign(posts, filters)

	assert.Len(t, out, 2)
	assert.Equal(t, "in", out[0].ID)
	assert.Equal(t, "edge", out[1].ID)
}

func TestCampaignMinEngagement(t *testing.T) {
	min := 2
	filters := &types.CampaignFilters{MinEngagement: &min}
	posts := []types.Post{
		{ID: "quiet", PubKey: "a", Content: "nobody mentioned in this one"},
		{ID: "busy", PubKey: "b", Content: "this one references a thread", Tags: [][]string{{"e", "ev1"}, {"p", "pk1"}}},
	}

	out := Campaign(posts, filters)

	assert.Len(t, out, 1)
	assert.Equal(t, "busy", out[0].ID)
}

func TestCampaignRequireImages(t *testing.T) {
	filters := &types.CampaignFilters{RequireImages: true}
	posts := []types.Post{
		post("text", "a", "just words and nothing else"),
		post("img", "b", "check this out https://example.com/pic.JPG wow"),
		{ID: "imeta", PubKey: "c", Content: "image attached via tag", Tags: [][]string{{"imeta", "url https://x/y.png"}}},
	}

	out := Campaign(posts, filters)

	assert.Len(t, out, 2)
	assert.Equal(t, "img", out[0].ID)
	assert.Equal(t, "imeta", out[1].ID)
}

func TestCampaignExcludeReplies(t *testing.T) {
	filters := &types.CampaignFilters{ExcludeReplies: true}
	posts := []types.Post{
		{ID: "reply", PubKey: "a", Content: "replying to someone upthread", Tags: [][]string{{"e", "parent"}}},
		{ID: "tagged", PubKey: "b", Content: "tagged as a reply explicitly", Tags: [][]string{{"t", "Reply"}}},
		post("root", "c", "a root note with no parents"),
	}

	out := Campaign(posts, filters)

	assert.Len(t, out, 1)
	assert.Equal(t, "root", out[0].ID)
}

func TestApplyRunsBothStages(t *testing.T) {
	minLen := 15
	posts := []types.Post{
		post("short", "a", "tiny"),
		post("mid", "b", "medium post"),
		post("keep", "c", "a long post that survives both stages"),
	}

	out := Apply(posts, Options{Campaign: &types.CampaignFilters{MinContentLength: &minLen}})

	assert.Len(t, out, 1)
	assert.Equal(t, "keep", out[0].ID)
}

func TestApplyDisableSpam(t *testing.T) {
	posts := []types.Post{post("short", "a", "tiny")}

	out := Apply(posts, Options{DisableSpam: true})

	assert.Len(t, out, 1)
}

func TestApplyEmptyInput(t *testing.T) {
	assert.Empty(t, Apply(nil, Options{}))
}
