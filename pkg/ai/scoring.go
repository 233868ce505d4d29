package ai

import (
	"context"
	"sort"

	"github.com/zapcampaign/zapcampaign/pkg/errors"
	"github.com/zapcampaign/zapcampaign/pkg/types"
)

// MaxPostsPerScoring caps how many posts one scoring call accepts.
const MaxPostsPerScoring = 20

// ScoreBreakdown holds the per-criterion scores, each 0-100.
type ScoreBreakdown struct {
	ContentQuality int `json:"contentQuality"`
	Engagement     int `json:"engagement"`
	Relevance      int `json:"relevance"`
	Authenticity   int `json:"authenticity"`
	CommunityValue int `json:"communityValue"`
}

// PostScore is the model's verdict on one post.
type PostScore struct {
	PostID       string         `json:"postId"`
	OverallScore int            `json:"overallScore"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	Reasoning    string         `json:"reasoning"`
}

// ScoreSummary aggregates a scoring batch.
type ScoreSummary struct {
	AverageScore float64 `json:"averageScore"`
	HighestScore int     `json:"highestScore"`
	LowestScore  int     `json:"lowestScore"`
	TotalPosts   int     `json:"totalPosts"`
}

// ScoringResult is the payload of a scorePosts call, scores sorted
// highest first.
type ScoringResult struct {
	Scores  []PostScore  `json:"scores"`
	Summary ScoreSummary `json:"summary"`
}

// ContentAnalysis is the model's qualitative read on one post.
type ContentAnalysis struct {
	Sentiment            string   `json:"sentiment"`
	Topics               []string `json:"topics"`
	TargetAudience       string   `json:"targetAudience"`
	EngagementPrediction string   `json:"engagementPrediction"`
	KeyInsights          []string `json:"keyInsights"`
	Warnings             []string `json:"warnings"`
}

// SmartFilterResult buckets post IDs by model-judged quality.
type SmartFilterResult struct {
	HighQualityPosts   []string `json:"highQualityPosts"`
	MediumQualityPosts []string `json:"mediumQualityPosts"`
	LowQualityPosts    []string `json:"lowQualityPosts"`
	SpamPosts          []string `json:"spamPosts"`
	Reasoning          string   `json:"reasoning"`
}

// ScorePosts scores each post against the quality rubric, one model
// call per post, and returns them ranked with summary stats.
func (c *Client) ScorePosts(ctx context.Context, posts []types.Post, hashtag string) (*ScoringResult, error) {
	if len(posts) == 0 {
		return nil, errors.New(errors.KindValidation, "no posts to score")
	}
	if len(posts) > MaxPostsPerScoring {
		return nil, errors.New(errors.KindValidation, "at most %d posts per scoring request", MaxPostsPerScoring)
	}
	if hashtag == "" {
		hashtag = "nostr"
	}

	scores := make([]PostScore, 0, len(posts))
	for _, post := range posts {
		var score PostScore
		if err := c.GenerateJSON(ctx, scorePostPrompt(post.Content, hashtag, post.PubKey), &score); err != nil {
			return nil, errors.Wrap(err, errors.KindOf(err), "score post %s", post.ID)
		}
		score.PostID = post.ID
		scores = append(scores, score)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})

	summary := ScoreSummary{
		HighestScore: scores[0].OverallScore,
		LowestScore:  scores[len(scores)-1].OverallScore,
		TotalPosts:   len(scores),
	}
	total := 0
	for _, s := range scores {
		total += s.OverallScore
	}
	summary.AverageScore = float64(total) / float64(len(scores))

	return &ScoringResult{Scores: scores, Summary: summary}, nil
}

// AnalyzeContent runs a deep qualitative analysis of one post.
func (c *Client) AnalyzeContent(ctx context.Context, content, hashtag string) (*ContentAnalysis, error) {
	if content == "" {
		return nil, errors.New(errors.KindValidation, "content is required")
	}
	if hashtag == "" {
		hashtag = "nostr"
	}
	var analysis ContentAnalysis
	if err := c.GenerateJSON(ctx, analyzeContentPrompt(content, hashtag), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// SmartFilter categorizes a post batch by quality in a single call.
func (c *Client) SmartFilter(ctx context.Context, posts []types.Post, hashtag string) (*SmartFilterResult, error) {
	if len(posts) == 0 {
		return nil, errors.New(errors.KindValidation, "no posts to filter")
	}
	if len(posts) > MaxPostsPerScoring {
		return nil, errors.New(errors.KindValidation, "at most %d posts per filter request", MaxPostsPerScoring)
	}
	if hashtag == "" {
		hashtag = "nostr"
	}
	var result SmartFilterResult
	if err := c.GenerateJSON(ctx, smartFilterPrompt(posts, hashtag), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
