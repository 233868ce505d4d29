package types

import "time"

// Post is the normalized view of one Nostr text-note event. Posts are
// immutable once constructed; the fetcher never mutates them after the
// relay query returns.
type Post struct {
	ID          string     `json:"id"`
	PubKey      string     `json:"pubkey"`
	Content     string     `json:"content"`
	CreatedAt   int64      `json:"created_at"`
	CreatedDate string     `json:"created_date"`
	Tags        [][]string `json:"tags,omitempty"`
	Kind        int        `json:"kind,omitempty"`
}

// CampaignFilters is the optional predicate configuration applied after
// the spam stage. Every field is independently optional; a nil pointer
// means no constraint.
type CampaignFilters struct {
	MinEngagement    *int     `json:"minEngagement,omitempty"`
	ExcludeAuthors   []string `json:"excludeAuthors,omitempty"`
	MinContentLength *int     `json:"minContentLength,omitempty"`
	MaxContentLength *int     `json:"maxContentLength,omitempty"`
	Since            *int64   `json:"since,omitempty"`
	Until            *int64   `json:"until,omitempty"`
	RequireImages    bool     `json:"requireImages,omitempty"`
	ExcludeReplies   bool     `json:"excludeReplies,omitempty"`
}

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "draft"
	StatusSimulated CampaignStatus = "simulated"
	StatusExecuted  CampaignStatus = "executed"
)

// Campaign is the central aggregate: a configured intent to reward a
// set of posts under one hashtag. SelectedPosts is set only by a
// transition into simulated, Results only by a transition into executed.
type Campaign struct {
	ID            string           `json:"id"`
	Hashtag       string           `json:"hashtag"`
	SatsPerPost   int64            `json:"satsPerPost"`
	PostCount     int              `json:"postCount"`
	Status        CampaignStatus   `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	Filters       *CampaignFilters `json:"filters,omitempty"`
	SelectedPosts []Post           `json:"selectedPosts,omitempty"`
	Results       []ZapResult      `json:"results,omitempty"`
}

// Clone returns a deep copy so callers can treat stored campaigns as
// immutable snapshots and write back a new value atomically.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	out := *c
	if c.Filters != nil {
		f := *c.Filters
		f.ExcludeAuthors = append([]string(nil), c.Filters.ExcludeAuthors...)
		out.Filters = &f
	}
	out.SelectedPosts = append([]Post(nil), c.SelectedPosts...)
	out.Results = append([]ZapResult(nil), c.Results...)
	return &out
}

// ZapStatus is the per-post payment preparation outcome.
type ZapStatus string

const (
	ZapSuccess ZapStatus = "success"
	ZapFailed  ZapStatus = "failed"
)

// ZapResult tracks the preparation outcome for one selected post.
// Error is set iff Status is failed.
type ZapResult struct {
	PostID    string    `json:"postId"`
	PubKey    string    `json:"pubkey"`
	Amount    int64     `json:"amount"`
	Status    ZapStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ZapInvoice carries a redeemable invoice for an external payment MCP
// to settle; this server only prepares, never pays.
type ZapInvoice struct {
	PostID  string `json:"postId"`
	PubKey  string `json:"pubkey"`
	Invoice string `json:"invoice"`
	Amount  int64  `json:"amount"`
}

// SimulationResult is the payload returned by a simulate run.
type SimulationResult struct {
	Campaign      *Campaign `json:"campaign"`
	SelectedPosts []Post    `json:"selectedPosts"`
	TotalSats     int64     `json:"totalSats"`
	PostCount     int       `json:"postCount"`
}

// ExecutionResult is the payload returned by an execute run.
type ExecutionResult struct {
	Campaign     *Campaign    `json:"campaign"`
	Results      []ZapResult  `json:"results"`
	Invoices     []ZapInvoice `json:"invoices"`
	SuccessCount int          `json:"successCount"`
	FailedCount  int          `json:"failedCount"`
	TotalSats    int64        `json:"totalSatsSent"`
}
