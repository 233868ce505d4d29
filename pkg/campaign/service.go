package campaign

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zapcampaign/zapcampaign/pkg/errors"
	"github.com/zapcampaign/zapcampaign/pkg/filter"
	"github.com/zapcampaign/zapcampaign/pkg/nostr"
	"github.com/zapcampaign/zapcampaign/pkg/selection"
	"github.com/zapcampaign/zapcampaign/pkg/types"
	"github.com/zapcampaign/zapcampaign/pkg/zap"
)

// EventSource is the relay-backed post feed consumed during simulation.
type EventSource interface {
	FetchPosts(ctx context.Context, hashtag string, limit int, since, until *int64) ([]types.Post, error)
}

// Preparer prepares one zap payment for a recipient.
type Preparer interface {
	Prepare(ctx context.Context, pubkey string, amount int64, note string) (*zap.Payment, error)
}

// Service drives the campaign lifecycle: draft -> simulated -> executed.
// All operations load a snapshot, compute the next state as a new value
// and write it back atomically; the mutex serializes those
// read-modify-write sections so concurrent tool calls can't lose
// updates.
type Service struct {
	store      Store
	source     EventSource
	preparer   Preparer
	fetchLimit int
	rng        *rand.Rand
	mu         sync.Mutex
	log        *logrus.Entry
}

// Options configures a Service.
type Options struct {
	Store    Store
	Source   EventSource
	Preparer Preparer
	// FetchLimit caps the selection pool per simulation (default 100).
	FetchLimit int
	// Rand drives post selection; tests inject a seeded generator.
	Rand *rand.Rand
	Log  *logrus.Entry
}

// NewService wires a campaign service.
func NewService(opts Options) *Service {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = 100
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.New())
	}
	return &Service{
		store:      opts.Store,
		source:     opts.Source,
		preparer:   opts.Preparer,
		fetchLimit: opts.FetchLimit,
		rng:        opts.Rand,
		log:        opts.Log,
	}
}

// CreateParams carries the create operation input.
type CreateParams struct {
	Hashtag     string
	SatsPerPost int64
	PostCount   int
	Filters     *types.CampaignFilters
}

// Create stores a fresh draft campaign for the identity, overwriting
// any prior campaign for the same key.
func (s *Service) Create(identity string, params CreateParams) (*types.Campaign, error) {
	hashtag := nostr.NormalizeHashtag(params.Hashtag)
	if hashtag == "" {
		return nil, errors.New(errors.KindValidation, "hashtag is required")
	}
	if params.SatsPerPost <= 0 {
		return nil, errors.New(errors.KindValidation, "satsPerPost must be positive")
	}
	if params.PostCount <= 0 {
		return nil, errors.New(errors.KindValidation, "postCount must be positive")
	}

	c := &types.Campaign{
		ID:          fmt.Sprintf("campaign-%s", uuid.New().String()),
		Hashtag:     hashtag,
		SatsPerPost: params.SatsPerPost,
		PostCount:   params.PostCount,
		Status:      types.StatusDraft,
		CreatedAt:   time.Now().UTC(),
		Filters:     params.Filters,
	}

	s.mu.Lock()
	s.store.Put(identity, c)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"campaign": c.ID,
		"hashtag":  c.Hashtag,
		"identity": identity,
	}).Info("campaign created")

	return c.Clone(), nil
}

// UpdateParams carries the optional fields of an update; nil means
// leave unchanged.
type UpdateParams struct {
	Hashtag     *string
	SatsPerPost *int64
	PostCount   *int
	Filters     *types.CampaignFilters
}

func (p UpdateParams) empty() bool {
	return p.Hashtag == nil && p.SatsPerPost == nil && p.PostCount == nil && p.Filters == nil
}

// UpdateResult reports what an update changed.
type UpdateResult struct {
	Campaign *types.Campaign
	Changed  []string
	// SelectionReset is true when the update knocked a simulated
	// campaign back to draft and discarded its selection.
	SelectionReset bool
}

// Update edits a draft or simulated campaign. Executed campaigns are
// immutable. A structural edit while simulated resets the campaign to
// draft and clears the selection.
func (s *Service) Update(identity string, params UpdateParams) (*UpdateResult, error) {
	if params.empty() {
		return nil, errors.New(errors.KindValidation, "no updates provided")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.store.Get(identity)
	if !ok {
		return nil, errors.New(errors.KindNotFound, "no campaign found")
	}
	if c.Status == types.StatusExecuted {
		return nil, errors.New(errors.KindInvalidState, "campaign %s has already been executed", c.ID)
	}

	var changed []string
	if params.Hashtag != nil {
		hashtag := nostr.NormalizeHashtag(*params.Hashtag)
		if hashtag == "" {
			return nil, errors.New(errors.KindValidation, "hashtag is required")
		}
		c.Hashtag = hashtag
		changed = append(changed, "hashtag")
	}
	if params.SatsPerPost != nil {
		if *params.SatsPerPost <= 0 {
			return nil, errors.New(errors.KindValidation, "satsPerPost must be positive")
		}
		c.SatsPerPost = *params.SatsPerPost
		changed = append(changed, "satsPerPost")
	}
	if params.PostCount != nil {
		if *params.PostCount <= 0 {
			return nil, errors.New(errors.KindValidation, "postCount must be positive")
		}
		c.PostCount = *params.PostCount
		changed = append(changed, "postCount")
	}
	if params.Filters != nil {
		c.Filters = params.Filters
		changed = append(changed, "filters")
	}

	result := &UpdateResult{Changed: changed}
	if c.Status == types.StatusSimulated {
		c.Status = types.StatusDraft
		c.SelectedPosts = nil
		result.SelectionReset = true
	}

	s.store.Put(identity, c)
	result.Campaign = c.Clone()

	s.log.WithFields(logrus.Fields{
		"campaign": c.ID,
		"changed":  changed,
		"reset":    result.SelectionReset,
	}).Info("campaign updated")

	return result, nil
}

// Simulate fetches, filters, and selects posts for the campaign, then
// transitions it to simulated. Re-running while already simulated
// replaces the selection with a fresh draw. An empty selection leaves
// the campaign untouched.
func (s *Service) Simulate(ctx context.Context, identity string) (*types.SimulationResult, error) {
	s.mu.Lock()
	c, ok := s.store.Get(identity)
	s.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.KindNotFound, "no campaign found")
	}
	if c.Status == types.StatusExecuted {
		return nil, errors.New(errors.KindInvalidState, "campaign %s has already been executed", c.ID)
	}

	var since, until *int64
	if c.Filters != nil {
		since, until = c.Filters.Since, c.Filters.Until
	}

	posts, err := s.source.FetchPosts(ctx, c.Hashtag, s.fetchLimit, since, until)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "fetch posts for #%s", c.Hashtag)
	}

	filtered := filter.Apply(posts, filter.Options{Campaign: c.Filters})

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reload before writing: the campaign may have been deleted,
	// replaced, or reconfigured while the fetch was in flight, and the
	// posts were drawn for the old configuration.
	cur, ok := s.store.Get(identity)
	if !ok {
		return nil, errors.New(errors.KindNotFound, "no campaign found")
	}
	if cur.Status == types.StatusExecuted {
		return nil, errors.New(errors.KindInvalidState, "campaign %s has already been executed", cur.ID)
	}
	if cur.ID != c.ID || cur.Hashtag != c.Hashtag || !reflect.DeepEqual(cur.Filters, c.Filters) {
		return nil, errors.New(errors.KindInvalidState, "campaign changed while fetching posts, run simulate again")
	}

	selected := selection.Pick(filtered, cur.PostCount, s.rng)
	if len(selected) == 0 {
		return nil, errors.New(errors.KindEmptyResult, "no eligible posts found for #%s", cur.Hashtag)
	}

	c = cur
	c.SelectedPosts = selected
	c.Status = types.StatusSimulated
	s.store.Put(identity, c)

	s.log.WithFields(logrus.Fields{
		"campaign": c.ID,
		"selected": len(selected),
		"fetched":  len(posts),
	}).Info("campaign simulated")

	return &types.SimulationResult{
		Campaign:      c.Clone(),
		SelectedPosts: selected,
		TotalSats:     c.SatsPerPost * int64(len(selected)),
		PostCount:     len(selected),
	}, nil
}

// Execute prepares one zap per selected post, sequentially, isolating
// per-post failures into the result set. The campaign transitions to
// executed regardless of how many preparations succeeded. If the
// campaign is deleted or modified while the batch runs, the results
// are discarded instead of overwriting the newer state.
func (s *Service) Execute(ctx context.Context, identity string) (*types.ExecutionResult, error) {
	s.mu.Lock()
	c, ok := s.store.Get(identity)
	s.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.KindNotFound, "no campaign found")
	}
	if c.Status != types.StatusSimulated {
		return nil, errors.New(errors.KindInvalidState, "campaign %s is %s, not simulated", c.ID, c.Status)
	}
	if len(c.SelectedPosts) == 0 {
		return nil, errors.New(errors.KindInvalidState, "campaign %s has no selected posts", c.ID)
	}

	note := fmt.Sprintf("Zap from campaign: #%s", c.Hashtag)
	results := make([]types.ZapResult, 0, len(c.SelectedPosts))
	var invoices []types.ZapInvoice

	for _, post := range c.SelectedPosts {
		payment, err := s.preparer.Prepare(ctx, post.PubKey, c.SatsPerPost, note)
		if err != nil {
			results = append(results, types.ZapResult{
				PostID:    post.ID,
				PubKey:    post.PubKey,
				Amount:    c.SatsPerPost,
				Status:    types.ZapFailed,
				Error:     err.Error(),
				Timestamp: time.Now().UTC(),
			})
			continue
		}
		invoices = append(invoices, types.ZapInvoice{
			PostID:  post.ID,
			PubKey:  post.PubKey,
			Invoice: payment.Invoice,
			Amount:  c.SatsPerPost,
		})
		results = append(results, types.ZapResult{
			PostID:    post.ID,
			PubKey:    post.PubKey,
			Amount:    c.SatsPerPost,
			Status:    types.ZapSuccess,
			Timestamp: time.Now().UTC(),
		})
	}

	successCount := 0
	for _, r := range results {
		if r.Status == types.ZapSuccess {
			successCount++
		}
	}
	failedCount := len(results) - successCount

	s.mu.Lock()
	// Reload before writing: the batch ran outside the lock, so the
	// campaign may have been deleted or edited since the snapshot.
	cur, ok := s.store.Get(identity)
	if !ok {
		s.mu.Unlock()
		return nil, errors.New(errors.KindNotFound, "campaign was deleted during execution")
	}
	if cur.ID != c.ID || cur.Status != types.StatusSimulated || !sameSelection(cur.SelectedPosts, c.SelectedPosts) {
		s.mu.Unlock()
		return nil, errors.New(errors.KindInvalidState, "campaign changed during execution, results discarded")
	}
	c = cur
	c.Results = results
	c.Status = types.StatusExecuted
	s.store.Put(identity, c)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"campaign": c.ID,
		"success":  successCount,
		"failed":   failedCount,
	}).Info("campaign executed")

	return &types.ExecutionResult{
		Campaign:     c.Clone(),
		Results:      results,
		Invoices:     invoices,
		SuccessCount: successCount,
		FailedCount:  failedCount,
		TotalSats:    int64(successCount) * c.SatsPerPost,
	}, nil
}

// sameSelection reports whether two selections hold the same posts in
// the same order.
func sameSelection(a, b []types.Post) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// DeleteResult reports the outcome of a delete request.
type DeleteResult struct {
	Deleted bool
	// Campaign previews what was (or would be) removed.
	Campaign *types.Campaign
}

// Delete removes the identity's campaign. Without confirmation it makes
// no change and returns a preview of what would be lost.
func (s *Service) Delete(identity string, confirm bool) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.store.Get(identity)
	if !ok {
		return nil, errors.New(errors.KindNotFound, "no campaign found to delete")
	}
	if !confirm {
		return &DeleteResult{Deleted: false, Campaign: c}, nil
	}

	s.store.Delete(identity)
	s.log.WithFields(logrus.Fields{"campaign": c.ID, "identity": identity}).Info("campaign deleted")
	return &DeleteResult{Deleted: true, Campaign: c}, nil
}

// Get returns the identity's campaign snapshot, if any.
func (s *Service) Get(identity string) (*types.Campaign, bool) {
	return s.store.Get(identity)
}
