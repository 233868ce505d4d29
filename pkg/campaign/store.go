// Package campaign holds the campaign aggregate's store, lifecycle
// state machine, and batch zap executor.
package campaign

import (
	"sync"

	"github.com/zapcampaign/zapcampaign/pkg/types"
)

// Anonymous is the sentinel identity used when a caller supplies no
// wallet pubkey; all unidentified callers share this one slot.
const Anonymous = "anonymous"

// Store is the keyed campaign repository: exactly one campaign per
// identity key, with put overwriting unconditionally. Implementations
// must hand out snapshots, never shared mutable state.
type Store interface {
	Get(key string) (*types.Campaign, bool)
	Put(key string, c *types.Campaign)
	Delete(key string)
	All() []*types.Campaign
}

// MemoryStore is the in-process Store. Campaign state deliberately does
// not survive a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	campaigns map[string]*types.Campaign
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{campaigns: make(map[string]*types.Campaign)}
}

// Get returns a snapshot of the campaign for key, if any.
func (s *MemoryStore) Get(key string) (*types.Campaign, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[key]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Put stores a snapshot of c under key, replacing any prior campaign.
func (s *MemoryStore) Put(key string, c *types.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[key] = c.Clone()
}

// Delete removes the campaign for key.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.campaigns, key)
}

// All returns snapshots of every stored campaign.
func (s *MemoryStore) All() []*types.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c.Clone())
	}
	return out
}
