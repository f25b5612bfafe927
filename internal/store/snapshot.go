// Package store holds the latest completed ingestion snapshot. Each refresh
// cycle builds a full snapshot off to the side and swaps it in atomically,
// so API readers never observe a partially populated cycle. Nothing is
// persisted: a restart starts empty until the first cycle completes.
package store

import (
	"sync"
	"time"

	"news-trust/internal/ingest"
	"news-trust/internal/models"
	"news-trust/internal/stats"
)

// Snapshot is one immutable refresh result together with the rollups
// derived from it. The derived fields are computed once at build time from
// Articles and never updated independently of it.
type Snapshot struct {
	Articles   []models.Article
	Overall    models.OverallStats
	Publishers []models.GroupStat
	Authors    []models.GroupStat
	Outcome    ingest.Result
	UpdatedAt  time.Time
}

// Build derives a complete snapshot from a cycle result.
func Build(result ingest.Result) *Snapshot {
	return &Snapshot{
		Articles:   result.Articles,
		Overall:    stats.Overall(result.Articles),
		Publishers: stats.ByPublisher(result.Articles),
		Authors:    stats.ByAuthor(result.Articles),
		Outcome:    result,
		UpdatedAt:  result.CompletedAt,
	}
}

// Store is the single-slot holder for the current snapshot.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Swap installs a new snapshot as the current one.
func (s *Store) Swap(snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}

// Current returns the latest snapshot. ok is false before the first cycle
// completes — the "loading" state, distinct from a snapshot with no data.
func (s *Store) Current() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}
