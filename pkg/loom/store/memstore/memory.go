// Package memstore is an in-memory store.Store implementation, used by
// tests and by short-lived CLI invocations with no -db flag.
package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/loom/pkg/loom/store"
	"github.com/cognicore/loom/pkg/loom/term"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu    sync.RWMutex
	facts map[string]term.Term
	runs  []store.RunRecord
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{facts: make(map[string]term.Term)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveFacts replaces the stored fact set, deduplicating by Term.Key().
func (s *Store) SaveFacts(ctx context.Context, facts []term.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]term.Term, len(facts))
	for _, f := range facts {
		out[f.Key()] = f
	}
	s.facts = out
	return nil
}

// LoadFacts returns the stored fact set.
func (s *Store) LoadFacts(ctx context.Context) ([]term.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]term.Term, 0, len(s.facts))
	for _, f := range s.facts {
		out = append(out, f)
	}
	return out, nil
}

// SaveRun appends a run record.
func (s *Store) SaveRun(ctx context.Context, r store.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, r)
	return nil
}

// Runs returns up to limit most-recent run records, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.runs) {
		limit = len(s.runs)
	}
	out := make([]store.RunRecord, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.runs[len(s.runs)-1-i]
	}
	return out, nil
}
