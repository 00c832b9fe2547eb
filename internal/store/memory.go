package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/intently-app/intently/internal/models"
)

// MemoryStore is an in-memory Store for tests and simulations.
type MemoryStore struct {
	mu           sync.RWMutex
	results      map[string]*models.InterventionResult
	sessions     []models.UsageSession
	explanations []models.DecisionExplanation
	meta         map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]*models.InterventionResult),
		meta:    make(map[string]string),
	}
}

func (s *MemoryStore) SaveResult(ctx context.Context, result models.InterventionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := result
	s.results[result.ID] = &r
	return nil
}

func (s *MemoryStore) ResolveResult(ctx context.Context, id string, outcome ResultOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	if !ok {
		return ErrNotFound
	}
	applyOutcome(r, outcome)
	return nil
}

func (s *MemoryStore) GetResult(ctx context.Context, id string) (*models.InterventionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *MemoryStore) ResultsSince(ctx context.Context, since time.Time) ([]models.InterventionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.InterventionResult
	for _, r := range s.results {
		if !r.ShownAt.Before(since) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShownAt.Before(out[j].ShownAt) })
	return out, nil
}

func (s *MemoryStore) LastResult(ctx context.Context, app string) (*models.InterventionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *models.InterventionResult
	for _, r := range s.results {
		if r.AppPackage != app {
			continue
		}
		if last == nil || r.ShownAt.After(last.ShownAt) {
			last = r
		}
	}
	if last == nil {
		return nil, ErrNotFound
	}
	out := *last
	return &out, nil
}

func (s *MemoryStore) SaveSession(ctx context.Context, session models.UsageSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *MemoryStore) SessionsSince(ctx context.Context, since time.Time) ([]models.UsageSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.UsageSession
	for _, sess := range s.sessions {
		if !sess.StartedAt.Before(since) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (s *MemoryStore) SaveExplanation(ctx context.Context, exp models.DecisionExplanation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explanations = append(s.explanations, exp)
	return nil
}

func (s *MemoryStore) GetExplanation(ctx context.Context, id string) (*models.DecisionExplanation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.explanations {
		if s.explanations[i].ID == id {
			out := s.explanations[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) RecentExplanations(ctx context.Context, limit int) ([]models.DecisionExplanation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DecisionExplanation, len(s.explanations))
	copy(out, s.explanations)
	sort.Slice(out, func(i, j int) bool { return out[i].EvaluatedAt.After(out[j].EvaluatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) GetMeta(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta[key], nil
}

func (s *MemoryStore) SetMeta(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = value
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64

	for id, r := range s.results {
		if r.ShownAt.Before(before) {
			delete(s.results, id)
			removed++
		}
	}

	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.StartedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, sess)
	}
	s.sessions = kept

	keptExp := s.explanations[:0]
	for _, exp := range s.explanations {
		if exp.EvaluatedAt.Before(before) {
			removed++
			continue
		}
		keptExp = append(keptExp, exp)
	}
	s.explanations = keptExp

	return removed, nil
}

func (s *MemoryStore) Close() error { return nil }
