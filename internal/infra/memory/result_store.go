package memory

import (
	"context"
	"sort"
	"sync"

	"cppquiz-service/internal/domain"
)

// ResultStore keeps finished results in memory, newest first.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) SaveResult(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) Results(_ context.Context) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Result, len(s.results))
	copy(out, s.results)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *ResultStore) StudentResults(ctx context.Context, regNumber string) ([]domain.Result, error) {
	all, err := s.Results(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, r := range all {
		if r.RegNumber == regNumber {
			out = append(out, r)
		}
	}
	return out, nil
}

// Leaderboard returns the top attempts ordered by score descending; ties go
// to the earlier finish.
func (s *ResultStore) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.results))
	for _, r := range s.results {
		entries = append(entries, domain.LeaderboardEntry{
			RegNumber: r.RegNumber,
			Name:      r.Name,
			Score:     r.TotalScore,
			Timestamp: r.Timestamp,
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *ResultStore) ClearResults(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	return nil
}
