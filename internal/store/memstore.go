package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"
)

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu       sync.RWMutex
	counts   map[string]map[int]Counts // word -> year -> counts
	failures []*Failure
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		counts: make(map[string]map[int]Counts),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// =============================================================================
// Tag counts
// =============================================================================

func (s *MemStore) AddTagged(year int, words []tagger.RefinedWord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range words {
		word := strings.ToLower(w.Word.Text)
		years, ok := s.counts[word]
		if !ok {
			years = make(map[int]Counts)
			s.counts[word] = years
		}
		c, ok := years[year]
		if !ok {
			c = NewCounts()
			years[year] = c
		}
		c[w.Tag]++
	}
	return nil
}

func (s *MemStore) WordCounts(minTotal int) ([]WordCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := make([]string, 0, len(s.counts))
	for w := range s.counts {
		words = append(words, w)
	}
	sort.Strings(words)

	var result []WordCounts
	for _, w := range words {
		wc := WordCounts{Word: w, Counts: NewCounts()}
		for _, c := range s.counts[w] {
			for tag, n := range c {
				wc.Counts[tag] += n
			}
		}
		wc.Total = wc.Counts.Total()
		if wc.Total >= minTotal {
			result = append(result, wc)
		}
	}
	return result, nil
}

func (s *MemStore) YearCounts(word string) ([]YearCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years := s.counts[strings.ToLower(word)]
	var result []YearCount
	for year, c := range years {
		yc := YearCount{Year: year, Counts: NewCounts()}
		for tag, n := range c {
			yc.Counts[tag] = n
		}
		yc.Total = yc.Counts.Total()
		result = append(result, yc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result, nil
}

// =============================================================================
// Failures
// =============================================================================

func (s *MemStore) RecordFailure(f *Failure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = int64(len(s.failures) + 1)
	copy := *f
	copy.Words = append([]string(nil), f.Words...)
	s.failures = append(s.failures, &copy)
	return nil
}

func (s *MemStore) CountFailures(reason string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if reason == "" {
		return len(s.failures), nil
	}
	count := 0
	for _, f := range s.failures {
		if f.Reason == reason {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) ListFailures(reason string) ([]*Failure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Failure
	for _, f := range s.failures {
		if reason == "" || f.Reason == reason {
			copy := *f
			result = append(result, &copy)
		}
	}
	return result, nil
}
