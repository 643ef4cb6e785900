// Package store persists the aggregated tag counts and parse failures of a
// corpus run.
package store

import (
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"
)

// Failure reasons recorded by the pipeline.
const (
	ReasonUngrammatical = "ungrammatical"
	ReasonTooAmbiguous  = "too_ambiguous"
)

// Counts maps every refined tag to how often a word carried it.
type Counts map[tagger.RefinedTag]int

// NewCounts returns counts with every refined tag present at zero.
func NewCounts() Counts {
	c := make(Counts, len(tagger.RefinedTags()))
	for _, t := range tagger.RefinedTags() {
		c[t] = 0
	}
	return c
}

// Total sums the counts over all tags.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// WordCounts is one row of the frequency report.
type WordCounts struct {
	Word   string `json:"word"`
	Counts Counts `json:"counts"`
	Total  int    `json:"total"`
}

// YearCount holds one word's counts for a single year.
type YearCount struct {
	Year   int    `json:"year"`
	Counts Counts `json:"counts"`
	Total  int    `json:"total"`
}

// Failure is a sentence the parser could not turn into a tree.
type Failure struct {
	ID        int64    `json:"id"`
	MessageID string   `json:"messageId"`
	Words     []string `json:"words"`
	Score     float64  `json:"score"`
	Reason    string   `json:"reason"` // "ungrammatical" | "too_ambiguous"
	CreatedAt int64    `json:"createdAt"`
}

// Storer defines the interface for data persistence.
// This allows swapping between MemStore (testing) and SQLiteStore (production).
type Storer interface {
	// Tag counts
	AddTagged(year int, words []tagger.RefinedWord) error
	WordCounts(minTotal int) ([]WordCounts, error)
	YearCounts(word string) ([]YearCount, error)

	// Failures
	RecordFailure(f *Failure) error
	CountFailures(reason string) (int, error)
	ListFailures(reason string) ([]*Failure, error)

	// Lifecycle
	Close() error
}
