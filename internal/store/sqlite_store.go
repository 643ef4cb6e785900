package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore is the SQLite-backed data store.
// Thread-safe for concurrent pipeline workers.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines the counter and failure tables.
const schema = `
-- One counter per (word, year, tag); words are stored lower-cased
CREATE TABLE IF NOT EXISTS tag_counts (
    word TEXT NOT NULL,
    year INTEGER NOT NULL,
    tag TEXT NOT NULL,
    count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (word, year, tag)
);

CREATE INDEX IF NOT EXISTS idx_tag_counts_word ON tag_counts(word);

CREATE TABLE IF NOT EXISTS failures (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    message_id TEXT NOT NULL,
    words TEXT NOT NULL,
    score REAL DEFAULT 0,
    reason TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_failures_reason ON failures(reason);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Tag counts
// =============================================================================

type countKey struct {
	word string
	tag  tagger.RefinedTag
}

// AddTagged increments the counters of every word in one tagged sentence.
func (s *SQLiteStore) AddTagged(year int, words []tagger.RefinedWord) error {
	if len(words) == 0 {
		return nil
	}
	delta := make(map[countKey]int)
	for _, w := range words {
		delta[countKey{strings.ToLower(w.Word.Text), w.Tag}]++
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: failed to begin: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO tag_counts (word, year, tag, count) VALUES (?, ?, ?, ?)
		ON CONFLICT(word, year, tag) DO UPDATE SET count = count + excluded.count
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("store: failed to prepare: %w", err)
	}
	defer stmt.Close()

	for k, n := range delta {
		if _, err := stmt.Exec(k.word, year, k.tag.String(), n); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: failed to add %q: %w", k.word, err)
		}
	}
	return tx.Commit()
}

// WordCounts returns the per-word totals over all years, sorted by word,
// keeping words seen at least minTotal times.
func (s *SQLiteStore) WordCounts(minTotal int) ([]WordCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT word, tag, SUM(count) FROM tag_counts
		GROUP BY word, tag ORDER BY word
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WordCounts
	var cur *WordCounts
	flush := func() {
		if cur == nil {
			return
		}
		cur.Total = cur.Counts.Total()
		if cur.Total >= minTotal {
			result = append(result, *cur)
		}
	}

	for rows.Next() {
		var word, tagName string
		var n int
		if err := rows.Scan(&word, &tagName, &n); err != nil {
			return nil, err
		}
		tag, err := tagger.ParseRefinedTag(tagName)
		if err != nil {
			return nil, fmt.Errorf("store: corrupt row for %q: %w", word, err)
		}
		if cur == nil || cur.Word != word {
			flush()
			cur = &WordCounts{Word: word, Counts: NewCounts()}
		}
		cur.Counts[tag] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	flush()

	return result, nil
}

// YearCounts returns the counts of word for each year it appears in,
// oldest first.
func (s *SQLiteStore) YearCounts(word string) ([]YearCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT year, tag, count FROM tag_counts
		WHERE word = ? ORDER BY year
	`, strings.ToLower(word))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []YearCount
	for rows.Next() {
		var year, n int
		var tagName string
		if err := rows.Scan(&year, &tagName, &n); err != nil {
			return nil, err
		}
		tag, err := tagger.ParseRefinedTag(tagName)
		if err != nil {
			return nil, fmt.Errorf("store: corrupt row for %q: %w", word, err)
		}
		if len(result) == 0 || result[len(result)-1].Year != year {
			result = append(result, YearCount{Year: year, Counts: NewCounts()})
		}
		yc := &result[len(result)-1]
		yc.Counts[tag] += n
		yc.Total += n
	}
	return result, rows.Err()
}

// =============================================================================
// Failures
// =============================================================================

// RecordFailure stores f and sets its ID.
func (s *SQLiteStore) RecordFailure(f *Failure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wordsJSON, err := json.Marshal(f.Words)
	if err != nil {
		return fmt.Errorf("store: failed to encode failure words: %w", err)
	}
	res, err := s.db.Exec(`
		INSERT INTO failures (message_id, words, score, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.MessageID, string(wordsJSON), f.Score, f.Reason, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: failed to record failure: %w", err)
	}
	f.ID, err = res.LastInsertId()
	return err
}

// CountFailures counts failures with the given reason, or all of them if
// reason is empty.
func (s *SQLiteStore) CountFailures(reason string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	var err error
	if reason == "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM failures`).Scan(&count)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM failures WHERE reason = ?`, reason).Scan(&count)
	}
	return count, err
}

// ListFailures returns the stored failures with the given reason, or all of
// them if reason is empty, in insertion order.
func (s *SQLiteStore) ListFailures(reason string) ([]*Failure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if reason == "" {
		rows, err = s.db.Query(`
			SELECT id, message_id, words, score, reason, created_at
			FROM failures ORDER BY id
		`)
	} else {
		rows, err = s.db.Query(`
			SELECT id, message_id, words, score, reason, created_at
			FROM failures WHERE reason = ? ORDER BY id
		`, reason)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []*Failure
	for rows.Next() {
		var f Failure
		var wordsJSON string
		if err := rows.Scan(&f.ID, &f.MessageID, &wordsJSON, &f.Score, &f.Reason, &f.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(wordsJSON), &f.Words); err != nil {
			return nil, fmt.Errorf("store: failed to decode words of failure %d: %w", f.ID, err)
		}
		failures = append(failures, &f)
	}
	return failures, rows.Err()
}
