package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

func refined(text string, tag tagger.RefinedTag) tagger.RefinedWord {
	return tagger.RefinedWord{Word: tree.Word{Index: tree.NoIndex, Text: text}, Tag: tag}
}

// =============================================================================
// Tag Count Tests
// =============================================================================

func TestAddTaggedAndWordCounts(t *testing.T) {
	runTestsForAllStores(t, "WordCounts", func(t *testing.T, store Storer) {
		require.NoError(t, store.AddTagged(2021, []tagger.RefinedWord{
			refined("mi", tagger.RNoun),
			refined("moku", tagger.RTransitiveVerb),
			refined("e", tagger.RParticle),
			refined("kili", tagger.RNoun),
		}))
		require.NoError(t, store.AddTagged(2022, []tagger.RefinedWord{
			refined("Mi", tagger.RNoun),
			refined("moku", tagger.RIntransitiveVerb),
		}))

		counts, err := store.WordCounts(0)
		require.NoError(t, err)
		require.Len(t, counts, 4)

		words := make([]string, len(counts))
		for i, c := range counts {
			words[i] = c.Word
		}
		assert.Equal(t, []string{"e", "kili", "mi", "moku"}, words, "Words should be sorted")

		mi := counts[2]
		assert.Equal(t, 2, mi.Total, "Case should be folded")
		assert.Equal(t, 2, mi.Counts[tagger.RNoun])
		assert.Len(t, mi.Counts, 8, "Every refined tag should be present")

		moku := counts[3]
		assert.Equal(t, 1, moku.Counts[tagger.RTransitiveVerb])
		assert.Equal(t, 1, moku.Counts[tagger.RIntransitiveVerb])
		assert.Equal(t, 0, moku.Counts[tagger.RNoun])
	})
}

func TestWordCountsMinimumTotal(t *testing.T) {
	runTestsForAllStores(t, "MinimumTotal", func(t *testing.T, store Storer) {
		sentence := []tagger.RefinedWord{
			refined("jan", tagger.RNoun),
			refined("pona", tagger.RModifier),
			refined("pona", tagger.RModifier),
		}
		for i := 0; i < 3; i++ {
			require.NoError(t, store.AddTagged(2020, sentence))
		}

		counts, err := store.WordCounts(4)
		require.NoError(t, err)
		require.Len(t, counts, 1, "jan has 3, pona has 6")
		assert.Equal(t, "pona", counts[0].Word)
		assert.Equal(t, 6, counts[0].Total)

		counts, err = store.WordCounts(3)
		require.NoError(t, err)
		assert.Len(t, counts, 2, "Minimum total is inclusive")
	})
}

func TestYearCounts(t *testing.T) {
	runTestsForAllStores(t, "YearCounts", func(t *testing.T, store Storer) {
		require.NoError(t, store.AddTagged(2023, []tagger.RefinedWord{refined("toki", tagger.RTransitiveVerb)}))
		require.NoError(t, store.AddTagged(2021, []tagger.RefinedWord{refined("toki", tagger.RNoun)}))
		require.NoError(t, store.AddTagged(2021, []tagger.RefinedWord{refined("toki", tagger.RNoun)}))

		years, err := store.YearCounts("TOKI")
		require.NoError(t, err)
		require.Len(t, years, 2)

		assert.Equal(t, 2021, years[0].Year)
		assert.Equal(t, 2, years[0].Counts[tagger.RNoun])
		assert.Equal(t, 2, years[0].Total)

		assert.Equal(t, 2023, years[1].Year)
		assert.Equal(t, 1, years[1].Counts[tagger.RTransitiveVerb])

		none, err := store.YearCounts("soweli")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

// =============================================================================
// Failure Tests
// =============================================================================

func TestFailures(t *testing.T) {
	runTestsForAllStores(t, "Failures", func(t *testing.T, store Storer) {
		f := &Failure{
			MessageID: "1",
			Words:     []string{"li", "li", "li"},
			Score:     1,
			Reason:    ReasonUngrammatical,
			CreatedAt: 1700000000000,
		}
		require.NoError(t, store.RecordFailure(f))
		assert.NotZero(t, f.ID, "ID should be assigned")

		require.NoError(t, store.RecordFailure(&Failure{
			MessageID: "2",
			Words:     []string{"pi", "pi"},
			Reason:    ReasonTooAmbiguous,
		}))

		n, err := store.CountFailures(ReasonUngrammatical)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = store.CountFailures("")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		list, err := store.ListFailures(ReasonTooAmbiguous)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "2", list[0].MessageID)
		assert.Equal(t, []string{"pi", "pi"}, list[0].Words)
	})
}

// =============================================================================
// SQLite specifics
// =============================================================================

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.db")

	s, err := NewSQLiteStoreWithDSN(path)
	require.NoError(t, err)
	require.NoError(t, s.AddTagged(2024, []tagger.RefinedWord{refined("ala", tagger.RModifier)}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStoreWithDSN(path)
	require.NoError(t, err)
	defer s.Close()

	counts, err := s.WordCounts(1)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "ala", counts[0].Word)
}

func TestSQLiteListFailuresRejectsCorruptWords(t *testing.T) {
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`
		INSERT INTO failures (message_id, words, score, reason, created_at)
		VALUES ('1', 'not json', 0, ?, 0)
	`, ReasonUngrammatical)
	require.NoError(t, err)

	_, err = s.ListFailures("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode words")
}

func TestWordCountsJSON(t *testing.T) {
	wc := WordCounts{Word: "ale", Counts: NewCounts(), Total: 1}
	wc.Counts[tagger.RInterjectionHead] = 1

	data, err := json.Marshal(wc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"interjection_head":1`)
	assert.Contains(t, string(data), `"tverb":0`)

	var back WordCounts
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, wc, back)
}
