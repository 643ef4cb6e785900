package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubedhuang/toki-pona-data-processing/internal/store"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/analysis"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/gate"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/parser"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"
)

func TestSnowflakeYear(t *testing.T) {
	tests := []struct {
		id   string
		year int
	}{
		{"800000000000000000", 2021},
		{"1000000000000000000", 2022},
		{"1200000000000000000", 2024},
		{"0", 2015},
	}
	for _, tt := range tests {
		year, err := SnowflakeYear(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.year, year, tt.id)
	}

	_, err := SnowflakeYear("not-an-id")
	assert.Error(t, err)
}

func TestProcessSentence(t *testing.T) {
	p := DefaultProcessor()
	ctx := context.Background()

	res, err := p.ProcessSentence(ctx, []string{"mi", "moku", "e", "kili"})
	require.NoError(t, err)
	assert.Equal(t, analysis.Parsed, res.Outcome)
	require.Len(t, res.Refined, 4)
	assert.Equal(t, tagger.RTransitiveVerb, res.Refined[1].Tag)
	assert.Len(t, res.Tags, 4)
	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, res.Ranked[0].Score, best.Score)

	res, err = p.ProcessSentence(ctx, []string{"li", "li", "li"})
	require.NoError(t, err)
	assert.Equal(t, analysis.Ungrammatical, res.Outcome)
	assert.Empty(t, res.Ranked)

	res, err = p.ProcessSentence(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, analysis.Ungrammatical, res.Outcome)
}

func TestProcessSentenceTooAmbiguous(t *testing.T) {
	p := DefaultProcessor(parser.WithMaxTrees(1))

	res, err := p.ProcessSentence(context.Background(), []string{"mi", "moku"})
	require.NoError(t, err)
	assert.Equal(t, analysis.TooAmbiguous, res.Outcome)
	assert.Equal(t, "too_ambiguous", res.Outcome.String())
}

// =============================================================================
// Runner
// =============================================================================

func writeMessages(t *testing.T, fs hackpadfs.FS, name string, msgs []RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, m := range msgs {
		require.NoError(t, enc.Encode(m))
		buf.WriteString("\n") // blank lines are skipped
	}
	require.NoError(t, hackpadfs.WriteFullFile(fs, name, buf.Bytes(), 0644))
}

func readLines(t *testing.T, fs hackpadfs.FS, name string) []string {
	t.Helper()
	data, err := hackpadfs.ReadFile(fs, name)
	require.NoError(t, err)
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func newRunner(st store.Storer, workers int) *Runner {
	return NewRunner(gate.Default(), DefaultProcessor(), st, Options{Workers: workers})
}

func TestRun(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	writeMessages(t, fs, "messages.jsonl", []RawMessage{
		{ID: "800000000000000000", Content: "mi moku e kili.", AuthorID: "a"},
		{ID: "1000000000000000001", Content: "I like apples very much", AuthorID: "b"},
		{ID: "1200000000000000000", Content: "li li li", AuthorID: "a"},
		{ID: "1000000000000000000", Content: "mi moku.", AuthorID: "c"},
	})

	st := store.NewMemStore()
	stats, err := newRunner(st, 4).Run(context.Background(), fs, "messages.jsonl", "out")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Messages)
	assert.Equal(t, 3, stats.Selected)
	assert.Equal(t, 3, stats.Sentences)
	assert.Equal(t, 2, stats.Parsed)
	assert.Equal(t, 1, stats.Ungrammatical)
	assert.Equal(t, 9, stats.Words)

	trees := readLines(t, fs, "out/"+TreesFile)
	require.Len(t, trees, 2)
	var parsed ParsedMessage
	require.NoError(t, json.Unmarshal([]byte(trees[0]), &parsed))
	assert.Equal(t, "800000000000000000", parsed.ID)
	require.Len(t, parsed.Sentences, 1)

	tagged := readLines(t, fs, "out/"+TaggedFile)
	require.Len(t, tagged, 2)
	var tm TaggedMessage
	require.NoError(t, json.Unmarshal([]byte(tagged[1]), &tm))
	assert.Equal(t, "1000000000000000000", tm.ID)

	failures := readLines(t, fs, "out/"+FailuresFile)
	require.Len(t, failures, 1)
	var failed ScoredMessage
	require.NoError(t, json.Unmarshal([]byte(failures[0]), &failed))
	assert.Equal(t, "1200000000000000000", failed.ID)
	assert.Equal(t, []string{"li", "li", "li"}, failed.Sentences[0].Words)

	n, err := st.CountFailures(store.ReasonUngrammatical)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	counts, err := st.WordCounts(2)
	require.NoError(t, err)
	words := make([]string, len(counts))
	for i, c := range counts {
		words[i] = c.Word
	}
	assert.Equal(t, []string{"mi", "moku"}, words)

	years, err := st.YearCounts("moku")
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2021, years[0].Year)
	assert.Equal(t, 1, years[0].Counts[tagger.RTransitiveVerb])
	assert.Equal(t, 2022, years[1].Year)
}

func TestRunKeepsInputOrder(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	var msgs []RawMessage
	for i := 0; i < 60; i++ {
		content := "jan li pona."
		if i%3 == 0 {
			content = "jan pona li lukin e ni li pona."
		}
		msgs = append(msgs, RawMessage{ID: fmt.Sprintf("%d", 900000000000000000+i), Content: content})
	}
	writeMessages(t, fs, "in.jsonl", msgs)

	stats, err := newRunner(store.NewMemStore(), 8).Run(context.Background(), fs, "in.jsonl", "out")
	require.NoError(t, err)
	assert.Equal(t, 60, stats.Messages)

	lines := readLines(t, fs, "out/"+TaggedFile)
	require.Len(t, lines, 60)
	for i, line := range lines {
		var tm TaggedMessage
		require.NoError(t, json.Unmarshal([]byte(line), &tm))
		assert.Equal(t, msgs[i].ID, tm.ID, "line %d", i)
	}
}

func TestRunMissingInput(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	_, err = newRunner(store.NewMemStore(), 2).Run(context.Background(), fs, "nope.jsonl", "out")
	assert.Error(t, err)
}

func TestRunSkipsBadLines(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	input := strings.Join([]string{
		`{"id": "800000000000000000", "content": "sina pona.", "authorId": "x"}`,
		`{not json`,
		`{"id": "800000000000000001", "content": "mi moku.", "authorId": "y"}`,
	}, "\n")
	require.NoError(t, hackpadfs.WriteFullFile(fs, "in.jsonl", []byte(input), 0644))

	stats, err := newRunner(store.NewMemStore(), 2).Run(context.Background(), fs, "in.jsonl", "out")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Messages)
	assert.Len(t, readLines(t, fs, "out/"+TreesFile), 2)
}

func TestRunScoresSyllabicOnlyMessages(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	writeMessages(t, fs, "in.jsonl", []RawMessage{
		{ID: "900000000000000000", Content: "wawawa nanunu", AuthorID: "a"},
	})

	g := gate.Default()
	require.Zero(t, g.Mentions("wawawa nanunu"))

	st := store.NewMemStore()
	stats, err := newRunner(st, 2).Run(context.Background(), fs, "in.jsonl", "out")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Selected)
	assert.Equal(t, 1, stats.Ungrammatical)

	failures := readLines(t, fs, "out/"+FailuresFile)
	require.Len(t, failures, 1)
	var failed ScoredMessage
	require.NoError(t, json.Unmarshal([]byte(failures[0]), &failed))
	assert.Equal(t, []string{"wawawa", "nanunu"}, failed.Sentences[0].Words)

	n, err := st.CountFailures(store.ReasonUngrammatical)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
