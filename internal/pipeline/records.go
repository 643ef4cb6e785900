// Package pipeline turns a chat export into parsed, tagged and counted
// toki pona sentences.
package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// RawMessage is one line of the input export.
type RawMessage struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
}

// ScoredSentence is a sentence that passed or failed the gate.
type ScoredSentence struct {
	Score float64  `json:"score"`
	Words []string `json:"words"`
}

// ScoredMessage is a message with its gated sentences. Failed parses are
// written in this shape too.
type ScoredMessage struct {
	ID        string           `json:"id"`
	Score     float64          `json:"score"`
	Sentences []ScoredSentence `json:"sentences"`
}

// ParsedMessage holds the best tree of every sentence that parsed.
type ParsedMessage struct {
	ID        string      `json:"id"`
	Sentences []tree.Tree `json:"sentences"`
}

func (m *ParsedMessage) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID        string            `json:"id"`
		Sentences []json.RawMessage `json:"sentences"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.ID = wire.ID
	m.Sentences = make([]tree.Tree, 0, len(wire.Sentences))
	for _, raw := range wire.Sentences {
		t, err := tree.Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("pipeline: message %s: %w", wire.ID, err)
		}
		m.Sentences = append(m.Sentences, t)
	}
	return nil
}

// TaggedSentence is the refined tagging of one best tree.
type TaggedSentence struct {
	Words []tagger.RefinedWord `json:"words"`
}

// TaggedMessage holds the tagged sentences of one message.
type TaggedMessage struct {
	ID        string           `json:"id"`
	Sentences []TaggedSentence `json:"sentences"`
}

// discordEpoch is the first millisecond of 2015 UTC.
const discordEpoch = 1420070400000

// SnowflakeTime returns the creation time encoded in a Discord id.
func SnowflakeTime(id string) (time.Time, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("pipeline: invalid snowflake %q: %w", id, err)
	}
	return time.UnixMilli(int64(n>>22) + discordEpoch).UTC(), nil
}

// SnowflakeYear returns the year a Discord id was created in.
func SnowflakeYear(id string) (int, error) {
	t, err := SnowflakeTime(id)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}
