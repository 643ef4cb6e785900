// Package gate decides which messages and sentences of a chat corpus are
// written in toki pona.
//
// A message is stripped of chat markup, split into sentences and words,
// and every sentence is scored by how many of its words look like toki pona.
// Select keeps the sentences that are confidently toki pona.
package gate

import (
	"fmt"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
)

// Options holds the scoring thresholds.
type Options struct {
	// Minimum sentence score
	PassingScore float64 `yaml:"passing_score"`

	// Messages scoring below this contribute nothing
	MessageMinimum float64 `yaml:"message_minimum"`

	// Sentences shorter than this many words also need the message to
	// score at least ShortMessageMinimum
	ShortSentence       int     `yaml:"short_sentence"`
	ShortMessageMinimum float64 `yaml:"short_message_minimum"`

	Scorer string `yaml:"scorer"`
}

// DefaultOptions returns the thresholds used for the corpus.
func DefaultOptions() Options {
	return Options{
		PassingScore:        0.8,
		MessageMinimum:      0.1,
		ShortSentence:       3,
		ShortMessageMinimum: 0.3,
		Scorer:              "soft_scaling",
	}
}

// Scorecard records each stage of scoring one text.
type Scorecard struct {
	Text      string   `json:"text"`
	Tokenized []string `json:"tokenized"`
	Filtered  []string `json:"filtered"`
	Cleaned   []string `json:"cleaned"`
	Score     float64  `json:"score"`
}

// Gate scores text against a dictionary. It is safe for concurrent use.
type Gate struct {
	dict    *lexicon.Dictionary
	opts    Options
	scorer  Scorer
	filters []Filter
}

// New creates a gate backed by d.
func New(d *lexicon.Dictionary, opts Options) (*Gate, error) {
	scorer, err := ScorerByName(opts.Scorer)
	if err != nil {
		return nil, err
	}
	ws, err := loadWordSets(falsePosData)
	if err != nil {
		return nil, err
	}
	return &Gate{
		dict:    d,
		opts:    opts,
		scorer:  scorer,
		filters: corpusFilters(d, ws),
	}, nil
}

// Default creates a gate over the default dictionary and thresholds.
func Default() *Gate {
	g, err := New(lexicon.Default(), DefaultOptions())
	if err != nil {
		panic(fmt.Sprintf("gate: default gate: %v", err))
	}
	return g
}

// Options returns the gate's thresholds.
func (g *Gate) Options() Options { return g.opts }

// Mentions counts the dictionary words found in message.
func (g *Gate) Mentions(message string) int {
	return len(g.dict.Scan(message))
}

// Scorecard scores a whole message.
func (g *Gate) Scorecard(message string) Scorecard {
	return g.analyze(Preprocess(message))
}

// Sentences scores each sentence of message. Sentences without any
// scorable word are dropped.
func (g *Gate) Sentences(message string) []Scorecard {
	var out []Scorecard
	for _, s := range SplitSentences(Preprocess(message)) {
		card := g.analyze(s)
		if len(card.Cleaned) == 0 {
			continue
		}
		out = append(out, card)
	}
	return out
}

// Select returns the sentences that count as toki pona given their
// message's scorecard.
func (g *Gate) Select(message Scorecard, sentences []Scorecard) []Scorecard {
	if message.Score < g.opts.MessageMinimum {
		return nil
	}
	var out []Scorecard
	for _, s := range sentences {
		if s.Score < g.opts.PassingScore {
			continue
		}
		if len(s.Cleaned) < g.opts.ShortSentence && message.Score < g.opts.ShortMessageMinimum {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (g *Gate) analyze(text string) Scorecard {
	card := Scorecard{Text: text}

	for _, r := range Words(text) {
		card.Tokenized = append(card.Tokenized, r.Slice(text))
	}
	for _, tok := range card.Tokenized {
		if g.ignored(tok) {
			continue
		}
		card.Filtered = append(card.Filtered, tok)
	}
	for _, tok := range card.Filtered {
		if !g.dict.Known(tok) {
			tok = CollapseRepeats(tok)
		}
		if tok != "" {
			card.Cleaned = append(card.Cleaned, tok)
		}
	}

	card.Score = g.scorer.Score(card.Cleaned, g.filters)
	return card
}

func (g *Gate) ignored(tok string) bool {
	for _, f := range ignoringFilters {
		if f(tok) {
			return true
		}
	}
	return false
}
