package pipeline

import (
	"context"
	"errors"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/analysis"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/disambig"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/parser"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tagger"
)

// SentenceResult is everything known about one processed sentence.
type SentenceResult struct {
	Outcome analysis.Outcome
	Tokens  []lexicon.Token
	// Ranked holds every parse, best first. Empty unless Outcome is Parsed.
	Ranked  []disambig.Result
	Tags    []tagger.TaggedWord
	Refined []tagger.RefinedWord
}

// Best returns the highest scored parse.
func (r *SentenceResult) Best() (disambig.Result, bool) {
	if len(r.Ranked) == 0 {
		return disambig.Result{}, false
	}
	return r.Ranked[0], true
}

// Processor runs one sentence through classification, parsing,
// disambiguation and tagging. It is safe for concurrent use.
type Processor struct {
	dict   *lexicon.Dictionary
	parser *parser.Parser
}

// NewProcessor creates a processor.
func NewProcessor(d *lexicon.Dictionary, p *parser.Parser) *Processor {
	return &Processor{dict: d, parser: p}
}

// DefaultProcessor uses the default dictionary and grammar.
func DefaultProcessor(opts ...parser.Option) *Processor {
	return NewProcessor(lexicon.Default(), parser.Default(opts...))
}

// ProcessSentence parses and tags words. An ungrammatical or too ambiguous
// sentence is reported through the outcome; the error is only set when ctx
// is done.
func (p *Processor) ProcessSentence(ctx context.Context, words []string) (*SentenceResult, error) {
	res := &SentenceResult{Tokens: p.dict.Classify(words)}

	trees, err := p.parser.Parse(ctx, res.Tokens)
	switch {
	case errors.Is(err, parser.ErrTooAmbiguous):
		res.Outcome = analysis.TooAmbiguous
		return res, nil
	case errors.Is(err, parser.ErrEmptyInput):
		res.Outcome = analysis.Ungrammatical
		return res, nil
	case err != nil:
		return nil, err
	case len(trees) == 0:
		res.Outcome = analysis.Ungrammatical
		return res, nil
	}

	res.Outcome = analysis.Parsed
	res.Ranked = disambig.Rank(trees)
	best := res.Ranked[0].Tree
	res.Tags = tagger.Words(best)
	res.Refined = tagger.Refine(best)
	return res, nil
}
