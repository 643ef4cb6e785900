// Package parser finds every parse of a token sequence under a grammar.
//
// Parsing runs in two phases. An Earley recognizer fills a chart with the
// completed spans of each non-terminal; the grammar's left-recursive phrase
// rules and right-recursive list rules need no special treatment there.
// The forest is then read off the chart top-down, memoized per span, running
// each rule's action to build the trees.
package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/grammar"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

var (
	// ErrEmptyInput is returned for a sentence without tokens.
	ErrEmptyInput = errors.New("parser: empty input")

	// ErrTooAmbiguous is returned when a parse exceeds its tree or time
	// budget. The input may well be grammatical.
	ErrTooAmbiguous = errors.New("parser: too ambiguous")
)

const (
	DefaultMaxTrees = 4096
	DefaultTimeout  = 2 * time.Second

	checkEvery = 256
)

// Option configures a Parser.
type Option func(*Parser)

// WithMaxTrees bounds the number of distinct trees kept for any one span,
// the whole sentence included. n <= 0 keeps the default.
func WithMaxTrees(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxTrees = n
		}
	}
}

// WithTimeout bounds the time spent on one sentence. d <= 0 disables the
// bound; the caller's context still applies.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) { p.timeout = d }
}

// Parser parses token sequences under one grammar. It holds no per-parse
// state and is safe for concurrent use.
type Parser struct {
	g        *grammar.Grammar
	maxTrees int
	timeout  time.Duration
}

// New creates a parser for g.
func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{
		g:        g,
		maxTrees: DefaultMaxTrees,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default creates a parser for the toki pona grammar.
func Default(opts ...Option) *Parser {
	return New(grammar.TokiPona(), opts...)
}

// Parse returns every distinct tree for tokens, in a stable order. An
// ungrammatical sentence yields (nil, nil).
func (p *Parser) Parse(ctx context.Context, tokens []lexicon.Token) ([]tree.Tree, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	check := func() error {
		if runCtx.Err() == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parser: canceled: %w", err)
		}
		return fmt.Errorf("%w: %w", ErrTooAmbiguous, runCtx.Err())
	}

	c := newChart(p.g, tokens)
	if err := c.recognize(check); err != nil {
		return nil, err
	}
	if !c.accepted() {
		return nil, nil
	}

	f := newForest(c, p.maxTrees, check)
	trees, err := f.trees(span{sym: p.g.Start(), start: 0, end: len(tokens)})
	if err != nil {
		return nil, err
	}
	return trees, nil
}

// Accepts reports whether tokens form a sentence, without building trees.
func (p *Parser) Accepts(ctx context.Context, tokens []lexicon.Token) (bool, error) {
	if len(tokens) == 0 {
		return false, ErrEmptyInput
	}
	c := newChart(p.g, tokens)
	err := c.recognize(func() error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parser: canceled: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return c.accepted(), nil
}
