package parser

import (
	"github.com/cubedhuang/toki-pona-data-processing/pkg/grammar"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
)

// item is an Earley item: rule with the dot before RHS[dot], started at origin.
type item struct {
	rule   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]struct{}

	// Items whose next symbol is the keyed non-terminal
	waiting map[string][]item

	// Non-terminals already predicted at this position
	predicted map[string]struct{}
}

func newItemSet() *itemSet {
	return &itemSet{
		seen:      make(map[item]struct{}),
		waiting:   make(map[string][]item),
		predicted: make(map[string]struct{}),
	}
}

// span is one completed non-terminal over tokens[start:end].
type span struct {
	sym        string
	start, end int
}

type symAt struct {
	sym   string
	start int
}

// chart is the recognizer state for one token sequence. Besides the item
// sets it records every completed span, which forest extraction walks.
type chart struct {
	g      *grammar.Grammar
	tokens []lexicon.Token
	sets   []*itemSet

	// Rule ids that complete each span, in completion order
	complete map[span][]int

	// End positions for each (symbol, start), ascending
	ends map[symAt][]int

	steps int
}

func newChart(g *grammar.Grammar, tokens []lexicon.Token) *chart {
	c := &chart{
		g:        g,
		tokens:   tokens,
		sets:     make([]*itemSet, len(tokens)+1),
		complete: make(map[span][]int),
		ends:     make(map[symAt][]int),
	}
	for i := range c.sets {
		c.sets[i] = newItemSet()
	}
	return c
}

func (c *chart) add(pos int, it item) {
	set := c.sets[pos]
	if _, ok := set.seen[it]; ok {
		return
	}
	set.seen[it] = struct{}{}
	set.items = append(set.items, it)

	rhs := c.g.Rule(it.rule).RHS
	if it.dot < len(rhs) && rhs[it.dot].Kind == grammar.NonTerminal {
		name := rhs[it.dot].Name
		set.waiting[name] = append(set.waiting[name], it)
	}
}

func (c *chart) predict(pos int, sym string) {
	set := c.sets[pos]
	if _, ok := set.predicted[sym]; ok {
		return
	}
	set.predicted[sym] = struct{}{}
	for _, id := range c.g.RulesFor(sym) {
		c.add(pos, item{rule: id, origin: pos})
	}
}

// recognize fills the chart. check is called periodically and aborts the
// run when it returns an error.
func (c *chart) recognize(check func() error) error {
	c.predict(0, c.g.Start())

	for pos := range c.sets {
		if err := check(); err != nil {
			return err
		}
		set := c.sets[pos]
		for k := 0; k < len(set.items); k++ {
			c.steps++
			if c.steps%checkEvery == 0 {
				if err := check(); err != nil {
					return err
				}
			}

			it := set.items[k]
			r := c.g.Rule(it.rule)
			if it.dot == len(r.RHS) {
				c.completeItem(pos, it, r.LHS)
				continue
			}

			next := r.RHS[it.dot]
			if next.Kind == grammar.NonTerminal {
				c.predict(pos, next.Name)
				continue
			}
			if pos < len(c.tokens) && next.Matches(c.tokens[pos]) {
				c.add(pos+1, item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
			}
		}
	}
	return nil
}

// completeItem advances every item at origin that waits for lhs. Rules are
// never empty, so origin < pos and the origin set is already final.
func (c *chart) completeItem(pos int, it item, lhs string) {
	sp := span{sym: lhs, start: it.origin, end: pos}
	if _, ok := c.complete[sp]; !ok {
		at := symAt{sym: lhs, start: it.origin}
		c.ends[at] = append(c.ends[at], pos)
	}
	c.complete[sp] = append(c.complete[sp], it.rule)

	for _, w := range c.sets[it.origin].waiting[lhs] {
		c.add(pos, item{rule: w.rule, dot: w.dot + 1, origin: w.origin})
	}
}

func (c *chart) accepted() bool {
	_, ok := c.complete[span{sym: c.g.Start(), start: 0, end: len(c.tokens)}]
	return ok
}
