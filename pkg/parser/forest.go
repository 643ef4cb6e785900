package parser

import (
	"fmt"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/grammar"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// forest enumerates the trees of completed spans. Each span is expanded
// once; trees with the same bracketed shape are kept once.
type forest struct {
	c        *chart
	maxTrees int
	check    func() error

	memo   map[span][]tree.Tree
	active map[span]bool
	builds int
}

func newForest(c *chart, maxTrees int, check func() error) *forest {
	return &forest{
		c:        c,
		maxTrees: maxTrees,
		check:    check,
		memo:     make(map[span][]tree.Tree),
		active:   make(map[span]bool),
	}
}

func (f *forest) trees(sp span) ([]tree.Tree, error) {
	if ts, ok := f.memo[sp]; ok {
		return ts, nil
	}
	// Unit cycles are rejected by grammar.New; re-entry yields nothing.
	if f.active[sp] {
		return nil, nil
	}
	f.active[sp] = true
	defer delete(f.active, sp)

	var out []tree.Tree
	seen := make(map[string]struct{})

	for _, id := range f.c.complete[sp] {
		rhs := f.c.g.Rule(id).RHS
		args := make([]grammar.Arg, len(rhs))

		err := f.expand(id, rhs, 0, sp.start, sp.end, args, func() error {
			f.builds++
			if f.builds%checkEvery == 0 {
				if err := f.check(); err != nil {
					return err
				}
			}

			t := f.c.g.Build(id, args)
			key := tree.Bracketed(t)
			if _, dup := seen[key]; dup {
				return nil
			}
			seen[key] = struct{}{}
			out = append(out, t)
			if len(out) > f.maxTrees {
				return fmt.Errorf("%w: more than %d trees for %s over %d..%d",
					ErrTooAmbiguous, f.maxTrees, sp.sym, sp.start, sp.end)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	f.memo[sp] = out
	return out, nil
}

// expand fills args[k:] with every way rhs[k:] can cover tokens[pos:end]
// and calls emit for each complete assignment.
func (f *forest) expand(id int, rhs []grammar.Symbol, k, pos, end int, args []grammar.Arg, emit func() error) error {
	if k == len(rhs) {
		if pos != end {
			return nil
		}
		return emit()
	}

	// Every symbol covers at least one token.
	remaining := len(rhs) - k
	if end-pos < remaining {
		return nil
	}

	sym := rhs[k]
	if sym.IsTerminal() {
		if !sym.Matches(f.c.tokens[pos]) {
			return nil
		}
		args[k] = grammar.Arg{Token: &f.c.tokens[pos]}
		return f.expand(id, rhs, k+1, pos+1, end, args, emit)
	}

	for _, e := range f.c.ends[symAt{sym: sym.Name, start: pos}] {
		if e > end-(remaining-1) {
			break
		}
		subs, err := f.trees(span{sym: sym.Name, start: pos, end: e})
		if err != nil {
			return err
		}
		for _, sub := range subs {
			args[k] = grammar.Arg{Tree: sub}
			if err := f.expand(id, rhs, k+1, e, end, args, emit); err != nil {
				return err
			}
		}
	}
	return nil
}
