// Package grammar defines context-free grammars as data: a table of rules,
// each with a construction action kept in a slice parallel to the rules.
package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// ErrInvalidGrammar wraps every table construction fault.
var ErrInvalidGrammar = errors.New("grammar: invalid grammar")

// SymbolKind distinguishes the three kinds of grammar symbol.
type SymbolKind uint8

const (
	NonTerminal SymbolKind = iota
	Literal                // matches a token by its text
	Class                  // matches a token by lexical category
)

// Symbol is one item on the right-hand side of a rule.
type Symbol struct {
	Kind     SymbolKind
	Name     string // non-terminal name or literal text
	Category lexicon.Category
}

// NT refers to a non-terminal.
func NT(name string) Symbol { return Symbol{Kind: NonTerminal, Name: name} }

// Lit matches a token whose text equals text, ignoring case.
func Lit(text string) Symbol { return Symbol{Kind: Literal, Name: text} }

// Cat matches a token classified as c.
func Cat(c lexicon.Category) Symbol { return Symbol{Kind: Class, Category: c} }

// IsTerminal reports whether s matches tokens directly.
func (s Symbol) IsTerminal() bool { return s.Kind != NonTerminal }

// Matches reports whether the terminal s accepts tok.
func (s Symbol) Matches(tok lexicon.Token) bool {
	switch s.Kind {
	case Literal:
		return strings.EqualFold(tok.Text, s.Name)
	case Class:
		return tok.Has(s.Category)
	default:
		return false
	}
}

func (s Symbol) String() string {
	switch s.Kind {
	case Literal:
		return fmt.Sprintf("%q", s.Name)
	case Class:
		return "%" + s.Category.String()
	default:
		return s.Name
	}
}

// Rule is one production LHS -> RHS.
type Rule struct {
	ID  int
	LHS string
	RHS []Symbol
}

func (r Rule) String() string {
	parts := make([]string, len(r.RHS))
	for i, s := range r.RHS {
		parts[i] = s.String()
	}
	return r.LHS + " -> " + strings.Join(parts, " ")
}

// Entry is a table row: a production and the action that builds its tree.
type Entry struct {
	LHS    string
	RHS    []Symbol
	Action Action
}

// Grammar is a compiled, read-only rule table. It is safe to share between
// goroutines.
type Grammar struct {
	start   string
	rules   []Rule
	actions []Action
	byLHS   map[string][]int
}

// New compiles entries into a grammar rooted at start.
func New(start string, entries []Entry) (*Grammar, error) {
	g := &Grammar{
		start:   start,
		rules:   make([]Rule, 0, len(entries)),
		actions: make([]Action, 0, len(entries)),
		byLHS:   make(map[string][]int),
	}

	for i, e := range entries {
		if e.LHS == "" {
			return nil, fmt.Errorf("%w: rule %d has no left-hand side", ErrInvalidGrammar, i)
		}
		if len(e.RHS) == 0 {
			return nil, fmt.Errorf("%w: rule %d (%s) has an empty right-hand side", ErrInvalidGrammar, i, e.LHS)
		}
		if e.Action.build == nil {
			return nil, fmt.Errorf("%w: rule %d (%s) has no action", ErrInvalidGrammar, i, e.LHS)
		}
		if why := e.Action.checkShape(e.RHS); why != "" {
			return nil, fmt.Errorf("%w: rule %d (%s): %s", ErrInvalidGrammar, i, e.LHS, why)
		}
		g.rules = append(g.rules, Rule{ID: i, LHS: e.LHS, RHS: e.RHS})
		g.actions = append(g.actions, e.Action)
		g.byLHS[e.LHS] = append(g.byLHS[e.LHS], i)
	}

	if _, ok := g.byLHS[start]; !ok {
		return nil, fmt.Errorf("%w: start symbol %q has no rules", ErrInvalidGrammar, start)
	}
	for _, r := range g.rules {
		for _, s := range r.RHS {
			if s.Kind == NonTerminal {
				if _, ok := g.byLHS[s.Name]; !ok {
					return nil, fmt.Errorf("%w: %s refers to undefined symbol %q", ErrInvalidGrammar, r, s.Name)
				}
			}
		}
	}
	if cycle := g.unitCycle(); cycle != "" {
		return nil, fmt.Errorf("%w: unit rules form a cycle through %q", ErrInvalidGrammar, cycle)
	}
	return g, nil
}

// Start returns the start symbol.
func (g *Grammar) Start() string { return g.start }

// Len returns the number of rules.
func (g *Grammar) Len() int { return len(g.rules) }

// Rule returns rule id.
func (g *Grammar) Rule(id int) Rule { return g.rules[id] }

// RulesFor returns the ids of the rules for lhs, in table order.
func (g *Grammar) RulesFor(lhs string) []int { return g.byLHS[lhs] }

// Build runs the action of rule id over its matched children.
func (g *Grammar) Build(id int, args []Arg) tree.Tree {
	return g.actions[id].Build(args)
}

// unitCycle looks for A -> B -> ... -> A through single non-terminal rules,
// which would give a symbol infinitely many derivations.
func (g *Grammar) unitCycle() string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(g.byLHS))

	var visit func(sym string) string
	visit = func(sym string) string {
		switch state[sym] {
		case active:
			return sym
		case done:
			return ""
		}
		state[sym] = active
		for _, id := range g.byLHS[sym] {
			r := g.rules[id]
			if len(r.RHS) == 1 && r.RHS[0].Kind == NonTerminal {
				if c := visit(r.RHS[0].Name); c != "" {
					return c
				}
			}
		}
		state[sym] = done
		return ""
	}

	for _, r := range g.rules {
		if c := visit(r.LHS); c != "" {
			return c
		}
	}
	return ""
}
