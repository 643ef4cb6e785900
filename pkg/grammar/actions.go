package grammar

import (
	"fmt"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// Arg is one matched right-hand side item: a subtree for a non-terminal,
// a token for a terminal.
type Arg struct {
	Tree  tree.Tree
	Token *lexicon.Token
}

// Action builds the tree for a completed rule from its matched children.
// Only a Leaf action may consume a terminal, and only as its first child;
// New rejects any other placement.
type Action struct {
	name  string
	leaf  bool
	build func(args []Arg) tree.Tree
}

// Build runs the action over args.
func (a Action) Build(args []Arg) tree.Tree { return a.build(args) }

func (a Action) String() string { return a.name }

// Pass returns the first child unchanged.
func Pass() Action {
	return Action{name: "pass", build: func(args []Arg) tree.Tree { return args[0].Tree }}
}

// Leaf turns the matched token into a leaf. A second child, when present,
// becomes the leaf's aux tree.
func Leaf(label tree.Label) Action {
	label = tree.MustLabel(label)
	return Action{name: "leaf " + string(label), leaf: true, build: func(args []Arg) tree.Tree {
		tok := args[0].Token
		if tok == nil {
			panic(fmt.Sprintf("grammar: leaf %q over a non-terminal", label))
		}
		var aux tree.Tree
		if len(args) > 1 {
			aux = args[1].Tree
		}
		return tree.NewLeaf(label, tree.Word{Index: tok.Position, Text: tok.Text}, aux)
	}}
}

// Branch joins two children.
func Branch(label tree.Label) Action {
	label = tree.MustLabel(label)
	return Action{name: "branch " + string(label), build: func(args []Arg) tree.Tree {
		return tree.NewBranch(label, args[0].Tree, args[1].Tree)
	}}
}

// Labelled wraps the single child.
func Labelled(label tree.Label) Action {
	label = tree.MustLabel(label)
	return Action{name: "labelled " + string(label), build: func(args []Arg) tree.Tree {
		return tree.NewLabelled(label, args[0].Tree)
	}}
}

// Gather folds a right-recursive list step into a flat rose.
func Gather(label tree.Label) Action {
	label = tree.MustLabel(label)
	return Action{name: "gather " + string(label), build: func(args []Arg) tree.Tree {
		return tree.Gather(label, args[0].Tree, args[1].Tree)
	}}
}

// Rose wraps all children in a rose.
func Rose(label tree.Label) Action {
	label = tree.MustLabel(label)
	return Action{name: "rose " + string(label), build: func(args []Arg) tree.Tree {
		children := make([]tree.Tree, len(args))
		for i, a := range args {
			children[i] = a.Tree
		}
		return tree.NewRose(label, children...)
	}}
}

// checkShape reports why rhs cannot feed a, or "" when it can.
func (a Action) checkShape(rhs []Symbol) string {
	for i, s := range rhs {
		switch {
		case a.leaf && i == 0 && !s.IsTerminal():
			return fmt.Sprintf("%s needs a terminal first, got %s", a, s)
		case s.IsTerminal() && !(a.leaf && i == 0):
			return fmt.Sprintf("%s cannot take terminal %s at position %d", a, s, i)
		}
	}
	return ""
}
