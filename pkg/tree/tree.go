// Package tree holds the syntax trees produced by the parser.
// A Tree is one of four node shapes: Leaf, Branch, Labelled and Rose.
// Nodes are immutable once built; every builder validates its label.
package tree

import (
	"fmt"
	"strings"
)

// NoIndex marks a Word without a position in the token stream.
const NoIndex = -1

// Word is the surface word carried by a leaf.
type Word struct {
	Index int
	Text  string
}

// Node is the data shared by every tree shape.
type Node struct {
	Label  Label
	Source string
}

// Tree is a Leaf, Branch, Labelled or Rose.
type Tree interface {
	node() *Node
}

// Leaf is a terminal. Aux optionally attaches a marker tree to the word.
type Leaf struct {
	Node
	Word Word
	Aux  Tree
}

// Branch combines exactly two subtrees.
type Branch struct {
	Node
	Left  Tree
	Right Tree
}

// Labelled relabels a single subtree.
type Labelled struct {
	Node
	Inner Tree
}

// Rose is a flat n-ary node, used for coordinated and chained structures.
type Rose struct {
	Node
	Children []Tree
}

func (l *Leaf) node() *Node     { return &l.Node }
func (b *Branch) node() *Node   { return &b.Node }
func (l *Labelled) node() *Node { return &l.Node }
func (r *Rose) node() *Node     { return &r.Node }

// LabelOf returns the label of t.
func LabelOf(t Tree) Label { return t.node().Label }

// SourceOf returns the surface text spanned by t.
func SourceOf(t Tree) string { return t.node().Source }

// JoinSource joins the non-empty parts with single spaces.
func JoinSource(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p)
	}
	return sb.String()
}

func sourceOrEmpty(t Tree) string {
	if t == nil {
		return ""
	}
	return SourceOf(t)
}

// NewLeaf builds a leaf. aux may be nil.
func NewLeaf(label Label, word Word, aux Tree) *Leaf {
	return &Leaf{
		Node: Node{Label: MustLabel(label), Source: JoinSource(word.Text, sourceOrEmpty(aux))},
		Word: word,
		Aux:  aux,
	}
}

// NewBranch builds a binary node.
func NewBranch(label Label, left, right Tree) *Branch {
	return &Branch{
		Node:  Node{Label: MustLabel(label), Source: JoinSource(SourceOf(left), SourceOf(right))},
		Left:  left,
		Right: right,
	}
}

// NewLabelled wraps inner under a new label.
func NewLabelled(label Label, inner Tree) *Labelled {
	return &Labelled{
		Node:  Node{Label: MustLabel(label), Source: SourceOf(inner)},
		Inner: inner,
	}
}

// NewRose builds an n-ary node over children, in order.
func NewRose(label Label, children ...Tree) *Rose {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = SourceOf(c)
	}
	return &Rose{
		Node:     Node{Label: MustLabel(label), Source: JoinSource(parts...)},
		Children: children,
	}
}

// Gather folds a right-recursive pair into a flat Rose. If right is already
// a Rose with the same label its children are spliced after left; otherwise
// a new two-element Rose is built.
func Gather(label Label, left, right Tree) *Rose {
	MustLabel(label)
	if r, ok := right.(*Rose); ok && r.Label == label {
		children := make([]Tree, 0, len(r.Children)+1)
		children = append(children, left)
		children = append(children, r.Children...)
		return &Rose{
			Node:     Node{Label: label, Source: JoinSource(SourceOf(left), r.Source)},
			Children: children,
		}
	}
	return NewRose(label, left, right)
}

// Walk visits t and its descendants in pre-order, left to right. Aux trees
// are visited right after their leaf. Returning false from fn skips the
// node's children.
func Walk(t Tree, fn func(Tree) bool) {
	if !fn(t) {
		return
	}
	switch n := t.(type) {
	case *Leaf:
		if n.Aux != nil {
			Walk(n.Aux, fn)
		}
	case *Branch:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Labelled:
		Walk(n.Inner, fn)
	case *Rose:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	default:
		panic(fmt.Sprintf("tree: unexpected node %T", t))
	}
}

// Leaves returns every leaf of t in surface order.
func Leaves(t Tree) []*Leaf {
	var out []*Leaf
	Walk(t, func(n Tree) bool {
		if l, ok := n.(*Leaf); ok {
			out = append(out, l)
		}
		return true
	})
	return out
}

// Size counts the nodes of t.
func Size(t Tree) int {
	n := 0
	Walk(t, func(Tree) bool {
		n++
		return true
	})
	return n
}
