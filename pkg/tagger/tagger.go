// Package tagger assigns a part of speech to every word of a parse tree.
//
// Tags follow from where a word sits. Content words are modifiers unless
// they head a phrase; heads are nouns inside a clause's subject or an
// object, verbs inside a predicate, and interjection heads anywhere else.
package tagger

import (
	"fmt"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// TaggedWord is one word with its tag.
type TaggedWord struct {
	Word tree.Word `json:"word"`
	Tag  Tag       `json:"tag"`
}

// RefinedWord is one word with its refined tag.
type RefinedWord struct {
	Word tree.Word  `json:"word"`
	Tag  RefinedTag `json:"tag"`
}

type clauseContext uint8

const (
	interjection clauseContext = iota
	nominal
	verbal
)

type positionContext uint8

const (
	modifierPosition positionContext = iota
	headPosition
)

// scope is the context a subtree is tagged in. It is passed by value and
// never stored on nodes.
type scope struct {
	clause     clauseContext
	position   positionContext
	transitive bool
}

func (s scope) enter(t tree.Tree) scope {
	label := tree.LabelOf(t)
	switch {
	case label.IsClause(), label == tree.LabelObjectPhrase:
		s.clause = nominal
	case label == tree.LabelPredicate:
		s.clause = verbal
	}
	switch label {
	case tree.LabelHead:
		s.position = headPosition
	case tree.LabelVerbTransitive:
		s.transitive = true
	case tree.LabelVerbIntrans, tree.LabelVerbPrep:
		s.transitive = false
	}
	return s
}

// Words tags the words of t in surface order. A leaf's aux words follow it
// and share its context, so there is one entry per tree.Leaves element.
func Words(t tree.Tree) []TaggedWord {
	var out []TaggedWord
	walk(t, scope{}, func(l *tree.Leaf, s scope) {
		out = append(out, TaggedWord{Word: l.Word, Tag: leafTag(l.Label, s)})
	})
	return out
}

// Refine tags t like Words, splitting verbs into transitive verbs, whose
// phrase takes objects, and intransitive ones.
func Refine(t tree.Tree) []RefinedWord {
	var out []RefinedWord
	walk(t, scope{}, func(l *tree.Leaf, s scope) {
		out = append(out, RefinedWord{Word: l.Word, Tag: RefineTag(leafTag(l.Label, s), s.transitive)})
	})
	return out
}

func walk(t tree.Tree, s scope, emit func(*tree.Leaf, scope)) {
	s = s.enter(t)

	switch n := t.(type) {
	case *tree.Leaf:
		emit(n, s)
		if n.Aux != nil {
			walk(n.Aux, s, emit)
		}
	case *tree.Branch:
		walk(n.Left, s, emit)
		walk(n.Right, s, emit)
	case *tree.Labelled:
		walk(n.Inner, s, emit)
	case *tree.Rose:
		for _, c := range n.Children {
			walk(c, s, emit)
		}
	default:
		panic(fmt.Sprintf("tagger: unexpected node %T", t))
	}
}

func leafTag(label tree.Label, s scope) Tag {
	switch label {
	case tree.LabelPreposition:
		return Preposition
	case tree.LabelPreverb:
		return Preverb
	case tree.LabelContent:
		if s.position != headPosition {
			return Modifier
		}
		switch s.clause {
		case nominal:
			return Noun
		case interjection:
			return InterjectionHead
		default:
			return Verb
		}
	default:
		return Particle
	}
}
