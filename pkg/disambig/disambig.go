// Package disambig ranks the trees of a parse forest.
//
// Each tree gets a raw score from a few structural preferences: verb,
// preverb and preposition phrases and ordinals are rewarded, and "ala" or
// "taso" standing alone as a phrase head is penalised. Scores are turned
// into a probability distribution with a softmax.
package disambig

import (
	"fmt"
	"math"
	"sort"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

const (
	phraseBonus     = 1.0
	headWordPenalty = -1.5
)

var rewarded = map[tree.Label]bool{
	tree.LabelOrdinal:           true,
	tree.LabelPreverbPhrase:     true,
	tree.LabelPrepositionPhrase: true,
	tree.LabelVerbIntrans:       true,
	tree.LabelVerbTransitive:    true,
	tree.LabelVerbPrep:          true,
}

// Words that read better as particles than as a lone phrase head. The
// match is exact, so a capitalised "Taso" is not penalised.
var penalisedHeads = map[string]bool{
	"ala":  true,
	"taso": true,
}

// Result is a tree with its share of the forest's probability mass.
type Result struct {
	Tree  tree.Tree `json:"tree"`
	Score float64   `json:"score"`
}

// Score returns the raw preference score of t.
func Score(t tree.Tree) float64 {
	var s float64
	if rewarded[tree.LabelOf(t)] {
		s += phraseBonus
	}

	switch n := t.(type) {
	case *tree.Leaf:
		// A leaf scores its own label only; aux words are not scored.
	case *tree.Branch:
		s += Score(n.Left) + Score(n.Right)
	case *tree.Labelled:
		if n.Label == tree.LabelHead {
			if leaf, ok := n.Inner.(*tree.Leaf); ok && penalisedHeads[leaf.Word.Text] {
				s += headWordPenalty
			}
		}
		s += Score(n.Inner)
	case *tree.Rose:
		for _, c := range n.Children {
			s += Score(c)
		}
	default:
		panic(fmt.Sprintf("disambig: unexpected node %T", t))
	}
	return s
}

// Rank orders trees by descending score. Ties keep forest order. The
// returned scores sum to 1; a single tree scores exactly 1.
func Rank(trees []tree.Tree) []Result {
	if len(trees) == 0 {
		return nil
	}

	results := make([]Result, len(trees))
	for i, t := range trees {
		results[i] = Result{Tree: t, Score: Score(t)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) == 1 {
		results[0].Score = 1
		return results
	}

	// Sorted, so the first score is the maximum.
	max := results[0].Score
	var sum float64
	for i := range results {
		results[i].Score = math.Exp(results[i].Score - max)
		sum += results[i].Score
	}
	for i := range results {
		results[i].Score /= sum
	}
	return results
}

// Best returns the highest ranked tree. ok is false for an empty forest.
func Best(trees []tree.Tree) (best Result, ok bool) {
	ranked := Rank(trees)
	if len(ranked) == 0 {
		return Result{}, false
	}
	return ranked[0], true
}
