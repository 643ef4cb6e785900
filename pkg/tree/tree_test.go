package tree

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(label Label, i int, text string) *Leaf {
	return NewLeaf(label, Word{Index: i, Text: text}, nil)
}

func TestJoinSource(t *testing.T) {
	assert.Equal(t, "mi moku", JoinSource("mi", "", "moku"))
	assert.Equal(t, "", JoinSource())
	assert.Equal(t, "a", JoinSource("", "a", ""))
}

func TestBuildersDeriveSource(t *testing.T) {
	mi := NewLabelled(LabelHead, leaf(LabelContent, 0, "mi"))
	li := leaf(LabelIndicative, 1, "li")
	moku := NewLabelled(LabelHead, leaf(LabelContent, 2, "moku"))
	pred := NewBranch(LabelPredicate, li, NewLabelled(LabelVerbIntrans, moku))
	clause := NewBranch(LabelClauseMarkedSubject, NewLabelled(LabelSubject, mi), pred)

	assert.Equal(t, "mi li moku", clause.Source)
	assert.Equal(t, "li moku", pred.Source)
	assert.Equal(t, LabelClauseMarkedSubject, LabelOf(clause))
}

func TestLeafSourceIncludesAux(t *testing.T) {
	emph := leaf(LabelEmphasis, 2, "a")
	neg := NewLeaf(LabelNegator, Word{Index: 1, Text: "ala"}, emph)

	assert.Equal(t, "ala a", neg.Source)
	leaves := Leaves(neg)
	require.Len(t, leaves, 2)
	assert.Equal(t, "ala", leaves[0].Word.Text)
	assert.Equal(t, "a", leaves[1].Word.Text)
}

func TestInvalidLabelPanics(t *testing.T) {
	assert.Panics(t, func() { leaf(Label("nonsense"), 0, "x") })
	assert.Panics(t, func() { NewRose(Label("& nothing")) })

	_, err := ParseLabel("nonsense")
	assert.ErrorIs(t, err, ErrInvalidLabel)

	l, err := ParseLabel("& objects")
	require.NoError(t, err)
	assert.Equal(t, LabelObjects, l)
}

func TestGatherFlattensChains(t *testing.T) {
	a := leaf(LabelContent, 0, "kili")
	b := leaf(LabelContent, 1, "pan")
	c := leaf(LabelContent, 2, "telo")

	// right-recursive: a (b c)
	inner := Gather(LabelDisjuncts, b, c)
	outer := Gather(LabelDisjuncts, a, inner)

	require.Len(t, outer.Children, 3)
	for _, child := range outer.Children {
		_, isRose := child.(*Rose)
		assert.False(t, isRose)
	}
	assert.Equal(t, "kili pan telo", outer.Source)
}

func TestGatherWrapsRoseWithOtherLabel(t *testing.T) {
	number := NewRose(LabelNumber, leaf(LabelNumeral, 1, "tu"), leaf(LabelNumeral, 2, "wan"))
	got := Gather(LabelDisjuncts, leaf(LabelContent, 0, "jan"), number)

	require.Len(t, got.Children, 2)
	assert.Same(t, number, got.Children[1])
}

func TestLeavesMatchSource(t *testing.T) {
	tr := NewBranch(LabelPhrase,
		NewLabelled(LabelHead, leaf(LabelContent, 0, "jan")),
		NewBranch(LabelPi, leaf(LabelRegrouper, 1, "pi"),
			NewBranch(LabelPhrase,
				NewLabelled(LabelHead, leaf(LabelContent, 2, "ma")),
				leaf(LabelContent, 3, "tomo"))))

	var words []string
	for _, l := range Leaves(tr) {
		words = append(words, l.Word.Text)
	}
	assert.Equal(t, SourceOf(tr), strings.Join(words, " "))
	assert.Equal(t, 9, Size(tr))
}

func TestFormat(t *testing.T) {
	tr := NewLabelled(LabelHead, leaf(LabelContent, 0, "toki"))
	assert.Equal(t, "head\n  cont \"toki\"\n", Format(tr))
	assert.Equal(t, `(head (cont "toki"))`, Bracketed(tr))
}

func TestJSONRoundTrip(t *testing.T) {
	tr := NewBranch(LabelClauseMarkedSubject,
		NewLabelled(LabelSubject, NewLabelled(LabelHead, leaf(LabelContent, 0, "soweli"))),
		NewBranch(LabelPredicate,
			leaf(LabelIndicative, 1, "li"),
			NewBranch(LabelPreverbPhrase,
				NewLeaf(LabelPreverb, Word{Index: 2, Text: "wile"}, leaf(LabelEmphasis, 3, "a")),
				NewLabelled(LabelVerbIntrans, NewRose(LabelObjects,
					NewLabelled(LabelHead, leaf(LabelContent, 4, "moku")),
					NewLabelled(LabelHead, NewLeaf(LabelContent, Word{Index: NoIndex, Text: "pona"}, nil)),
				)))))

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"branch"`)
	assert.Contains(t, string(data), `"tree":{"type":"labelled"`)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, Bracketed(tr), Bracketed(back))
	assert.Equal(t, SourceOf(tr), SourceOf(back))

	last := Leaves(back)[len(Leaves(back))-1]
	assert.Equal(t, NoIndex, last.Word.Index)
}

func TestUnmarshalRejectsUnknownLabel(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type":"leaf","label":"bogus","source":"x","word":{"text":"x"}}`))
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = Unmarshal([]byte(`{"type":"tuple","label":"head","source":""}`))
	assert.Error(t, err)
}
