package tagger

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/disambig"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/parser"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

func parseAll(t *testing.T, tokens []lexicon.Token) []tree.Tree {
	t.Helper()
	trees, err := parser.Default().Parse(context.Background(), tokens)
	require.NoError(t, err)
	require.NotEmpty(t, trees)
	return trees
}

func best(t *testing.T, sentence string) tree.Tree {
	t.Helper()
	trees := parseAll(t, lexicon.Default().Classify(strings.Fields(sentence)))
	r, ok := disambig.Best(trees)
	require.True(t, ok)
	return r.Tree
}

func tagsOf(words []TaggedWord) []Tag {
	out := make([]Tag, len(words))
	for i, w := range words {
		out[i] = w.Tag
	}
	return out
}

func TestTagMarkedSubjectClause(t *testing.T) {
	trees := parseAll(t, []lexicon.Token{
		lexicon.NewToken("mi", 0, lexicon.Content),
		lexicon.NewToken("li", 1),
		lexicon.NewToken("moku", 2, lexicon.Content),
	})
	require.Len(t, trees, 1)

	words := Words(trees[0])
	require.Len(t, words, 3)
	assert.Equal(t, []Tag{Noun, Particle, Verb}, tagsOf(words))
	assert.Equal(t, tree.Word{Index: 2, Text: "moku"}, words[2].Word)
}

func TestTagObjectModifiers(t *testing.T) {
	root := best(t, "ona li moku e kili pona e pan e telo")
	words := Words(root)

	assert.Equal(t, []Tag{
		Noun, Particle, Verb,
		Particle, Noun, Modifier,
		Particle, Noun,
		Particle, Noun,
	}, tagsOf(words))
}

func TestTagInterjection(t *testing.T) {
	// A bare phrase is not a clause.
	words := Words(best(t, "jan pona"))
	assert.Equal(t, []Tag{InterjectionHead, Modifier}, tagsOf(words))
}

func TestTagPrepositionAndPreverb(t *testing.T) {
	// The preposition's complement sits in the predicate, so its head
	// reads as verbal.
	words := Words(best(t, "jan li wile lon tomo"))
	assert.Equal(t, []Tag{Noun, Particle, Preverb, Preposition, Verb}, tagsOf(words))
}

func TestTagAuxWords(t *testing.T) {
	trees := parseAll(t, lexicon.Default().Classify(strings.Fields("mi wile a moku e pan")))
	for _, tr := range trees {
		words := Words(tr)
		leaves := tree.Leaves(tr)
		require.Len(t, words, len(leaves))

		var texts []string
		for i, w := range words {
			assert.Equal(t, leaves[i].Word, w.Word)
			texts = append(texts, w.Word.Text)
		}
		assert.Equal(t, tree.SourceOf(tr), strings.Join(texts, " "))
	}
}

func TestRefineSplitsVerbs(t *testing.T) {
	refined := Refine(best(t, "mi moku e kili"))
	require.Len(t, refined, 4)
	assert.Equal(t, RTransitiveVerb, refined[1].Tag)
	assert.Equal(t, RNoun, refined[3].Tag)

	refined = Refine(best(t, "mi moku"))
	require.Len(t, refined, 2)
	assert.Equal(t, RNoun, refined[0].Tag)
	assert.Equal(t, RIntransitiveVerb, refined[1].Tag)
}

func TestRefineMatchesTag(t *testing.T) {
	root := best(t, "jan li lukin e ni li pona")
	tagged := Words(root)
	refined := Refine(root)
	require.Len(t, refined, len(tagged))

	for i := range tagged {
		r := refined[i].Tag
		switch tagged[i].Tag {
		case Verb:
			assert.Contains(t, []RefinedTag{RTransitiveVerb, RIntransitiveVerb}, r)
		default:
			assert.Equal(t, tagged[i].Tag.String(), r.String())
		}
	}
	assert.Equal(t, RTransitiveVerb, refined[2].Tag, "lukin takes an object")
	assert.Equal(t, RIntransitiveVerb, refined[6].Tag, "pona does not")
}

func TestTaggedWordJSON(t *testing.T) {
	data, err := json.Marshal(TaggedWord{Word: tree.Word{Index: 0, Text: "mi"}, Tag: Noun})
	require.NoError(t, err)
	assert.JSONEq(t, `{"word":{"index":0,"text":"mi"},"tag":"noun"}`, string(data))

	var back TaggedWord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Noun, back.Tag)

	assert.Error(t, json.Unmarshal([]byte(`{"word":{"text":"mi"},"tag":"adverb"}`), &back))
}

func TestTagNames(t *testing.T) {
	assert.Len(t, Tags(), 7)
	assert.Len(t, RefinedTags(), 8)
	for _, tag := range Tags() {
		parsed, err := ParseTag(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}
	assert.Equal(t, "interjection_head", InterjectionHead.String())
	assert.Equal(t, "tverb", RTransitiveVerb.String())
}

type foreign struct{ *tree.Leaf }

func TestTagPanicsOnForeignNode(t *testing.T) {
	n := foreign{tree.NewLeaf(tree.LabelContent, tree.Word{Index: 0, Text: "jan"}, nil)}
	assert.Panics(t, func() { Words(n) })
}
