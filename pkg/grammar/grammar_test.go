package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

func TestTokiPonaCompiles(t *testing.T) {
	g := TokiPona()
	require.NotNil(t, g)

	assert.Equal(t, StartSymbol, g.Start())
	assert.Equal(t, len(TokiPonaRules()), g.Len())
	assert.Len(t, g.RulesFor("Main"), 3)
	assert.Len(t, g.RulesFor("WordSentenceStarter"), 4)
	assert.Same(t, g, TokiPona())

	for id := 0; id < g.Len(); id++ {
		assert.NotEmpty(t, g.Rule(id).RHS, g.Rule(id).String())
	}
}

func TestNewRejectsBrokenTables(t *testing.T) {
	leaf := Leaf(tree.LabelContent)

	tests := []struct {
		name    string
		start   string
		entries []Entry
	}{
		{"missing start", "S", []Entry{rule("A", leaf, Lit("x"))}},
		{"undefined symbol", "S", []Entry{rule("S", Pass(), NT("B"))}},
		{"empty rhs", "S", []Entry{rule("S", leaf)}},
		{"no action", "S", []Entry{{LHS: "S", RHS: []Symbol{Lit("x")}}}},
		{"terminal under branch", "S", []Entry{
			rule("S", Branch(tree.LabelPhrase), NT("S"), Cat(lexicon.Content)),
			rule("S", leaf, Cat(lexicon.Content)),
		}},
		{"terminal under pass", "S", []Entry{rule("S", Pass(), Lit("x"))}},
		{"leaf over non-terminal", "S", []Entry{
			rule("S", leaf, NT("A")),
			rule("A", leaf, Lit("x")),
		}},
		{"terminal after leaf word", "S", []Entry{rule("S", leaf, Lit("x"), Lit("a"))}},
		{"unit cycle", "S", []Entry{
			rule("S", Pass(), NT("A")),
			rule("A", Pass(), NT("S")),
			rule("A", leaf, Lit("x")),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.start, tt.entries)
			assert.ErrorIs(t, err, ErrInvalidGrammar)
		})
	}
}

func TestSymbolMatches(t *testing.T) {
	tok := lexicon.NewToken("Moku", 0, lexicon.Content)

	assert.True(t, Lit("moku").Matches(tok))
	assert.False(t, Lit("li").Matches(tok))
	assert.True(t, Cat(lexicon.Content).Matches(tok))
	assert.False(t, Cat(lexicon.Preverb).Matches(tok))
	assert.False(t, NT("Moku").Matches(tok))

	assert.Equal(t, `"li"`, Lit("li").String())
	assert.Equal(t, "%preverb", Cat(lexicon.Preverb).String())
	assert.True(t, Lit("li").IsTerminal())
	assert.False(t, NT("Main").IsTerminal())
}

func TestLeafActionAttachesAux(t *testing.T) {
	ala := lexicon.NewToken("ala", 3, lexicon.Content)
	a := lexicon.NewToken("a", 4, lexicon.Particle)

	emph := Leaf(tree.LabelEmphasis).Build([]Arg{{Token: &a}})
	neg := Leaf(tree.LabelNegator).Build([]Arg{{Token: &ala}, {Tree: emph}})

	leaf, ok := neg.(*tree.Leaf)
	require.True(t, ok)
	assert.Equal(t, tree.Word{Index: 3, Text: "ala"}, leaf.Word)
	assert.Equal(t, "ala a", leaf.Source)
	assert.Same(t, emph, leaf.Aux)
}

func TestNumberRulesBuildOneRose(t *testing.T) {
	var words []tree.Tree
	for i, w := range []string{"luka", "tu", "wan"} {
		tok := lexicon.NewToken(w, i, lexicon.Number)
		words = append(words, Leaf(tree.LabelNumeral).Build([]Arg{{Token: &tok}}))
	}

	number := Rose(tree.LabelNumber).Build([]Arg{{Tree: words[2]}})
	number = Gather(tree.LabelNumber).Build([]Arg{{Tree: words[1]}, {Tree: number}})
	number = Gather(tree.LabelNumber).Build([]Arg{{Tree: words[0]}, {Tree: number}})

	rose, ok := number.(*tree.Rose)
	require.True(t, ok)
	assert.Len(t, rose.Children, 3)
	assert.Equal(t, "luka tu wan", rose.Source)
}

func TestLabelledActionsRejectUnknownLabels(t *testing.T) {
	assert.Panics(t, func() { Branch("verb") })
	assert.Panics(t, func() { Leaf("noun") })
}
