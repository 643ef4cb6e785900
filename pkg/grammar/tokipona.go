package grammar

import (
	"sync"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/tree"
)

// StartSymbol is the root of the toki pona grammar.
const StartSymbol = "Main"

var (
	tokiPonaOnce sync.Once
	tokiPona     *Grammar
)

// TokiPona returns the sentence grammar. It is compiled once and shared.
func TokiPona() *Grammar {
	tokiPonaOnce.Do(func() {
		g, err := New(StartSymbol, TokiPonaRules())
		if err != nil {
			panic(err)
		}
		tokiPona = g
	})
	return tokiPona
}

func rule(lhs string, action Action, rhs ...Symbol) Entry {
	return Entry{LHS: lhs, RHS: rhs, Action: action}
}

// withEmphasis returns the two rules for `lhs -> word a?`.
func withEmphasis(lhs string, label tree.Label, word Symbol) []Entry {
	return []Entry{
		rule(lhs, Leaf(label), word),
		rule(lhs, Leaf(label), word, NT("WordEmphasis")),
	}
}

// TokiPonaRules returns a fresh copy of the rule table. Optional items are
// expanded into separate rules and repetitions are right-recursive, so no
// rule has an empty right-hand side.
func TokiPonaRules() []Entry {
	nt := NT
	pass := Pass()

	rules := []Entry{
		// Sentences
		rule("Main", pass, nt("Vocative")),
		rule("Main", pass, nt("Sentence")),
		rule("Main", Branch(tree.LabelMain), nt("Vocative"), nt("Main")),

		rule("Vocative", Branch(tree.LabelVocative), nt("GeneralSubject"), nt("WordVocativeMarker")),

		rule("Sentence", Branch(tree.LabelClause), nt("WordSentenceStarter"), nt("Sentence")),
		rule("Sentence", Branch(tree.LabelClause), nt("Context"), nt("Sentence")),
		rule("Sentence", Branch(tree.LabelClause), nt("WordEmphasis"), nt("Sentence")),
		rule("Sentence", pass, nt("ClauseAny")),

		rule("Context", Branch(tree.LabelContextPhrase), nt("GeneralSubject"), nt("WordContextMarker")),
		rule("Context", Branch(tree.LabelContextClause), nt("ClauseStrict"), nt("WordContextMarker")),

		// Clauses. ClauseStrict is ClauseAny without the bare subject.
		rule("ClauseAny", pass, nt("GeneralSubject")),
		rule("ClauseAny", Branch(tree.LabelClauseMarkedSubject), nt("MarkedSubject"), nt("PredicatesLi")),
		rule("ClauseAny", Branch(tree.LabelClauseUnmarkedSubject), nt("SubjectUnmarked"), nt("PredicatesNone")),
		rule("ClauseAny", Branch(tree.LabelClauseOptative), nt("GeneralSubject"), nt("PredicatesO")),
		rule("ClauseAny", Labelled(tree.LabelClauseImperative), nt("PredicatesO")),

		rule("ClauseStrict", Branch(tree.LabelClauseMarkedSubject), nt("MarkedSubject"), nt("PredicatesLi")),
		rule("ClauseStrict", Branch(tree.LabelClauseUnmarkedSubject), nt("SubjectUnmarked"), nt("PredicatesNone")),
		rule("ClauseStrict", Branch(tree.LabelClauseOptative), nt("GeneralSubject"), nt("PredicatesO")),
		rule("ClauseStrict", Labelled(tree.LabelClauseImperative), nt("PredicatesO")),

		// Subjects
		rule("SubjectUnmarked", Labelled(tree.LabelSubject), nt("UnmarkedSubject")),

		rule("GeneralSubject", pass, nt("MarkedSubject")),
		rule("GeneralSubject", pass, nt("UnmarkedSubject")),

		rule("MarkedSubject", Labelled(tree.LabelSubject), nt("MarkedSubjectHead")),
		rule("MarkedSubject", Labelled(tree.LabelSubject), nt("PiPhraseMultiple")),
		rule("MarkedSubject", pass, nt("MultipleSubjectsNone")),
		rule("MarkedSubjectHead", Labelled(tree.LabelHead), nt("WordMarkedSubjectHead")),

		rule("MultipleSubjectsNone", Gather(tree.LabelSubjects), nt("SubjectPhrase"), nt("MultipleSubjectsMarked")),
		rule("SubjectPhrase", Labelled(tree.LabelSubject), nt("Phrase")),
		rule("MultipleSubjectsMarked", pass, nt("EnSubject")),
		rule("MultipleSubjectsMarked", Gather(tree.LabelSubjects), nt("EnSubject"), nt("MultipleSubjectsMarked")),
		rule("EnSubject", Branch(tree.LabelSubject), nt("SubjectMarker"), nt("Phrase")),
		rule("SubjectMarker", pass, nt("WordSubjectMarker")),
		rule("SubjectMarker", pass, nt("WordDisjunctMarker")),

		rule("UnmarkedSubject", Labelled(tree.LabelHead), nt("WordUnmarkedSubject")),

		// Predicates
		rule("PredicatesLi", pass, nt("PredicateLi")),
		rule("PredicatesLi", Gather(tree.LabelPredicates), nt("PredicateLi"), nt("PredicatesMarked")),
		rule("PredicatesNone", pass, nt("PredicateNone")),
		rule("PredicatesNone", Gather(tree.LabelPredicates), nt("PredicateNone"), nt("PredicatesMarked")),
		rule("PredicatesO", pass, nt("PredicateO")),
		rule("PredicatesO", Gather(tree.LabelPredicates), nt("PredicateO"), nt("PredicatesMarked")),
		rule("PredicatesMarked", pass, nt("PredicateMarked")),
		rule("PredicatesMarked", Gather(tree.LabelPredicates), nt("PredicateMarked"), nt("PredicatesMarked")),

		rule("PredicateLi", Branch(tree.LabelPredicate), nt("WordIndicativeMarker"), nt("PreverbPhrase")),
		rule("PredicateO", Branch(tree.LabelPredicate), nt("WordDeonticMarker"), nt("PreverbPhrase")),
		rule("PredicateMarked", Branch(tree.LabelPredicate), nt("WordPredicateMarker"), nt("PreverbPhrase")),
		rule("PredicateNone", Labelled(tree.LabelPredicate), nt("PreverbPhrase")),

		rule("PreverbPhrase", Branch(tree.LabelPreverbPhrase), nt("Preverb"), nt("PreverbPhrase")),
		rule("PreverbPhrase", pass, nt("VerbPhrase")),
		rule("Preverb", pass, nt("WordPreverb")),
		rule("Preverb", Branch(tree.LabelPreverb), nt("WordPreverb"), nt("WordNegator")),

		// Verb phrases
		rule("VerbPhrase", pass, nt("VerbPhraseTransitive")),
		rule("VerbPhrase", pass, nt("VerbPhraseIntransitive")),
		rule("VerbPhrase", pass, nt("VerbPhrasePrepositional")),
		rule("VerbPhraseTransitive", Branch(tree.LabelVerbTransitive), nt("Phrase"), nt("Objects")),
		rule("VerbPhraseIntransitive", Labelled(tree.LabelVerbIntrans), nt("Phrase")),
		rule("VerbPhraseIntransitive", Branch(tree.LabelVerbIntrans), nt("Phrase"), nt("Prepositions")),
		rule("VerbPhrasePrepositional", Labelled(tree.LabelVerbPrep), nt("PrepositionPhrase")),
		rule("VerbPhrasePrepositional", Branch(tree.LabelVerbPrep), nt("PrepositionPhrase"), nt("Prepositions")),

		// Objects and prepositions
		rule("Objects", pass, nt("ObjectPhrase")),
		rule("Objects", Gather(tree.LabelObjects), nt("ObjectPhrase"), nt("Objects")),
		rule("ObjectPhrase", Labelled(tree.LabelObjectPhrase), nt("Object")),
		rule("ObjectPhrase", Branch(tree.LabelObjectPhrase), nt("Object"), nt("Prepositions")),
		rule("Object", Branch(tree.LabelObject), nt("WordObjectMarker"), nt("DisjunctPhrase")),

		rule("Prepositions", pass, nt("PrepositionPhrase")),
		rule("Prepositions", Gather(tree.LabelPrepositions), nt("PrepositionPhrase"), nt("Prepositions")),
		rule("PrepositionPhrase", Branch(tree.LabelPrepositionPhrase), nt("Preposition"), nt("DisjunctPhrase")),
		rule("Preposition", pass, nt("WordPreposition")),
		rule("Preposition", Branch(tree.LabelPreposition), nt("WordPreposition"), nt("WordNegator")),

		// Disjunctions
		rule("DisjunctPhrase", pass, nt("Phrase")),
		rule("DisjunctPhrase", Gather(tree.LabelDisjuncts), nt("OptionPhrase"), nt("DisjunctPhrases")),
		rule("OptionPhrase", Labelled(tree.LabelOption), nt("Phrase")),
		rule("DisjunctPhrases", pass, nt("AnuPhrase")),
		rule("DisjunctPhrases", Gather(tree.LabelDisjuncts), nt("AnuPhrase"), nt("DisjunctPhrases")),
		rule("AnuPhrase", Branch(tree.LabelOption), nt("WordDisjunctMarker"), nt("Phrase")),

		// Phrases. The _multiple forms have at least two words.
		rule("Phrase", pass, nt("PiPhraseAny")),
		rule("PiPhraseMultiple", pass, nt("NanpaPhraseMultiple")),
		rule("PiPhraseMultiple", Branch(tree.LabelPhrase), nt("PiPhraseAny"), nt("PiModifier")),
		rule("PiPhraseAny", pass, nt("NanpaPhraseAny")),
		rule("PiPhraseAny", Branch(tree.LabelPhrase), nt("PiPhraseAny"), nt("PiModifier")),
		rule("PiModifier", Branch(tree.LabelPi), nt("WordRegrouper"), nt("PiPhraseMultiple")),

		rule("NanpaPhraseMultiple", pass, nt("SimplePhraseMultiple")),
		rule("NanpaPhraseMultiple", Branch(tree.LabelPhrase), nt("NanpaPhraseAny"), nt("Ordinal")),
		rule("NanpaPhraseAny", pass, nt("SimplePhraseAny")),
		rule("NanpaPhraseAny", Branch(tree.LabelPhrase), nt("NanpaPhraseAny"), nt("Ordinal")),
		rule("Ordinal", Branch(tree.LabelOrdinal), nt("WordOrdinalMarker"), nt("Number")),

		rule("SimplePhraseMultiple", Branch(tree.LabelPhrase), nt("SimplePhraseAny"), nt("WordModifier")),
		rule("SimplePhraseAny", Branch(tree.LabelPhrase), nt("SimplePhraseAny"), nt("WordModifier")),
		rule("SimplePhraseAny", Labelled(tree.LabelHead), nt("WordHead")),

		rule("Number", Rose(tree.LabelNumber), nt("WordNumber")),
		rule("Number", Gather(tree.LabelNumber), nt("WordNumber"), nt("Number")),

		// Words
		rule("WordNumber", Leaf(tree.LabelNumeral), Cat(lexicon.Number)),
		rule("WordEmphasis", Leaf(tree.LabelEmphasis), Lit("a")),
		rule("WordObjectMarker", Leaf(tree.LabelObjectMarker), Lit("e")),
		rule("WordRegrouper", Leaf(tree.LabelRegrouper), Lit("pi")),
		rule("WordOrdinalMarker", Leaf(tree.LabelOrdinalMarker), Lit("nanpa")),
		rule("WordContextMarker", Leaf(tree.LabelContextMarker), Lit("la")),
		rule("WordSubjectMarker", Leaf(tree.LabelConjunction), Lit("en")),
		rule("WordDisjunctMarker", Leaf(tree.LabelDisjunctMarker), Lit("anu")),
		rule("WordPredicateMarker", pass, nt("WordIndicativeMarker")),
		rule("WordPredicateMarker", pass, nt("WordDeonticMarker")),
		rule("WordPredicateMarker", pass, nt("WordDisjunctMarker")),
		rule("WordIndicativeMarker", Leaf(tree.LabelIndicative), Lit("li")),
		rule("WordDeonticMarker", Leaf(tree.LabelDeontic), Lit("o")),
		rule("WordVocativeMarker", Leaf(tree.LabelVocativeMarker), Lit("o")),

		rule("WordHead", pass, nt("WordMarkedSubjectHead")),
		rule("WordHead", pass, nt("WordUnmarkedSubject")),
		rule("WordMarkedSubjectHead", Leaf(tree.LabelContent), Cat(lexicon.Content)),
		rule("WordMarkedSubjectHead", Leaf(tree.LabelContent), Cat(lexicon.Preposition)),
		rule("WordMarkedSubjectHead", Leaf(tree.LabelContent), Cat(lexicon.Preverb)),
		rule("WordMarkedSubjectHead", Leaf(tree.LabelContent), Cat(lexicon.Number)),
		rule("WordUnmarkedSubject", Leaf(tree.LabelContent), Cat(lexicon.UnmarkedSubject)),
		rule("WordModifier", Leaf(tree.LabelContent), Cat(lexicon.ModifierOnly)),
		rule("WordModifier", pass, nt("WordEmphasis")),
		rule("WordModifier", pass, nt("WordHead")),
	}

	rules = append(rules, withEmphasis("WordNegator", tree.LabelNegator, Lit("ala"))...)
	rules = append(rules, withEmphasis("WordPreverb", tree.LabelPreverb, Cat(lexicon.Preverb))...)
	rules = append(rules, withEmphasis("WordPreposition", tree.LabelPreposition, Cat(lexicon.Preposition))...)
	rules = append(rules, withEmphasis("WordSentenceStarter", tree.LabelSentenceStarter, Lit("taso"))...)
	rules = append(rules, withEmphasis("WordSentenceStarter", tree.LabelSentenceStarter, Lit("kin"))...)
	return rules
}
