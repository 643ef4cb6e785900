package tree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLabel is returned (or carried by a panic) when a label is not
// part of the closed label set.
var ErrInvalidLabel = errors.New("tree: invalid label")

// Label is the syntactic label of a node.
type Label string

const (
	// Sentence level
	LabelMain                  Label = "main"
	LabelVocative              Label = "vocative"
	LabelClause                Label = "clause"
	LabelContextPhrase         Label = "context_phrase"
	LabelContextClause         Label = "context_clause"
	LabelClauseMarkedSubject   Label = "clause_marked_subject"
	LabelClauseUnmarkedSubject Label = "clause_unmarked_subject"
	LabelClauseOptative        Label = "clause_optative"
	LabelClauseImperative      Label = "clause_imperative"

	// Subjects and predicates
	LabelSubject        Label = "subject"
	LabelSubjects       Label = "& subjects"
	LabelHead           Label = "head"
	LabelPredicate      Label = "predicate"
	LabelPredicates     Label = "& predicates"
	LabelPreverbPhrase  Label = "preverb_phrase"
	LabelPreverb        Label = "pv"
	LabelVerbTransitive Label = "verb_phrase_transitive"
	LabelVerbIntrans    Label = "verb_phrase_intransitive"
	LabelVerbPrep       Label = "verb_phrase_prepositional"

	// Objects, prepositions, disjuncts
	LabelObjects           Label = "& objects"
	LabelObjectPhrase      Label = "object_phrase"
	LabelObject            Label = "e"
	LabelPrepositions      Label = "& prepositions"
	LabelPrepositionPhrase Label = "preposition_phrase"
	LabelPreposition       Label = "prep"
	LabelOption            Label = "option"
	LabelDisjuncts         Label = "& disjuncts"

	// Phrases
	LabelPhrase  Label = "phrase"
	LabelPi      Label = "pi"
	LabelOrdinal Label = "ordinal"
	LabelNumber  Label = "number"

	// Words
	LabelNumeral         Label = "#"
	LabelEmphasis        Label = "emph"
	LabelObjectMarker    Label = "obj"
	LabelRegrouper       Label = "regroup"
	LabelOrdinalMarker   Label = "ord"
	LabelContextMarker   Label = "ctx"
	LabelConjunction     Label = "conj"
	LabelNegator         Label = "neg"
	LabelDisjunctMarker  Label = "or"
	LabelIndicative      Label = "ind"
	LabelDeontic         Label = "deo"
	LabelVocativeMarker  Label = "voc"
	LabelContent         Label = "cont"
	LabelSentenceStarter Label = "start"
)

var labels = map[Label]struct{}{
	LabelMain: {}, LabelVocative: {}, LabelClause: {}, LabelContextPhrase: {},
	LabelContextClause: {}, LabelClauseMarkedSubject: {}, LabelClauseUnmarkedSubject: {},
	LabelClauseOptative: {}, LabelClauseImperative: {},

	LabelSubject: {}, LabelSubjects: {}, LabelHead: {}, LabelPredicate: {},
	LabelPredicates: {}, LabelPreverbPhrase: {}, LabelPreverb: {},
	LabelVerbTransitive: {}, LabelVerbIntrans: {}, LabelVerbPrep: {},

	LabelObjects: {}, LabelObjectPhrase: {}, LabelObject: {}, LabelPrepositions: {},
	LabelPrepositionPhrase: {}, LabelPreposition: {}, LabelOption: {}, LabelDisjuncts: {},

	LabelPhrase: {}, LabelPi: {}, LabelOrdinal: {}, LabelNumber: {},

	LabelNumeral: {}, LabelEmphasis: {}, LabelObjectMarker: {}, LabelRegrouper: {},
	LabelOrdinalMarker: {}, LabelContextMarker: {}, LabelConjunction: {},
	LabelNegator: {}, LabelDisjunctMarker: {}, LabelIndicative: {}, LabelDeontic: {},
	LabelVocativeMarker: {}, LabelContent: {}, LabelSentenceStarter: {},
}

// Valid reports whether l belongs to the label set.
func (l Label) Valid() bool {
	_, ok := labels[l]
	return ok
}

// IsClause reports whether l is one of the clause labels.
func (l Label) IsClause() bool {
	return strings.HasPrefix(string(l), "clause")
}

func (l Label) String() string { return string(l) }

// ParseLabel validates s against the label set.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
	return l, nil
}

// MustLabel is like ParseLabel but panics on an unknown label.
// Grammar tables use it so a bad label fails when the table is built.
func MustLabel(l Label) Label {
	if !l.Valid() {
		panic(fmt.Errorf("%w: %q", ErrInvalidLabel, string(l)))
	}
	return l
}

// Labels returns the label set in no particular order.
func Labels() []Label {
	out := make([]Label, 0, len(labels))
	for l := range labels {
		out = append(out, l)
	}
	return out
}
