package gate

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v2"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/lexicon"
)

// Filter accepts or rejects one token.
type Filter func(token string) bool

//go:embed falsepos.yaml
var falsePosData []byte

type wordSets struct {
	Syllabic     []string `yaml:"syllabic"`
	Alphabetic   []string `yaml:"alphabetic"`
	Phonomatches []string `yaml:"phonomatches"`
	Allowed      []string `yaml:"allowed"`
}

func loadWordSets(data []byte) (wordSets, error) {
	var ws wordSets
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return ws, fmt.Errorf("gate: invalid word sets: %w", err)
	}
	return ws, nil
}

func member(words []string) Filter {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return func(token string) bool {
		_, ok := set[strings.ToLower(token)]
		return ok
	}
}

// Len restricts f to tokens of min..max characters; 0 disables a bound.
func Len(f Filter, min, max int) Filter {
	return func(token string) bool {
		n := utf8.RuneCountInString(token)
		if min > 0 && n < min {
			return false
		}
		if max > 0 && n > max {
			return false
		}
		return f(token)
	}
}

// And accepts tokens every filter accepts.
func And(filters ...Filter) Filter {
	return func(token string) bool {
		for _, f := range filters {
			if !f(token) {
				return false
			}
		}
		return true
	}
}

// Or accepts tokens any filter accepts.
func Or(filters ...Filter) Filter {
	return func(token string) bool {
		for _, f := range filters {
			if f(token) {
				return true
			}
		}
		return false
	}
}

// Not inverts f.
func Not(f Filter) Filter {
	return func(token string) bool { return !f(token) }
}

// Dictionary accepts words known to d, except those in excluded.
func Dictionary(d *lexicon.Dictionary, excluded []string) Filter {
	isExcluded := member(excluded)
	return func(token string) bool {
		return d.Known(token) && !isExcluded(token)
	}
}

const (
	vowels     = "aeiou"
	consonants = "jklmnpstw"
	alphabet   = vowels + consonants
)

var syllabic = regexp.MustCompile(`(?i)^(?:[` + vowels + `]n?)?(?:[` + consonants + `][` + vowels + `]n?)*$|^n$`)

// Syllabic accepts tokens made of toki pona syllables.
func Syllabic(token string) bool {
	return token != "" && syllabic.MatchString(token)
}

// Alphabetic accepts tokens written only with the toki pona alphabet.
func Alphabetic(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range strings.ToLower(token) {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

// ProperName accepts capitalized tokens that are not all upper case.
func ProperName(token string) bool {
	first, _ := utf8.DecodeRuneInString(token)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return false
	}
	return token != strings.ToUpper(token)
}

// Numeric accepts tokens made only of digits.
func Numeric(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Punctuation accepts tokens made only of punctuation and symbols.
func Punctuation(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !isPunct(r) {
			return false
		}
	}
	return true
}

// corpusFilters returns the scoring filters in priority order: known
// words, then word shapes that toki pona allows.
func corpusFilters(d *lexicon.Dictionary, ws wordSets) []Filter {
	return []Filter{
		Len(Or(Dictionary(d, ws.Phonomatches), member(ws.Allowed)), 0, 19),
		Len(And(Syllabic, Not(member(ws.Syllabic))), 3, 24),
		Len(ProperName, 2, 24),
		Len(And(Alphabetic, Not(member(ws.Alphabetic))), 3, 24),
	}
}

var ignoringFilters = []Filter{Numeric, Punctuation}
