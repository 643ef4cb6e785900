// Package lexicon classifies surface words into lexical categories.
// A single Aho-Corasick automaton serves as both the word lookup table and
// the text scanner used by the language gate.
package lexicon

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"gopkg.in/yaml.v2"
)

//go:embed nimi.yaml
var defaultData []byte

// Dictionary maps known words to their categories.
type Dictionary struct {
	// Lower-cased word -> categories, in declaration order
	words map[string][]Category

	// All words in pattern order (for the AC builder)
	patterns []string

	ac ahocorasick.AhoCorasick
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
)

// Default returns the dictionary built from the embedded word list.
// It is built once and safe for concurrent use.
func Default() *Dictionary {
	defaultOnce.Do(func() {
		d, err := Load(defaultData)
		if err != nil {
			panic(err)
		}
		defaultDict = d
	})
	return defaultDict
}

// Load builds a dictionary from YAML of the form
//
//	content: [jan, moku]
//	preverb: [wile]
func Load(data []byte) (*Dictionary, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("lexicon: invalid word list: %w", err)
	}

	byCat := make(map[Category][]string, len(raw))
	for name, words := range raw {
		cat, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		byCat[cat] = words
	}

	d := &Dictionary{words: make(map[string][]Category)}
	for _, cat := range Categories() {
		for _, w := range byCat[cat] {
			key := strings.ToLower(strings.TrimSpace(w))
			if key == "" {
				continue
			}
			if _, seen := d.words[key]; !seen {
				d.patterns = append(d.patterns, key)
			}
			d.words[key] = appendUnique(d.words[key], cat)
		}
	}
	sort.Strings(d.patterns)

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	d.ac = builder.Build(d.patterns)

	return d, nil
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.words) }

// Lookup returns the categories of word, case-insensitively.
func (d *Dictionary) Lookup(word string) []Category {
	return d.words[strings.ToLower(word)]
}

// Known reports whether word is in the dictionary.
func (d *Dictionary) Known(word string) bool {
	_, ok := d.words[strings.ToLower(word)]
	return ok
}

// Classify turns the words of one sentence into tokens.
//
// Dictionary words get their listed categories. Unknown words made of digits
// are numbers, and unknown capitalized words are treated as proper names,
// which toki pona only allows as modifiers. Anything else gets no category;
// it can still match a grammar literal.
func (d *Dictionary) Classify(words []string) []Token {
	tokens := make([]Token, len(words))
	for i, w := range words {
		cats := d.Lookup(w)
		if len(cats) == 0 {
			switch {
			case isNumeric(w):
				cats = []Category{Number}
			case IsProperName(w):
				cats = []Category{ModifierOnly}
			}
		}
		tokens[i] = Token{Text: w, Position: i, Categories: cats}
	}
	return tokens
}

// Match is a dictionary word found in text.
type Match struct {
	Start int // Byte offset start
	End   int // Byte offset end
	Word  string
}

// Scan finds whole dictionary words in text.
func (d *Dictionary) Scan(text string) []Match {
	matches := d.ac.FindAll(text)
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		out = append(out, Match{
			Start: m.Start(),
			End:   m.End(),
			Word:  d.patterns[m.Pattern()],
		})
	}
	return out
}

// IsProperName reports whether w looks like a name: an upper-case letter
// followed only by letters.
func IsProperName(w string) bool {
	for i, r := range w {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return w != ""
}

func isNumeric(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func appendUnique(cats []Category, c Category) []Category {
	for _, have := range cats {
		if have == c {
			return cats
		}
	}
	return append(cats, c)
}
