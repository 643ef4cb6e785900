package lexicon

import "fmt"

// Category is a lexical class a word may belong to.
type Category int

const (
	Content Category = iota
	Number
	Preposition
	Preverb
	UnmarkedSubject
	ModifierOnly
	Particle
)

var categoryNames = []string{
	"content",
	"number",
	"preposition",
	"preverb",
	"unmarked_subject",
	"modifier_only",
	"particle",
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{Content, Number, Preposition, Preverb, UnmarkedSubject, ModifierOnly, Particle}
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// ParseCategory maps a name such as "preverb" to its Category.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("lexicon: unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Token is one classified word of a sentence.
type Token struct {
	Text       string     `json:"text"`
	Position   int        `json:"position"`
	Categories []Category `json:"categories"`
}

// NoPosition marks a token that does not come from a token stream.
const NoPosition = -1

// Has reports whether the token was classified as c.
func (t Token) Has(c Category) bool {
	for _, have := range t.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// NewToken builds a token with the given categories.
func NewToken(text string, position int, cats ...Category) Token {
	return Token{Text: text, Position: position, Categories: cats}
}
