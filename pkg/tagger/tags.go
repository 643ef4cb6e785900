package tagger

import "fmt"

// Tag is the part of speech assigned to one word of a parsed sentence.
type Tag uint8

const (
	Noun Tag = iota
	Verb
	Modifier
	Particle
	Preposition
	Preverb
	InterjectionHead
)

var tagNames = [...]string{
	Noun:             "noun",
	Verb:             "verb",
	Modifier:         "modifier",
	Particle:         "particle",
	Preposition:      "preposition",
	Preverb:          "preverb",
	InterjectionHead: "interjection_head",
}

// Tags lists every tag in declaration order.
func Tags() []Tag {
	return []Tag{Noun, Verb, Modifier, Particle, Preposition, Preverb, InterjectionHead}
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", t)
}

// ParseTag maps a tag name to its Tag.
func ParseTag(s string) (Tag, error) {
	for i, name := range tagNames {
		if name == s {
			return Tag(i), nil
		}
	}
	return 0, fmt.Errorf("tagger: unknown tag %q", s)
}

func (t Tag) MarshalText() ([]byte, error) {
	if int(t) >= len(tagNames) {
		return nil, fmt.Errorf("tagger: invalid tag %d", t)
	}
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(b []byte) error {
	parsed, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RefinedTag splits Verb by transitivity. It is the vocabulary of the
// aggregated word counts.
type RefinedTag uint8

const (
	RNoun RefinedTag = iota
	RTransitiveVerb
	RIntransitiveVerb
	RModifier
	RParticle
	RPreposition
	RPreverb
	RInterjectionHead
)

var refinedNames = [...]string{
	RNoun:             "noun",
	RTransitiveVerb:   "tverb",
	RIntransitiveVerb: "iverb",
	RModifier:         "modifier",
	RParticle:         "particle",
	RPreposition:      "preposition",
	RPreverb:          "preverb",
	RInterjectionHead: "interjection_head",
}

// RefinedTags lists every refined tag in declaration order.
func RefinedTags() []RefinedTag {
	return []RefinedTag{
		RNoun, RTransitiveVerb, RIntransitiveVerb, RModifier,
		RParticle, RPreposition, RPreverb, RInterjectionHead,
	}
}

func (t RefinedTag) String() string {
	if int(t) < len(refinedNames) {
		return refinedNames[t]
	}
	return fmt.Sprintf("RefinedTag(%d)", t)
}

// ParseRefinedTag maps a refined tag name to its RefinedTag.
func ParseRefinedTag(s string) (RefinedTag, error) {
	for i, name := range refinedNames {
		if name == s {
			return RefinedTag(i), nil
		}
	}
	return 0, fmt.Errorf("tagger: unknown refined tag %q", s)
}

func (t RefinedTag) MarshalText() ([]byte, error) {
	if int(t) >= len(refinedNames) {
		return nil, fmt.Errorf("tagger: invalid refined tag %d", t)
	}
	return []byte(t.String()), nil
}

func (t *RefinedTag) UnmarshalText(b []byte) error {
	parsed, err := ParseRefinedTag(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// RefineTag maps a tag to the refined vocabulary. transitive only matters
// for verbs.
func RefineTag(t Tag, transitive bool) RefinedTag {
	switch t {
	case Noun:
		return RNoun
	case Verb:
		if transitive {
			return RTransitiveVerb
		}
		return RIntransitiveVerb
	case Modifier:
		return RModifier
	case Particle:
		return RParticle
	case Preposition:
		return RPreposition
	case Preverb:
		return RPreverb
	case InterjectionHead:
		return RInterjectionHead
	default:
		panic(fmt.Sprintf("tagger: invalid tag %d", t))
	}
}
