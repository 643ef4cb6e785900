package gate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextRange is a byte offset span in text.
type TextRange struct {
	Start int
	End   int
}

// Len returns the length of the range in bytes.
func (r TextRange) Len() int { return r.End - r.Start }

// Slice extracts the text covered by r.
func (r TextRange) Slice(text string) string {
	if r.Start < 0 || r.End > len(text) || r.Start > r.End {
		return ""
	}
	return text[r.Start:r.End]
}

// Chat markup that carries no language: links, Discord objects, code,
// spoilers and quoted lines. Markdown links keep their label.
var (
	markdownURL = regexp.MustCompile(`\[(.+?)\]\(https?://\S+\)`)

	ignorable = []*regexp.Regexp{
		regexp.MustCompile("(?s)```.+?```"),
		regexp.MustCompile("`[^`]+`"),
		regexp.MustCompile(`(?s)\|\|.+?\|\|`),
		regexp.MustCompile(`(?m)^> .+$`),
		regexp.MustCompile(`https?://\S+`),
		regexp.MustCompile(`(?i)\b[a-z0-9._%+-]{2,}@[a-z0-9.-]{2,}\.[a-z]{2,24}\b`),
		regexp.MustCompile(`\[\[.+\]\]`),
		regexp.MustCompile(`<a?:[a-zA-Z0-9_]{2,}:[0-9]{2,}>`),
		regexp.MustCompile(`:[a-zA-Z0-9_]{2,}:`),
		regexp.MustCompile(`<@[!&]?[0-9]{2,}>`),
		regexp.MustCompile(`<#[0-9]{2,}>`),
		regexp.MustCompile(`<id:[a-zA-Z0-9_]{4,}>`),
		regexp.MustCompile(`<[^<>\s]+>`),
		regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`),
		regexp.MustCompile(`[\x{200C}\x{200D}]`),
	}
)

// Preprocess strips chat markup from a message.
func Preprocess(text string) string {
	text = markdownURL.ReplaceAllString(text, "$1")
	for _, re := range ignorable {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

const (
	sentencePunct  = ".?!:;()[-]‽·•…\U000F199C\U000F199D"
	intraWordPunct = "-'’."
)

func isSentenceDelimiter(r rune) bool {
	return r == '\n' || strings.ContainsRune(sentencePunct, r)
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// SplitSentences splits text after each sentence delimiter. A hyphen,
// apostrophe or period between two word characters does not end a
// sentence. Empty sentences are dropped.
func SplitSentences(text string) []string {
	var out []string
	last := 0

	for i, r := range text {
		if !isSentenceDelimiter(r) {
			continue
		}
		size := utf8.RuneLen(r)
		if strings.ContainsRune(intraWordPunct, r) && i > 0 && i+size < len(text) {
			prev, _ := utf8.DecodeLastRuneInString(text[:i])
			next, _ := utf8.DecodeRuneInString(text[i+size:])
			if !isPunct(prev) && !unicode.IsSpace(prev) && !isPunct(next) && !unicode.IsSpace(next) {
				continue
			}
		}
		if s := strings.TrimSpace(text[last : i+size]); s != "" {
			out = append(out, s)
		}
		last = i + size
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}

// Words splits text into tokens: runs of word characters, and runs of
// punctuation. Whitespace separates tokens and is dropped.
func Words(text string) []TextRange {
	tokens := make([]TextRange, 0, len(text)/5)
	start := -1
	inPunct := false

	flush := func(end int) {
		if start != -1 {
			tokens = append(tokens, TextRange{Start: start, End: end})
			start = -1
		}
	}

	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case isPunct(r) && !isInnerPunct(text, i, r):
			if start != -1 && !inPunct {
				flush(i)
			}
			if start == -1 {
				start, inPunct = i, true
			}
		default:
			if start != -1 && inPunct {
				flush(i)
			}
			if start == -1 {
				start, inPunct = i, false
			}
		}
	}
	flush(len(text))
	return tokens
}

// isInnerPunct reports whether r at i sits between two letters, as in
// "jan-Sonja" or "don't".
func isInnerPunct(text string, i int, r rune) bool {
	if !strings.ContainsRune(intraWordPunct, r) || i == 0 {
		return false
	}
	size := utf8.RuneLen(r)
	if i+size >= len(text) {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:i])
	next, _ := utf8.DecodeRuneInString(text[i+size:])
	return unicode.IsLetter(prev) && unicode.IsLetter(next)
}

// CollapseRepeats removes consecutive duplicate letters, ignoring case and
// keeping the first letter of each run: "mooooku" becomes "moku".
func CollapseRepeats(token string) string {
	if token == "" {
		return token
	}
	var sb strings.Builder
	sb.Grow(len(token))
	var last rune = -1
	for _, r := range token {
		lower := unicode.ToLower(r)
		if lower == last {
			continue
		}
		sb.WriteRune(r)
		last = lower
	}
	return sb.String()
}
