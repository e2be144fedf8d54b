package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// separators result listings put between fields: bullets, pipes, dash runs,
// wide gaps
var segmentRegex = regexp.MustCompile(`[•|–—-]+| {2,}`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// Collapse reduces scraped text to single-spaced printable characters with no
// surrounding whitespace.
func Collapse(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	out := strings.Builder{}
	for _, c := range text {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	return strings.TrimSpace(out.String())
}

// FirstSegment returns the first non-empty chunk of a blob once it is split on
// separator runs. Listings usually lead with the institution name, so this is
// the fallback when no dedicated element carries it.
func FirstSegment(blob string) string {
	for _, part := range segmentRegex.Split(blob, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			return part
		}
	}
	return ""
}

// TitleFirst lowercases a value and capitalizes its first rune.
func TitleFirst(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
