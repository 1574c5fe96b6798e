package schema

import (
	"strings"
	"unicode"
)

// Labeler converts a parameter name into a human-friendly label.
type Labeler func(string) string

// DefaultLabeler splits snake_case, kebab-case and camelCase parameter names
// into space-separated Title Case words: "maxRetries" -> "Max Retries".
func DefaultLabeler(name string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// TitleFromName formats a callable identifier into a display title. CamelCase
// names are split into words; a trailing "Handler"/"Func" suffix is kept as a
// plain word rather than stripped, matching what the name actually says.
func TitleFromName(name string) string {
	if idx := strings.LastIndexAny(name, "./"); idx >= 0 {
		name = name[idx+1:]
	}
	return DefaultLabeler(name)
}

func splitWords(name string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case i > 0 && wordBoundary(runes[i-1], r):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

func wordBoundary(prev, r rune) bool {
	if unicode.IsLower(prev) && unicode.IsUpper(r) {
		return true
	}
	if unicode.IsLetter(prev) != unicode.IsLetter(r) && !unicode.IsSpace(r) {
		return true
	}
	return false
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	lower := strings.ToLower(w)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
