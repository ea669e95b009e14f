package faq

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	affirmativeTokens = map[string]struct{}{"y": {}, "yes": {}, "si": {}, "s": {}}
	negativeTokens    = map[string]struct{}{"n": {}, "no": {}}

	spanishMarkers = []string{"¿", "á", "é", "í", "ó", "ú", "ñ"}
	spanishWords   = map[string]struct{}{
		"qué": {}, "cómo": {}, "cuál": {}, "cuáles": {}, "para": {}, "es": {}, "son": {},
	}
)

// Normalize trims, lower-cases and strips combining marks so "Sí" and "si" compare equal.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// IsAffirmative reports whether text is a yes answer (y, yes, si, s).
func IsAffirmative(text string) bool {
	_, ok := affirmativeTokens[Normalize(text)]
	return ok
}

// IsNegative reports whether text is a no answer (n, no).
func IsNegative(text string) bool {
	_, ok := negativeTokens[Normalize(text)]
	return ok
}

// NeedsTranslation guesses whether a question is Spanish and must be translated before search.
func NeedsTranslation(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range spanishMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	for _, token := range strings.Fields(lowered) {
		if _, ok := spanishWords[token]; ok {
			return true
		}
	}
	return false
}

// canonicalQuery folds punctuation and spacing; used as the trending key.
func canonicalQuery(q string) string {
	lowered := Normalize(q)
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// punctuation and whitespace both collapse to a single space
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}
