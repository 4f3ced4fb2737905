package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	tokenNumber = "<num>"
	tokenPhone  = "<phone>"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "of": {}, "for": {}, "in": {},
	"is": {}, "it": {}, "i": {}, "me": {}, "my": {}, "some": {}, "please": {},
	"and": {}, "or": {}, "this": {}, "that": {}, "by": {}, "be": {}, "was": {},
	"am": {}, "are": {}, "you": {}, "your": {}, "on": {}, "with": {},
}

// fold lowercases text and strips diacritics ("café" -> "cafe").
func fold(text string) string {
	// Transformers keep state, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(out)
}

// words splits folded text on anything that is not a letter or digit.
func words(text string) []string {
	return strings.FieldsFunc(fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tokenize produces the feature tokens used for training and scoring.
func tokenize(text string) []string {
	var out []string
	for _, w := range words(text) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, normalizeToken(w))
	}
	return out
}

func normalizeToken(w string) string {
	if isDigits(w) {
		if len(w) >= 8 {
			return tokenPhone
		}
		return tokenNumber
	}
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
