package textmetrics

import (
	"strings"
	"unicode"
)

// Tokenize lowercases the input and splits it into word tokens, treating any
// run of non-letter, non-digit runes as a separator. Both scorers share this
// tokenization so their identity bounds hold for the same inputs.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
