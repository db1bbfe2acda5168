package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Fold returns the NFC-normalized, case-folded form of text.
func Fold(text string) string {
	return folder.String(norm.NFC.String(text))
}

// Tokenize splits text into folded tokens. Tokens break on any rune that is
// not a letter or digit, and on camelCase boundaries ("closeUp", "XMLFile").
// Letter/digit runs stay together so model codes like "Di2" survive intact.
func Tokenize(text string) []string {
	runes := []rune(norm.NFC.String(text))
	tokens := make([]string, 0, 8)
	var current []rune
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, Fold(string(current)))
			current = current[:0]
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 && camelBoundary(runes, i) {
			flush()
		}
		current = append(current, r)
	}
	flush()
	return tokens
}

func camelBoundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	if !unicode.IsUpper(r) {
		return false
	}
	if unicode.IsLower(prev) {
		return true
	}
	// "XMLFile": split before the last capital of an acronym run.
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// Segments splits every Tokenize token further at letter/digit boundaries,
// so "geometry1" yields "geometry" and "1", and "R7170" yields "r" and "7170".
func Segments(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		start := 0
		runes := []rune(token)
		for i := 1; i < len(runes); i++ {
			if unicode.IsDigit(runes[i]) != unicode.IsDigit(runes[i-1]) {
				out = append(out, string(runes[start:i]))
				start = i
			}
		}
		out = append(out, string(runes[start:]))
	}
	return out
}

// Words splits text into folded tokens on separators only, keeping mixed-case
// runs such as "eTap" whole.
func Words(text string) []string {
	fields := strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if fields == nil {
		return []string{}
	}
	return fields
}

// ContainsSequence reports whether needle appears as consecutive entries of haystack.
func ContainsSequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, token := range needle {
			if haystack[i+j] != token {
				continue outer
			}
		}
		return true
	}
	return false
}

// HasIdeographs reports whether text contains Han, Kana, or Hangul runes.
// Such keywords are matched as substrings because those scripts do not
// separate words.
func HasIdeographs(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
	}) >= 0
}
