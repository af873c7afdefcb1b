package match

import (
	"strings"
	"unicode"
)

// noiseTokens are trailing name tokens that carry no meaning when pairing
// field names, e.g. "Published At" vs "Publish Date".
var noiseTokens = map[string]bool{
	"at":   true,
	"on":   true,
	"date": true,
	"id":   true,
	"ids":  true,
	"url":  true,
	"link": true,
}

// NormalizeName folds a field name to lower-case letters and digits only.
//
//	"Hero Image" -> "heroimage"
//	"published_at" -> "publishedat"
//	"heroImageURL" -> "heroimageurl"
func NormalizeName(s string) string {
	return strings.Join(Tokens(s), "")
}

// NormalizeNameStripped normalizes s and drops one trailing noise token,
// unless the name consists of that token only.
func NormalizeNameStripped(s string) string {
	tokens := Tokens(s)
	if len(tokens) > 1 && noiseTokens[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, "")
}

// Tokens splits a field name into lower-case words. Words break on any
// non-alphanumeric rune, on lower-to-upper transitions and at the end of
// an acronym ("XMLFeed" -> "xml", "feed").
func Tokens(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()

			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	// End of an acronym: the next rune continues a new capitalized word.
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
