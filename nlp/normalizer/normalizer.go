package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/oarkflow/coref/nlp/tokenizer"
)

// casers are stateful, so each call builds its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Lower lowercases every token.
func Lower(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = fold(t)
	}
	return out
}

// RemovePunct strips Unicode punctuation and drops tokens left empty.
func RemovePunct(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) {
				return -1
			}
			return r
		}, t)
		if clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// RemoveDiacritics decomposes and strips combining marks.
func RemoveDiacritics(s string) string {
	t := norm.NFD.String(s)
	return norm.NFC.String(strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, t))
}

// NormalizeTokens applies lowercase, diacritics removal, and punctuation stripping.
func NormalizeTokens(tokens []string) []string {
	toks := Lower(tokens)
	var out []string
	for _, t := range toks {
		t = RemoveDiacritics(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return RemovePunct(out)
}

// Head folds a head word for case-insensitive comparison. Diacritics are
// kept: "resume" and "résumé" stay distinct heads.
func Head(s string) string {
	return fold(norm.NFC.String(strings.TrimSpace(s)))
}

// Tokens splits a mention's surface text into words and normalizes them.
func Tokens(text string) []string {
	return NormalizeTokens(tokenizer.Words(text))
}

// Phrase is the normalized surface text joined by single spaces.
func Phrase(text string) string {
	return strings.Join(Tokens(text), " ")
}
