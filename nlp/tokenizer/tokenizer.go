package tokenizer

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// A word is a run of letters (with their combining marks), optionally joined
// by internal apostrophes, or a run of digits.
var reWord = regexp.MustCompile(`[\pL\pM]+(?:['’][\pL\pM]+)*|\pN+`)

// Words splits text into word tokens. Text is NFC normalized first so
// precomposed and decomposed accents tokenize alike.
func Words(text string) []string {
	return reWord.FindAllString(norm.NFC.String(text), -1)
}
