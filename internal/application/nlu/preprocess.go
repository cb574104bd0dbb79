package nlu

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// unitTokenRe matches count+unit tokens such as "5대", "2 박스", "4ea",
// "10box". The unit word is dropped so it can never bleed into an extracted
// product name ("노트북 5대 입고" becomes "노트북 5 입고").
var unitTokenRe = regexp.MustCompile(`(?i)(\d+)\s*(개|대|박스|box|ea)`)

// Preprocess normalizes an utterance before interpretation: NFC composition
// (Korean IMEs occasionally emit decomposed jamo) and count+unit stripping.
func Preprocess(utterance string) string {
	s := norm.NFC.String(utterance)
	return unitTokenRe.ReplaceAllString(s, "$1")
}
