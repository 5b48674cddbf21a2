package search

import (
	"strings"
	"unicode"
)

// stopWords never count toward a verbatim match. Question words are
// included since most QA queries open with one.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "be": {}, "is": {}, "are": {}, "was": {},
	"to": {}, "of": {}, "and": {}, "or": {}, "in": {}, "that": {}, "have": {},
	"it": {}, "for": {}, "not": {}, "on": {}, "with": {}, "as": {}, "you": {},
	"do": {}, "does": {}, "at": {}, "this": {}, "but": {}, "by": {}, "from": {},
	"what": {}, "how": {}, "why": {}, "who": {}, "which": {}, "when": {},
	"where": {}, "can": {}, "i": {}, "my": {}, "me": {},
}

// keywords lowercases text and splits it on anything that is not a letter
// or digit, dropping stop words.
func keywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := words[:0]
	for _, w := range words {
		if _, stop := stopWords[w]; !stop {
			out = append(out, w)
		}
	}
	return out
}

// mentionsAll reports whether every keyword of query appears in document.
// A query with no keywords mentions nothing.
func mentionsAll(document, query string) bool {
	want := keywords(query)
	if len(want) == 0 {
		return false
	}

	have := make(map[string]struct{})
	for _, w := range keywords(document) {
		have[w] = struct{}{}
	}
	for _, w := range want {
		if _, ok := have[w]; !ok {
			return false
		}
	}
	return true
}
