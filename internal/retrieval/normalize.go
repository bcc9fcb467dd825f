package retrieval

import "strings"

// stopWords are removed during normalization; they carry no signal for
// comparing database questions.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// Normalize canonicalizes a question for comparison: lowercases, collapses
// whitespace runs to a single space, trims, and removes stop words.
// Normalize is pure and idempotent; empty input yields the empty string.
func Normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))

	kept := fields[:0]
	for _, w := range fields {
		if _, stop := stopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}

	return strings.Join(kept, " ")
}
