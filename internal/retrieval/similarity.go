package retrieval

import "strings"

// domainKeywords are terms whose co-occurrence in two questions signals
// shared intent beyond raw character overlap: SQL verbs, common business
// nouns, and action verbs.
var domainKeywords = map[string]struct{}{
	// SQL verbs
	"select": {}, "count": {}, "sum": {}, "avg": {}, "max": {}, "min": {},
	"group": {}, "order": {}, "where": {}, "join": {}, "inner": {},
	"left": {}, "right": {}, "having": {}, "distinct": {}, "limit": {},
	// business nouns
	"user": {}, "users": {}, "customer": {}, "customers": {},
	"orders": {}, "product": {}, "products": {}, "total": {},
	"revenue": {}, "sales": {}, "profit": {}, "top": {}, "bottom": {},
	"highest": {}, "lowest": {},
	// action verbs
	"show": {}, "find": {}, "get": {}, "list": {}, "display": {},
	"analyze": {}, "report": {},
}

// keywordBonusWeight is the score added per shared domain keyword.
const keywordBonusWeight = 0.1

// Score computes the similarity of two questions in [0, 1].
//
// The base is the mean of two measures over the normalized strings: a
// matching-blocks character ratio (credits shared phrasing and near-typo
// matches) and token-set Jaccard (zero when no words are shared, which
// keeps superficially letter-similar but unrelated questions apart).
// The base is boosted by 0.1 per domain keyword the questions share,
// then clamped to 1.0. Empty input on either side scores 0.
//
// Both measures are symmetric and score identical normalized strings at
// exactly 1.0, so Score inherits those properties.
func Score(questionA, questionB string) float64 {
	if questionA == "" || questionB == "" {
		return 0
	}

	a := Normalize(questionA)
	b := Normalize(questionB)

	score := (matchRatio(a, b) + tokenJaccard(a, b)) / 2

	if n := commonKeywords(a, b); n > 0 {
		score += float64(n) * keywordBonusWeight
	}

	if score > 1 {
		return 1
	}
	return score
}

// tokenJaccard is |A∩B| / |A∪B| over the word sets of two normalized
// strings. Two empty strings compare as identical.
func tokenJaccard(a, b string) float64 {
	wordsA := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		wordsA[w] = struct{}{}
	}
	wordsB := make(map[string]struct{})
	for _, w := range strings.Fields(b) {
		wordsB[w] = struct{}{}
	}

	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1
	}

	inter := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			inter++
		}
	}
	union := len(wordsA) + len(wordsB) - inter
	return float64(inter) / float64(union)
}

// commonKeywords counts domain keywords present in both normalized
// questions.
func commonKeywords(a, b string) int {
	wordsA := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		if _, ok := domainKeywords[w]; ok {
			wordsA[w] = struct{}{}
		}
	}

	n := 0
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(b) {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := wordsA[w]; ok {
			n++
		}
	}
	return n
}

// matchRatio is the classic sequence-alignment measure 2*M/T, where M is
// the number of runes covered by recursively chosen longest common
// blocks and T is the total length of both strings. Two empty strings
// ratio to 1 (identical after normalization).
//
// The block recursion breaks equal-length ties by position, which would
// partition differently depending on argument order; a canonical order
// keeps the measure symmetric. Comparing runes rather than bytes keeps
// multi-byte input from being split mid-sequence.
func matchRatio(a, b string) float64 {
	if a > b {
		a, b = b, a
	}
	ra := []rune(a)
	rb := []rune(b)

	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(ra, rb)) / float64(total)
}

// matchingChars sums the lengths of matching blocks: find the longest
// common block, then recurse on the pieces to its left and right.
func matchingChars(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestCommonBlock finds the longest common contiguous run of a and b,
// preferring the earliest position in a, then in b, so results are
// deterministic. Runs in O(len(a)*len(b)) time with two rolling rows.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				cur[j+1] = 0
				continue
			}
			k := prev[j] + 1
			cur[j+1] = k
			if k > size {
				size = k
				ai = i - k + 1
				bi = j - k + 1
			}
		}
		prev, cur = cur, prev
	}

	return ai, bi, size
}
