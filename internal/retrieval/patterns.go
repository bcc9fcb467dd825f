package retrieval

import (
	"regexp"
	"sort"
	"strings"
)

// Patterns aggregates what the selected examples' generated queries have
// in common: the entities (tables or graph labels) they touch and the
// aggregate operations they use.
type Patterns struct {
	// CommonEntities holds the top 3 referenced tables/labels by
	// frequency, ties broken by first appearance.
	CommonEntities []string

	// CommonOperations is the set of aggregate operations observed,
	// in canonical order.
	CommonOperations []string
}

// Empty reports whether no patterns were extracted.
func (p Patterns) Empty() bool {
	return len(p.CommonEntities) == 0 && len(p.CommonOperations) == 0
}

const maxCommonEntities = 3

var (
	// sqlEntityRe captures the identifier after FROM or JOIN.
	sqlEntityRe = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+([A-Za-z_][A-Za-z0-9_]*)`)

	// cypherEntityRe captures node labels in MATCH patterns, e.g.
	// MATCH (c:Customer) yields Customer.
	cypherEntityRe = regexp.MustCompile(`(?i)\bMATCH\s*\(\s*\w*\s*:\s*([A-Za-z_][A-Za-z0-9_]*)`)
)

// operationMarkers pairs each reported operation with the substring that
// signals it in an upper-cased query.
var operationMarkers = []struct {
	op     string
	marker string
}{
	{"COUNT", "COUNT"},
	{"SUM", "SUM"},
	{"AVG", "AVG"},
	{"GROUP BY", "GROUP BY"},
	{"ORDER BY", "ORDER BY"},
}

// ExtractPatterns scans the generated queries of the given examples and
// tallies entity references and aggregate operations. A query that yields
// nothing simply contributes nothing; the batch never fails.
func ExtractPatterns(examples []ScoredExample) Patterns {
	counts := make(map[string]int)
	var firstSeen []string
	opsSeen := make(map[string]bool)

	for _, ex := range examples {
		q := ex.Record.GeneratedQuery
		if q == "" {
			continue
		}

		for _, entity := range entityRefs(q) {
			if counts[entity] == 0 {
				firstSeen = append(firstSeen, entity)
			}
			counts[entity]++
		}

		upper := strings.ToUpper(q)
		for _, om := range operationMarkers {
			if strings.Contains(upper, om.marker) {
				opsSeen[om.op] = true
			}
		}
	}

	var p Patterns

	// Rank by frequency descending; sort.SliceStable over first-seen
	// order makes ties deterministic.
	entities := append([]string(nil), firstSeen...)
	sort.SliceStable(entities, func(i, j int) bool {
		return counts[entities[i]] > counts[entities[j]]
	})
	if len(entities) > maxCommonEntities {
		entities = entities[:maxCommonEntities]
	}
	p.CommonEntities = entities

	for _, om := range operationMarkers {
		if opsSeen[om.op] {
			p.CommonOperations = append(p.CommonOperations, om.op)
		}
	}

	return p
}

// entityRefs extracts table or label references from a single query,
// matching both SQL (FROM/JOIN) and Cypher (MATCH) shapes.
func entityRefs(query string) []string {
	var refs []string
	for _, m := range sqlEntityRe.FindAllStringSubmatch(query, -1) {
		refs = append(refs, m[1])
	}
	for _, m := range cypherEntityRe.FindAllStringSubmatch(query, -1) {
		refs = append(refs, m[1])
	}
	return refs
}
