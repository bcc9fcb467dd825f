package retrieval

import "strings"

// Intent is a coarse descriptor of what a question asks for. It is used
// for diagnostics and future scoring extensions; the base ranking
// algorithm does not consume it.
type Intent struct {
	// Action is the aggregate class: count, sum, average, max, min, or
	// select. Empty when no action phrase is recognized.
	Action string

	// Entities are domain concepts mentioned in the question.
	Entities []string

	// Keywords are the normalized question's words.
	Keywords []string
}

// actionPhrases maps an action class to the phrases that signal it.
// Order matters: the first class with a match wins.
var actionPhrases = []struct {
	action  string
	phrases []string
}{
	{"count", []string{"count", "how many", "number of"}},
	{"sum", []string{"sum", "total", "aggregate"}},
	{"average", []string{"avg", "average", "mean"}},
	{"max", []string{"max", "maximum", "highest", "top"}},
	{"min", []string{"min", "minimum", "lowest", "bottom"}},
	{"select", []string{"show", "list", "display", "get", "find"}},
}

// intentEntities are the domain concepts scanned for in questions.
var intentEntities = []string{
	"user", "customer", "order", "product", "sale", "revenue", "profit", "item",
}

// ExtractIntent derives an Intent from a question. Pure and deterministic;
// an empty question yields a zero Intent.
func ExtractIntent(question string) Intent {
	lower := strings.ToLower(question)

	var intent Intent
	for _, ap := range actionPhrases {
		for _, p := range ap.phrases {
			if strings.Contains(lower, p) {
				intent.Action = ap.action
				break
			}
		}
		if intent.Action != "" {
			break
		}
	}

	for _, e := range intentEntities {
		if strings.Contains(lower, e) {
			intent.Entities = append(intent.Entities, e)
		}
	}

	if norm := Normalize(question); norm != "" {
		intent.Keywords = strings.Fields(norm)
	}

	return intent
}
