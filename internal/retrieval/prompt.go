package retrieval

import (
	"fmt"
	"strings"
)

// maxPromptExamples caps how many examples are rendered into the prompt.
// The selection may hold more; rendering keeps the preamble bounded.
const maxPromptExamples = 3

// BuildEnhancedPrompt renders the retrieved context and the original
// question into a single prompt for the downstream query generator.
//
// When rc is nil or holds no examples the original question is returned
// unchanged — augmentation must never fail the caller. Rendering is pure
// string templating; callers needing byte-bounded prompts truncate
// downstream.
func BuildEnhancedPrompt(originalQuestion string, rc *Context) string {
	if rc == nil || len(rc.Examples) == 0 {
		return originalQuestion
	}

	var b strings.Builder
	b.WriteString("RELEVANT CONTEXT FROM PAST QUERIES:\n\n")

	n := len(rc.Examples)
	if n > maxPromptExamples {
		n = maxPromptExamples
	}
	for i := 0; i < n; i++ {
		ex := rc.Examples[i]
		fmt.Fprintf(&b, "Example %d (similarity: %.3f):\n", i+1, ex.Similarity)
		fmt.Fprintf(&b, "  Question: %s\n", ex.Record.Question)
		if ex.Record.GeneratedQuery != "" {
			fmt.Fprintf(&b, "  Query: %s\n", ex.Record.GeneratedQuery)
		}
		if ex.Record.Summary != "" {
			fmt.Fprintf(&b, "  Result: %s\n", ex.Record.Summary)
		}
		b.WriteString("\n")
	}

	if !rc.Patterns.Empty() {
		if len(rc.Patterns.CommonEntities) > 0 {
			fmt.Fprintf(&b, "Common tables used: %s\n", strings.Join(rc.Patterns.CommonEntities, ", "))
		}
		if len(rc.Patterns.CommonOperations) > 0 {
			fmt.Fprintf(&b, "Common operations: %s\n", strings.Join(rc.Patterns.CommonOperations, ", "))
		}
		b.WriteString("\n")
	}

	// The question is restated verbatim; quoting or escaping it would
	// hand the generator a different string than the user asked.
	fmt.Fprintf(&b,
		"Based on the context above, answer the following question:\n%s\n\n"+
			"Generate a query that follows similar patterns to the examples while "+
			"addressing the specific requirements of the current question. Use the "+
			"same schema and naming conventions shown in the examples.",
		originalQuestion)

	return b.String()
}
