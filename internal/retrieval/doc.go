// Package retrieval ranks past question/query interactions against a new
// question and assembles a bounded prompt-augmentation payload.
//
// The pipeline is: normalize both questions (lowercase, collapsed
// whitespace, stop words removed), score candidates with a blend of a
// matching-blocks character ratio and token overlap plus a
// domain-keyword bonus, keep the
// top few above a threshold, extract aggregate patterns from their
// generated queries, and render everything into an enhanced prompt.
//
// Scoring is deliberately lexical: cheap, explainable, and fully
// deterministic, at the cost of recall on heavy paraphrases. Callers
// needing semantic recall can swap in a different scorer behind the same
// contract.
//
// Every failure mode in this package degrades to "no context" — absence
// of augmentation is a normal outcome, never an error the caller sees.
package retrieval
