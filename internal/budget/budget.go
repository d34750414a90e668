// Package budget provides token budget estimation and context trimming for
// the assistant prompt. The assistant supports multiple LLM backends with
// different tokenizers, so this package uses a conservative character-based
// heuristic: 1 token ≈ 4 characters. This deliberately under-estimates token
// counts to leave headroom for model-specific overhead.
package budget

const (
	// charsPerToken is the conservative character-to-token ratio used for
	// estimation. 4 chars/token is standard for English prose; Indonesian
	// runs close enough for a budget check.
	charsPerToken = 4

	// DefaultMaxContextTokens is the default input context budget in tokens.
	// Conservative enough to fit within 8k-context models (Llama 3 8B)
	// while leaving room for the generated answer.
	DefaultMaxContextTokens = 6000
)

// Estimate returns a rough token count for s using the character heuristic.
func Estimate(s string) int {
	n := len(s) / charsPerToken
	if n == 0 && len(s) > 0 {
		return 1
	}
	return n
}

// TrimContext drops retrieved documents until the estimated token count of
// fixed + the surviving documents fits within maxTokens. fixed is the prompt
// text that must not be trimmed (instructions and the patient question).
// docs must be ordered best match first; trimming removes from the tail so
// the weakest matches go first.
//
// Returns the surviving documents. If even zero documents exceed the budget,
// the empty slice is returned — callers should warn separately when the fixed
// prompt alone blows the budget.
func TrimContext(fixed string, docs []string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxContextTokens
	}

	fixedTokens := Estimate(fixed)

	total := fixedTokens
	for _, d := range docs {
		total += Estimate(d)
	}

	// docs is at most a handful of records; a linear trim from the tail is
	// clear and correct.
	for len(docs) > 0 && total > maxTokens {
		total -= Estimate(docs[len(docs)-1])
		docs = docs[:len(docs)-1]
	}

	return docs
}
