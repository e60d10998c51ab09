package augment

import "strings"

// Prompt is the final text sent to the language model.
type Prompt string

// BuildPrompt places the grounding context ahead of the user query.
// Without context the prompt is the query unchanged.
func BuildPrompt(groundingContext string, present bool, query string) Prompt {
	if !present || groundingContext == "" {
		return Prompt(query)
	}
	var b strings.Builder
	b.Grow(len(groundingContext) + len(query) + 2)
	b.WriteString(groundingContext)
	b.WriteString("\n\n")
	b.WriteString(query)
	return Prompt(b.String())
}

func (p Prompt) String() string {
	return string(p)
}
