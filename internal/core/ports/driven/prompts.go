package driven

// Prompt template names.
const (
	// PromptAnswer renders the grounded answer prompt. Placeholders:
	// context block, then the question.
	PromptAnswer = "answer"

	// PromptFallback renders the ungrounded fallback prompt.
	// Placeholder: the question.
	PromptFallback = "fallback"
)

// Built-in templates, one per prompt name. They are the single source
// of truth: the generator falls back to them when no store is
// configured, and file-based stores seed user-editable copies from
// them.
const (
	DefaultAnswerTemplate = `You are CrescentBot, a helpful assistant for Crescent University.
Answer the question using ONLY the context below. If the context does not
contain the answer, say you don't know. Be concise and factual.

Context:
%s

Question: %s

Answer:`

	DefaultFallbackTemplate = `You are CrescentBot, a helpful assistant for Crescent University.
Answer the following question briefly. If you are not sure, say so rather
than guessing.

Question: %s

Answer:`
)

// PromptStore loads prompt templates by name.
//
// Implementations may include:
//   - File-based store with user-editable templates
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
