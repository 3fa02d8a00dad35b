package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswer answers a question from supplied context only.
	// The template expects %s (context), %s (conversation history) and
	// %s (question) placeholders, and instructs the model to emit
	// AnswerAbsentSentinel when the answer is not present in the context.
	PromptAnswer = "answer"

	// PromptSummarise produces a concise academic summary.
	// The template expects a %s (context) placeholder.
	PromptSummarise = "summarise"
)

// AnswerAbsentSentinel is the fixed phrase the answer prompt instructs
// the model to emit when the context does not contain the answer.
const AnswerAbsentSentinel = "I could not find this information in the document."
