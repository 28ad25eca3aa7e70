package llm

import "context"

// Generator is the summarization collaborator: one prompt in, one text out.
// Prompt construction and retry policy live in the summarize stage.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}
