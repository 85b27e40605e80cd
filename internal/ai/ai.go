package ai

import "context"

// Generator is the narrow surface the pipeline components use to talk to the
// text-generation provider. Each call is independent: no conversation state
// is carried between invocations.
type Generator interface {
	// GenerateContent sends the prompt and returns the model's textual reply.
	// maxOutputTokens is a hint bounding the reply length; values <= 0 leave
	// the provider default in place.
	GenerateContent(ctx context.Context, prompt string, maxOutputTokens int32) (string, error)
}
