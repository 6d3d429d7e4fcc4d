// Package llm provides the chat-completion client used to generate
// diagnostic reports.
package llm

import "context"

// Client generates a completion from a system prompt and a user prompt.
type Client interface {
	// Complete sends one chat turn and returns the raw assistant message.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Model returns the model identifier requests are sent with.
	Model() string
}
