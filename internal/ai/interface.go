package ai

import (
	"context"
)

// LLMProvider defines the contract for chat-style completion backends.
type LLMProvider interface {
	// Name identifies the provider in logs and errors ("groq", "gemini").
	Name() string

	// Complete sends the request and returns the whole reply.
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Stream returns a channel of incremental events. The channel is closed
	// after the EventClose event, or early when ctx is cancelled.
	Stream(ctx context.Context, req ChatRequest) (<-chan StreamEvent, error)
}
