package ai

import "fmt"

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat-style completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the provider-neutral completion request.
// Model overrides the provider's default model when non-empty.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model,omitempty"`
	Stream   bool      `json:"stream"`
}

// Validate checks the request before it reaches a provider.
func (r ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidRequest)
	}
	for i, m := range r.Messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidRequest, i, m.Role)
		}
	}
	return nil
}

// ChatResponse is a completed (non-streamed) reply.
type ChatResponse struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// StreamEventType tags the events of a streamed completion.
type StreamEventType string

const (
	EventMessage StreamEventType = "message"
	EventError   StreamEventType = "error"
	EventClose   StreamEventType = "close"
)

// StreamEvent is one item of a streamed completion. A stream always ends with
// exactly one EventClose; an EventError, if any, comes right before it.
type StreamEvent struct {
	Type    StreamEventType
	Content string
	Err     error
}
