package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest  = errors.New("invalid chat request")
	ErrEmptyCompletion = errors.New("completion returned no content")
)

// TransportError reports that the completion call itself failed (network,
// auth, quota, upstream 5xx).
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s completion: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func transportErr(provider string, err error) error {
	return &TransportError{Provider: provider, Err: err}
}

// emit delivers ev unless ctx is done first.
func emit(ctx context.Context, ch chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// finish sends the optional error event followed by close.
func finish(ctx context.Context, ch chan<- StreamEvent, err error) {
	if err != nil && !emit(ctx, ch, StreamEvent{Type: EventError, Err: err}) {
		return
	}
	emit(ctx, ch, StreamEvent{Type: EventClose})
}
