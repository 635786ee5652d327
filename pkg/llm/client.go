package llm

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Completer sends one chat completion and returns the reply text trimmed of
// surrounding whitespace. Implementations do not retry.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}

// UpstreamError wraps any failure talking to the completion endpoint:
// transport, auth, rate limiting or an unusable response.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
