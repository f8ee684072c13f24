package gemini

import (
	"context"

	"github.com/lexihelp/lexi-server/internal/llm"
)

// LLM is the model surface the usecases depend on.
// Invoke never fails: backend errors collapse into a fallback reply.
// Judge propagates errors so callers can keep score counts honest.
type LLM interface {
	Invoke(ctx context.Context, parts []llm.ContentPart, prompt string) string
	Judge(ctx context.Context, image llm.ContentPart, expected string) (bool, string, error)
}

var _ LLM = (*Client)(nil)
