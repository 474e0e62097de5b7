package llm

import (
	"context"
)

// Client is the single seam between the pipeline and whichever LLM
// provider is configured. The core merge engine never touches it.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
