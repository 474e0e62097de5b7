package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/llm"
)

type Reasoner struct {
	LLM    llm.Client
	Prompt string
}

func NewReasoner(llmClient llm.Client, prompt string) *Reasoner {
	return &Reasoner{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Narrative turns the merged dataset into the client-facing DDR body.
// The merged data travels as indented JSON so the model sees the
// NotAvailable markers and conflict values exactly as stored.
func (r *Reasoner) Narrative(ctx context.Context, merged *model.MergedData) (string, error) {
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize merged data: %w", err)
	}

	prompt := fmt.Sprintf(r.Prompt, string(data))

	response, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}

	text := strings.TrimSpace(response)
	if text == "" {
		return "", fmt.Errorf("empty narrative from model")
	}
	return text, nil
}
