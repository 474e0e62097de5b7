package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/common"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
	"github.com/Harshitkumar63/ai-ddr-builder/internal/llm"
)

const maxAttempts = 3

type Extractor struct {
	LLM    llm.Client
	Prompt string

	// RetryWait is the base delay between attempts; scaled by attempt number.
	RetryWait time.Duration
}

func NewExtractor(llmClient llm.Client, prompt string) *Extractor {
	return &Extractor{
		LLM:       llmClient,
		Prompt:    prompt,
		RetryWait: 5 * time.Second,
	}
}

// Extract sends the document text through the extraction prompt and
// returns the validated per-area observations. An empty document yields
// an empty extraction rather than an error.
func (e *Extractor) Extract(ctx context.Context, source model.Source, documentText string) (model.DocumentExtraction, error) {
	if strings.TrimSpace(documentText) == "" {
		return model.DocumentExtraction{}, nil
	}

	prompt := fmt.Sprintf(e.Prompt, source, documentText)

	response, err := e.generateWithRetry(ctx, prompt)
	if err != nil {
		return model.DocumentExtraction{}, fmt.Errorf("failed to generate extraction for %s: %w", source, err)
	}

	result, err := common.ParseJSON[model.DocumentExtraction](response)
	if err != nil {
		return model.DocumentExtraction{}, fmt.Errorf("failed to parse extraction for %s: %w", source, err)
	}

	if err := validate(result); err != nil {
		return model.DocumentExtraction{}, fmt.Errorf("invalid extraction for %s: %w", source, err)
	}

	return result, nil
}

func (e *Extractor) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		response, err := e.LLM.Generate(ctx, prompt)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(e.RetryWait * time.Duration(attempt)):
		}
	}
	return "", lastErr
}

// validate enforces the extraction schema before the data reaches the
// merge engine: an area without a name would otherwise be silently
// unmatchable, which the pipeline treats as a hard error.
func validate(doc model.DocumentExtraction) error {
	for i, area := range doc.Areas {
		if strings.TrimSpace(area.Name) == "" {
			return fmt.Errorf("area %d has no name", i)
		}
	}
	return nil
}
