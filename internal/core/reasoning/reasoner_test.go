package reasoning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"
)

type mockLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	return m.response, m.err
}

func sampleMerged() *model.MergedData {
	return &model.MergedData{
		Areas: []model.CanonicalArea{
			{
				Name:    "Rear Bedroom",
				Fields:  map[string]string{"condition": "Good", "moisture": model.NotAvailable},
				Sources: []model.Source{model.SourceInspection, model.SourceThermal},
			},
		},
	}
}

func TestNarrative_FeedsMergedJSON(t *testing.T) {
	mock := &mockLLM{response: "  The rear bedroom is in good condition.\n"}

	r := NewReasoner(mock, "Write the report from:\n%s")
	text, err := r.Narrative(context.Background(), sampleMerged())
	require.NoError(t, err)

	assert.Equal(t, "The rear bedroom is in good condition.", text)
	// The model must see the gap marker verbatim, not an empty string
	assert.Contains(t, mock.lastPrompt, "Rear Bedroom")
	assert.Contains(t, mock.lastPrompt, model.NotAvailable)
}

func TestNarrative_PropagatesLLMError(t *testing.T) {
	mock := &mockLLM{err: errors.New("rate limited")}

	r := NewReasoner(mock, "%s")
	_, err := r.Narrative(context.Background(), sampleMerged())
	assert.Error(t, err)
}

func TestNarrative_RejectsEmptyResponse(t *testing.T) {
	mock := &mockLLM{response: "   "}

	r := NewReasoner(mock, "%s")
	_, err := r.Narrative(context.Background(), sampleMerged())
	assert.Error(t, err)
}
