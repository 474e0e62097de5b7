package extraction

import (
	"context"
	"fmt"
)

type MockLLMClient struct {
	Response string
	Err      error

	// FailuresBeforeSuccess makes Generate fail this many times first.
	FailuresBeforeSuccess int
	Calls                 int
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Calls <= m.FailuresBeforeSuccess {
		return "", fmt.Errorf("transient failure %d", m.Calls)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
