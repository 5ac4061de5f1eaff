package adapter

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/zen-systems/tripgate/pkg/artifact"
)

// MockAdapter returns deterministic replies for local runs and tests.
// Without a canned reply it echoes the prompt, which carries the JSON
// schema example, so the echo re-parses as a structured itinerary.
type MockAdapter struct {
	responses       map[string]string
	defaultResponse string
	// Err, when set, is returned by every Generate call.
	Err   error
	Usage *Usage
	calls atomic.Int64
}

// NewMockAdapter creates a mock adapter with a default response.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockAdapterWithResponses creates a mock adapter with predefined responses.
func NewMockAdapterWithResponses(responses map[string]string, defaultResponse string) *MockAdapter {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockAdapter{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Calls reports how many times Generate ran.
func (a *MockAdapter) Calls() int {
	return int(a.calls.Load())
}

// Generate returns a deterministic reply for the prompt.
func (a *MockAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	a.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, newError(a.Name(), 0, requestFailure(err), err)
	}
	if a.Err != nil {
		return nil, a.Err
	}
	if model == "" {
		model = "mock-1"
	}
	if response, ok := a.responses[prompt]; ok {
		return &Response{Artifact: artifact.New(response, a.Name(), model, prompt), Usage: a.Usage}, nil
	}
	content := fmt.Sprintf("%s\n%s", a.defaultResponse, prompt)
	return &Response{Artifact: artifact.New(content, a.Name(), model, prompt), Usage: a.Usage}, nil
}
