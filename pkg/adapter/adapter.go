// Package adapter connects the planner to itinerary generation services.
package adapter

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Adapter defines the interface for generation service adapters.
type Adapter interface {
	// Generate sends a prompt to the model and returns the reply.
	Generate(ctx context.Context, model string, prompt string) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the supported models, default first.
	Models() []string
}

// DefaultProvider is used when no provider is configured.
const DefaultProvider = "google"

// Keys holds provider API keys.
type Keys struct {
	Google    string
	Anthropic string
	OpenAI    string
	DeepSeek  string
}

var constructors = map[string]func(Keys) (Adapter, error){
	"google":    func(k Keys) (Adapter, error) { return NewGoogleAdapter(k.Google) },
	"anthropic": func(k Keys) (Adapter, error) { return NewAnthropicAdapter(k.Anthropic) },
	"openai":    func(k Keys) (Adapter, error) { return NewOpenAIAdapter(k.OpenAI) },
	"deepseek":  func(k Keys) (Adapter, error) { return NewDeepSeekAdapter(k.DeepSeek) },
	"mock":      func(Keys) (Adapter, error) { return NewMockAdapter(), nil },
}

// New creates the adapter for provider. An empty provider selects
// DefaultProvider.
func New(provider string, keys Keys) (Adapter, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = DefaultProvider
	}
	build, ok := constructors[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %s)", provider, strings.Join(Providers(), ", "))
	}
	a, err := build(keys)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s adapter: %w", provider, err)
	}
	return a, nil
}

// Providers lists the known provider names.
func Providers() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveModel returns model, or the adapter's default when model is empty.
func ResolveModel(a Adapter, model string) string {
	if model = strings.TrimSpace(model); model != "" {
		return model
	}
	if models := a.Models(); len(models) > 0 {
		return models[0]
	}
	return ""
}
