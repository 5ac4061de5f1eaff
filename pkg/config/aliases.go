package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModelAliases maps short model names to provider models.
type ModelAliases struct {
	Aliases   map[string]string   `yaml:"aliases"`
	Providers map[string][]string `yaml:"providers"`
}

// LoadAliases reads model aliases from a YAML file.
func LoadAliases(path string) (*ModelAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var aliases ModelAliases
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse aliases %s: %w", path, err)
	}
	if aliases.Aliases == nil {
		aliases.Aliases = make(map[string]string)
	}
	if aliases.Providers == nil {
		aliases.Providers = make(map[string][]string)
	}
	return &aliases, nil
}

// LoadAliasesFromDir loads models.yaml from configDir, falling back to
// DefaultAliases when the file is absent.
func LoadAliasesFromDir(configDir string) (*ModelAliases, error) {
	path := filepath.Join(configDir, "models.yaml")
	if _, err := os.Stat(path); err != nil {
		return DefaultAliases(), nil
	}
	return LoadAliases(path)
}

// Resolve returns the canonical model name for an alias.
// If the input is not an alias, it returns the input unchanged.
func (a *ModelAliases) Resolve(modelOrAlias string) string {
	if a == nil {
		return modelOrAlias
	}
	if canonical, ok := a.Aliases[modelOrAlias]; ok {
		return canonical
	}
	return modelOrAlias
}

// IsAlias returns true if the given string is a known alias.
func (a *ModelAliases) IsAlias(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.Aliases[name]
	return ok
}

// ValidateModel checks that model, after alias resolution, is listed for
// provider. Without provider lists every model is accepted.
func (a *ModelAliases) ValidateModel(provider, model string) error {
	if a == nil || len(a.Providers) == 0 {
		return nil
	}
	models, ok := a.Providers[provider]
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}
	model = a.Resolve(model)
	for _, m := range models {
		if m == model {
			return nil
		}
	}
	return fmt.Errorf("model %q not in %s provider list", model, provider)
}

// ProviderFor returns the provider listing model, after alias resolution,
// or "" when none does.
func (a *ModelAliases) ProviderFor(model string) string {
	if a == nil {
		return ""
	}
	model = a.Resolve(model)
	for _, provider := range a.ProviderNames() {
		for _, m := range a.Providers[provider] {
			if m == model {
				return provider
			}
		}
	}
	return ""
}

// AliasNames returns the aliases in sorted order.
func (a *ModelAliases) AliasNames() []string {
	if a == nil {
		return nil
	}
	return sortedKeys(a.Aliases)
}

// ProviderNames returns the providers in sorted order.
func (a *ModelAliases) ProviderNames() []string {
	if a == nil {
		return nil
	}
	return sortedKeys(a.Providers)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultAliases returns the built-in aliases.
func DefaultAliases() *ModelAliases {
	return &ModelAliases{
		Aliases: map[string]string{
			// Google
			"fast":     "gemini-1.5-flash-latest",
			"balanced": "gemini-2.0-flash",
			"research": "gemini-2.5-pro",
			// Anthropic
			"quality": "claude-sonnet-4-20250514",
			"deep":    "claude-opus-4-20250514",
			// OpenAI
			"mini": "gpt-4o-mini",
			"omni": "gpt-4o",
			// DeepSeek
			"cheap":  "deepseek-chat",
			"reason": "deepseek-reasoner",
		},
		Providers: map[string][]string{
			"google":    {"gemini-1.5-flash-latest", "gemini-2.0-flash", "gemini-2.5-pro"},
			"anthropic": {"claude-sonnet-4-20250514", "claude-opus-4-20250514"},
			"openai":    {"gpt-4o-mini", "gpt-4o", "gpt-4.1"},
			"deepseek":  {"deepseek-chat", "deepseek-reasoner"},
			"mock":      {"mock-1"},
		},
	}
}
