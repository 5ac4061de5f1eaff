package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	aliases := DefaultAliases()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"resolve known alias", "fast", "gemini-1.5-flash-latest"},
		{"resolve another alias", "quality", "claude-sonnet-4-20250514"},
		{"unknown alias returns input unchanged", "unknown-model", "unknown-model"},
		{"canonical model returns unchanged", "gpt-4o", "gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := aliases.Resolve(tt.input); result != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNilAliases(t *testing.T) {
	var aliases *ModelAliases
	if aliases.Resolve("fast") != "fast" || aliases.IsAlias("fast") || aliases.ProviderFor("fast") != "" {
		t.Errorf("nil aliases should pass names through")
	}
	if err := aliases.ValidateModel("google", "anything"); err != nil {
		t.Errorf("nil aliases should accept any model, got %v", err)
	}
}

func TestValidateModel(t *testing.T) {
	aliases := DefaultAliases()

	tests := []struct {
		provider string
		model    string
		wantErr  bool
	}{
		{"google", "gemini-1.5-flash-latest", false},
		{"google", "fast", false},
		{"google", "gpt-4o", true},
		{"carrier-pigeon", "fast", true},
	}
	for _, tt := range tests {
		err := aliases.ValidateModel(tt.provider, tt.model)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateModel(%q, %q) = %v, wantErr %v", tt.provider, tt.model, err, tt.wantErr)
		}
	}
}

func TestProviderFor(t *testing.T) {
	aliases := DefaultAliases()
	if got := aliases.ProviderFor("cheap"); got != "deepseek" {
		t.Errorf("ProviderFor(cheap) = %q", got)
	}
	if got := aliases.ProviderFor("mock-1"); got != "mock" {
		t.Errorf("ProviderFor(mock-1) = %q", got)
	}
	if got := aliases.ProviderFor("unknown"); got != "" {
		t.Errorf("ProviderFor(unknown) = %q", got)
	}
}

func TestLoadAliasesFromDir(t *testing.T) {
	dir := t.TempDir()

	aliases, err := LoadAliasesFromDir(dir)
	if err != nil {
		t.Fatalf("LoadAliasesFromDir: %v", err)
	}
	if !aliases.IsAlias("fast") {
		t.Fatalf("expected the default aliases without a file")
	}

	data := []byte("aliases:\n  trip: gemini-2.0-flash\n")
	if err := os.WriteFile(filepath.Join(dir, "models.yaml"), data, 0644); err != nil {
		t.Fatalf("write models: %v", err)
	}
	aliases, err = LoadAliasesFromDir(dir)
	if err != nil {
		t.Fatalf("LoadAliasesFromDir: %v", err)
	}
	if aliases.Resolve("trip") != "gemini-2.0-flash" || aliases.IsAlias("fast") {
		t.Fatalf("expected the file aliases only, got %v", aliases.AliasNames())
	}
	if aliases.Providers == nil || len(aliases.ProviderNames()) != 0 {
		t.Fatalf("expected initialized empty providers")
	}
}

func TestLoadAliasesFileNotFound(t *testing.T) {
	if _, err := LoadAliases(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestDefaultAliasesAreConsistent(t *testing.T) {
	aliases := DefaultAliases()
	for _, name := range aliases.AliasNames() {
		if aliases.ProviderFor(name) == "" {
			t.Errorf("alias %q resolves to an unlisted model %q", name, aliases.Resolve(name))
		}
	}
}
