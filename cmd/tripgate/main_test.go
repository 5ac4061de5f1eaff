package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const request = "I am planning a trip from New York to Paris from December 15 to December 25. " +
	"There will be two adults. Our budget is $5000"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"TRIPGATE_PROVIDER", "TRIPGATE_MODEL", "TRIPGATE_STRATEGY", "REDIS_ADDR", "APP_ENV"} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestReadInput(t *testing.T) {
	got, err := readInput([]string{"to", "Paris "}, strings.NewReader("ignored"))
	if err != nil || got != "to Paris" {
		t.Fatalf("readInput(args) = %q, %v", got, err)
	}
	got, err = readInput(nil, strings.NewReader("  from stdin\n"))
	if err != nil || got != "from stdin" {
		t.Fatalf("readInput(stdin) = %q, %v", got, err)
	}
}

func TestExtractCommand(t *testing.T) {
	out, err := run(t, request, "extract", "--json")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got["Destination"] != "Paris" || got["Starting Location"] != "New York" {
		t.Fatalf("unexpected details: %v", got)
	}

	out, err = run(t, "", "extract", request)
	if err != nil || !strings.Contains(out, "Destination:") || !strings.Contains(out, "Paris") {
		t.Fatalf("unexpected table output %q, %v", out, err)
	}
}

func TestPromptCommandValidation(t *testing.T) {
	out, err := run(t, "", "prompt", "a relaxing break")
	if !errors.Is(err, errNeedsCorrection) {
		t.Fatalf("expected a correction, got %v", err)
	}
	if !strings.HasPrefix(out, "Error❗Error❗Error❗ Please specify a Destination place.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPlanCommandExports(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "", "plan", "--provider", "mock", "--json", "--out", dir, request)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var plan struct {
		Reply struct {
			Adapter string `json:"adapter"`
		} `json:"reply"`
		Itinerary struct {
			Source string `json:"source"`
		} `json:"itinerary"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if plan.Reply.Adapter != "mock" || plan.Itinerary.Source != "structured" {
		t.Fatalf("unexpected plan %s", out)
	}

	texts, _ := filepath.Glob(filepath.Join(dir, "itinerary_paris_*.txt"))
	jsons, _ := filepath.Glob(filepath.Join(dir, "itinerary_paris_*.json"))
	if len(texts) != 1 || len(jsons) != 1 {
		t.Fatalf("expected one text and one json export, got %v %v", texts, jsons)
	}
	if data, err := os.ReadFile(texts[0]); err != nil || !strings.HasPrefix(string(data), "mock response:") {
		t.Fatalf("unexpected text export: %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "Day 1: Arrival\nMorning: Check in", "parse")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, `"source": "heuristic"`) || !strings.Contains(out, `"title": "Arrival"`) {
		t.Fatalf("unexpected itinerary %s", out)
	}
}

func TestUnknownProvider(t *testing.T) {
	_, err := run(t, "", "plan", "--provider", "carrier-pigeon", request)
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("expected an unknown provider error, got %v", err)
	}
}
