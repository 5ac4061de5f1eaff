package observability

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("prod", &buf)
	l.Debug().Msg("hidden")
	l.Info().Str("destination", "Paris").Msg("details extracted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "details extracted" || entry["destination"] != "Paris" {
		t.Fatalf("unexpected entry %v", entry)
	}

	buf.Reset()
	dev := newLogger("dev", &buf)
	dev.Debug().Msg("visible")
	if !bytes.Contains(buf.Bytes(), []byte("visible")) {
		t.Fatalf("expected debug output in dev, got %q", buf.String())
	}
}
