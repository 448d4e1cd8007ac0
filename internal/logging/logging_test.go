package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	lg, err := Setup(&buf, "debug", true)
	if err != nil {
		t.Fatal(err)
	}
	lg.Debug().Str("stream", "main").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if entry["level"] != "debug" || entry["message"] != "hello" || entry["stream"] != "main" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	lg, err := Setup(&buf, "WARN", false)
	if err != nil {
		t.Fatal(err)
	}
	lg.Info().Msg("quiet")
	lg.Warn().Msg("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Fatalf("console output %q", out)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if _, err := Setup(nil, "chatty", false); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
