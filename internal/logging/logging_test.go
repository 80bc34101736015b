package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsole_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Console(&buf, false)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestFile_AppendsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	log, closer, err := File(path, true)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	log.Debug().Str("op", "list").Msg("request")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"op":"list"`) {
		t.Errorf("expected JSON field in log, got %s", data)
	}
}
