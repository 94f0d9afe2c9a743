package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sugardiff.log")
	logger, closeFn, err := New(path, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.WithField("value", 120).Debug("measurement added")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", raw, err)
	}
	if entry["msg"] != "measurement added" || entry["level"] != "debug" || entry["value"] != float64(120) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	logger, closeFn, err := New("", "")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer closeFn()
	if logger.GetLevel() != log.InfoLevel {
		t.Fatalf("expected info level by default, got %s", logger.GetLevel())
	}
	logger.Info("dropped")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New("", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
