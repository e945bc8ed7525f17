package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	l, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("iteration finished")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"iteration finished"`) {
		t.Errorf("expected JSON log line, got %s", data)
	}
}

func TestLFallsBackToNop(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	if L() == nil {
		t.Fatal("L should never return nil")
	}
	Named("engine").Info("dropped")
}
