package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, false)
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}
	l.Log("hello from the test")
	l.Logf("formatted %d", 42)
	l.Sync()

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one dated log file, got %v (%v)", entries, err)
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "slidesmith_") || !strings.HasSuffix(name, ".log") {
		t.Fatalf("unexpected log file name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from the test") || !strings.Contains(string(data), "formatted 42") {
		t.Fatalf("messages missing from log file: %s", data)
	}
}

func TestSinkAdapter(t *testing.T) {
	l, err := New("", false)
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}
	sink := l.Sink()
	if sink == nil {
		t.Fatal("sink must not be nil")
	}
	sink("via sink")
}
