package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	// Act
	_, _, err := New(Config{Level: "loud"})

	// Assert
	if err == nil {
		t.Fatal("New() should reject an unknown level")
	}
}

// Requirement: production logging writes JSON to combined.log and errors to error.log.
func TestNew_ProductionWritesFiles(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	logger, cleanup, err := New(Config{Level: "info", Production: true, Dir: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Act
	logger.Info("stock updated")
	logger.Error("store unreachable")
	_ = logger.Sync()
	cleanup()

	// Assert
	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		t.Fatalf("read combined.log: %v", err)
	}
	errorsOnly, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("read error.log: %v", err)
	}
	if !strings.Contains(string(combined), `"msg":"stock updated"`) || !strings.Contains(string(combined), `"msg":"store unreachable"`) {
		t.Errorf("combined.log missing entries: %s", combined)
	}
	if strings.Contains(string(errorsOnly), "stock updated") {
		t.Error("error.log should not contain info entries")
	}
	if !strings.Contains(string(errorsOnly), "store unreachable") {
		t.Error("error.log should contain error entries")
	}
}

func TestNew_DevelopmentSkipsFiles(t *testing.T) {
	// Arrange
	dir := t.TempDir()

	// Act
	logger, cleanup, err := New(Config{Level: "debug", Dir: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hello")
	cleanup()

	// Assert
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("development logger created %d files, want 0", len(entries))
	}
}
