package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"marketplace-2026-01-01T00-00-00.000.log",
		"marketplace-2026-01-02T00-00-00.000.log",
		"marketplace-2026-01-03T00-00-00.000.log",
		"unrelated.log",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := cleanupOldLogs(dir, 2); err != nil {
		t.Fatalf("cleanupOldLogs() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Error("oldest log file was not removed")
	}
	for _, name := range names[1:] {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s should be kept: %v", name, err)
		}
	}
}

func TestSetupLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := SetupLogFile(dir, 3)
	if err != nil {
		t.Fatalf("SetupLogFile() error = %v", err)
	}
	defer f.Close()

	matches, _ := filepath.Glob(filepath.Join(dir, logFilePrefix+"*.log"))
	if len(matches) != 1 {
		t.Errorf("expected one log file, found %v", matches)
	}
}
