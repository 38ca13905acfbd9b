package main

import (
	"path/filepath"
	"testing"
)

func TestLogConfigKeepsInteractiveTerminalClean(t *testing.T) {
	cfg, err := logConfig("warn", "", true)
	if err != nil {
		t.Fatal(err)
	}
	for _, paths := range [][]string{cfg.OutputPaths, cfg.ErrorOutputPaths} {
		if len(paths) != 1 || paths[0] != DefaultLogPath() {
			t.Fatalf("interactive log paths = %v, want %s", paths, DefaultLogPath())
		}
	}
}

func TestLogConfigOutputs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "run.log")
	tests := []struct {
		name        string
		file        string
		interactive bool
		want        string
	}{
		{"plain to stderr", "", false, "stderr"},
		{"explicit file", file, false, file},
		{"explicit file interactive", file, true, file},
	}
	for _, tt := range tests {
		cfg, err := logConfig("info", tt.file, tt.interactive)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(cfg.OutputPaths) != 1 || cfg.OutputPaths[0] != tt.want {
			t.Errorf("%s: OutputPaths = %v, want %s", tt.name, cfg.OutputPaths, tt.want)
		}
	}
}

func TestLogConfigRejectsUnknownLevel(t *testing.T) {
	if _, err := logConfig("loud", "", false); err == nil {
		t.Fatal("unknown level accepted")
	}
}
