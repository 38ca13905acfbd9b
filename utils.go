package main

import (
	"os"
	"path/filepath"

	"github.com/dimfu/metronome/metronome"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// ValidTimeSig accepts only the signatures listed in TIME_SIGNATURES.
func ValidTimeSig(input string) (metronome.TimeSignature, error) {
	ts, err := metronome.ParseTimeSignature(input)
	if err != nil {
		return metronome.TimeSignature{}, err
	}

	for _, supported := range TIME_SIGNATURES {
		if supported == ts {
			return ts, nil
		}
	}

	return metronome.TimeSignature{}, errors.Errorf("time signature %s not supported", ts)
}

// NextTimeSig returns the signature after current in TIME_SIGNATURES,
// wrapping around. Unknown signatures restart the cycle.
func NextTimeSig(current metronome.TimeSignature) metronome.TimeSignature {
	for i, ts := range TIME_SIGNATURES {
		if ts == current {
			return TIME_SIGNATURES[(i+1)%len(TIME_SIGNATURES)]
		}
	}
	return TIME_SIGNATURES[0]
}

// DefaultClickPath resolves the click sample next to the installed binary.
func DefaultClickPath() string {
	exe, err := os.Executable()
	if err != nil {
		return CLICK_ASSET
	}
	return filepath.Join(filepath.Dir(exe), CLICK_ASSET)
}

// DefaultLogPath is where logs go while the console owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), LOG_FILE)
}

func UserHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
