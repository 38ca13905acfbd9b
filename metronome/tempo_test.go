package metronome

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestIntervalMillis(t *testing.T) {
	tests := []struct {
		bpm  int
		want int
	}{
		{30, 2000},
		{60, 1000},
		{120, 500},
		{140, 429},
		{200, 300},
		{240, 250},
		{300, 200},
		{70, 857},
	}
	for _, tt := range tests {
		if got := IntervalMillis(tt.bpm); got != tt.want {
			t.Errorf("IntervalMillis(%d) = %d, want %d", tt.bpm, got, tt.want)
		}
		if got := Interval(tt.bpm); got != time.Duration(tt.want)*time.Millisecond {
			t.Errorf("Interval(%d) = %v", tt.bpm, got)
		}
	}
}

func TestIntervalRoundsEveryValidTempo(t *testing.T) {
	for bpm := MinBPM; bpm <= MaxBPM; bpm++ {
		exact := 60000.0 / float64(bpm)
		got := float64(IntervalMillis(bpm))
		if d := got - exact; d > 0.5 || d < -0.5 {
			t.Fatalf("IntervalMillis(%d) = %v, exact %v", bpm, got, exact)
		}
	}
}

func TestValidBPM(t *testing.T) {
	for _, bpm := range []int{30, 31, 120, 299, 300} {
		if !ValidBPM(bpm) {
			t.Errorf("ValidBPM(%d) = false", bpm)
		}
	}
	for _, bpm := range []int{-1, 0, 29, 301, 600} {
		if ValidBPM(bpm) {
			t.Errorf("ValidBPM(%d) = true", bpm)
		}
	}
}

func TestParseTimeSignature(t *testing.T) {
	tests := []struct {
		in   string
		want TimeSignature
	}{
		{"4/4", TimeSignature{4, 4}},
		{"3/4", TimeSignature{3, 4}},
		{"6/8", TimeSignature{6, 8}},
		{"7/8", TimeSignature{7, 8}},
		{" 5 / 4 ", TimeSignature{5, 4}},
		{"1/1", TimeSignature{1, 1}},
	}
	for _, tt := range tests {
		got, err := ParseTimeSignature(tt.in)
		if err != nil {
			t.Errorf("ParseTimeSignature(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeSignature(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeSignatureRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "4", "4/4/4", "a/4", "4/b", "0/4", "-3/4", "4/0"} {
		_, err := ParseTimeSignature(in)
		if errors.Cause(err) != ErrInvalidTimeSignature {
			t.Errorf("ParseTimeSignature(%q) error = %v, want ErrInvalidTimeSignature", in, err)
		}
	}
}

func TestTimeSignatureString(t *testing.T) {
	if got := (TimeSignature{6, 8}).String(); got != "6/8" {
		t.Errorf("String() = %q", got)
	}
}
