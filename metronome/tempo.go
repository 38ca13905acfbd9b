package metronome

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	MinBPM     = 30
	MaxBPM     = 300
	DefaultBPM = 120

	DefaultTimeSignature = "4/4"
)

var (
	ErrBPMOutOfRange        = errors.Errorf("bpm must be between %d and %d", MinBPM, MaxBPM)
	ErrBPMNotNumeric        = errors.New("bpm is not a number")
	ErrInvalidTimeSignature = errors.New("invalid time signature")
)

// TimeSignature is a "N/D" pair. Only Beats drives scheduling.
type TimeSignature struct {
	Beats     int // number of beats per measure
	NoteValue int // note that represents one beat
}

func (ts TimeSignature) String() string {
	return strconv.Itoa(ts.Beats) + "/" + strconv.Itoa(ts.NoteValue)
}

// ParseTimeSignature parses strings like "6/8".
func ParseTimeSignature(input string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 2 {
		return TimeSignature{}, errors.Wrapf(ErrInvalidTimeSignature, "%q is not in N/D form", input)
	}

	beats, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeSignature{}, errors.Wrapf(ErrInvalidTimeSignature, "%q: bad beat count", input)
	}
	noteValue, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeSignature{}, errors.Wrapf(ErrInvalidTimeSignature, "%q: bad note value", input)
	}
	if beats < 1 || noteValue < 1 {
		return TimeSignature{}, errors.Wrapf(ErrInvalidTimeSignature, "%q: values must be positive", input)
	}

	return TimeSignature{Beats: beats, NoteValue: noteValue}, nil
}

// ValidBPM reports whether bpm lies in [MinBPM, MaxBPM].
func ValidBPM(bpm int) bool {
	return bpm >= MinBPM && bpm <= MaxBPM
}

// IntervalMillis returns round(60000 / bpm).
func IntervalMillis(bpm int) int {
	return int(math.Round(60000.0 / float64(bpm)))
}

// Interval is the tick period for bpm.
func Interval(bpm int) time.Duration {
	return time.Duration(IntervalMillis(bpm)) * time.Millisecond
}
