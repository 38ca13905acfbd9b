package metronome

// EventType distinguishes scheduler notifications.
type EventType int

const (
	// EventBeat reports the beat that was just played, or 0 after a time
	// signature change.
	EventBeat EventType = iota
	// EventValidation reports a rejected input. Err holds the reason.
	EventValidation
)

func (t EventType) String() string {
	switch t {
	case EventBeat:
		return "beat"
	case EventValidation:
		return "validation"
	default:
		return "unknown"
	}
}

type Event struct {
	Type            EventType
	Beat            int
	BeatsPerMeasure int
	Err             error
}

type Handler func(Event)

// Sink plays samples without blocking the caller. Calls may overlap.
type Sink interface {
	Play(samples []float64, sampleRate int)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(samples []float64, sampleRate int)

func (f SinkFunc) Play(samples []float64, sampleRate int) { f(samples, sampleRate) }
