package metronome

import "time"

// Clock creates the periodic trigger that drives ticks.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of *time.Ticker the scheduler relies on.
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (st systemTicker) C() <-chan time.Time { return st.t.C }
func (st systemTicker) Reset(d time.Duration) { st.t.Reset(d) }
func (st systemTicker) Stop() { st.t.Stop() }
