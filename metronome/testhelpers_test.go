package metronome

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	resets  []time.Duration
	period  time.Duration
	stopped bool
}

func (ft *fakeTicker) C() <-chan time.Time { return ft.ch }

func (ft *fakeTicker) Reset(d time.Duration) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.resets = append(ft.resets, d)
	ft.period = d
}

func (ft *fakeTicker) Stop() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.stopped = true
}

func (ft *fakeTicker) Period() time.Duration {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.period
}

func (ft *fakeTicker) Stopped() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.stopped
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (fc *fakeClock) NewTicker(d time.Duration) Ticker {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	ft := &fakeTicker{ch: make(chan time.Time), period: d}
	fc.tickers = append(fc.tickers, ft)
	return ft
}

func (fc *fakeClock) Tickers() []*fakeTicker {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]*fakeTicker(nil), fc.tickers...)
}

type play struct {
	samples    []float64
	sampleRate int
}

type recordingSink struct {
	mu    sync.Mutex
	plays []play
}

func (rs *recordingSink) Play(samples []float64, sampleRate int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.plays = append(rs.plays, play{samples, sampleRate})
}

func (rs *recordingSink) Plays() []play {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]play(nil), rs.plays...)
}

// rampBuffer is a short non-silent click so accent and base are distinguishable.
func rampBuffer(n int) Buffer {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i%50) / 50
	}
	return NewBuffer(s, NominalSampleRate)
}

func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *fakeClock, *recordingSink) {
	t.Helper()
	clock := &fakeClock{}
	sink := &recordingSink{}
	opts = append([]Option{WithClock(clock), WithLogger(zaptest.NewLogger(t))}, opts...)
	s := New(rampBuffer(300), sink, opts...)
	t.Cleanup(s.Stop)
	return s, clock, sink
}

// beatRecorder collects beat events from a subscription.
func beatRecorder(s *Scheduler) (func() []int, chan Event) {
	var (
		mu    sync.Mutex
		beats []int
		ch    = make(chan Event, 64)
	)
	s.Subscribe(func(ev Event) {
		if ev.Type == EventBeat {
			mu.Lock()
			beats = append(beats, ev.Beat)
			mu.Unlock()
		}
		select {
		case ch <- ev:
		default:
		}
	})
	return func() []int {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), beats...)
	}, ch
}
