// Package metronome schedules accented clicks at a given tempo and time
// signature and reports every beat to its subscribers.
package metronome

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultVolume = 0.5

// driftTolerance is how far a tick may stray from its expected time before
// it is logged and the expectation resynced.
const driftTolerance = 10 * time.Millisecond

// Scheduler owns tempo, time signature and run state and plays one click per
// tick. All methods are safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	bpm     int
	sig     TimeSignature
	volume  float64
	running bool
	beat    int
	ticker  Ticker
	done    chan struct{}

	// queue holds events in the order their state changes happened.
	queue       []Event
	dispatching bool

	base   Buffer
	accent Buffer
	sink   Sink
	clock  Clock
	log    *zap.Logger

	hmu      sync.Mutex
	handlers map[int]Handler
	nextID   int
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithBPM sets the initial tempo. Out of range values are ignored.
func WithBPM(bpm int) Option {
	return func(s *Scheduler) {
		if ValidBPM(bpm) {
			s.bpm = bpm
		}
	}
}

// WithTimeSignature sets the initial signature. Malformed values are ignored.
func WithTimeSignature(sig string) Option {
	return func(s *Scheduler) {
		if ts, err := ParseTimeSignature(sig); err == nil {
			s.sig = ts
		}
	}
}

// WithVolume sets the initial volume as a percentage.
func WithVolume(percent float64) Option {
	return func(s *Scheduler) { s.volume = clampPercent(percent) / 100 }
}

// New builds a stopped scheduler. The accent click is derived from base once.
func New(base Buffer, sink Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		bpm:      DefaultBPM,
		sig:      TimeSignature{Beats: 4, NoteValue: 4},
		volume:   DefaultVolume,
		base:     base,
		sink:     sink,
		clock:    systemClock{},
		log:      zap.NewNop(),
		handlers: make(map[int]Handler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.accent = base.PitchShift(PitchFactor)
	return s
}

// Subscribe registers h for every future event. The returned func removes it.
func (s *Scheduler) Subscribe(h Handler) (cancel func()) {
	s.hmu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	s.hmu.Unlock()

	return func() {
		s.hmu.Lock()
		delete(s.handlers, id)
		s.hmu.Unlock()
	}
}

// enqueue records ev for delivery. Callers hold s.mu so events are queued
// in the same order as the state changes they describe.
func (s *Scheduler) enqueue(ev Event) {
	s.queue = append(s.queue, ev)
}

// dispatch delivers queued events one at a time. If another goroutine (or
// an outer handler on this one) is already delivering, it returns at once
// and that dispatcher picks up the new events after the current one.
func (s *Scheduler) dispatch() {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.deliver(ev)

		s.mu.Lock()
	}
	s.dispatching = false
	s.mu.Unlock()
}

func (s *Scheduler) deliver(ev Event) {
	s.hmu.Lock()
	hs := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		hs = append(hs, h)
	}
	s.hmu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}

func (s *Scheduler) reject(err error) error {
	s.log.Info("input rejected", zap.Error(err))
	s.mu.Lock()
	s.enqueue(Event{Type: EventValidation, Err: err})
	s.mu.Unlock()
	s.dispatch()
	return err
}

// SetBPM changes the tempo. A running ticker picks up the new period before
// its next tick.
func (s *Scheduler) SetBPM(bpm int) error {
	if !ValidBPM(bpm) {
		return s.reject(errors.Wrapf(ErrBPMOutOfRange, "got %d", bpm))
	}

	s.mu.Lock()
	s.bpm = bpm
	if s.running {
		s.ticker.Reset(Interval(bpm))
	}
	s.mu.Unlock()

	s.log.Debug("tempo changed", zap.Int("bpm", bpm), zap.Int("interval_ms", IntervalMillis(bpm)))
	return nil
}

// SetBPMText handles manually typed tempo values.
func (s *Scheduler) SetBPMText(input string) error {
	bpm, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return s.reject(errors.Wrapf(ErrBPMNotNumeric, "%q", input))
	}
	return s.SetBPM(bpm)
}

// SetTimeSignature resets the beat counter and reports beat 0, running or not.
func (s *Scheduler) SetTimeSignature(input string) error {
	ts, err := ParseTimeSignature(input)
	if err != nil {
		return s.reject(err)
	}

	s.mu.Lock()
	s.sig = ts
	s.beat = 0
	s.enqueue(Event{Type: EventBeat, Beat: 0, BeatsPerMeasure: ts.Beats})
	s.mu.Unlock()

	s.log.Debug("time signature changed", zap.Stringer("signature", ts))
	s.dispatch()
	return nil
}

// SetVolume takes a percentage; values outside [0, 100] are clamped.
func (s *Scheduler) SetVolume(percent float64) {
	s.mu.Lock()
	s.volume = clampPercent(percent) / 100
	s.mu.Unlock()
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Start begins ticking from beat 0. It does nothing if already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.beat = 0

	interval := Interval(s.bpm)
	s.ticker = s.clock.NewTicker(interval)
	s.done = make(chan struct{})
	go s.loop(s.ticker, s.done, interval)

	s.log.Debug("started", zap.Int("bpm", s.bpm), zap.Stringer("signature", s.sig))
}

// Stop halts future ticks. Clicks already handed to the sink keep playing
// and the beat index is kept until the next Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.ticker.Stop()
	close(s.done)
	s.ticker = nil
	s.done = nil

	s.log.Debug("stopped", zap.Int("beat", s.beat))
}

func (s *Scheduler) loop(t Ticker, done chan struct{}, interval time.Duration) {
	nextTick := time.Now().Add(interval)
	for {
		select {
		case <-done:
			return
		case now := <-t.C():
			drift := now.Sub(nextTick)
			if drift > driftTolerance || drift < -driftTolerance {
				s.log.Debug("tick drifted", zap.Duration("drift", drift))
				nextTick = now
			}
			nextTick = nextTick.Add(s.Interval())
			s.tick(done)
		}
	}
}

// Tick plays the current beat and advances the counter, as one trigger of
// the ticker would. It is a no-op while stopped.
func (s *Scheduler) Tick() {
	s.tick(nil)
}

func (s *Scheduler) tick(from chan struct{}) {
	s.mu.Lock()
	if !s.running || (from != nil && from != s.done) {
		s.mu.Unlock()
		return
	}
	buf := s.base
	if s.beat == 0 {
		buf = s.accent
	}
	scaled := buf.Scale(s.volume)
	beat, beats := s.beat, s.sig.Beats
	s.beat = (s.beat + 1) % beats
	s.enqueue(Event{Type: EventBeat, Beat: beat, BeatsPerMeasure: beats})
	s.mu.Unlock()

	s.sink.Play(scaled.samples, scaled.sampleRate)
	s.log.Debug("tick", zap.Int("beat", beat), zap.Int("beats", beats))
	s.dispatch()
}

func (s *Scheduler) BPM() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bpm
}

// Interval is the current tick period.
func (s *Scheduler) Interval() time.Duration {
	return Interval(s.BPM())
}

func (s *Scheduler) TimeSignature() TimeSignature {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sig
}

// Volume is the current scale factor in [0, 1].
func (s *Scheduler) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// CurrentBeat is the index the next tick will play.
func (s *Scheduler) CurrentBeat() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beat
}

func (s *Scheduler) Base() Buffer { return s.base }
func (s *Scheduler) Accent() Buffer { return s.accent }
