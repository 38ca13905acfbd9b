package main

import (
	"sync"
	"time"

	"github.com/dimfu/metronome/metronome"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

// SpeakerSink plays clicks through the system speaker. speaker.Play mixes
// every streamer it is given, so clicks may overlap at high tempos.
type SpeakerSink struct {
	rate beep.SampleRate

	mu     sync.Mutex
	closed bool
}

func NewSpeakerSink(sampleRate int) (*SpeakerSink, error) {
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/30)); err != nil {
		return nil, errors.Wrap(err, "initializing speaker")
	}
	return &SpeakerSink{rate: rate}, nil
}

func (ss *SpeakerSink) Play(samples []float64, sampleRate int) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.closed || len(samples) == 0 {
		return
	}

	var shot beep.Streamer = metronome.NewBuffer(samples, sampleRate).Streamer()
	if sr := beep.SampleRate(sampleRate); sr != ss.rate {
		shot = beep.Resample(4, sr, ss.rate, shot)
	}
	speaker.Play(shot)
}

// Close drops every click still playing.
func (ss *SpeakerSink) Close() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.closed {
		return
	}
	ss.closed = true
	speaker.Clear()
}
