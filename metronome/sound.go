package metronome

import (
	"math"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	NominalSampleRate = 44100

	// PitchFactor shortens the accent click to len/PitchFactor samples.
	PitchFactor = 1.5

	resampleQuality = 4
)

// Buffer is an immutable mono sample sequence.
type Buffer struct {
	samples    []float64
	sampleRate int
}

// NewBuffer copies samples into a new Buffer.
func NewBuffer(samples []float64, sampleRate int) Buffer {
	s := make([]float64, len(samples))
	copy(s, samples)
	return Buffer{samples: s, sampleRate: sampleRate}
}

// Silence returns d worth of zero samples at sampleRate.
func Silence(d time.Duration, sampleRate int) Buffer {
	n := int(d.Seconds() * float64(sampleRate))
	return Buffer{samples: make([]float64, n), sampleRate: sampleRate}
}

func (b Buffer) Len() int { return len(b.samples) }
func (b Buffer) SampleRate() int { return b.sampleRate }

// Samples returns a copy of the buffer contents.
func (b Buffer) Samples() []float64 {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return s
}

// Scale returns a copy with every sample multiplied by v.
func (b Buffer) Scale(v float64) Buffer {
	s := make([]float64, len(b.samples))
	for i, x := range b.samples {
		s[i] = x * v
	}
	return Buffer{samples: s, sampleRate: b.sampleRate}
}

// Streamer plays the buffer as a beep stream, duplicating the mono channel.
func (b Buffer) Streamer() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= len(b.samples) {
			return 0, false
		}
		for n < len(samples) && pos < len(b.samples) {
			samples[n][0] = b.samples[pos]
			samples[n][1] = b.samples[pos]
			n++
			pos++
		}
		return n, true
	})
}

// PitchShift resamples the buffer to floor(len/factor) samples at the same
// sample rate, which raises the pitch and shortens the sound.
func (b Buffer) PitchShift(factor float64) Buffer {
	target := int(math.Floor(float64(len(b.samples)) / factor))
	out := Buffer{samples: make([]float64, target), sampleRate: b.sampleRate}
	if target == 0 {
		return out
	}

	r := beep.ResampleRatio(resampleQuality, factor, b.Streamer())
	chunk := make([][2]float64, 512)
	n := 0
	for n < target {
		m, ok := r.Stream(chunk)
		for i := 0; i < m && n < target; i++ {
			out.samples[n] = chunk[i][0]
			n++
		}
		if !ok {
			break
		}
	}
	// the resampler may come up a few samples short; the tail stays zero
	return out
}

// LoadClick decodes a wav file into a mono Buffer. Stereo files are
// averaged sample-wise.
func LoadClick(path string) (Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Buffer{}, errors.Wrap(err, "opening click sample")
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return Buffer{}, errors.Wrap(err, "decoding click sample")
	}
	defer streamer.Close()

	samples := make([]float64, 0, streamer.Len())
	chunk := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(chunk)
		for _, frame := range chunk[:n] {
			if format.NumChannels == 2 {
				samples = append(samples, (frame[0]+frame[1])/2)
			} else {
				samples = append(samples, frame[0])
			}
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return Buffer{}, errors.Wrap(err, "reading click sample")
	}

	return Buffer{samples: samples, sampleRate: int(format.SampleRate)}, nil
}

// LoadClickOrSilence always returns a usable buffer: an unreadable sample
// becomes one second of silence at NominalSampleRate, and the load error is
// returned alongside it for reporting.
func LoadClickOrSilence(path string, log *zap.Logger) (Buffer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b, err := LoadClick(path)
	if err != nil {
		log.Warn("click sample unavailable, using silence", zap.String("path", path), zap.Error(err))
		return Silence(time.Second, NominalSampleRate), err
	}
	log.Debug("click sample loaded",
		zap.String("path", path),
		zap.Int("samples", b.Len()),
		zap.Int("sample_rate", b.SampleRate()))
	return b, nil
}
