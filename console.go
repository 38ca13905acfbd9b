package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/dimfu/metronome/metronome"
	"github.com/eiannone/keyboard"
	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit requested")

// Console is the terminal front end: it redraws the beat indicator on every
// scheduler event and turns key presses into scheduler calls.
type Console struct {
	sched       *metronome.Scheduler
	out         io.Writer
	live        *uilive.Writer
	interactive bool
	log         *zap.Logger

	mu     sync.Mutex
	beat   int
	beats  int
	input  string
	status string
}

func NewConsole(sched *metronome.Scheduler, out io.Writer, interactive bool, log *zap.Logger) *Console {
	c := &Console{
		sched:       sched,
		out:         out,
		interactive: interactive,
		log:         log,
		beats:       sched.TimeSignature().Beats,
	}
	if interactive {
		c.live = uilive.New()
		c.live.Out = out
	}
	return c
}

// Run blocks until ctx is done or the user quits, in which case it returns
// errQuit.
func (c *Console) Run(ctx context.Context) error {
	cancel := c.sched.Subscribe(c.handleEvent)
	defer cancel()

	if !c.interactive {
		c.sched.Start()
		<-ctx.Done()
		return nil
	}

	keys, err := keyboard.GetKeys(10)
	if err != nil {
		return errors.Wrap(err, "opening keyboard")
	}
	defer keyboard.Close()

	c.redraw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-keys:
			if ev.Err != nil {
				return errors.Wrap(ev.Err, "reading keyboard")
			}
			if c.HandleKey(ev.Rune, ev.Key) {
				return errQuit
			}
		}
	}
}

func (c *Console) handleEvent(ev metronome.Event) {
	c.mu.Lock()
	switch ev.Type {
	case metronome.EventBeat:
		c.beat, c.beats = ev.Beat, ev.BeatsPerMeasure
	case metronome.EventValidation:
		c.status = ev.Err.Error()
	}
	c.mu.Unlock()

	if !c.interactive {
		if ev.Type == metronome.EventBeat {
			fmt.Fprintln(c.out, plainBeat(ev.Beat, ev.BeatsPerMeasure))
		}
		return
	}
	c.redraw()
}

// HandleKey applies one key press and reports whether the user asked to quit.
func (c *Console) HandleKey(r rune, key keyboard.Key) (quit bool) {
	switch {
	case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC || r == 'q' || r == 'Q':
		return true
	case key == keyboard.KeySpace || r == ' ':
		if c.sched.Running() {
			c.sched.Stop()
		} else {
			c.sched.Start()
		}
	case key == keyboard.KeyArrowRight || r == '+' || r == '=':
		c.nudgeBPM(1)
	case key == keyboard.KeyArrowLeft || r == '-':
		c.nudgeBPM(-1)
	case key == keyboard.KeyArrowUp:
		c.sched.SetVolume(math.Round(c.sched.Volume()*100) + VOLUME_STEP)
	case key == keyboard.KeyArrowDown:
		c.sched.SetVolume(math.Round(c.sched.Volume()*100) - VOLUME_STEP)
	case r == 't' || r == 'T':
		next := NextTimeSig(c.sched.TimeSignature())
		if err := c.sched.SetTimeSignature(next.String()); err == nil {
			c.setStatus("")
		}
	case r >= '0' && r <= '9':
		c.mu.Lock()
		if len(c.input) < MAX_BPM_DIGITS {
			c.input += string(r)
		}
		c.mu.Unlock()
	case key == keyboard.KeyBackspace || key == keyboard.KeyBackspace2:
		c.mu.Lock()
		if n := len(c.input); n > 0 {
			c.input = c.input[:n-1]
		}
		c.mu.Unlock()
	case key == keyboard.KeyEnter:
		c.mu.Lock()
		input := c.input
		c.input = ""
		c.mu.Unlock()
		if input != "" {
			if err := c.sched.SetBPMText(input); err == nil {
				c.setStatus("")
			}
		}
	}

	if c.interactive {
		c.redraw()
	}
	return false
}

// nudgeBPM behaves like a dial: it stops at the ends of the range.
func (c *Console) nudgeBPM(delta int) {
	bpm := c.sched.BPM() + delta
	if !metronome.ValidBPM(bpm) {
		return
	}
	if err := c.sched.SetBPM(bpm); err == nil {
		c.setStatus("")
	}
}

func (c *Console) setStatus(s string) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *Console) redraw() {
	view := c.View()

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.live, view)
	if err := c.live.Flush(); err != nil {
		c.log.Debug("redraw failed", zap.Error(err))
	}
}

// View renders the current state. Lines end in \r\n since the keyboard puts
// the terminal in raw mode.
func (c *Console) View() string {
	var (
		bpm     = c.sched.BPM()
		sig     = c.sched.TimeSignature()
		volume  = int(math.Round(c.sched.Volume() * 100))
		running = c.sched.Running()
	)

	c.mu.Lock()
	beat, beats, input, status := c.beat, c.beats, c.input, c.status
	c.mu.Unlock()

	state := "stopped"
	if running {
		state = "running"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "BPM: %d   %s   volume %d%%   [%s]\r\n", bpm, sig, volume, state)
	fmt.Fprintf(&b, "%s\r\n", renderIndicator(beats, beat))
	if input != "" {
		fmt.Fprintf(&b, "bpm> %s\r\n", input)
	}
	if status != "" {
		fmt.Fprintf(&b, "! %s\r\n", status)
	}
	b.WriteString("space start/stop  +/- bpm  0-9 enter set bpm  t signature  up/down volume  q quit\r\n")
	return b.String()
}

// renderIndicator draws one dot per beat and highlights current.
func renderIndicator(beats, current int) string {
	dots := make([]string, beats)
	for i := range dots {
		if i == current {
			dots[i] = "●"
		} else {
			dots[i] = "○"
		}
	}
	return strings.Join(dots, " ")
}

func plainBeat(beat, beats int) string {
	line := fmt.Sprintf("beat %d/%d", beat+1, beats)
	if beat == 0 {
		line += " >"
	}
	return line
}
