package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimfu/metronome/metronome"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitOnError(newRootCmd().ExecuteContext(ctx))
}

// logConfig builds the zap config. An interactive console owns the
// terminal, so logs without an explicit file go to DefaultLogPath instead of
// stderr.
func logConfig(level, file string, interactive bool) (zap.Config, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.Config{}, errors.Wrapf(err, "log level %q", level)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	if file == "" && interactive {
		file = DefaultLogPath()
	}
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}
	return cfg, nil
}

func newLogger(level, file string, interactive bool) (*zap.Logger, error) {
	cfg, err := logConfig(level, file, interactive)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

func run(ctx context.Context, opts Options) error {
	interactive := IsTerminal(os.Stdout)
	log, err := newLogger(opts.LogLevel, opts.LogFile, interactive)
	if err != nil {
		return err
	}
	defer log.Sync()

	click, clickErr := metronome.LoadClickOrSilence(opts.Click, log)
	sink, err := NewSpeakerSink(click.SampleRate())
	if err != nil {
		return err
	}

	sched := metronome.New(click, sink,
		metronome.WithLogger(log.Named("scheduler")),
		metronome.WithBPM(opts.Tempo),
		metronome.WithTimeSignature(opts.Timesig),
		metronome.WithVolume(opts.Volume),
	)

	console := NewConsole(sched, os.Stdout, interactive, log.Named("console"))
	if clickErr != nil {
		console.setStatus("click sample unavailable, playing silence")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if opts.Autostart {
			sched.Start()
		}
		return console.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		sched.Stop()
		sink.Close()
		return nil
	})

	if err := g.Wait(); err != nil && err != errQuit {
		return err
	}
	return nil
}
