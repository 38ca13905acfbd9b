package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dimfu/metronome/metronome"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Options holds the root command flags.
type Options struct {
	Tempo     int
	Timesig   string
	Volume    float64
	Preset    string
	Click     string
	Autostart bool
	LogLevel  string
	LogFile   string
	Presets   string
}

func newRootCmd() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:           "metronome",
		Short:         "A terminal metronome with an accented first beat.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.applyPreset(cmd); err != nil {
				return err
			}
			if err := opts.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), *opts)
		},
	}

	flags := root.Flags()
	flags.IntVarP(&opts.Tempo, "tempo", "t", metronome.DefaultBPM, "beats per minute (30-300)")
	flags.StringVarP(&opts.Timesig, "timesig", "s", metronome.DefaultTimeSignature, "time signature, one of 4/4 3/4 2/4 6/8 5/4 7/8")
	flags.Float64VarP(&opts.Volume, "volume", "v", metronome.DefaultVolume*100, "volume in percent")
	flags.StringVarP(&opts.Preset, "preset", "p", "", "load a saved preset")
	flags.StringVar(&opts.Click, "click", envStr("METRONOME_CLICK", DefaultClickPath()), "wav file used for the click")
	flags.BoolVar(&opts.Autostart, "autostart", false, "start ticking immediately")
	flags.StringVar(&opts.LogLevel, "log-level", envStr("METRONOME_LOG_LEVEL", "warn"), "debug, info, warn or error")
	flags.StringVar(&opts.LogFile, "log-file", "", "write logs to this file (default stderr, or a temp file while the console is interactive)")

	root.PersistentFlags().StringVar(&opts.Presets, "presets", DefaultConfigPath(), "presets file")

	root.AddCommand(newPresetCmd(opts))
	return root
}

// applyPreset fills in settings from a saved preset unless the matching flag
// was given explicitly.
func (o *Options) applyPreset(cmd *cobra.Command) error {
	if o.Preset == "" {
		return nil
	}
	cm, err := LoadConfigManager(o.Presets)
	if err != nil {
		return err
	}
	p := cm.GetConfigByKey(o.Preset)
	if p == nil {
		return errors.Errorf("preset %q not found", o.Preset)
	}

	flags := cmd.Flags()
	if !flags.Changed("tempo") {
		o.Tempo = p.Tempo
	}
	if !flags.Changed("timesig") {
		o.Timesig = p.Timesig
	}
	if !flags.Changed("volume") {
		o.Volume = p.Volume
	}
	return nil
}

func (o *Options) validate() error {
	if !metronome.ValidBPM(o.Tempo) {
		return errors.Wrapf(metronome.ErrBPMOutOfRange, "tempo %d", o.Tempo)
	}
	if _, err := ValidTimeSig(o.Timesig); err != nil {
		return err
	}
	return nil
}

func newPresetCmd(opts *Options) *cobra.Command {
	preset := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved tempo, time signature and volume presets.",
	}

	var cfg Config
	save := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a preset.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := LoadConfigManager(opts.Presets)
			if err != nil {
				return err
			}
			cfg.Key = args[0]
			if err := cm.CreateConf(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved preset %q\n", cfg.Key)
			return nil
		},
	}
	save.Flags().IntVarP(&cfg.Tempo, "tempo", "t", metronome.DefaultBPM, "beats per minute (30-300)")
	save.Flags().StringVarP(&cfg.Timesig, "timesig", "s", metronome.DefaultTimeSignature, "time signature")
	save.Flags().Float64VarP(&cfg.Volume, "volume", "v", metronome.DefaultVolume*100, "volume in percent")

	del := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a preset.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := LoadConfigManager(opts.Presets)
			if err != nil {
				return err
			}
			return cm.DeleteConfig(args[0])
		},
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List presets.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := LoadConfigManager(opts.Presets)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTEMPO\tTIMESIG\tVOLUME")
			for _, c := range cm.Config {
				fmt.Fprintf(w, "%s\t%d\t%s\t%.0f%%\n", c.Key, c.Tempo, c.Timesig, c.Volume)
			}
			return w.Flush()
		},
	}

	preset.AddCommand(save, del, list)
	return preset
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "metronome:", err)
	os.Exit(1)
}
