package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sartorproj/goshot/fragment"
	"github.com/sartorproj/goshot/timeseries"
)

// options are the flags shared by every subcommand.
type options struct {
	configFile string
	smoothing  float64
	minPoints  int
	maxPoints  int
	spare      int
	column     string
	maxLen     int
	logLevel   string

	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "shotfind",
		Short: "Detect shots in sensor channel logs",
		Long: `Detect short fall-then-rise pulses ("shots") in noisy sensor readings.

Input files are JSON-lines channel logs ({"channel": 0, "f": 1000.5} per line)
or CSV files with a value column.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	flags.Float64Var(&opts.smoothing, "smooth", fragment.DefaultSmoothing, "spline smoothing weight")
	flags.IntVar(&opts.minPoints, "min-points", fragment.DefaultMinPoints, "samples before the first analysis")
	flags.IntVar(&opts.maxPoints, "max-points", fragment.DefaultMaxPoints, "sliding window cap")
	flags.IntVar(&opts.spare, "spare", fragment.DefaultSpare, "look-back samples kept across window shifts")
	flags.StringVar(&opts.column, "column", "f", "CSV value column")
	flags.IntVar(&opts.maxLen, "max-len", 0, "split input series longer than this (0: no limit)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(detectCmd(opts))
	cmd.AddCommand(denoiseCmd(opts))
	return cmd
}

func (o *options) setupLogging(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	o.log = logrus.New()
	o.log.SetOutput(cmd.ErrOrStderr())
	o.log.SetLevel(level)
	o.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

// config loads the configuration file, if any, and applies the flags the
// user set explicitly on top of it.
func (o *options) config(cmd *cobra.Command) (*fragment.Config, error) {
	cfg := fragment.DefaultConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = fragment.LoadConfig(o.configFile); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("smooth") {
		cfg.Smoothing = o.smoothing
	}
	if flags.Changed("min-points") {
		cfg.MinPoints = o.minPoints
	}
	if flags.Changed("max-points") {
		cfg.MaxPoints = o.maxPoints
	}
	if flags.Changed("spare") {
		cfg.Spare = o.spare
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o.log.WithFields(logrus.Fields{
		"smoothing":  cfg.Smoothing,
		"min_points": cfg.MinPoints,
		"max_points": cfg.MaxPoints,
		"spare":      cfg.Spare,
	}).Debug("configuration")
	return cfg, nil
}

// load reads every series from filename. CSV files are recognised by their
// extension; anything else is read as a channel log.
func (o *options) load(filename string) ([]*timeseries.Series, error) {
	var (
		series []*timeseries.Series
		err    error
	)
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		csvOpts := timeseries.DefaultCSVOptions()
		csvOpts.ValueColumn = o.column
		csvOpts.SplitByID = true
		series, err = timeseries.LoadCSV(filename, csvOpts)
		if err == nil && o.maxLen > 0 {
			var chunked []*timeseries.Series
			for _, s := range series {
				chunked = append(chunked, s.Chunks(o.maxLen)...)
			}
			series = chunked
		}
	} else {
		series, err = timeseries.LoadChannelLogFile(filename, &timeseries.ChannelLogOptions{
			MaxLen: o.maxLen,
			Logger: o.log,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}

	for i, s := range series {
		s.Name = strconv.Itoa(i)
	}
	o.log.WithField("file", filename).Infof("loaded %d series", len(series))
	return series, nil
}
