package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/goshot/fragment"
	"github.com/sartorproj/goshot/timeseries"
)

// shotRecord is one detected fragment in the command output.
type shotRecord struct {
	Series  string     `json:"series"`
	Channel string     `json:"channel,omitempty"`
	Start   int        `json:"start"`
	End     int        `json:"end"`
	Len     int        `json:"len"`
	Min     float64    `json:"min"`
	Max     float64    `json:"max"`
	Time    *time.Time `json:"time,omitempty"`
	Samples []float64  `json:"samples,omitempty"`
}

func detectCmd(opts *options) *cobra.Command {
	var (
		format      string
		withSamples bool
	)
	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Print the shots found in every series of a file",
		Example: `shotfind detect measure.log
shotfind detect --format json --samples data.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			series, err := opts.load(args[0])
			if err != nil {
				return err
			}

			var records []shotRecord
			for _, s := range series {
				found, err := detect(cfg, opts, s, withSamples)
				if err != nil {
					return fmt.Errorf("series %s: %w", s.Name, err)
				}
				records = append(records, found...)
			}
			opts.log.Infof("found %d shots", len(records))

			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return writeCSV(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "output format (csv, json)")
	cmd.Flags().BoolVar(&withSamples, "samples", false, "include denoised samples in JSON output")
	return cmd
}

func detect(cfg *fragment.Config, opts *options, s *timeseries.Series, withSamples bool) ([]shotRecord, error) {
	it, err := fragment.New(cfg, fragment.WithLogger(opts.log.WithField("series", s.Name)))
	if err != nil {
		return nil, err
	}

	var out []shotRecord
	for f := range it.Fragments(s.Samples()) {
		out = append(out, newShotRecord(s, f, withSamples))
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func newShotRecord(s *timeseries.Series, f fragment.Fragment, withSamples bool) shotRecord {
	rec := shotRecord{
		Series:  s.Name,
		Channel: s.Channel,
		Start:   f.Start,
		End:     f.End,
		Len:     f.Len(),
	}
	if values := finite(f.Samples); len(values) > 0 {
		rec.Min = floats.Min(values)
		rec.Max = floats.Max(values)
	}
	if s.HasTimestamps() {
		ts := s.Time(f.Start)
		rec.Time = &ts
	}
	if withSamples {
		rec.Samples = f.Samples
	}
	return rec
}

func writeCSV(w io.Writer, records []shotRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "start", "end", "len", "min", "max"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Series,
			strconv.Itoa(r.Start),
			strconv.Itoa(r.End),
			strconv.Itoa(r.Len),
			formatFloat(r.Min),
			formatFloat(r.Max),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, records []shotRecord) error {
	if records == nil {
		records = []shotRecord{}
	}
	for i := range records {
		records[i].Samples = finiteOnly(records[i].Samples)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// finite returns the values that are neither NaN nor infinite.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// finiteOnly replaces values JSON cannot encode with zero.
func finiteOnly(values []float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = 0
		}
	}
	return values
}
