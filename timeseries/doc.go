// Package timeseries provides the sample series containers and loaders used
// to feed the shot detector.
//
// # Creating a Series
//
//	values := []float64{1000.5, 1000.6, 1000.4}
//	series := timeseries.New(values)
//
// A Series streams its values through Samples, which is what
// fragment.Iterator.Fragments consumes:
//
//	for f := range it.Fragments(series.Samples()) {
//	    ...
//	}
//
// # Loading Channel Logs
//
// Channel logs are JSON lines with a channel id and a reading:
//
//	{"channel": 0, "f": 1000.5}
//	{"channel": 0, "f": 1000.6}
//	{"channel": 1, "f": 2000.1}
//
// Every run of consecutive records from one channel becomes a series:
//
//	series, err := timeseries.LoadChannelLogFile("measure.log", &timeseries.ChannelLogOptions{
//	    MaxLen: 100, // split long runs
//	    MinLen: 15,  // drop runs too short to analyze
//	})
//
// Malformed lines are skipped and, if a Logger is set, reported as warnings.
//
// # Loading from CSV
//
//	// Load one column
//	series, err := timeseries.LoadCSVColumn("data.csv", "f")
//
//	// One series per channel run
//	opts := timeseries.DefaultCSVOptions()
//	opts.IDColumn = "channel"
//	opts.SplitByID = true
//	all, err := timeseries.LoadCSV("data.csv", opts)
//
// Empty, NA and unparsable values are skipped. Timestamps are parsed from
// RFC 3339 text or unix seconds.
//
// # Basic Statistics
//
// Summary statistics ignore NaN and infinite values:
//
//	mean := series.Mean()
//	std := series.Std()
//	lo, hi := series.Min(), series.Max()
//	median := series.Median()
package timeseries
