package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrNoData is returned when an input holds no usable samples.
var ErrNoData = errors.New("timeseries: no valid samples found")

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	TimeColumn  string // Column name for timestamps (optional)
	ValueColumn string // Column name for values (default: "f")
	IDColumn    string // Column name for the channel id (optional)
	IDFilter    string // Keep only rows whose channel id matches
	TimeFormat  string // Timestamp layout (default: RFC 3339)
	HasHeader   bool   // Whether the CSV has a header row (default: true)
	Delimiter   rune   // Field delimiter (default: ',')
	SkipRows    int    // Number of rows to skip at start
	SplitByID   bool   // Start a new series whenever the channel id changes
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "f",
		TimeFormat:  time.RFC3339Nano,
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// timeLayouts are tried after the configured layout.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// LoadCSV loads every series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) ([]*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVColumn loads a single value column from a CSV file.
func LoadCSVColumn(filename string, column string) (*Series, error) {
	opts := DefaultCSVOptions()
	opts.ValueColumn = column
	series, err := LoadCSV(filename, opts)
	if err != nil {
		return nil, err
	}
	return series[0], nil
}

// LoadCSVFromReader loads series from an io.Reader. Without SplitByID the
// result holds exactly one series. Empty, NA and unparsable values are
// skipped.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) ([]*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	cols := columns{value: -1, time: -1, id: -1}
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil, ErrNoData
			}
			return nil, err
		}
		if err := cols.resolve(header, opts); err != nil {
			return nil, err
		}
	} else {
		// Headerless files are "value" or "time,value".
		cols.value = 0
	}

	var (
		out     []*Series
		cur     *Series
		prevID  string
		started bool
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !opts.HasHeader && len(record) > 1 && cols.value == 0 {
			cols.time, cols.value = 0, 1
		}

		id := cols.field(record, cols.id)
		if opts.IDFilter != "" && id != opts.IDFilter {
			continue
		}

		v, ok := parseValue(cols.field(record, cols.value))
		if !ok {
			continue
		}

		if cur == nil || (opts.SplitByID && started && id != prevID) {
			cur = &Series{Name: fmt.Sprintf("series%d", len(out)), Channel: id}
			out = append(out, cur)
		}
		prevID, started = id, true

		cur.Values = append(cur.Values, v)
		if cols.time >= 0 {
			if ts, ok := parseTime(cols.field(record, cols.time), opts.TimeFormat); ok {
				cur.Timestamps = append(cur.Timestamps, ts)
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrNoData
	}
	for _, s := range out {
		if !s.HasTimestamps() {
			s.Timestamps = nil
		}
	}
	return out, nil
}

type columns struct {
	value, time, id int
}

func (c *columns) resolve(header []string, opts *CSVOptions) error {
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		switch {
		case h == opts.ValueColumn:
			c.value = i
		case opts.TimeColumn != "" && h == opts.TimeColumn:
			c.time = i
		case opts.TimeColumn == "" && c.time == -1 && (h == "ts" || h == "time" || h == "timestamp"):
			c.time = i
		case opts.IDColumn != "" && h == opts.IDColumn:
			c.id = i
		case opts.IDColumn == "" && c.id == -1 && h == "channel":
			c.id = i
		}
	}
	if c.value == -1 {
		if opts.ValueColumn != "" && opts.ValueColumn != DefaultCSVOptions().ValueColumn {
			return fmt.Errorf("timeseries: column %q not found", opts.ValueColumn)
		}
		c.value = len(header) - 1
	}
	return nil
}

func (c *columns) field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(record[i], "\""))
}

func parseValue(s string) (float64, bool) {
	switch s {
	case "", "NA", "NaN", "nan", "null":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseTime(s, layout string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if layout != "" {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	for _, l := range timeLayouts {
		if ts, err := time.Parse(l, s); err == nil {
			return ts, true
		}
	}
	// Unix seconds, possibly fractional.
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		return unixTime(sec), true
	}
	return time.Time{}, false
}

// unixTime converts fractional unix seconds to a UTC time.
func unixTime(sec float64) time.Time {
	whole := math.Floor(sec)
	return time.Unix(int64(whole), int64((sec-whole)*1e9)).UTC()
}
