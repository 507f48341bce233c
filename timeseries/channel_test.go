package timeseries

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const channelLog = `{"channel": 0, "f": 1000.5}
{"channel": 0, "f": 1000.6}
{"channel": 0, "f": 1000.4}
{"channel": 1, "f": 2000.1}
not json
{"channel": 1}
null

{"channel": 1, "f": 2000.2}
{"channel": 0, "f": 1000.7}
`

func TestLoadChannelLog(t *testing.T) {
	series, err := LoadChannelLog(strings.NewReader(channelLog), nil)
	if err != nil {
		t.Fatalf("Failed to load log: %v", err)
	}

	wantLens := []int{3, 2, 1}
	wantChannels := []string{"0", "1", "0"}
	if len(series) != len(wantLens) {
		t.Fatalf("Expected %d series, got %d", len(wantLens), len(series))
	}
	for i, s := range series {
		if s.Len() != wantLens[i] {
			t.Errorf("Series %d: expected %d values, got %d", i, wantLens[i], s.Len())
		}
		if s.Channel != wantChannels[i] {
			t.Errorf("Series %d: expected channel %s, got %s", i, wantChannels[i], s.Channel)
		}
		if s.HasTimestamps() {
			t.Errorf("Series %d: unexpected timestamps", i)
		}
	}
	if series[1].Values[1] != 2000.2 {
		t.Errorf("Expected 2000.2, got %f", series[1].Values[1])
	}
	if series[2].Name != "series2" {
		t.Errorf("Expected name series2, got %q", series[2].Name)
	}
}

func TestLoadChannelLogChunks(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString(`{"channel": "A", "f": 1}` + "\n")
	}
	b.WriteString(`{"channel": "B", "f": 2}` + "\n")

	series, err := LoadChannelLog(strings.NewReader(b.String()), &ChannelLogOptions{MaxLen: 3})
	if err != nil {
		t.Fatalf("Failed to load log: %v", err)
	}
	wantLens := []int{3, 3, 1, 1}
	if len(series) != len(wantLens) {
		t.Fatalf("Expected %d series, got %d", len(wantLens), len(series))
	}
	for i, s := range series {
		if s.Len() != wantLens[i] {
			t.Errorf("Series %d: expected %d values, got %d", i, wantLens[i], s.Len())
		}
	}
	if series[0].Channel != "A" || series[3].Channel != "B" {
		t.Errorf("Unexpected channels %q, %q", series[0].Channel, series[3].Channel)
	}

	// Only full chunks.
	series, err = LoadChannelLog(strings.NewReader(b.String()), &ChannelLogOptions{MaxLen: 3, MinLen: 3})
	if err != nil {
		t.Fatalf("Failed to load log: %v", err)
	}
	if len(series) != 2 {
		t.Errorf("Expected 2 full chunks, got %d", len(series))
	}
}

func TestLoadChannelLogFilter(t *testing.T) {
	series, err := LoadChannelLog(strings.NewReader(channelLog), &ChannelLogOptions{Channel: "0"})
	if err != nil {
		t.Fatalf("Failed to load log: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("Expected 2 runs of channel 0, got %d", len(series))
	}
	if series[0].Len() != 3 || series[1].Len() != 1 {
		t.Errorf("Unexpected lengths %d, %d", series[0].Len(), series[1].Len())
	}
}

func TestLoadChannelLogTimestamps(t *testing.T) {
	data := `{"channel": 3, "f": 1, "ts": 1700000000.5}
{"channel": 3, "f": 2, "ts": 1700000001.5}`

	series, err := LoadChannelLog(strings.NewReader(data), nil)
	if err != nil {
		t.Fatalf("Failed to load log: %v", err)
	}
	s := series[0]
	if !s.HasTimestamps() {
		t.Fatal("Expected timestamps")
	}
	if got := s.Time(1).UnixMilli(); got != 1700000001500 {
		t.Errorf("Expected 1700000001500 ms, got %d", got)
	}
}

func TestLoadChannelLogWarnings(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.WarnLevel)

	if _, err := LoadChannelLog(strings.NewReader(channelLog), &ChannelLogOptions{Logger: logger}); err != nil {
		t.Fatalf("Failed to load log: %v", err)
	}
	if n := len(hook.AllEntries()); n != 2 {
		t.Errorf("Expected 2 warnings, got %d", n)
	}
	if line := hook.LastEntry().Data["line"]; line != 6 {
		t.Errorf("Expected last warning on line 6, got %v", line)
	}
}

func TestLoadChannelLogErrors(t *testing.T) {
	if _, err := LoadChannelLog(strings.NewReader("garbage\n\n"), nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
	if _, err := LoadChannelLog(strings.NewReader(channelLog), &ChannelLogOptions{MinLen: 10}); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData when every run is too short, got %v", err)
	}
	if _, err := LoadChannelLogFile(filepath.Join(t.TempDir(), "missing.log"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
