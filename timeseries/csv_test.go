package timeseries

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `ts,f
2024-03-01T12:00:00Z,100
2024-03-01T12:00:01Z,101
2024-03-01T12:00:02Z,NA
2024-03-01T12:00:03Z,103
2024-03-01T12:00:04Z,104`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("Expected 1 series, got %d", len(series))
	}

	s := series[0]
	expected := []float64{100, 101, 103, 104}
	if s.Len() != len(expected) {
		t.Fatalf("Expected %d values, got %d", len(expected), s.Len())
	}
	for i, v := range expected {
		if s.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, s.Values[i])
		}
	}

	if !s.HasTimestamps() {
		t.Fatal("Expected timestamps")
	}
	want := time.Date(2024, 3, 1, 12, 0, 3, 0, time.UTC)
	if !s.Time(2).Equal(want) {
		t.Errorf("Expected %v, got %v", want, s.Time(2))
	}
}

func TestLoadCSVFilterAndSplit(t *testing.T) {
	csvData := `channel,f
1,10
1,11
2,20
2,21
2,22
1,12`

	opts := DefaultCSVOptions()
	opts.IDFilter = "2"
	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if len(series) != 1 || series[0].Len() != 3 {
		t.Fatalf("Expected one series of 3, got %d series", len(series))
	}
	if series[0].Channel != "2" {
		t.Errorf("Expected channel 2, got %q", series[0].Channel)
	}

	opts = DefaultCSVOptions()
	opts.SplitByID = true
	series, err = LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	wantLens := []int{2, 3, 1}
	if len(series) != len(wantLens) {
		t.Fatalf("Expected %d series, got %d", len(wantLens), len(series))
	}
	for i, s := range series {
		if s.Len() != wantLens[i] {
			t.Errorf("Series %d: expected %d values, got %d", i, wantLens[i], s.Len())
		}
	}
	if series[2].Channel != "1" || series[2].Values[0] != 12 {
		t.Errorf("Unexpected last series %+v", series[2])
	}
}

func TestLoadCSVNoHeader(t *testing.T) {
	series, err := LoadCSVFromReader(strings.NewReader("1.5\n2.5\n3.5\n"), &CSVOptions{Delimiter: ','})
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if series[0].Len() != 3 || series[0].Values[2] != 3.5 {
		t.Errorf("Unexpected values %v", series[0].Values)
	}

	series, err = LoadCSVFromReader(strings.NewReader("1700000000,1\n1700000001,2\n"), &CSVOptions{})
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	s := series[0]
	if s.Len() != 2 || s.Values[1] != 2 {
		t.Errorf("Unexpected values %v", s.Values)
	}
	if !s.HasTimestamps() || s.Time(1).Unix() != 1700000001 {
		t.Errorf("Expected unix timestamps, got %v", s.Timestamps)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	if _, err := LoadCSVFromReader(strings.NewReader("f\nNA\n\n"), nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
	if _, err := LoadCSVFromReader(strings.NewReader(""), nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData for empty input, got %v", err)
	}

	opts := DefaultCSVOptions()
	opts.ValueColumn = "pressure"
	if _, err := LoadCSVFromReader(strings.NewReader("ts,f\n1,2\n"), opts); err == nil {
		t.Error("Expected an error for a missing column")
	}
}

func TestLoadCSVColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,10\n2,20\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadCSVColumn(path, "a")
	if err != nil {
		t.Fatalf("Failed to load column: %v", err)
	}
	if s.Len() != 2 || s.Values[0] != 1 || s.Values[1] != 2 {
		t.Errorf("Unexpected values %v", s.Values)
	}

	if _, err := LoadCSVColumn(filepath.Join(t.TempDir(), "missing.csv"), "a"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
