package testsupport

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"barrel/internal/ingest"
)

// Export describes a synthetic payload export file. Values are
// column-major, one slice per entry in Columns.
type Export struct {
	Payload string
	Kind    ingest.Kind
	Day     string
	Version int
	Columns []string
	Times   []time.Time
	Values  [][]float64
}

// FileName returns the mission-style file name for the export.
func (e Export) FileName() string {
	version := e.Version
	if version == 0 {
		version = 1
	}
	return fmt.Sprintf("bar_%s_l2_%s_%s_v%02d.csv", strings.ToLower(e.Payload), e.Kind.FileCode(), e.Day, version)
}

// WriteExport writes e under dir and returns the file path. NaN values are
// written as empty fields.
func WriteExport(t testing.TB, dir string, e Export) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, e.FileName())
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"Epoch"}, e.Columns...)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for row, ts := range e.Times {
		record := make([]string, 0, len(e.Columns)+1)
		record = append(record, ts.UTC().Format(time.RFC3339Nano))
		for col := range e.Columns {
			v := e.Values[col][row]
			if math.IsNaN(v) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("write row %d: %v", row, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
	return path
}

// Cadence returns n timestamps starting at start spaced by step.
func Cadence(start time.Time, step time.Duration, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

// Constant returns n copies of v.
func Constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Ramp returns n values from base increasing by step.
func Ramp(base, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i)*step
	}
	return out
}

// EphemerisExport builds a complete ephemeris export with the default
// columns, a fixed position offset by lonDeg and samples every minute.
func EphemerisExport(payload, day string, lonDeg float64, n int) Export {
	start, _ := time.Parse("20060102", day)
	cols := ingest.DefaultEphemerisColumns
	values := make([][]float64, len(cols))
	for i, name := range cols {
		switch name {
		case "GPS_Alt":
			values[i] = Constant(33, n)
		case "GPS_Lat":
			values[i] = Constant(-68.5, n)
		case "GPS_Lon":
			values[i] = Constant(lonDeg, n)
		default:
			values[i] = Ramp(4, 0.001, n)
		}
	}
	return Export{
		Payload: payload,
		Kind:    ingest.KindEphemeris,
		Day:     day,
		Columns: append([]string(nil), cols...),
		Times:   Cadence(start.UTC(), time.Minute, n),
		Values:  values,
	}
}

// SpectraExport builds a fast spectra export at the 50 ms cadence with the
// default channels. FSPC1a follows signal; the other channels are constant.
func SpectraExport(payload, day string, offset time.Duration, signal []float64) Export {
	start, _ := time.Parse("20060102", day)
	n := len(signal)
	cols := ingest.DefaultSpectraColumns
	values := make([][]float64, len(cols))
	for i, name := range cols {
		if name == "FSPC1a" {
			values[i] = append([]float64(nil), signal...)
			continue
		}
		values[i] = Constant(float64(10*(i+1)), n)
	}
	return Export{
		Payload: payload,
		Kind:    ingest.KindSpectra,
		Day:     day,
		Columns: append([]string(nil), cols...),
		Times:   Cadence(start.UTC().Add(offset), 50*time.Millisecond, n),
		Values:  values,
	}
}

// BurstSignal returns n samples of a low repeating background with a step of
// height counts over [start, start+length).
func BurstSignal(n, start, length int, height float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(10 + i%7)
		if i >= start && i < start+length {
			out[i] += height
		}
	}
	return out
}
