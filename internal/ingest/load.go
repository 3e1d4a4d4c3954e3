package ingest

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

	"barrel/internal/align"
	"barrel/internal/fault"
	"barrel/internal/timeseries"
)

// Reading is one payload's product for one flight day.
type Reading struct {
	Path    string
	Payload string
	Kind    Kind
	Day     string
	Table   *timeseries.Table
	Rows    int
	Dropped int
}

// Load reads an export file, keeping the requested columns (the kind's
// defaults when columns is empty).
func Load(path string, kind Kind, columns []string) (*Reading, error) {
	info, err := ParseName(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fault.ErrInput, err)
	}
	if info.Kind != kind {
		return nil, fmt.Errorf("%w: %s holds %s, not %s", fault.ErrInput, path, info.Kind, kind)
	}
	if len(columns) == 0 {
		columns = kind.DefaultColumns()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := readColumns(f, columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", fault.ErrInput, path, err)
	}

	reading := &Reading{
		Path:    path,
		Payload: info.Payload,
		Kind:    kind,
		Day:     info.Day,
		Rows:    table.Len(),
	}
	switch kind {
	case KindSpectra:
		reading.Table, reading.Dropped = align.PrepareSpectra(table)
	default:
		reading.Table, reading.Dropped = align.PrepareEphemeris(table)
	}
	return reading, nil
}

func readColumns(r io.Reader, columns []string) (*timeseries.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, errors.New("header needs a time column and at least one variable")
	}
	positions := make(map[string]int, len(header))
	for i, name := range header[1:] {
		positions[strings.TrimSpace(name)] = i + 1
	}
	indices := make([]int, len(columns))
	var missing []string
	for i, name := range columns {
		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		indices[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	var times []time.Time
	data := make([][]float64, len(columns))
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := timeseries.ParseTime(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		times = append(times, ts)
		for i, pos := range indices {
			v, err := parseValue(record[pos])
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, columns[i], err)
			}
			data[i] = append(data[i], v)
		}
	}
	return timeseries.New(times, columns, data)
}

func parseValue(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	return timeseries.ReplaceSentinel(v), nil
}
