package tablefile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"barrel/internal/fault"
	"barrel/internal/fileutil"
	"barrel/internal/timeseries"
)

// TimeColumn is the header of the timestamp column.
const TimeColumn = "Time"

// LockName is the advisory lock file created in the output directory.
const LockName = ".barrel.lock"

// ErrLocked reports that another process holds the output directory lock.
var ErrLocked = errors.New("output directory is locked by another barrel process")

const lockRetryDelay = 100 * time.Millisecond

// Write stores table at path, waiting for the directory lock until ctx is
// done.
func Write(ctx context.Context, path string, table *timeseries.Table) (fileutil.Written, error) {
	if table == nil {
		return fileutil.Written{}, errors.New("tablefile: nil table")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fileutil.Written{}, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fileutil.Written{}, fmt.Errorf("%w: %s", ErrLocked, dir)
		}
		return fileutil.Written{}, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !locked {
		return fileutil.Written{}, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	defer func() { _ = lock.Unlock() }()

	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, table)
	})
}

// Encode writes table as CSV to w.
func Encode(w io.Writer, table *timeseries.Table) error {
	writer := csv.NewWriter(w)
	columns := table.Columns()
	record := make([]string, len(columns)+1)
	record[0] = TimeColumn
	copy(record[1:], columns)
	if err := writer.Write(record); err != nil {
		return err
	}

	values := make([][]float64, len(columns))
	for i, name := range columns {
		values[i], _ = table.Column(name)
	}
	for row := 0; row < table.Len(); row++ {
		record[0] = timeseries.FormatTime(table.Time(row))
		for i := range columns {
			record[i+1] = formatValue(values[i][row])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Read loads a table written by Write.
func Read(path string) (*timeseries.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", fault.ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	table, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", fault.ErrInput, path, err)
	}
	return table, nil
}

// Decode parses CSV produced by Encode.
func Decode(r io.Reader) (*timeseries.Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty table file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), TimeColumn) {
		return nil, fmt.Errorf("first column must be %q", TimeColumn)
	}
	columns := append([]string(nil), header[1:]...)
	data := make([][]float64, len(columns))
	var times []time.Time
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
		for i := range columns {
			v, err := parseValue(record[i+1])
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, columns[i], err)
			}
			data[i] = append(data[i], v)
		}
	}
	return timeseries.New(times, columns, data)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseValue(field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(field, 64)
}
