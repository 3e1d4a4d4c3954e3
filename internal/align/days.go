package align

import (
	"fmt"
	"math"
	"sort"
	"time"

	"barrel/internal/timeseries"
)

// MergeDays merges each flight day's payload pair. Any day that fails to
// merge aborts the whole set.
func MergeDays(days map[string][]Payload, tolerance time.Duration) (map[string]*timeseries.Table, map[string]Stats, error) {
	merged := make(map[string]*timeseries.Table, len(days))
	stats := make(map[string]Stats, len(days))
	for _, day := range sortedKeys(days) {
		table, st, err := MergeWithStats(days[day], tolerance)
		if err != nil {
			return nil, nil, fmt.Errorf("flight day %s: %w", day, err)
		}
		merged[day] = table
		stats[day] = st
	}
	return merged, stats, nil
}

// ConcatDays stacks per-day tables into one series ordered by flight day.
// Overlapping timestamps are not deduplicated; days are assumed disjoint.
// Columns missing from a day are filled with NaN.
func ConcatDays(days map[string]*timeseries.Table) (*timeseries.Table, error) {
	keys := sortedKeys(days)

	var columns []string
	seen := map[string]struct{}{}
	total := 0
	for _, day := range keys {
		table := days[day]
		if table == nil {
			return nil, fmt.Errorf("concat: flight day %s has no table", day)
		}
		total += table.Len()
		for _, name := range table.Columns() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			columns = append(columns, name)
		}
	}

	times := make([]time.Time, 0, total)
	data := make([][]float64, len(columns))
	for c := range data {
		data[c] = make([]float64, 0, total)
	}
	for _, day := range keys {
		table := days[day]
		times = append(times, table.Times()...)
		for c, name := range columns {
			values, ok := table.Column(name)
			if !ok {
				values = make([]float64, table.Len())
				for i := range values {
					values[i] = math.NaN()
				}
			}
			data[c] = append(data[c], values...)
		}
	}
	return timeseries.New(times, columns, data)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
