package align

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"barrel/internal/fault"
	"barrel/internal/timeseries"
)

// Payload is one balloon's reading for a single measurement type and day.
type Payload struct {
	ID    string
	Table *timeseries.Table
}

// Stats describes the outcome of a merge.
type Stats struct {
	Rows      int
	Matched   int
	Unmatched int
	// Dropped counts input rows of either payload that held the fill value.
	Dropped int
}

// PrefixColumn returns the merged column name for a payload measurement.
func PrefixColumn(payload, column string) string {
	return payload + "_" + column
}

// Merge joins exactly two payloads by nearest timestamp. The first entry
// supplies the row keys.
func Merge(pair []Payload, tolerance time.Duration) (*timeseries.Table, error) {
	table, _, err := MergeWithStats(pair, tolerance)
	return table, err
}

// MergeWithStats is Merge that also reports how many rows found a
// counterpart.
func MergeWithStats(pair []Payload, tolerance time.Duration) (*timeseries.Table, Stats, error) {
	if len(pair) != 2 {
		ids := make([]string, 0, len(pair))
		for _, p := range pair {
			ids = append(ids, p.ID)
		}
		return nil, Stats{}, fault.Configuration("payloads", strings.Join(ids, ","), 2, len(pair), "can only merge two payloads")
	}
	if tolerance < 0 {
		return nil, Stats{}, fault.Invalid("tolerance", fmt.Sprintf("must not be negative, got %s", tolerance))
	}
	left, right := pair[0], pair[1]
	if left.Table == nil || right.Table == nil {
		return nil, Stats{}, fmt.Errorf("merge %s/%s: missing table", left.ID, right.ID)
	}
	if strings.TrimSpace(left.ID) == strings.TrimSpace(right.ID) {
		return nil, Stats{}, fault.Invalid("payloads", fmt.Sprintf("must be distinct, got %q twice", left.ID))
	}
	for _, p := range pair {
		if !p.Table.IsSorted() {
			return nil, Stats{}, fmt.Errorf("merge %s/%s: payload %s timestamps are not sorted", left.ID, right.ID, p.ID)
		}
	}

	var stats Stats
	for _, p := range []*Payload{&left, &right} {
		if p.Table.HasSentinel() {
			var dropped int
			p.Table, dropped = p.Table.DropSentinel()
			stats.Dropped += dropped
		}
	}

	leftCols := left.Table.Columns()
	rightCols := right.Table.Columns()
	columns := make([]string, 0, len(leftCols)+len(rightCols))
	data := make([][]float64, 0, len(leftCols)+len(rightCols))
	for _, name := range leftCols {
		values, _ := left.Table.Column(name)
		columns = append(columns, PrefixColumn(left.ID, name))
		data = append(data, values)
	}

	rows := left.Table.Len()
	rightTimes := right.Table.Times()
	matches := make([]int, rows)
	stats.Rows = rows
	for i := 0; i < rows; i++ {
		matches[i] = Nearest(rightTimes, left.Table.Time(i), tolerance)
		if matches[i] >= 0 {
			stats.Matched++
		}
	}
	stats.Unmatched = rows - stats.Matched

	for _, name := range rightCols {
		source, _ := right.Table.Column(name)
		values := make([]float64, rows)
		for i, j := range matches {
			if j < 0 {
				values[i] = math.NaN()
				continue
			}
			values[i] = source[j]
		}
		columns = append(columns, PrefixColumn(right.ID, name))
		data = append(data, values)
	}

	table, err := timeseries.New(left.Table.Times(), columns, data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("merge %s/%s: %w", left.ID, right.ID, err)
	}
	return table, stats, nil
}

// Nearest returns the index of the sample in times closest to target, or -1
// when the closest one is further than tolerance. Equal distances prefer the
// earlier sample; among identical timestamps the last one before target and
// the first one after it are the candidates.
func Nearest(times []time.Time, target time.Time, tolerance time.Duration) int {
	if len(times) == 0 {
		return -1
	}
	after := sort.Search(len(times), func(i int) bool {
		return times[i].After(target)
	})
	before := after - 1

	forward := sort.Search(len(times), func(i int) bool {
		return !times[i].Before(target)
	})

	best := -1
	var bestDiff time.Duration
	if before >= 0 {
		best = before
		bestDiff = target.Sub(times[before])
	}
	if forward < len(times) {
		diff := times[forward].Sub(target)
		if best < 0 || diff < bestDiff {
			best = forward
			bestDiff = diff
		}
	}
	if best < 0 || bestDiff > tolerance {
		return -1
	}
	return best
}
