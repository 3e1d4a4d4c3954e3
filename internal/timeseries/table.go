package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Table is an ordered set of timestamps with named numeric columns.
type Table struct {
	times   []time.Time
	columns []string
	index   map[string]int
	data    [][]float64
}

// New builds a Table from timestamps, column names and column-major values.
// Every column must have one value per timestamp and column names must be
// unique. The slices are copied.
func New(times []time.Time, columns []string, data [][]float64) (*Table, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("timeseries: %d column names for %d columns", len(columns), len(data))
	}
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("timeseries: duplicate column %q", name)
		}
		index[name] = i
		if len(data[i]) != len(times) {
			return nil, fmt.Errorf("timeseries: column %q has %d values for %d timestamps", name, len(data[i]), len(times))
		}
	}
	t := &Table{
		times:   append([]time.Time(nil), times...),
		columns: append([]string(nil), columns...),
		index:   index,
		data:    make([][]float64, len(data)),
	}
	for i := range data {
		t.data[i] = append([]float64(nil), data[i]...)
	}
	return t, nil
}

// Empty returns a Table with the given columns and no rows.
func Empty(columns []string) *Table {
	data := make([][]float64, len(columns))
	t, err := New(nil, columns, data)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.times)
}

// Columns returns a copy of the column names in table order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.columns...)
}

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]float64, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), t.data[i]...), true
}

// Value returns the value at row for the named column, NaN when the column
// does not exist.
func (t *Table) Value(row int, name string) float64 {
	i, ok := t.index[name]
	if !ok {
		return math.NaN()
	}
	return t.data[i][row]
}

// Time returns the timestamp of row i.
func (t *Table) Time(i int) time.Time {
	return t.times[i]
}

// Times returns a copy of the timestamps.
func (t *Table) Times() []time.Time {
	if t == nil {
		return nil
	}
	return append([]time.Time(nil), t.times...)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out, err := New(t.times, t.columns, t.data)
	if err != nil {
		panic(err)
	}
	return out
}

// IsSorted reports whether timestamps are non-decreasing.
func (t *Table) IsSorted() bool {
	for i := 1; i < len(t.times); i++ {
		if t.times[i].Before(t.times[i-1]) {
			return false
		}
	}
	return true
}

// Sort returns the table ordered by timestamp. Rows sharing a timestamp keep
// their original relative order.
func (t *Table) Sort() *Table {
	if t.IsSorted() {
		return t.Clone()
	}
	order := make([]int, len(t.times))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.times[order[a]].Before(t.times[order[b]])
	})
	return t.take(order)
}

// Between returns the rows whose timestamps fall in [start, end]. The table
// must be sorted.
func (t *Table) Between(start, end time.Time) *Table {
	lo := sort.Search(len(t.times), func(i int) bool {
		return !t.times[i].Before(start)
	})
	hi := sort.Search(len(t.times), func(i int) bool {
		return t.times[i].After(end)
	})
	if hi < lo {
		hi = lo
	}
	order := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		order = append(order, i)
	}
	return t.take(order)
}

// WithColumn returns a copy with the column appended, or replaced when a
// column with that name already exists.
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if len(values) != len(t.times) {
		return nil, fmt.Errorf("timeseries: column %q has %d values for %d timestamps", name, len(values), len(t.times))
	}
	columns := t.Columns()
	data := make([][]float64, len(t.data))
	copy(data, t.data)
	if i, ok := t.index[name]; ok {
		data[i] = values
	} else {
		columns = append(columns, name)
		data = append(data, values)
	}
	return New(t.times, columns, data)
}

// RenameColumns returns a copy whose column names are mapped through fn.
func (t *Table) RenameColumns(fn func(string) string) (*Table, error) {
	columns := make([]string, len(t.columns))
	for i, name := range t.columns {
		columns[i] = fn(name)
	}
	return New(t.times, columns, t.data)
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.data))
	for c := range t.data {
		row[c] = t.data[c][i]
	}
	return row
}

func (t *Table) take(order []int) *Table {
	times := make([]time.Time, len(order))
	for j, i := range order {
		times[j] = t.times[i]
	}
	data := make([][]float64, len(t.data))
	for c, col := range t.data {
		out := make([]float64, len(order))
		for j, i := range order {
			out[j] = col[i]
		}
		data[c] = out
	}
	return &Table{
		times:   times,
		columns: append([]string(nil), t.columns...),
		index:   t.index,
		data:    data,
	}
}
