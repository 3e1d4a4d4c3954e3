package timeseries

import "math"

// Sentinel is the fill value the instrument's data format uses for samples
// that were not recorded.
const Sentinel = -1e31

// IsMissing reports whether v is NaN or the instrument fill value.
func IsMissing(v float64) bool {
	return math.IsNaN(v) || v == Sentinel
}

// ReplaceSentinel returns v, or NaN when v is the instrument fill value.
func ReplaceSentinel(v float64) float64 {
	if v == Sentinel {
		return math.NaN()
	}
	return v
}

// DropMissing returns the rows in which no column holds NaN or the fill
// value, along with the number of rows removed.
func (t *Table) DropMissing() (*Table, int) {
	order := make([]int, 0, len(t.times))
	for i := range t.times {
		keep := true
		for _, col := range t.data {
			if IsMissing(col[i]) {
				keep = false
				break
			}
		}
		if keep {
			order = append(order, i)
		}
	}
	return t.take(order), len(t.times) - len(order)
}

// HasSentinel reports whether any value equals the fill value.
func (t *Table) HasSentinel() bool {
	for _, col := range t.data {
		for _, v := range col {
			if v == Sentinel {
				return true
			}
		}
	}
	return false
}

// DropSentinel returns the rows in which no column holds the fill value,
// along with the number of rows removed. NaN values are kept.
func (t *Table) DropSentinel() (*Table, int) {
	order := make([]int, 0, len(t.times))
	for i := range t.times {
		keep := true
		for _, col := range t.data {
			if col[i] == Sentinel {
				keep = false
				break
			}
		}
		if keep {
			order = append(order, i)
		}
	}
	return t.take(order), len(t.times) - len(order)
}
