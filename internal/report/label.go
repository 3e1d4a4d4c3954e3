package report

import (
	"math"
	"time"

	"barrel/internal/align"
	"barrel/internal/timeseries"
)

// Label attaches the ephemeris values nearest each event start, within
// tolerance, to the listed events. Absent columns and missing values are
// skipped.
func (s *Summary) Label(ephem *timeseries.Table, columns []string, tolerance time.Duration) {
	if s == nil || ephem == nil || ephem.Len() == 0 {
		return
	}
	times := ephem.Times()
	for i := range s.Events {
		row := align.Nearest(times, s.Events[i].Start, tolerance)
		if row < 0 {
			continue
		}
		labels := make(map[string]float64, len(columns))
		for _, name := range columns {
			if ephem.ColumnIndex(name) < 0 {
				continue
			}
			if v := ephem.Value(row, name); !math.IsNaN(v) {
				labels[name] = v
			}
		}
		if len(labels) > 0 {
			s.Events[i].Labels = labels
		}
	}
}
