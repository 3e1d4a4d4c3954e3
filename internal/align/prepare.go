package align

import "barrel/internal/timeseries"

// PrepareEphemeris removes rows holding missing values. Ephemeris streams
// arrive in time order.
func PrepareEphemeris(table *timeseries.Table) (*timeseries.Table, int) {
	return table.DropMissing()
}

// PrepareSpectra removes rows holding missing values and sorts by timestamp,
// since the fast spectra stream can emit samples out of order.
func PrepareSpectra(table *timeseries.Table) (*timeseries.Table, int) {
	clean, dropped := table.DropMissing()
	return clean.Sort(), dropped
}
