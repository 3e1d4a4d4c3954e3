package detect

import (
	"fmt"
	"time"

	"barrel/internal/timeseries"
)

// Result carries every series derived by one detection run. All slices share
// the time index in Times.
type Result struct {
	Times             []time.Time
	Channels          [2]string
	Counts            [2][]float64
	Correlation       []float64
	Baseline          [2][]float64
	Significance      [2][]float64
	CorrelationWindow int
	BaselineWindow    int
}

// Len returns the number of samples in the result.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Times)
}

// Restrict applies an optional inclusive time range to a sorted table.
func Restrict(table *timeseries.Table, r *TimeRange) *timeseries.Table {
	if r == nil {
		return table
	}
	return table.Between(r.Start, r.End)
}

// Detect runs the correlation and significance steps over a merged fast
// spectra table. The time range, when set, is applied before any window is
// computed so warm-up is relative to the restricted data.
func Detect(spectra *timeseries.Table, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if spectra == nil {
		return nil, fmt.Errorf("detect: no spectra table")
	}
	if !spectra.IsSorted() {
		spectra = spectra.Sort()
	}
	table := Restrict(spectra, cfg.TimeRange)

	channels, err := ResolveChannels(table.Columns(), cfg.DetectChannel)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Times:             table.Times(),
		Channels:          channels,
		CorrelationWindow: WindowSamples(cfg.CorrelationWidth()),
		BaselineWindow:    WindowSamples(cfg.BaselineWidth()),
	}
	for i, name := range channels {
		result.Counts[i], _ = table.Column(name)
	}

	result.Correlation = RollingCorrelation(result.Counts[0], result.Counts[1], result.CorrelationWindow)

	for i := range channels {
		result.Baseline[i] = RollingMean(result.Counts[i], result.BaselineWindow)
		result.Significance[i] = Significance(result.Counts[i], result.Baseline[i])
	}
	return result, nil
}
