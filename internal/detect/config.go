package detect

import (
	"fmt"
	"math"
	"time"

	"barrel/internal/fault"
)

// FastSpectraCadence is the sampling interval of the fast spectra stream.
const FastSpectraCadence = 50 * time.Millisecond

// TimeRange is an inclusive [Start, End] restriction.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Config holds the parameters of one detection run.
type Config struct {
	BaselineWidthMin  float64
	BaselineStdThresh float64
	CorrelationWidthS float64
	CorrelationThresh float64
	DetectChannel     string
	TimeRange         *TimeRange
}

// BaselineWidth returns the baseline window as a duration.
func (c Config) BaselineWidth() time.Duration {
	return secondsToDuration(c.BaselineWidthMin * 60)
}

// CorrelationWidth returns the correlation window as a duration.
func (c Config) CorrelationWidth() time.Duration {
	return secondsToDuration(c.CorrelationWidthS)
}

// Validate checks that both windows cover at least one sample and that a
// channel is named.
func (c Config) Validate() error {
	if c.DetectChannel == "" {
		return fault.Invalid("detect_channel", "must be set")
	}
	if !(c.CorrelationWidthS > 0) || math.IsInf(c.CorrelationWidthS, 0) {
		return fault.Invalid("correlation_width_s", fmt.Sprintf("must be a positive number, got %v", c.CorrelationWidthS))
	}
	if !(c.BaselineWidthMin > 0) || math.IsInf(c.BaselineWidthMin, 0) {
		return fault.Invalid("baseline_width_min", fmt.Sprintf("must be a positive number, got %v", c.BaselineWidthMin))
	}
	if WindowSamples(c.CorrelationWidth()) < 1 {
		return fault.Invalid("correlation_width_s", fmt.Sprintf("%v s is shorter than one %s sample", c.CorrelationWidthS, FastSpectraCadence))
	}
	if WindowSamples(c.BaselineWidth()) < 1 {
		return fault.Invalid("baseline_width_min", fmt.Sprintf("%v min is shorter than one %s sample", c.BaselineWidthMin, FastSpectraCadence))
	}
	if r := c.TimeRange; r != nil && r.End.Before(r.Start) {
		return fault.Invalid("time_range", fmt.Sprintf("end %s precedes start %s", r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339)))
	}
	return nil
}

// WindowSamples converts a window width into whole samples at the fast
// spectra cadence, rounding down.
func WindowSamples(width time.Duration) int {
	if width <= 0 {
		return 0
	}
	return int(width / FastSpectraCadence)
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
