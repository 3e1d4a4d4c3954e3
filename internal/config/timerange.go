package config

import (
	"fmt"
	"strings"

	"barrel/internal/detect"
	"barrel/internal/fault"
	"barrel/internal/timeseries"
)

// ParseTimeRange builds an inclusive detection range. Both bounds empty
// means no restriction; a single bound is an error.
func ParseTimeRange(start, end string) (*detect.TimeRange, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fault.Invalid("detection.time_range", "needs both time_range_start and time_range_end")
	}
	from, err := timeseries.ParseTime(start)
	if err != nil {
		return nil, fault.Invalid("detection.time_range_start", err.Error())
	}
	to, err := timeseries.ParseTime(end)
	if err != nil {
		return nil, fault.Invalid("detection.time_range_end", err.Error())
	}
	if to.Before(from) {
		return nil, fault.Invalid("detection.time_range", fmt.Sprintf("end %s precedes start %s", end, start))
	}
	return &detect.TimeRange{Start: from, End: to}, nil
}
