package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the timestamp layout used in table files.
const TimeLayout = "2006-01-02 15:04:05.000000"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"20060102T15:04:05",
}

// ParseTime accepts RFC3339, the space-separated table layout or the compact
// 20060102T15:04:05 form. Values without a zone are UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range parseLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// FormatTime renders ts in TimeLayout, in UTC.
func FormatTime(ts time.Time) string {
	return ts.UTC().Format(TimeLayout)
}
