package detect

import (
	"strings"

	"barrel/internal/fault"
)

// ResolveChannels returns the two columns whose names contain substring, in
// table order. Any other number of matches is a configuration error.
func ResolveChannels(columns []string, substring string) ([2]string, error) {
	var matches []string
	for _, name := range columns {
		if strings.Contains(name, substring) {
			matches = append(matches, name)
		}
	}
	if len(matches) != 2 {
		detail := "matching columns: none"
		if len(matches) > 0 {
			detail = "matching columns: " + strings.Join(matches, ", ")
		}
		detail += "; available: " + strings.Join(columns, ", ")
		return [2]string{}, fault.Configuration("detect_channel", substring, 2, len(matches), detail)
	}
	return [2]string{matches[0], matches[1]}, nil
}
