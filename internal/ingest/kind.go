package ingest

import (
	"fmt"
	"strings"
)

// Kind names a product stream.
type Kind string

const (
	KindEphemeris Kind = "ephemeris"
	KindSpectra   Kind = "spectra"
)

// Kinds lists every product stream in processing order.
var Kinds = []Kind{KindEphemeris, KindSpectra}

// DefaultEphemerisColumns are the ephemeris variables kept when none are
// configured.
var DefaultEphemerisColumns = []string{
	"GPS_Alt", "GPS_Lat", "GPS_Lon",
	"L_Kp2", "L_Kp6",
	"MLT_Kp2_T89c", "MLT_Kp6_T89c",
}

// DefaultSpectraColumns are the fast spectra channels kept when none are
// configured.
var DefaultSpectraColumns = []string{"FSPC1a", "FSPC1b", "FSPC1c", "FSPC2", "FSPC3", "FSPC4"}

// ParseKind maps a CLI or config token to a Kind.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ephemeris", "ephm", "ephem":
		return KindEphemeris, nil
	case "spectra", "fspc":
		return KindSpectra, nil
	default:
		return "", fmt.Errorf("unknown product kind %q (want ephemeris or spectra)", value)
	}
}

// FileCode is the product token used in file names.
func (k Kind) FileCode() string {
	switch k {
	case KindEphemeris:
		return "ephm"
	case KindSpectra:
		return "fspc"
	default:
		return ""
	}
}

// DefaultColumns returns the default variable set for the kind.
func (k Kind) DefaultColumns() []string {
	if k == KindSpectra {
		return append([]string(nil), DefaultSpectraColumns...)
	}
	return append([]string(nil), DefaultEphemerisColumns...)
}

func (k Kind) String() string { return string(k) }
