// Package geodesy computes the great-circle separation between paired
// balloons.
package geodesy

import (
	"fmt"
	"math"

	"barrel/internal/align"
	"barrel/internal/timeseries"
)

// EarthRadiusKm is the mean Earth radius used for separations.
const EarthRadiusKm = 6371.0

// SeparationColumn is the merged ephemeris column holding the separation.
const SeparationColumn = "dist_km"

// Ephemeris column names used to locate a payload.
const (
	LatitudeColumn  = "GPS_Lat"
	LongitudeColumn = "GPS_Lon"
	AltitudeColumn  = "GPS_Alt"
)

// Position is a geodetic position: degrees and kilometers of altitude.
type Position struct {
	LatDeg, LonDeg, AltKm float64
}

// MeanRadiusKm is the altitude-adjusted radius of the pair: EarthRadiusKm
// plus the mean altitude.
func MeanRadiusKm(a, b Position) float64 {
	return EarthRadiusKm + (a.AltKm+b.AltKm)/2
}

// Haversine returns the great-circle distance in kilometers between a and b.
// The arc is scaled by EarthRadiusKm, not MeanRadiusKm, to reproduce the
// mission's merged ephemeris products.
func Haversine(a, b Position) float64 {
	lat1 := deg2rad(a.LatDeg)
	lat2 := deg2rad(b.LatDeg)
	dLat := deg2rad(a.LatDeg - b.LatDeg)
	dLon := deg2rad(a.LonDeg - b.LonDeg)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	s := 2 * math.Asin(math.Sqrt(h))
	return EarthRadiusKm * s
}

// SeparationKm applies Haversine element-wise. All slices must share a
// length. Rows with any NaN input yield NaN.
func SeparationKm(latA, lonA, altA, latB, lonB, altB []float64) ([]float64, error) {
	n := len(latA)
	for _, s := range [][]float64{lonA, altA, latB, lonB, altB} {
		if len(s) != n {
			return nil, fmt.Errorf("separation: mismatched input lengths")
		}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Haversine(
			Position{LatDeg: latA[i], LonDeg: lonA[i], AltKm: altA[i]},
			Position{LatDeg: latB[i], LonDeg: lonB[i], AltKm: altB[i]},
		)
	}
	return out, nil
}

// AppendSeparation adds the dist_km column to a merged ephemeris table using
// the GPS columns of payloads a and b.
func AppendSeparation(table *timeseries.Table, a, b string) (*timeseries.Table, error) {
	inputs := make([][]float64, 0, 6)
	for _, payload := range []string{a, b} {
		for _, column := range []string{LatitudeColumn, LongitudeColumn, AltitudeColumn} {
			name := align.PrefixColumn(payload, column)
			values, ok := table.Column(name)
			if !ok {
				return nil, fmt.Errorf("separation: merged ephemeris has no column %q", name)
			}
			inputs = append(inputs, values)
		}
	}
	dist, err := SeparationKm(inputs[0], inputs[1], inputs[2], inputs[3], inputs[4], inputs[5])
	if err != nil {
		return nil, err
	}
	return table.WithColumn(SeparationColumn, dist)
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
