package detect

import "math"

// PoissonStabilizer is added to the baseline under the square root so empty
// or near-empty baselines do not divide by zero.
const PoissonStabilizer = 1.0

// Significance returns (observed - baseline) / sqrt(baseline + 1) per
// sample. NaN in either input yields NaN.
func Significance(observed, baseline []float64) []float64 {
	n := len(observed)
	if len(baseline) < n {
		n = len(baseline)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = (observed[i] - baseline[i]) / math.Sqrt(baseline[i]+PoissonStabilizer)
	}
	return out
}
