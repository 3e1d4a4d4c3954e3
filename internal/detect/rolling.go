package detect

import "math"

// RollingMean returns the trailing mean over window samples. Positions before
// the window fills, and windows containing NaN, are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 1 || window > len(values) {
		return out
	}
	var sum float64
	missing := 0
	for i, v := range values {
		if math.IsNaN(v) {
			missing++
		} else {
			sum += v
		}
		if i >= window {
			old := values[i-window]
			if math.IsNaN(old) {
				missing--
			} else {
				sum -= old
			}
		}
		if i < window-1 {
			continue
		}
		// Resynchronise the running sum once per window to bound drift.
		if (i+1)%window == 0 {
			sum = 0
			for _, w := range values[i-window+1 : i+1] {
				if !math.IsNaN(w) {
					sum += w
				}
			}
		}
		if missing > 0 {
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// RollingCorrelation returns the trailing Pearson correlation of a and b over
// window samples. Windows that are incomplete, contain NaN or have zero
// variance are NaN. Defined values are clamped to [-1, 1].
func RollingCorrelation(a, b []float64, window int) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := nanSlice(n)
	if window < 2 || window > n {
		return out
	}
	missing := 0
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			missing++
		}
		if i >= window {
			if math.IsNaN(a[i-window]) || math.IsNaN(b[i-window]) {
				missing--
			}
		}
		if i < window-1 || missing > 0 {
			continue
		}
		out[i] = pearson(a[i-window+1:i+1], b[i-window+1:i+1])
	}
	return out
}

func pearson(x, y []float64) float64 {
	n := float64(len(x))
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx <= 0 || syy <= 0 {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
