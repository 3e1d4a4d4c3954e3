// Package report summarizes detector output against the configured
// thresholds for triage.
//
// Thresholding lives here rather than in the detector: a sample is
// significant when its baseline significance exceeds the standard deviation
// threshold, and coincident when both channels are significant while the
// correlation exceeds its threshold. Consecutive coincident samples form an
// Event. Events can be labelled with the nearest merged ephemeris values.
package report
