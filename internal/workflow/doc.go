// Package workflow runs campaign-level merges and detections.
//
// A Runner discovers the configured payload exports, aligns them per flight
// day, writes the merged products and records each invocation in the run
// ledger. Detection reads the merged fast spectra back, runs the detector and
// summarizes the result for triage, labelling events with the merged
// ephemeris when it exists.
package workflow
