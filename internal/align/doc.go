// Package align pairs two payloads' readings by nearest timestamp and stitches
// per-day merges into one continuous campaign table.
//
// The join is keyed on the first payload: every first-payload row survives,
// and the second payload's columns are filled from its closest sample when
// that sample lies within the tolerance, NaN otherwise. Second-only
// observations are dropped. Column names are prefixed with the payload id
// so both payloads' measurements coexist in one table.
package align
