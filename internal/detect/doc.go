// Package detect derives the two series used to triage microbursts from a
// merged fast spectra table: a rolling Pearson correlation between the two
// payloads' copies of one energy channel, and a Poisson-style significance of
// each channel above its trailing baseline.
//
// Detect is a pure function of its inputs. It resolves the channel pair,
// computes the correlation and then the significance, and returns every
// derived series in a Result. It never compares against the configured
// thresholds; that belongs to consumers such as the report package.
//
// Windows are counted in samples at the fixed fast spectra cadence. Outputs
// are right-aligned and the first window-1 values are NaN, as is any window
// that contains a missing sample.
package detect
