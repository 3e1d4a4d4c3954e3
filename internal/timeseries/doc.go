// Package timeseries provides the time-indexed numeric table shared by the
// ingest, alignment and detection stages.
//
// A Table holds ascending timestamps and named float64 columns stored
// column-major. Missing values are NaN. Tables are treated as immutable
// values: every transform returns a new Table and leaves its input intact.
package timeseries
