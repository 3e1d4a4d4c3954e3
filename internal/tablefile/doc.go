// Package tablefile persists merged tables as CSV.
//
// The first column is "Time" in UTC with microsecond precision; missing
// values are written as empty fields. Writers hold an advisory lock on the
// output directory so concurrent merges cannot interleave, and files are
// replaced atomically.
package tablefile
