// Package fault defines the error taxonomy shared by the alignment and
// detection pipeline.
//
// Shape and configuration problems (wrong number of payloads, an ambiguous
// detection channel, non-positive window widths) are fatal and surface as
// *ConfigurationError values that match ErrConfiguration through errors.Is.
// Data sparsity is never an error: unmatched rows and rolling-window warm-up
// are carried through the data as NaN values.
package fault
