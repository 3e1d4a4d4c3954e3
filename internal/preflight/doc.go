// Package preflight provides readiness checks for the filesystem paths and
// payload exports barrel depends on.
//
// The CLI "barrel status" command renders every result. "barrel merge" runs
// the same checks first and refuses to start when the data directory or the
// output directories are unusable, so a long merge never fails at the final
// write.
package preflight
