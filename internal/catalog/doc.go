// Package catalog records merge and detection runs in SQLite.
//
// Every workflow invocation opens a run with Begin and closes it with
// Complete or Fail, so the ledger shows which merged products exist, which
// parameters produced them and how many samples each detection flagged.
// Runs that never closed (a killed process) are swept by AbandonStale.
//
// Schema changes bump schemaVersion in schema.go; users delete runs.db to
// adopt the new schema.
package catalog
