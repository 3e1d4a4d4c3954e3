// Package main hosts the barrel CLI entrypoint and command graph.
//
// The Cobra-based command tree merges the paired-payload exports of a
// campaign, runs microburst detection over the merged fast spectra, and
// surfaces the run ledger and readiness checks. It centralizes configuration
// resolution and logging setup so subcommands can focus on presentation.
//
// Keep this package lean: new behavior belongs in the internal packages
// first, surfaced here through a command or flag.
package main
