package preflight

import (
	"context"
	"fmt"
	"strings"

	"barrel/internal/config"
	"barrel/internal/ingest"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir, AccessRead),
		CheckDirectoryAccess("Merged directory", cfg.Paths.MergedDir, AccessReadWrite),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir, AccessReadWrite),
	}
	if !results[0].Passed {
		return results
	}
	for _, kind := range ingest.Kinds {
		if ctx.Err() != nil {
			break
		}
		results = append(results, CheckExports(cfg, kind))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Summarize joins failed results into one line suitable for an error.
func Summarize(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range Failed(results) {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}
