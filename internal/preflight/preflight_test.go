package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"barrel/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, AccessReadWrite)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read/write ok") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), AccessRead)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, AccessRead)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Unconfigured(t *testing.T) {
	result := CheckDirectoryAccess("test", "  ", AccessRead)
	if result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAllReportsMissingExports(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	testsupport.WriteExport(t, cfg.Paths.DataDir, testsupport.EphemerisExport("3G", "20150825", 0, 3))
	testsupport.WriteExport(t, cfg.Paths.DataDir, testsupport.EphemerisExport("3F", "20150825", 1, 3))
	testsupport.WriteExport(t, cfg.Paths.DataDir, testsupport.SpectraExport("3G", "20150825", 0, []float64{1, 2}))

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %+v", len(results), results)
	}
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	if r := byName["Ephemeris exports"]; !r.Passed || r.Detail != "2 files across 1 days" {
		t.Fatalf("unexpected ephemeris result %+v", r)
	}
	if r := byName["Spectra exports"]; r.Passed || r.Detail != "missing 3F@20150825" {
		t.Fatalf("unexpected spectra result %+v", r)
	}
	failed := Failed(results)
	if len(failed) != 1 {
		t.Fatalf("expected one failure, got %+v", failed)
	}
	if got := Summarize(results); got != "Spectra exports: missing 3F@20150825" {
		t.Fatalf("Summarize = %q", got)
	}
}

func TestRunAllStopsWithoutDataDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected only directory checks, got %+v", results)
	}
	if results[0].Passed {
		t.Fatalf("expected data directory failure, got %+v", results[0])
	}
}
