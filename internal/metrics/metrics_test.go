package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"barrel/internal/metrics"
)

func TestWriteTextfile(t *testing.T) {
	rec := metrics.New()
	rec.Ingested("spectra", 1000, 3)
	rec.Ingested("spectra", 500, 0)
	rec.Merged("spectra", 1497, 12)
	rec.Detected("completed", 42)
	rec.Detected("failed", 0)
	rec.ObserveStage("detect", 250*time.Millisecond)

	path := filepath.Join(t.TempDir(), "textfile", "barrel.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(raw)
	for _, want := range []string{
		`barrel_rows_ingested_total{kind="spectra"} 1500`,
		`barrel_rows_dropped_total{kind="spectra"} 3`,
		`barrel_merge_rows_total{kind="spectra"} 1497`,
		`barrel_merge_unmatched_rows_total{kind="spectra"} 12`,
		`barrel_detect_runs_total{outcome="completed"} 1`,
		`barrel_detect_runs_total{outcome="failed"} 1`,
		`barrel_detect_coincident_samples 42`,
		`barrel_stage_duration_seconds_count{stage="detect"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("textfile missing %q:\n%s", want, out)
		}
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *metrics.Recorder
	rec.Ingested("ephemeris", 1, 1)
	rec.Merged("ephemeris", 1, 0)
	rec.Detected("completed", 1)
	rec.ObserveStage("merge", time.Second)
	if err := rec.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("nil recorder should not write: %v", err)
	}
	if rec.Registry() != nil {
		t.Fatal("nil recorder has no registry")
	}
}
