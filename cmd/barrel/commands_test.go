package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMergeDetectAndRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeExports(t)

	out, _, err := runCLI(t, []string{"merge"}, env.configPath)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	requireContains(t, out, "Merged ephemeris: 10 rows from 1 day(s)")
	requireContains(t, out, "Merged spectra: 1,200 rows from 1 day(s)")
	requireContains(t, out, "barrel_3g_3f_merged_fast_spectra.csv")

	out, _, err = runCLI(t, []string{"detect"}, env.configPath)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	requireContains(t, out, "Detection over 3G_FSPC1a / 3F_FSPC1a")
	requireContains(t, out, "40 samples in 1 event(s)")
	requireContains(t, out, "Sep km")

	out, _, err = runCLI(t, []string{"detect", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("detect --json: %v", err)
	}
	var detected struct {
		RunID   string `json:"run_id"`
		Summary struct {
			EventCount int `json:"event_count"`
			Samples    int `json:"samples"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &detected); err != nil {
		t.Fatalf("decode detect json: %v\n%s", err, out)
	}
	if detected.Summary.EventCount != 1 || detected.Summary.Samples != 1200 || detected.RunID == "" {
		t.Fatalf("unexpected detect json: %+v", detected)
	}

	out, _, err = runCLI(t, []string{"runs", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("runs --json: %v", err)
	}
	var runs []struct {
		ID     string `json:"id"`
		Kind   string `json:"kind"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs json: %v\n%s", err, out)
	}
	if len(runs) != 4 {
		t.Fatalf("expected 4 runs, got %+v", runs)
	}
	for _, run := range runs {
		if run.Status != "completed" {
			t.Fatalf("expected completed runs, got %+v", runs)
		}
	}

	out, _, err = runCLI(t, []string{"runs", "--kind", "detect"}, env.configPath)
	if err != nil {
		t.Fatalf("runs --kind: %v", err)
	}
	requireContains(t, out, "detect")
	if strings.Contains(out, "merge_spectra") {
		t.Fatalf("expected only detect runs, got:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"runs", "show", detected.RunID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	requireContains(t, out, "Run "+detected.RunID)
	requireContains(t, out, "Kind:      detect")

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "[OK] 2 files across 1 days")
	requireContains(t, out, "4 completed, 0 failed, 0 running")
}

func TestDetectBeforeMerge(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"detect"}, env.configPath)
	if err == nil {
		t.Fatal("expected detect without merged spectra to fail")
	}
	requireContains(t, err.Error(), "barrel merge spectra")
}

func TestMergeRejectsUnknownKind(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"merge", "housekeeping"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown kind to fail")
	}
	requireContains(t, err.Error(), "unknown product kind")
}

func TestRunsRejectsUnknownKind(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"runs", "--kind", "rip"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown run kind to fail")
	}
}
