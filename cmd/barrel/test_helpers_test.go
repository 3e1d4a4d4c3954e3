package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"barrel/internal/config"
	"barrel/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("BARREL_DATA_DIR", "")
	t.Setenv("NO_COLOR", "1")

	configPath := filepath.Join(homeDir, ".config", "barrel", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

// writeExports writes one flight day of ephemeris and fast spectra for both
// payloads, with a coincident burst at spectra sample 400.
func (e *cliTestEnv) writeExports(t *testing.T) {
	t.Helper()
	dir := e.cfg.Paths.DataDir
	day := e.cfg.Campaign.FlightDates[0]
	testsupport.WriteExport(t, dir, testsupport.EphemerisExport("3G", day, 0, 10))
	testsupport.WriteExport(t, dir, testsupport.EphemerisExport("3F", day, 1, 10))
	signal := testsupport.BurstSignal(1200, 400, 40, 100)
	testsupport.WriteExport(t, dir, testsupport.SpectraExport("3G", day, 0, signal))
	testsupport.WriteExport(t, dir, testsupport.SpectraExport("3F", day, 10*time.Millisecond, signal))
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
merged_dir = %q
state_dir = %q

[campaign]
flight_dates = [%q]

[detection]
baseline_width_min = 0.05

[logging]
level = "warn"
`,
		cfg.Paths.DataDir,
		cfg.Paths.MergedDir,
		cfg.Paths.StateDir,
		cfg.Campaign.FlightDates[0],
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
