package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"barrel/internal/detect"
	"barrel/internal/ingest"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	MergedDir string `toml:"merged_dir"`
	StateDir  string `toml:"state_dir"`
}

// Campaign describes one paired-balloon flight.
type Campaign struct {
	Name             string   `toml:"name"`
	Payloads         []string `toml:"payloads"`
	FlightDates      []string `toml:"flight_dates"`
	EphemerisColumns []string `toml:"ephemeris_columns"`
	SpectraColumns   []string `toml:"spectra_columns"`
}

// Merge contains the nearest-timestamp tolerances per product.
type Merge struct {
	EphemerisToleranceSeconds float64 `toml:"ephemeris_tolerance_seconds"`
	SpectraToleranceSeconds   float64 `toml:"spectra_tolerance_seconds"`
}

// Detection contains microburst detection parameters.
type Detection struct {
	BaselineWidthMin  float64 `toml:"baseline_width_min"`
	BaselineStdThresh float64 `toml:"baseline_std_thresh"`
	CorrelationWidthS float64 `toml:"correlation_width_s"`
	CorrelationThresh float64 `toml:"correlation_thresh"`
	DetectChannel     string  `toml:"detect_channel"`
	TimeRangeStart    string  `toml:"time_range_start"`
	TimeRangeEnd      string  `toml:"time_range_end"`
}

// Report contains consumer-side summary settings.
type Report struct {
	MaxEvents int `toml:"max_events"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for barrel.
//
// Configuration sections by subsystem:
//   - Paths: input exports, merged products and the run ledger
//   - Campaign: payload pair, flight days and product columns
//   - Merge: alignment tolerances
//   - Detection: correlation and baseline windows and thresholds
//   - Report: summary limits
//   - Logging: log format and level
//   - Metrics: Prometheus textfile output
type Config struct {
	Paths     Paths     `toml:"paths"`
	Campaign  Campaign  `toml:"campaign"`
	Merge     Merge     `toml:"merge"`
	Detection Detection `toml:"detection"`
	Report    Report    `toml:"report"`
	Logging   Logging   `toml:"logging"`
	Metrics   Metrics   `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("barrel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.MergedDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CatalogPath returns the location of the run ledger database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.StateDir, "runs.db")
}

// MergedPath returns the merged product file for a kind.
func (c *Config) MergedPath(kind ingest.Kind) string {
	suffix := "ephemeris"
	if kind == ingest.KindSpectra {
		suffix = "fast_spectra"
	}
	return filepath.Join(c.Paths.MergedDir, fmt.Sprintf("%s_merged_%s.csv", c.Campaign.Name, suffix))
}

// Columns returns the configured variables for a kind.
func (c *Config) Columns(kind ingest.Kind) []string {
	if kind == ingest.KindSpectra {
		return append([]string(nil), c.Campaign.SpectraColumns...)
	}
	return append([]string(nil), c.Campaign.EphemerisColumns...)
}

// Tolerance returns the merge tolerance for a kind.
func (c *Config) Tolerance(kind ingest.Kind) time.Duration {
	seconds := c.Merge.EphemerisToleranceSeconds
	if kind == ingest.KindSpectra {
		seconds = c.Merge.SpectraToleranceSeconds
	}
	return time.Duration(seconds * float64(time.Second))
}

// DetectConfig converts the [detection] section into detector parameters.
func (c *Config) DetectConfig() (detect.Config, error) {
	out := detect.Config{
		BaselineWidthMin:  c.Detection.BaselineWidthMin,
		BaselineStdThresh: c.Detection.BaselineStdThresh,
		CorrelationWidthS: c.Detection.CorrelationWidthS,
		CorrelationThresh: c.Detection.CorrelationThresh,
		DetectChannel:     c.Detection.DetectChannel,
	}
	tr, err := ParseTimeRange(c.Detection.TimeRangeStart, c.Detection.TimeRangeEnd)
	if err != nil {
		return detect.Config{}, err
	}
	out.TimeRange = tr
	return out, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
