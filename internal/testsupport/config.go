package testsupport

import (
	"path/filepath"
	"testing"

	"barrel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.MergedDir = filepath.Join(base, "merged_data")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Campaign.FlightDates = []string{"20150825"}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPayloads overrides the campaign payload pair.
func WithPayloads(ids ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Campaign.Payloads = append([]string(nil), ids...)
	}
}

// WithFlightDates overrides the campaign flight days.
func WithFlightDates(days ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Campaign.FlightDates = append([]string(nil), days...)
	}
}

// WithDetection mutates the [detection] section.
func WithDetection(fn func(*config.Detection)) ConfigOption {
	return func(b *configBuilder) {
		fn(&b.cfg.Detection)
	}
}

// WithMetricsTextfile enables the Prometheus textfile export under the base
// directory.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "barrel.prom")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
