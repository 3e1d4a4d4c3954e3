package config

import (
	"fmt"
	"os"
	"strings"

	"barrel/internal/ingest"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCampaign()
	c.Detection.DetectChannel = strings.TrimSpace(c.Detection.DetectChannel)
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("BARREL_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.MergedDir) == "" {
		c.Paths.MergedDir = defaultMergedDir
	}
	if c.Paths.MergedDir, err = expandPath(c.Paths.MergedDir); err != nil {
		return fmt.Errorf("paths.merged_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile); c.Metrics.Textfile != "" {
		if c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile); err != nil {
			return fmt.Errorf("metrics.textfile: %w", err)
		}
	}
	if c.Logging.File = strings.TrimSpace(c.Logging.File); c.Logging.File != "" {
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCampaign() {
	c.Campaign.Name = strings.TrimSpace(c.Campaign.Name)
	if c.Campaign.Name == "" {
		c.Campaign.Name = defaultCampaignName
	}
	payloads := make([]string, 0, len(c.Campaign.Payloads))
	for _, id := range c.Campaign.Payloads {
		if id = ingest.NormalizePayload(id); id != "" {
			payloads = append(payloads, id)
		}
	}
	c.Campaign.Payloads = payloads
	c.Campaign.FlightDates = trimList(c.Campaign.FlightDates)
	c.Campaign.EphemerisColumns = trimList(c.Campaign.EphemerisColumns)
	if len(c.Campaign.EphemerisColumns) == 0 {
		c.Campaign.EphemerisColumns = ingest.KindEphemeris.DefaultColumns()
	}
	c.Campaign.SpectraColumns = trimList(c.Campaign.SpectraColumns)
	if len(c.Campaign.SpectraColumns) == 0 {
		c.Campaign.SpectraColumns = ingest.KindSpectra.DefaultColumns()
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "pretty", "text":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
