package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"barrel/internal/fault"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCampaign(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Report.MaxEvents < 0 {
		return errors.New("report.max_events must be >= 0")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("paths.data_dir is required. Set BARREL_DATA_DIR or edit %s (create with 'barrel config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateCampaign() error {
	if len(c.Campaign.Payloads) != 2 {
		return fault.Configuration("campaign.payloads", strings.Join(c.Campaign.Payloads, ","), 2, len(c.Campaign.Payloads), "a campaign pairs exactly two payloads")
	}
	if c.Campaign.Payloads[0] == c.Campaign.Payloads[1] {
		return fault.Invalid("campaign.payloads", fmt.Sprintf("lists %s twice", c.Campaign.Payloads[0]))
	}
	for _, day := range c.Campaign.FlightDates {
		if _, err := time.Parse("20060102", day); err != nil {
			return fault.Invalid("campaign.flight_dates", fmt.Sprintf("%q is not YYYYMMDD", day))
		}
	}
	if strings.ContainsAny(c.Campaign.Name, `/\`) {
		return fault.Invalid("campaign.name", "must not contain path separators")
	}
	return nil
}

func (c *Config) validateMerge() error {
	if c.Merge.EphemerisToleranceSeconds < 0 {
		return errors.New("merge.ephemeris_tolerance_seconds must be >= 0")
	}
	if c.Merge.SpectraToleranceSeconds < 0 {
		return errors.New("merge.spectra_tolerance_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateDetection() error {
	cfg, err := c.DetectConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if c.Detection.CorrelationThresh < -1 || c.Detection.CorrelationThresh > 1 {
		return errors.New("detection.correlation_thresh must be between -1 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
