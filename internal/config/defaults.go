package config

import "barrel/internal/ingest"

const (
	defaultConfigPath                = "~/.config/barrel/config.toml"
	defaultDataDir                   = "~/barrel/data"
	defaultMergedDir                 = "~/barrel/merged_data"
	defaultStateDir                  = "~/.local/share/barrel"
	defaultCampaignName              = "barrel_3g_3f"
	defaultEphemerisToleranceSeconds = 300
	defaultSpectraToleranceSeconds   = 1
	defaultBaselineWidthMin          = 5
	defaultBaselineStdThresh         = 2
	defaultCorrelationWidthS         = 1
	defaultCorrelationThresh         = 0.8
	defaultDetectChannel             = "FSPC1a"
	defaultReportMaxEvents           = 20
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			MergedDir: defaultMergedDir,
			StateDir:  defaultStateDir,
		},
		Campaign: Campaign{
			Name:             defaultCampaignName,
			Payloads:         []string{"3G", "3F"},
			FlightDates:      []string{"20150825", "20150826"},
			EphemerisColumns: ingest.KindEphemeris.DefaultColumns(),
			SpectraColumns:   ingest.KindSpectra.DefaultColumns(),
		},
		Merge: Merge{
			EphemerisToleranceSeconds: defaultEphemerisToleranceSeconds,
			SpectraToleranceSeconds:   defaultSpectraToleranceSeconds,
		},
		Detection: Detection{
			BaselineWidthMin:  defaultBaselineWidthMin,
			BaselineStdThresh: defaultBaselineStdThresh,
			CorrelationWidthS: defaultCorrelationWidthS,
			CorrelationThresh: defaultCorrelationThresh,
			DetectChannel:     defaultDetectChannel,
		},
		Report: Report{
			MaxEvents: defaultReportMaxEvents,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
