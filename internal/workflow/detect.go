package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barrel/internal/align"
	"barrel/internal/catalog"
	"barrel/internal/config"
	"barrel/internal/detect"
	"barrel/internal/fault"
	"barrel/internal/geodesy"
	"barrel/internal/ingest"
	"barrel/internal/logging"
	"barrel/internal/report"
	"barrel/internal/tablefile"
)

// DetectOverrides replaces configured detection parameters for one run.
// Empty fields keep the configured value. Start and End must be given
// together.
type DetectOverrides struct {
	Channel string
	Start   string
	End     string
}

// DetectResult describes a completed detection.
type DetectResult struct {
	RunID   string          `json:"run_id,omitempty"`
	Input   string          `json:"input"`
	Config  detect.Config   `json:"-"`
	Result  *detect.Result  `json:"-"`
	Summary *report.Summary `json:"summary"`
}

type detectParams struct {
	Input             string  `json:"input"`
	Channel           string  `json:"detect_channel"`
	BaselineWidthMin  float64 `json:"baseline_width_min"`
	BaselineStdThresh float64 `json:"baseline_std_thresh"`
	CorrelationWidthS float64 `json:"correlation_width_s"`
	CorrelationThresh float64 `json:"correlation_thresh"`
	Start             string  `json:"start,omitempty"`
	End               string  `json:"end,omitempty"`
}

// Detect runs the microburst detector over the merged fast spectra product.
func (r *Runner) Detect(ctx context.Context, overrides DetectOverrides) (*DetectResult, error) {
	defer r.flushMetrics()
	cfg, err := r.detectConfig(overrides)
	if err != nil {
		return nil, err
	}
	input := r.cfg.MergedPath(ingest.KindSpectra)
	params := detectParams{
		Input:             input,
		Channel:           cfg.DetectChannel,
		BaselineWidthMin:  cfg.BaselineWidthMin,
		BaselineStdThresh: cfg.BaselineStdThresh,
		CorrelationWidthS: cfg.CorrelationWidthS,
		CorrelationThresh: cfg.CorrelationThresh,
	}
	if cfg.TimeRange != nil {
		params.Start = cfg.TimeRange.Start.Format(time.RFC3339Nano)
		params.End = cfg.TimeRange.End.Format(time.RFC3339Nano)
	}
	runID, err := r.begin(ctx, catalog.KindDetect, params)
	if err != nil {
		return nil, fmt.Errorf("record detect run: %w", err)
	}
	logger := r.logger.With(logging.String(logging.FieldRunID, runID), logging.String("channel", cfg.DetectChannel))

	out, err := r.detect(ctx, input, cfg)
	if err != nil {
		r.metrics.Detected("failed", 0)
		logger.Error("detection failed", logging.Error(err))
		r.fail(runID, err)
		return nil, err
	}
	out.RunID = runID
	r.metrics.Detected("completed", out.Summary.Coincident)
	r.complete(ctx, runID, catalog.Outcome{
		Rows:       out.Summary.Samples,
		OutputPath: input,
		Summary:    out.Summary,
	})
	logger.Info("detection complete",
		logging.Int("samples", out.Summary.Samples),
		logging.Int("coincident", out.Summary.Coincident),
		logging.Int("events", out.Summary.EventCount),
	)
	return out, nil
}

func (r *Runner) detectConfig(overrides DetectOverrides) (detect.Config, error) {
	cfg, err := r.cfg.DetectConfig()
	if err != nil {
		return detect.Config{}, err
	}
	if channel := strings.TrimSpace(overrides.Channel); channel != "" {
		cfg.DetectChannel = channel
	}
	start, end := strings.TrimSpace(overrides.Start), strings.TrimSpace(overrides.End)
	if start != "" || end != "" {
		tr, err := config.ParseTimeRange(start, end)
		if err != nil {
			return detect.Config{}, err
		}
		cfg.TimeRange = tr
	}
	if err := cfg.Validate(); err != nil {
		return detect.Config{}, err
	}
	return cfg, nil
}

func (r *Runner) detect(ctx context.Context, input string, cfg detect.Config) (*DetectResult, error) {
	start := time.Now()
	spectra, err := tablefile.Read(input)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil, fault.Wrap(fault.ErrNotFound, "detect", "read merged spectra",
				"run `barrel merge spectra` first", err)
		}
		return nil, err
	}
	r.observe("read_spectra", start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	result, err := detect.Detect(spectra, cfg)
	if err != nil {
		return nil, err
	}
	r.observe("detect", start)

	summary, err := report.Summarize(result, report.Thresholds{
		Significance: cfg.BaselineStdThresh,
		Correlation:  cfg.CorrelationThresh,
	}, r.cfg.Report.MaxEvents)
	if err != nil {
		return nil, err
	}
	r.label(summary, cfg.TimeRange)
	return &DetectResult{Input: input, Config: cfg, Result: result, Summary: summary}, nil
}

// label attaches payload positions and separation from the merged ephemeris
// when that product exists. The ephemeris is held to the same time range as
// the spectra.
func (r *Runner) label(summary *report.Summary, tr *detect.TimeRange) {
	if len(summary.Events) == 0 {
		return
	}
	path := r.cfg.MergedPath(ingest.KindEphemeris)
	ephem, err := tablefile.Read(path)
	if err != nil {
		if !errors.Is(err, fault.ErrNotFound) {
			r.logger.Warn("merged ephemeris unreadable; events left unlabelled", logging.String("path", path), logging.Error(err))
		}
		return
	}
	if !ephem.IsSorted() {
		ephem = ephem.Sort()
	}
	ephem = detect.Restrict(ephem, tr)
	columns := []string{geodesy.SeparationColumn}
	for _, payload := range r.cfg.Campaign.Payloads {
		for _, name := range []string{geodesy.LatitudeColumn, geodesy.LongitudeColumn, geodesy.AltitudeColumn} {
			columns = append(columns, align.PrefixColumn(payload, name))
		}
	}
	summary.Label(ephem, columns, r.cfg.Tolerance(ingest.KindEphemeris))
}
