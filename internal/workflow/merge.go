package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"barrel/internal/align"
	"barrel/internal/catalog"
	"barrel/internal/fault"
	"barrel/internal/geodesy"
	"barrel/internal/ingest"
	"barrel/internal/logging"
	"barrel/internal/tablefile"
	"barrel/internal/timeseries"
)

// DaySummary describes one merged flight day.
type DaySummary struct {
	Day       string         `json:"day"`
	Rows      int            `json:"rows"`
	Matched   int            `json:"matched"`
	Unmatched int            `json:"unmatched"`
	Dropped   map[string]int `json:"dropped"`
}

// MergeResult describes a completed merge.
type MergeResult struct {
	RunID      string       `json:"run_id,omitempty"`
	Kind       ingest.Kind  `json:"kind"`
	OutputPath string       `json:"output_path"`
	SHA256     string       `json:"sha256"`
	Bytes      int64        `json:"bytes"`
	Rows       int          `json:"rows"`
	Columns    []string     `json:"columns"`
	Days       []DaySummary `json:"days"`
}

type mergeParams struct {
	Payloads         []string `json:"payloads"`
	FlightDates      []string `json:"flight_dates"`
	Columns          []string `json:"columns"`
	ToleranceSeconds float64  `json:"tolerance_seconds"`
}

// Merge builds the merged product for kind across every configured flight
// day and writes it to the merged directory.
func (r *Runner) Merge(ctx context.Context, kind ingest.Kind) (*MergeResult, error) {
	defer r.flushMetrics()
	tolerance := r.cfg.Tolerance(kind)
	runID, err := r.begin(ctx, mergeRunKind(kind), mergeParams{
		Payloads:         r.cfg.Campaign.Payloads,
		FlightDates:      r.cfg.Campaign.FlightDates,
		Columns:          r.cfg.Columns(kind),
		ToleranceSeconds: tolerance.Seconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("record merge run: %w", err)
	}
	logger := r.logger.With(logging.String(logging.FieldRunID, runID), logging.String(logging.FieldKind, kind.String()))

	result, err := r.merge(ctx, kind, tolerance, logger)
	if err != nil {
		logger.Error("merge failed", logging.Error(err))
		r.fail(runID, err)
		return nil, err
	}
	result.RunID = runID
	r.complete(ctx, runID, catalog.Outcome{
		Rows:         result.Rows,
		OutputPath:   result.OutputPath,
		OutputSHA256: result.SHA256,
		Summary:      result.Days,
	})
	logger.Info("merge complete",
		logging.String("output", result.OutputPath),
		logging.Int("rows", result.Rows),
		logging.Int("days", len(result.Days)),
	)
	return result, nil
}

func (r *Runner) merge(ctx context.Context, kind ingest.Kind, tolerance time.Duration, logger *slog.Logger) (*MergeResult, error) {
	start := time.Now()
	found, err := ingest.Discover(r.cfg.Paths.DataDir, kind, r.cfg.Campaign.FlightDates)
	if err != nil {
		return nil, fault.Wrap(fault.ErrInput, "merge", "discover", "", err)
	}
	days := r.cfg.Campaign.FlightDates
	if len(days) == 0 {
		for day := range found {
			days = append(days, day)
		}
		sort.Strings(days)
	}

	total := 0
	for _, day := range days {
		total += len(found[day])
	}
	if total == 0 {
		return nil, fault.Wrap(fault.ErrNotFound, "merge", "discover",
			fmt.Sprintf("no %s exports for %v under %s", kind, days, r.cfg.Paths.DataDir), nil)
	}

	pairs := make(map[string][]align.Payload, len(days))
	dropped := make(map[string]map[string]int, len(days))
	done := 0
	for _, day := range days {
		files := found[day]
		if len(files) == 0 {
			logger.Warn("no exports for flight day", logging.String(logging.FieldDay, day))
			continue
		}
		for payload := range files {
			if !r.isCampaignPayload(payload) {
				logger.Debug("ignoring export for payload outside campaign", logging.String(logging.FieldPayload, payload), logging.String(logging.FieldDay, day))
			}
		}
		pair := make([]align.Payload, 0, 2)
		dropped[day] = map[string]int{}
		for _, payload := range r.cfg.Campaign.Payloads {
			info, ok := files[payload]
			if !ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			reading, err := ingest.Load(info.Path, kind, r.cfg.Columns(kind))
			if err != nil {
				return nil, err
			}
			done++
			r.report(Progress{Kind: kind.String(), Day: day, Payload: payload, Done: done, Total: total})
			r.metrics.Ingested(kind.String(), reading.Rows, reading.Dropped)
			dropped[day][payload] = reading.Dropped
			logger.Debug("loaded export",
				logging.String(logging.FieldDay, day),
				logging.String(logging.FieldPayload, payload),
				logging.Int("rows", reading.Rows),
				logging.Int("dropped", reading.Dropped),
			)
			pair = append(pair, align.Payload{ID: payload, Table: reading.Table})
		}
		pairs[day] = pair
	}
	r.observe("load_"+kind.String(), start)

	start = time.Now()
	merged, stats, err := align.MergeDays(pairs, tolerance)
	if err != nil {
		return nil, err
	}
	combined, err := align.ConcatDays(merged)
	if err != nil {
		return nil, err
	}
	if kind == ingest.KindEphemeris {
		combined, err = r.appendSeparation(combined)
		if err != nil {
			return nil, err
		}
	}
	r.observe("align_"+kind.String(), start)

	result := &MergeResult{Kind: kind, Rows: combined.Len(), Columns: combined.Columns()}
	for _, day := range sortedDays(stats) {
		st := stats[day]
		r.metrics.Merged(kind.String(), st.Rows, st.Unmatched)
		if st.Unmatched > 0 {
			logger.Warn("rows without a partner sample within tolerance",
				logging.String(logging.FieldDay, day),
				logging.Int("unmatched", st.Unmatched),
				logging.Int("rows", st.Rows),
				logging.Duration("tolerance", tolerance),
			)
		}
		result.Days = append(result.Days, DaySummary{
			Day: day, Rows: st.Rows, Matched: st.Matched, Unmatched: st.Unmatched, Dropped: dropped[day],
		})
	}

	start = time.Now()
	path := r.cfg.MergedPath(kind)
	written, err := tablefile.Write(ctx, path, combined)
	if err != nil {
		return nil, fault.Wrap(fault.ErrTransient, "merge", "write", path, err)
	}
	r.observe("write_"+kind.String(), start)
	result.OutputPath = written.Path
	result.SHA256 = written.SHA256
	result.Bytes = written.Bytes
	return result, nil
}

func (r *Runner) appendSeparation(table *timeseries.Table) (*timeseries.Table, error) {
	a, b := r.cfg.Campaign.Payloads[0], r.cfg.Campaign.Payloads[1]
	return geodesy.AppendSeparation(table, a, b)
}

func (r *Runner) isCampaignPayload(id string) bool {
	for _, p := range r.cfg.Campaign.Payloads {
		if p == id {
			return true
		}
	}
	return false
}

func mergeRunKind(kind ingest.Kind) catalog.Kind {
	if kind == ingest.KindSpectra {
		return catalog.KindMergeSpectra
	}
	return catalog.KindMergeEphemeris
}

func sortedDays[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
