package workflow

import (
	"context"
	"log/slog"
	"time"

	"barrel/internal/catalog"
	"barrel/internal/config"
	"barrel/internal/logging"
	"barrel/internal/metrics"
)

// staleRunAge is how long a ledger entry may stay running before the next
// invocation marks it abandoned.
const staleRunAge = 12 * time.Hour

// Progress reports per-file loading to interactive callers.
type Progress struct {
	Kind    string
	Day     string
	Payload string
	Done    int
	Total   int
}

// ProgressFunc receives Progress updates. It is called synchronously.
type ProgressFunc func(Progress)

// Runner coordinates merge and detection runs for one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  *catalog.Store
	metrics  *metrics.Recorder
	progress ProgressFunc
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithMetrics installs a metrics recorder. Without one nothing is counted.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Runner) { r.metrics = rec }
}

// New constructs a Runner. store may be nil, in which case runs are not
// recorded.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "workflow"),
		catalog: store,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) report(p Progress) {
	if r.progress != nil {
		r.progress(p)
	}
}

// begin opens a ledger entry, sweeping abandoned ones first.
func (r *Runner) begin(ctx context.Context, kind catalog.Kind, params any) (string, error) {
	if r.catalog == nil {
		return "", nil
	}
	if n, err := r.catalog.AbandonStale(ctx, staleRunAge); err != nil {
		r.logger.Warn("sweep stale runs failed", logging.Error(err))
	} else if n > 0 {
		r.logger.Warn("marked abandoned runs failed", logging.Int("count", n))
	}
	run, err := r.catalog.Begin(ctx, kind, r.cfg.Campaign.Name, params)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (r *Runner) complete(ctx context.Context, id string, outcome catalog.Outcome) {
	if r.catalog == nil || id == "" {
		return
	}
	if err := r.catalog.Complete(ctx, id, outcome); err != nil {
		r.logger.Warn("record run completion failed", logging.String(logging.FieldRunID, id), logging.Error(err))
	}
}

func (r *Runner) fail(id string, cause error) {
	if r.catalog == nil || id == "" {
		return
	}
	// The caller's context may already be cancelled; the ledger still needs
	// the outcome.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.catalog.Fail(ctx, id, cause); err != nil {
		r.logger.Warn("record run failure failed", logging.String(logging.FieldRunID, id), logging.Error(err))
	}
}

func (r *Runner) flushMetrics() {
	if r.metrics == nil || r.cfg.Metrics.Textfile == "" {
		return
	}
	if err := r.metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		r.logger.Warn("metrics textfile write failed", logging.Error(err))
	}
}

func (r *Runner) observe(stage string, start time.Time) {
	r.metrics.ObserveStage(stage, time.Since(start))
}
