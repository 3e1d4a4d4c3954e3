package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"barrel/internal/fault"
)

// Kind classifies a run.
type Kind string

const (
	KindMergeEphemeris Kind = "merge_ephemeris"
	KindMergeSpectra   Kind = "merge_spectra"
	KindDetect         Kind = "detect"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one ledger entry.
type Run struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Campaign     string    `json:"campaign"`
	Status       Status    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitzero"`
	Rows         int       `json:"rows"`
	OutputPath   string    `json:"output_path,omitempty"`
	OutputSHA256 string    `json:"output_sha256,omitempty"`
	ParamsJSON   string    `json:"params,omitempty"`
	SummaryJSON  string    `json:"summary,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
}

// Duration returns the run time, or zero while still running.
func (r *Run) Duration() time.Duration {
	if r == nil || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome is what a successful run produced.
type Outcome struct {
	Rows         int
	OutputPath   string
	OutputSHA256 string
	Summary      any
}

// ListOptions filters List.
type ListOptions struct {
	Limit int
	Kind  Kind
}

// storedTimeLayout is fixed width so timestamps sort lexically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const abandonedMessage = "abandoned: process exited before the run finished"

const runColumns = "id, kind, campaign, status, started_at, finished_at, rows, output_path, output_sha256, params_json, summary_json, error_message"

// Begin records a new running entry. params is stored as JSON.
func (s *Store) Begin(ctx context.Context, kind Kind, campaign string, params any) (*Run, error) {
	paramsJSON, err := marshalOptional(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	run := &Run{
		ID:         uuid.NewString(),
		Kind:       kind,
		Campaign:   campaign,
		Status:     StatusRunning,
		StartedAt:  time.Now().UTC(),
		ParamsJSON: paramsJSON,
	}
	_, err = s.execWithRetry(ctx,
		`INSERT INTO runs (id, kind, campaign, status, started_at, params_json) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), run.Campaign, string(run.Status),
		run.StartedAt.Format(storedTimeLayout), nullableString(run.ParamsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Complete marks a running entry completed.
func (s *Store) Complete(ctx context.Context, id string, outcome Outcome) error {
	summaryJSON, err := marshalOptional(outcome.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return s.finish(ctx, id,
		`UPDATE runs SET status = ?, finished_at = ?, rows = ?, output_path = ?, output_sha256 = ?, summary_json = ?
         WHERE id = ? AND status = ?`,
		string(StatusCompleted), time.Now().UTC().Format(storedTimeLayout), outcome.Rows,
		nullableString(outcome.OutputPath), nullableString(outcome.OutputSHA256), nullableString(summaryJSON),
		id, string(StatusRunning),
	)
}

// Fail marks a running entry failed with cause's message.
func (s *Store) Fail(ctx context.Context, id string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return s.finish(ctx, id,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE id = ? AND status = ?`,
		string(StatusFailed), time.Now().UTC().Format(storedTimeLayout), msg, id, string(StatusRunning),
	)
}

func (s *Store) finish(ctx context.Context, id, query string, args ...any) error {
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, getErr := s.Get(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("run %s is no longer running", id)
	}
	return nil
}

// Get fetches a run by id or unique id prefix.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty run id", fault.ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id = ? DESC LIMIT 2`,
		id, escapeLike(id)+"%", id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: run %s", fault.ErrNotFound, id)
	case runs[0].ID == id || len(runs) == 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Run, error) {
	ctx = ensureContext(ctx)
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if opts.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(opts.Kind))
	}
	query += ` ORDER BY started_at DESC, id LIMIT ?`
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Latest returns the most recent completed run of kind, or nil.
func (s *Store) Latest(ctx context.Context, kind Kind) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs WHERE kind = ? AND status = ? ORDER BY started_at DESC LIMIT 1`,
		string(kind), string(StatusCompleted))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s run: %w", kind, err)
	}
	return run, nil
}

// Counts returns the number of runs per status.
func (s *Store) Counts(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	defer rows.Close()
	out := map[Status]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("count runs: %w", err)
		}
		out[Status(status)] = n
	}
	return out, rows.Err()
}

// AbandonStale fails running entries started more than olderThan ago and
// returns how many were swept.
func (s *Store) AbandonStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(storedTimeLayout)
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE status = ? AND started_at < ?`,
		string(StatusFailed), time.Now().UTC().Format(storedTimeLayout), abandonedMessage,
		string(StatusRunning), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("abandon stale runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("abandon stale runs: %w", err)
	}
	return int(n), nil
}

func scanRuns(rows *sql.Rows) ([]*Run, error) {
	defer rows.Close()
	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run                                   Run
		kind, status, startedRaw              string
		finishedRaw, outputPath, outputSHA256 sql.NullString
		params, summary, errorMessage         sql.NullString
	)
	if err := scanner.Scan(
		&run.ID, &kind, &run.Campaign, &status, &startedRaw, &finishedRaw, &run.Rows,
		&outputPath, &outputSHA256, &params, &summary, &errorMessage,
	); err != nil {
		return nil, err
	}
	run.Kind = Kind(kind)
	run.Status = Status(status)
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	run.OutputPath = outputPath.String
	run.OutputSHA256 = outputSHA256.String
	run.ParamsJSON = params.String
	run.SummaryJSON = summary.String
	run.ErrorMessage = errorMessage.String
	return &run, nil
}

func parseTime(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func marshalOptional(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
