package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"barrel/internal/catalog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var kind string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded merge and detection runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseRunKind(kind)
			if err != nil {
				return err
			}
			return ctx.withCatalog(commandCtx(cmd), func(store *catalog.Store) error {
				runs, err := store.List(commandCtx(cmd), catalog.ListOptions{Limit: limit, Kind: filter})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, runViews(runs))
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRunTable(runs, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&kind, "kind", "", "Only list runs of this kind (merge_ephemeris, merge_spectra, detect)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output runs as JSON")

	cmd.AddCommand(newRunsShowCommand(ctx))
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(commandCtx(cmd), func(store *catalog.Store) error {
				run, err := lookupRun(commandCtx(cmd), store, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, newRunView(run))
				}
				printRun(cmd.OutOrStdout(), run)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the run as JSON")
	return cmd
}

func lookupRun(ctx context.Context, store *catalog.Store, id string) (*catalog.Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("run id is required")
	}
	return store.Get(ctx, id)
}

func parseRunKind(value string) (catalog.Kind, error) {
	value = strings.TrimSpace(value)
	switch catalog.Kind(value) {
	case "":
		return "", nil
	case catalog.KindMergeEphemeris, catalog.KindMergeSpectra, catalog.KindDetect:
		return catalog.Kind(value), nil
	default:
		return "", fmt.Errorf("unknown run kind %q", value)
	}
}

// runView is the JSON shape of a run with its stored documents inlined.
type runView struct {
	*catalog.Run
	Params   any    `json:"params,omitempty"`
	Summary  any    `json:"summary,omitempty"`
	Duration string `json:"duration,omitempty"`
}

func newRunView(run *catalog.Run) runView {
	view := runView{Run: run}
	if run.ParamsJSON != "" {
		view.Params = rawJSON(run.ParamsJSON)
	}
	if run.SummaryJSON != "" {
		view.Summary = rawJSON(run.SummaryJSON)
	}
	if d := run.Duration(); d > 0 {
		view.Duration = d.Round(time.Millisecond).String()
	}
	return view
}

func runViews(runs []*catalog.Run) []runView {
	out := make([]runView, 0, len(runs))
	for _, run := range runs {
		out = append(out, newRunView(run))
	}
	return out
}

func renderRunTable(runs []*catalog.Run, now time.Time) string {
	columns := []tableColumn{left("ID"), left("Kind"), left("Status"), left("Started"), right("Duration"), right("Rows")}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := "-"
		if d := run.Duration(); d > 0 {
			duration = d.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			shortID(run.ID),
			string(run.Kind),
			string(run.Status),
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			duration,
			humanize.Comma(int64(run.Rows)),
		})
	}
	return renderTable("", columns, rows)
}

func printRun(out io.Writer, run *catalog.Run) {
	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintf(out, "  Kind:      %s\n", run.Kind)
	fmt.Fprintf(out, "  Campaign:  %s\n", run.Campaign)
	fmt.Fprintf(out, "  Status:    %s\n", run.Status)
	fmt.Fprintf(out, "  Started:   %s (%s)\n", run.StartedAt.Format(time.RFC3339), humanize.Time(run.StartedAt))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(out, "  Finished:  %s (%s)\n", run.FinishedAt.Format(time.RFC3339), run.Duration().Round(time.Millisecond))
	}
	fmt.Fprintf(out, "  Rows:      %s\n", humanize.Comma(int64(run.Rows)))
	if run.OutputPath != "" {
		fmt.Fprintf(out, "  Output:    %s\n", run.OutputPath)
	}
	if run.OutputSHA256 != "" {
		fmt.Fprintf(out, "  SHA256:    %s\n", run.OutputSHA256)
	}
	if run.ParamsJSON != "" {
		fmt.Fprintf(out, "  Params:    %s\n", run.ParamsJSON)
	}
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "  Error:     %s\n", run.ErrorMessage)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
