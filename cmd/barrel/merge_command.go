package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"barrel/internal/ingest"
	"barrel/internal/preflight"
	"barrel/internal/workflow"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var skipChecks bool

	cmd := &cobra.Command{
		Use:       "merge [ephemeris|spectra|all]",
		Short:     "Align both payloads' exports into merged products",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"ephemeris", "spectra", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseMergeKinds(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !skipChecks {
				checks := []preflight.Result{
					preflight.CheckDirectoryAccess("Data directory", cfg.Paths.DataDir, preflight.AccessRead),
					preflight.CheckDirectoryAccess("Merged directory", cfg.Paths.MergedDir, preflight.AccessReadWrite),
				}
				if failed := preflight.Summarize(checks); failed != "" {
					return fmt.Errorf("preflight failed: %s", failed)
				}
			}

			var opts []workflow.Option
			var bar *progressBar
			if !asJSON && isTerminal(cmd.ErrOrStderr()) {
				bar = &progressBar{out: cmd.ErrOrStderr()}
				opts = append(opts, workflow.WithProgress(bar.update))
			}

			var results []*workflow.MergeResult
			err = ctx.withRunner(cmd, opts, func(runner *workflow.Runner) error {
				for _, kind := range kinds {
					bar.reset()
					result, err := runner.Merge(commandCtx(cmd), kind)
					bar.finish()
					if err != nil {
						return fmt.Errorf("merge %s: %w", kind, err)
					}
					results = append(results, result)
					if !asJSON {
						printMergeResult(cmd.OutOrStdout(), result)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, results)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip directory preflight checks")
	return cmd
}

func parseMergeKinds(args []string) ([]ingest.Kind, error) {
	if len(args) == 0 || strings.EqualFold(strings.TrimSpace(args[0]), "all") {
		return append([]ingest.Kind(nil), ingest.Kinds...), nil
	}
	kind, err := ingest.ParseKind(args[0])
	if err != nil {
		return nil, err
	}
	return []ingest.Kind{kind}, nil
}

func printMergeResult(out io.Writer, result *workflow.MergeResult) {
	fmt.Fprintf(out, "Merged %s: %s rows from %d day(s) -> %s (%s)\n",
		result.Kind,
		humanize.Comma(int64(result.Rows)),
		len(result.Days),
		result.OutputPath,
		humanize.Bytes(uint64(result.Bytes)),
	)
	for _, day := range result.Days {
		line := fmt.Sprintf("  %s: %s rows, %s unmatched", day.Day, humanize.Comma(int64(day.Rows)), humanize.Comma(int64(day.Unmatched)))
		dropped := 0
		for _, n := range day.Dropped {
			dropped += n
		}
		if dropped > 0 {
			line += fmt.Sprintf(", %s dropped on load", humanize.Comma(int64(dropped)))
		}
		fmt.Fprintln(out, line)
	}
}

// progressBar adapts workflow progress callbacks to a terminal bar. A nil
// *progressBar is a no-op.
type progressBar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (p *progressBar) update(event workflow.Progress) {
	if p == nil {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(event.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprint(p.out, "\n") }),
		)
	}
	p.bar.Describe(fmt.Sprintf("%s %s %s", event.Kind, event.Payload, event.Day))
	_ = p.bar.Set(event.Done)
}

func (p *progressBar) reset() {
	if p != nil {
		p.bar = nil
	}
}

func (p *progressBar) finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}
