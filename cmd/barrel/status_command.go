package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"barrel/internal/catalog"
	"barrel/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, readiness checks and recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Campaign", colorize))
			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found; defaults in use)"
			}
			lines = append(lines,
				renderStatusLine("Config", statusInfo, source, colorize),
				renderStatusLine("Campaign", statusInfo, cfg.Campaign.Name, colorize),
				renderStatusLine("Payloads", statusInfo, strings.Join(cfg.Campaign.Payloads, ", "), colorize),
				renderStatusLine("Flight days", statusInfo, strings.Join(cfg.Campaign.FlightDates, ", "), colorize),
			)

			lines = append(lines, "", renderSectionHeader("Checks", colorize))
			for _, result := range preflight.RunAll(commandCtx(cmd), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "", renderSectionHeader("Runs", colorize))
			err = ctx.withCatalog(commandCtx(cmd), func(store *catalog.Store) error {
				counts, err := store.Counts(commandCtx(cmd))
				if err != nil {
					return err
				}
				lines = append(lines, renderStatusLine("Ledger", statusInfo, fmt.Sprintf("%d completed, %d failed, %d running",
					counts[catalog.StatusCompleted], counts[catalog.StatusFailed], counts[catalog.StatusRunning]), colorize))
				for _, kind := range []catalog.Kind{catalog.KindMergeEphemeris, catalog.KindMergeSpectra, catalog.KindDetect} {
					run, err := store.Latest(commandCtx(cmd), kind)
					if err != nil {
						return err
					}
					if run == nil {
						lines = append(lines, renderStatusLine(string(kind), statusWarn, "never completed", colorize))
						continue
					}
					msg := fmt.Sprintf("%s rows, %s (%s)", humanize.Comma(int64(run.Rows)), humanize.Time(run.FinishedAt), shortID(run.ID))
					lines = append(lines, renderStatusLine(string(kind), statusOK, msg, colorize))
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
