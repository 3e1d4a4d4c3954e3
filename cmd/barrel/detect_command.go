package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"barrel/internal/geodesy"
	"barrel/internal/report"
	"barrel/internal/timeseries"
	"barrel/internal/workflow"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var overrides workflow.DetectOverrides
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Find coincident microbursts in the merged fast spectra",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *workflow.DetectResult
			err := ctx.withRunner(cmd, nil, func(runner *workflow.Runner) error {
				var err error
				result, err = runner.Detect(commandCtx(cmd), overrides)
				return err
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			printDetection(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&overrides.Channel, "channel", "", "Detection channel substring (overrides detection.detect_channel)")
	cmd.Flags().StringVar(&overrides.Start, "start", "", "Inclusive range start, e.g. 20150826T04:30:00")
	cmd.Flags().StringVar(&overrides.End, "end", "", "Inclusive range end")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the summary as JSON")
	return cmd
}

func printDetection(out io.Writer, result *workflow.DetectResult) {
	s := result.Summary
	fmt.Fprintf(out, "Detection over %s / %s\n", s.Channels[0].Channel, s.Channels[1].Channel)
	if s.Samples == 0 {
		fmt.Fprintln(out, "  No samples in range")
		return
	}
	fmt.Fprintf(out, "  Samples:      %s (%s to %s)\n", humanize.Comma(int64(s.Samples)), timeseries.FormatTime(s.Start), timeseries.FormatTime(s.End))
	fmt.Fprintf(out, "  Windows:      correlation %d, baseline %d samples\n", s.CorrelationWindow, s.BaselineWindow)
	fmt.Fprintf(out, "  Thresholds:   correlation > %.2f, significance > %.2f\n", s.Thresholds.Correlation, s.Thresholds.Significance)
	for _, ch := range s.Channels {
		fmt.Fprintf(out, "  %-13s max %.2f, p99 %.2f, %s above\n", ch.Channel+":", ch.Max, ch.P99, humanize.Comma(int64(ch.Above)))
	}
	fmt.Fprintf(out, "  Coincident:   %s samples in %d event(s)\n", humanize.Comma(int64(s.Coincident)), s.EventCount)
	if len(s.Events) == 0 {
		return
	}
	fmt.Fprintln(out, renderEventTable(s))
	if s.EventCount > len(s.Events) {
		fmt.Fprintf(out, "Showing %d of %d events (report.max_events)\n", len(s.Events), s.EventCount)
	}
}

func renderEventTable(s *report.Summary) string {
	columns := []tableColumn{
		right("#"), left("Start"), right("Duration"), right("Samples"),
		right("Corr"), right("Sig " + s.Channels[0].Channel), right("Sig " + s.Channels[1].Channel),
		right("Sep km"),
	}
	rows := make([][]string, 0, len(s.Events))
	for i, e := range s.Events {
		sep := "-"
		if v, ok := e.Labels[geodesy.SeparationColumn]; ok {
			sep = strconv.FormatFloat(v, 'f', 1, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			timeseries.FormatTime(e.Start),
			e.Duration().String(),
			strconv.Itoa(e.Samples),
			strconv.FormatFloat(e.PeakCorrelation, 'f', 3, 64),
			strconv.FormatFloat(e.PeakSignificance[0], 'f', 2, 64),
			strconv.FormatFloat(e.PeakSignificance[1], 'f', 2, 64),
			sep,
		})
	}
	return renderTable("Events", columns, rows)
}
