package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"barrel/internal/config"
	"barrel/internal/detect"
	"barrel/internal/ingest"
	"barrel/internal/timeseries"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set paths.data_dir (or export BARREL_DATA_DIR) to the directory holding the payload exports.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and show the resolved campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			detectCfg, err := cfg.DetectConfig()
			if err != nil {
				return fmt.Errorf("detection settings: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Campaign %s: payloads %s, %d flight day(s)\n",
				cfg.Campaign.Name, strings.Join(cfg.Campaign.Payloads, "/"), len(cfg.Campaign.FlightDates))
			fmt.Fprintln(out, renderTable("Products", []tableColumn{
				left("Product"), left("Columns"), right("Tolerance"), left("Merged file"),
			}, [][]string{
				productRow(cfg, ingest.KindEphemeris),
				productRow(cfg, ingest.KindSpectra),
			}))

			rangeText := "entire flight"
			if tr := detectCfg.TimeRange; tr != nil {
				rangeText = timeseries.FormatTime(tr.Start) + " to " + timeseries.FormatTime(tr.End)
			}
			fmt.Fprintf(out, "Detection on %q: correlation %d samples (> %.2f), baseline %d samples (> %.2f sigma), range %s\n",
				detectCfg.DetectChannel,
				detect.WindowSamples(detectCfg.CorrelationWidth()), detectCfg.CorrelationThresh,
				detect.WindowSamples(detectCfg.BaselineWidth()), detectCfg.BaselineStdThresh,
				rangeText,
			)
			fmt.Fprintf(out, "Run ledger: %s, metrics textfile: %s\n", cfg.CatalogPath(), yesNo(cfg.Metrics.Textfile != ""))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func productRow(cfg *config.Config, kind ingest.Kind) []string {
	return []string{
		kind.String(),
		strings.Join(cfg.Columns(kind), ", "),
		cfg.Tolerance(kind).String(),
		filepath.Base(cfg.MergedPath(kind)),
	}
}
