package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hargabyte/clinicdash/internal/appointment"
	"github.com/hargabyte/clinicdash/internal/dataset"
	"github.com/hargabyte/clinicdash/internal/output"
	"github.com/hargabyte/clinicdash/internal/report"
)

var (
	reportInput  string
	reportOutput string
	reportOnly   []string
)

// reportCmd is the parent command for all report subcommands
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute dashboard reports from an appointment snapshot",
	Long: `Compute the dashboard's aggregate views from an appointment snapshot.

Each subcommand prints one chart: its title, chart type, axis titles,
categories and series. 'report all' prints every chart plus a summary
header. Without a subcommand the available reports are listed.

Input (first that applies):
  --input PATH        JSON, CSV or SQLite snapshot
  dataset.path        from config or CLINICDASH_DATASET
  generated fixture   from the generator settings

Examples:
  clinicdash report
  clinicdash report all --input snapshot.db
  clinicdash report balance-distribution --format text
  clinicdash report all --format json -o dashboard.json`,
	Args: cobra.NoArgs,
	RunE: runReportList,
}

// reportAllCmd prints the full dashboard
var reportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Compute every report",
	Long: `Compute the dashboard: a summary header plus every report, or only the
reports named with --only, in the order given.`,
	Example: `  clinicdash report all --input snapshot.db
  clinicdash report all --only status-breakdown,patient-retention --format text`,
	Args: cobra.NoArgs,
	RunE: runReportAll,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.AddCommand(reportAllCmd)
	for _, d := range report.Catalog {
		reportCmd.AddCommand(newChartCmd(d))
	}

	// Report-level flags (inherited by subcommands)
	reportCmd.PersistentFlags().StringVarP(&reportInput, "input", "i", "", "Snapshot file (.json, .csv, .db, .sqlite)")
	reportCmd.PersistentFlags().StringVarP(&reportOutput, "output", "o", "", "Output file path (default: stdout)")

	reportAllCmd.Flags().StringSliceVar(&reportOnly, "only", nil, "Comma-separated report IDs to include (default: all)")
}

// newChartCmd builds the subcommand for one catalogue entry.
func newChartCmd(d report.Definition) *cobra.Command {
	return &cobra.Command{
		Use:   d.ID,
		Short: d.Title,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appts, _, err := loadAppointments(cmd)
			if err != nil {
				return err
			}
			return outputReportData(cmd, d.Build(appts))
		},
	}
}

// runReportList lists the catalogue
func runReportList(cmd *cobra.Command, args []string) error {
	list := &output.CatalogOutput{}
	for _, d := range report.Catalog {
		list.Reports = append(list.Reports, output.CatalogEntry{
			ID:    d.ID,
			Title: d.Title,
			Type:  d.Type.String(),
		})
	}
	return outputReportData(cmd, list)
}

func runReportAll(cmd *cobra.Command, args []string) error {
	defs := make([]report.Definition, 0, len(reportOnly))
	for _, id := range reportOnly {
		d, err := report.Lookup(strings.TrimSpace(id))
		if err != nil {
			return err
		}
		defs = append(defs, d)
	}

	appts, source, err := loadAppointments(cmd)
	if err != nil {
		return err
	}
	dash := report.BuildDashboard(appts, defs...)
	dash.Header.Source = source

	log(cmd).Debug().
		Str("run_id", dash.Header.RunID).
		Int("charts", len(dash.Charts)).
		Msg("dashboard built")
	return outputReportData(cmd, dash)
}

// loadAppointments reads --input, then dataset.path, and otherwise generates
// a fixture. It also returns a description of the source.
func loadAppointments(cmd *cobra.Command) ([]appointment.Appointment, string, error) {
	ctx := cmd.Context()

	path := reportInput
	if path == "" {
		path = cfg.Dataset.Path
	}
	if path != "" {
		appts, err := dataset.Load(ctx, path)
		if err != nil {
			return nil, "", err
		}
		return appts, path, nil
	}

	appts, seed, err := generateFixture(ctx, cfg.Generator)
	if err != nil {
		return nil, "", err
	}
	return appts, fmt.Sprintf("generated (seed %d)", seed), nil
}

// outputReportData writes data in the configured format to --output or stdout
func outputReportData(cmd *cobra.Command, data any) error {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if reportOutput != "" {
		f, err := os.Create(reportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := formatter.FormatToWriter(out, data); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if reportOutput != "" {
		log(cmd).Info().Str("path", reportOutput).Str("format", format.String()).Msg("report written")
	}
	return nil
}
