package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/clinicdash/internal/appointment"
	"github.com/hargabyte/clinicdash/internal/dataset"
	"github.com/hargabyte/clinicdash/internal/output"
)

var validateInput string

// validateCmd checks a snapshot without computing reports
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an appointment snapshot",
	Long: `Validate every record of an appointment snapshot.

All malformed records are reported with their position and field: missing
or mistyped fields, unparseable dates, negative amounts and unknown
statuses. The command exits non-zero when any record is rejected.`,
	Example: `  clinicdash validate --input export.csv
  clinicdash validate -i snapshot.db --format json`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Snapshot file (.json, .csv, .db, .sqlite)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	result := &output.ValidateOutput{Path: validateInput}

	appts, err := dataset.Load(cmd.Context(), validateInput)
	var ve *dataset.ValidationError
	switch {
	case errors.As(err, &ve):
		for _, p := range ve.Problems {
			result.Problems = append(result.Problems, p.String())
		}
	case err != nil:
		return err
	default:
		result.Valid = true
		result.Records = len(appts)
		result.Patients = appointment.PatientCount(appts)
		if first, last, ok := appointment.DateSpan(appts); ok {
			result.FirstDate = first.String()
			result.LastDate = last.String()
		}
	}

	if err := writeValidation(cmd, result); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("%s: %d invalid record field(s)", validateInput, len(result.Problems))
	}
	return nil
}

func writeValidation(cmd *cobra.Command, result *output.ValidateOutput) error {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.FormatToWriter(cmd.OutOrStdout(), result)
}
