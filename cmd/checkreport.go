package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/23andMe/lintly/api/schemas"
	"github.com/23andMe/lintly/internal/banditreport"
)

// newCheckReportCmd creates the `check-report` command: validate a bandit
// JSON report and optionally gate on its severity counts. Useful as a CI
// step when only the report artifact is available, without a pull request.
func newCheckReportCmd() *cobra.Command {
	var failOn string

	checkCmd := &cobra.Command{
		Use:   "check-report <bandit-report.json>",
		Short: "Validate a bandit JSON report and gate on its findings",
		Long: `Validates the report against bandit's JSON schema, verifies its internal
consistency (the _totals metrics entry must equal the per-file sums, findings
must reference scanned files), and prints a severity/confidence summary.
With --fail-on, exits 1 when any finding rates at or above the threshold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := banditreport.Load(args[0])
			if err != nil {
				printProblems(cmd.ErrOrStderr(), err)
				return err
			}
			if err := banditreport.CheckIntegrity(report); err != nil {
				printProblems(cmd.ErrOrStderr(), err)
				return err
			}

			summary := banditreport.Summarize(report)
			printReportSummary(cmd.OutOrStdout(), report, summary)

			if failOn == "" {
				return nil
			}
			threshold, err := parseSeverity(failOn)
			if err != nil {
				return err
			}
			if n := summary.CountAtOrAbove(threshold); n > 0 {
				color.New(color.FgRed).Fprintf(cmd.OutOrStdout(),
					"✗ %d finding(s) at or above %s severity\n", n, threshold)
				return ErrViolations
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
				"✓ no findings at or above %s severity\n", threshold)
			return nil
		},
	}

	checkCmd.Flags().StringVar(&failOn, "fail-on", "",
		"Fail when findings rate at or above this severity (LOW, MEDIUM, HIGH)")

	return checkCmd
}

func parseSeverity(s string) (schemas.Severity, error) {
	switch schemas.Severity(s) {
	case schemas.SeverityHigh, schemas.SeverityMedium, schemas.SeverityLow:
		return schemas.Severity(s), nil
	}
	return "", fmt.Errorf("invalid --fail-on severity %q (want LOW, MEDIUM or HIGH)", s)
}

// printProblems expands the problem lists carried by validation errors.
func printProblems(w io.Writer, err error) {
	var schemaErr *banditreport.SchemaError
	if errors.As(err, &schemaErr) {
		for _, p := range schemaErr.Problems {
			fmt.Fprintf(w, "  schema: %s\n", p)
		}
	}
	var integrityErr *banditreport.IntegrityError
	if errors.As(err, &integrityErr) {
		for _, p := range integrityErr.Problems {
			fmt.Fprintf(w, "  integrity: %s\n", p)
		}
	}
}

func printReportSummary(w io.Writer, report *schemas.BanditReport, summary banditreport.Summary) {
	fmt.Fprintf(w, "Report generated at %s\n", report.GeneratedAt)
	fmt.Fprintf(w, "Scanned %d file(s), %d lines, %d nosec comment(s)\n",
		summary.Files, summary.LOC, summary.Nosec)

	fmt.Fprintln(w, "Findings by severity:")
	for _, level := range banditreport.SeverityLevels() {
		if n := summary.BySeverity[level]; n > 0 {
			severityColor(level).Fprintf(w, "  %-9s %d\n", level, n)
		}
	}
	fmt.Fprintln(w, "Findings by confidence:")
	for _, level := range banditreport.ConfidenceLevels() {
		if n := summary.ByConfidence[level]; n > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", level, n)
		}
	}
}

func severityColor(s schemas.Severity) *color.Color {
	switch s {
	case schemas.SeverityHigh:
		return color.New(color.FgRed)
	case schemas.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}
