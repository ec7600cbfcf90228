package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <hive>",
		Short: "Check hive structure and report findings",
		Long: `The validate command runs the full integrity check over a hive:
header sanity, the structural cell walk, per-cell checks, and
parent-chain cycle detection. The exit code is nonzero when problems
are found.

Example:
  hivectl validate system.ahv
  hivectl validate system.ahv --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

func runValidate(args []string) error {
	hivePath := args[0]

	printVerbose("Opening hive: %s\n", hivePath)
	h, err := openHive(hivePath, true)
	if err != nil {
		return err
	}

	report, err := h.CheckIntegrity()
	if err != nil {
		return fmt.Errorf("integrity check failed to run: %w", err)
	}
	logger.Debug("integrity check done",
		"cells", report.CellsChecked, "findings", len(report.Findings))

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printInfo("\nIntegrity: %s\n", hivePath)
		printInfo("  Cells checked: %d\n", report.CellsChecked)
		printInfo("  Health score: %d/100\n", report.HealthScore)
		if report.Healthy() {
			printInfo("  No problems found\n")
		} else {
			printInfo("  Findings:\n")
			for _, f := range report.Findings {
				printInfo("    %s\n", f)
			}
		}
	}

	if !report.Healthy() {
		os.Exit(1)
	}
	return nil
}
