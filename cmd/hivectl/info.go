package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <hive>",
		Short: "Validate a hive file and report basic metadata",
		Long: `The info command validates a hive file and displays basic metadata
including size, cell counts, and free space.

Example:
  hivectl info system.ahv
  hivectl info system.ahv --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	hivePath := args[0]

	printVerbose("Opening hive: %s\n", hivePath)
	h, err := openHive(hivePath, true)
	if err != nil {
		return err
	}

	stats, err := h.Statistics()
	if err != nil {
		return fmt.Errorf("failed to get hive info: %w", err)
	}
	if jsonOut {
		return printJSON(stats)
	}

	printInfo("\nHive Information:\n")
	printInfo("  File: %s\n", hivePath)
	if stat, err := os.Stat(hivePath); err == nil {
		printInfo("  File size: %s\n", formatBytes(stat.Size()))
	}
	printInfo("  Name: %s\n", stats.Name)
	printInfo("  Arena: %s\n", formatBytes(int64(stats.Size)))
	printInfo("  Allocated: %s in %d cells\n", formatBytes(int64(stats.AllocatedBytes)), stats.AllocatedCells)
	printInfo("  Free: %s in %d cells\n", formatBytes(int64(stats.FreeBytes)), stats.FreeCells)
	printInfo("  Keys: %d  Values: %d\n", stats.KeyCells, stats.ValueCells)
	printInfo("  Read-only: %v\n", stats.ReadOnly)

	return nil
}
