package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <hive>",
		Short: "Show detailed space statistics",
		Long: `The stats command shows detailed statistics about a hive including
cell counts by kind, free-space layout, and fragmentation.

Example:
  hivectl stats system.ahv
  hivectl stats system.ahv --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
	hivePath := args[0]

	printVerbose("Opening hive: %s\n", hivePath)
	h, err := openHive(hivePath, true)
	if err != nil {
		return err
	}

	stats, err := h.Statistics()
	if err != nil {
		return fmt.Errorf("failed to collect statistics: %w", err)
	}
	frag, err := h.FragmentationLevel()
	if err != nil {
		return err
	}
	free, err := h.FreeSpace()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(struct {
			Stats              interface{}
			FragmentationLevel int
			FreeBlocks         int
		}{stats, frag, free.Blocks})
	}

	printInfo("\nHive Statistics: %s\n", hivePath)
	printInfo("%s\n\n", strings.Repeat("=", 40))

	printInfo("Cells:\n")
	printInfo("  Total: %d (%d allocated, %d free)\n", stats.TotalCells, stats.AllocatedCells, stats.FreeCells)
	printInfo("  Keys: %d\n", stats.KeyCells)
	printInfo("  Values: %d\n", stats.ValueCells)
	printInfo("  Data: %d\n", stats.DataCells)
	printInfo("  Lists: %d\n\n", stats.ListCells)

	printInfo("Space:\n")
	printInfo("  Allocated: %s\n", formatBytes(int64(stats.AllocatedBytes)))
	printInfo("  Free: %s in %d blocks (largest %s)\n",
		formatBytes(int64(stats.FreeBytes)), free.Blocks, formatBytes(int64(free.LargestBytes)))
	printInfo("  Fragmentation level: %d/100\n", frag)

	return nil
}
