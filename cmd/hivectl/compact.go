package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var compactOut string

func init() {
	cmd := newCompactCmd()
	cmd.Flags().StringVarP(&compactOut, "output", "o", "", "Write the compacted hive to a new file instead of in place")
	rootCmd.AddCommand(cmd)
}

func newCompactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact <hive>",
		Short: "Reclaim free space by packing allocated cells",
		Long: `The compact command slides every allocated cell toward the front of
the hive and merges the freed space into one block. With --output the
source file is left untouched and a minimal copy is written instead.

Example:
  hivectl compact system.ahv
  hivectl compact system.ahv -o system-small.ahv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompact(args)
		},
	}
	return cmd
}

func runCompact(args []string) error {
	hivePath := args[0]
	ctx := context.Background()

	if compactOut != "" {
		h, err := openHive(hivePath, true)
		if err != nil {
			return err
		}
		if err := h.SaveCompacted(ctx, compactOut); err != nil {
			return fmt.Errorf("failed to write compacted copy: %w", err)
		}
		if stat, err := os.Stat(compactOut); err == nil {
			printInfo("Wrote %s (%s)\n", compactOut, formatBytes(stat.Size()))
		}
		return nil
	}

	h, err := openHive(hivePath, false)
	if err != nil {
		return err
	}
	moved, err := h.Compact()
	if err != nil {
		return fmt.Errorf("failed to compact: %w", err)
	}
	logger.Info("compacted hive", "path", hivePath, "cells_moved", moved)
	if err := saveHive(h, hivePath); err != nil {
		return err
	}
	printInfo("Compacted %s: %d cells moved\n", hivePath, moved)
	return nil
}
