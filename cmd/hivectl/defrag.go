package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDefragCmd())
}

func newDefragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defrag <hive>",
		Short: "Merge adjacent free cells",
		Long: `The defrag command coalesces neighboring free cells without moving
allocated data. Use compact to also pack the allocated cells.

Example:
  hivectl defrag system.ahv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefrag(args)
		},
	}
	return cmd
}

func runDefrag(args []string) error {
	hivePath := args[0]

	h, err := openHive(hivePath, false)
	if err != nil {
		return err
	}

	before, err := h.FragmentationLevel()
	if err != nil {
		return err
	}
	merged, err := h.Defragment()
	if err != nil {
		return fmt.Errorf("failed to defragment: %w", err)
	}
	after, err := h.FragmentationLevel()
	if err != nil {
		return err
	}

	if err := saveHive(h, hivePath); err != nil {
		return err
	}
	printInfo("Defragmented %s: %d merges, fragmentation %d -> %d\n",
		hivePath, merged, before, after)
	return nil
}
