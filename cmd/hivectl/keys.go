package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newKeysCmd())
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <hive> <path>",
		Short: "List the subkeys of a key",
		Long: `The keys command lists the immediate subkeys of the key at the given
backslash-separated path.

Example:
  hivectl keys system.ahv "Root\Services"
  hivectl keys system.ahv Root --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(args)
		},
	}
	return cmd
}

func runKeys(args []string) error {
	hivePath, keyPath := args[0], args[1]

	h, err := openHive(hivePath, true)
	if err != nil {
		return err
	}
	names, err := h.EnumerateKeys(keyPath)
	if err != nil {
		return fmt.Errorf("failed to list keys under %s: %w", keyPath, err)
	}

	if jsonOut {
		return printJSON(names)
	}
	printInfo("%s: %d subkeys\n", keyPath, len(names))
	for _, name := range names {
		printInfo("  %s\n", name)
	}
	return nil
}
