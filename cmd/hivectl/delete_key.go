package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteKeyCmd())
}

func newDeleteKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-key <hive> <path>",
		Short: "Delete an empty key",
		Long: `The delete-key command removes the key at path. The key must have no
subkeys and no values.

Example:
  hivectl delete-key system.ahv "Root\Services\Old"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteKey(args)
		},
	}
	return cmd
}

func runDeleteKey(args []string) error {
	hivePath, keyPath := args[0], args[1]

	h, err := openHive(hivePath, false)
	if err != nil {
		return err
	}
	if err := h.DeleteKey(keyPath); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", keyPath, err)
	}
	if err := saveHive(h, hivePath); err != nil {
		return err
	}
	printInfo("Deleted key %s\n", keyPath)
	return nil
}
