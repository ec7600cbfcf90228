package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteValueCmd())
}

func newDeleteValueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-value <hive> <path> <name>",
		Short: "Delete one value",
		Long: `The delete-value command removes a single value from the key at path.

Example:
  hivectl delete-value system.ahv "Root\Services\Disk" Obsolete`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteValue(args)
		},
	}
	return cmd
}

func runDeleteValue(args []string) error {
	hivePath, keyPath, name := args[0], args[1], args[2]

	h, err := openHive(hivePath, false)
	if err != nil {
		return err
	}
	if err := h.DeleteValue(keyPath, name); err != nil {
		return fmt.Errorf("failed to delete %s\\%s: %w", keyPath, name, err)
	}
	if err := saveHive(h, hivePath); err != nil {
		return err
	}
	printInfo("Deleted %s\\%s\n", keyPath, name)
	return nil
}
