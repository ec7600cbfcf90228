package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newBackupCmd())
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <hive> <dest>",
		Short: "Write a verified copy of a hive",
		Long: `The backup command flushes the hive and writes a full copy to dest.
The copy goes through a temp file and rename, so a crash mid-write
never leaves a truncated backup.

Example:
  hivectl backup system.ahv system.ahv.bak`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(args)
		},
	}
	return cmd
}

func runBackup(args []string) error {
	hivePath, dest := args[0], args[1]

	h, err := openHive(hivePath, true)
	if err != nil {
		return err
	}
	if err := h.Backup(context.Background(), dest); err != nil {
		return err
	}
	if stat, err := os.Stat(dest); err == nil {
		printInfo("Backed up %s to %s (%s)\n", hivePath, dest, formatBytes(stat.Size()))
	}
	return nil
}
