package main

import (
	"fmt"

	"github.com/arizkami/aurorahive/hive"
	"github.com/arizkami/aurorahive/internal/format"
	"github.com/spf13/cobra"
)

var createSize int

func init() {
	cmd := newCreateCmd()
	cmd.Flags().IntVar(&createSize, "size", 256*1024, "Initial hive size in bytes (rounded up to 4 KB)")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create a new empty hive file",
		Long: `The create command writes a fresh hive with an empty key tree.

Example:
  hivectl create system.ahv
  hivectl create system.ahv --size 1048576`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
	return cmd
}

func runCreate(args []string) error {
	path := args[0]

	size := (createSize + format.BlockSize - 1) &^ (format.BlockSize - 1)
	if size < format.HeaderSize+format.BlockSize {
		size = format.HeaderSize + format.BlockSize
	}

	mgr := hive.NewManager(hive.Options{})
	h, err := mgr.Create(path, size)
	if err != nil {
		return fmt.Errorf("failed to create hive: %w", err)
	}
	logger.Debug("hive created", "path", path, "size", h.Size())

	if err := saveHive(h, path); err != nil {
		return err
	}
	printInfo("Created %s (%s)\n", path, formatBytes(int64(h.Size())))
	return nil
}
