package main

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/format"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newValuesCmd())
}

func newValuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values <hive> <path>",
		Short: "List the values of a key",
		Long: `The values command lists every value stored under the key at the
given path, with type and size.

Example:
  hivectl values system.ahv "Root\Services\Disk"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(args)
		},
	}
	return cmd
}

func typeName(typ uint32) string {
	switch typ {
	case format.TypeString:
		return "string"
	case format.TypeDword:
		return "dword"
	case format.TypeQword:
		return "qword"
	case format.TypeBinary:
		return "binary"
	case format.TypeMultiString:
		return "multistring"
	}
	return fmt.Sprintf("type(%d)", typ)
}

func runValues(args []string) error {
	hivePath, keyPath := args[0], args[1]

	h, err := openHive(hivePath, true)
	if err != nil {
		return err
	}
	vals, err := h.EnumerateValues(keyPath)
	if err != nil {
		return fmt.Errorf("failed to list values under %s: %w", keyPath, err)
	}

	if jsonOut {
		return printJSON(vals)
	}
	printInfo("%s: %d values\n", keyPath, len(vals))
	for _, v := range vals {
		printInfo("  %-24s %-12s %s\n", v.Name, typeName(v.Type), formatBytes(int64(v.Size)))
	}
	return nil
}
