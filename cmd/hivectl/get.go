package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/arizkami/aurorahive/internal/buf"
	"github.com/arizkami/aurorahive/internal/format"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <hive> <path> <name>",
		Short: "Read one value",
		Long: `The get command reads a single value and prints it in a form
matching its type: strings verbatim, numbers in decimal, binary as hex.

Example:
  hivectl get system.ahv "Root\Services\Disk" Driver`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func renderValue(typ uint32, data []byte) string {
	switch typ {
	case format.TypeString:
		return string(data)
	case format.TypeDword:
		if len(data) == 4 {
			return fmt.Sprintf("%d", buf.U32LE(data))
		}
	case format.TypeQword:
		if len(data) == 8 {
			return fmt.Sprintf("%d", buf.U64LE(data))
		}
	case format.TypeMultiString:
		parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
		return strings.Join(parts, ", ")
	}
	return hex.EncodeToString(data)
}

func runGet(args []string) error {
	hivePath, keyPath, name := args[0], args[1], args[2]

	h, err := openHive(hivePath, true)
	if err != nil {
		return err
	}
	typ, data, err := h.GetValue(keyPath, name)
	if err != nil {
		return fmt.Errorf("failed to read %s\\%s: %w", keyPath, name, err)
	}

	if jsonOut {
		return printJSON(struct {
			Path  string
			Name  string
			Type  string
			Value string
		}{keyPath, name, typeName(typ), renderValue(typ, data)})
	}
	printInfo("%s\n", renderValue(typ, data))
	return nil
}
