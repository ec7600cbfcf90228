package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/arizkami/aurorahive/hive"
	"github.com/spf13/cobra"
)

var setType string

func init() {
	cmd := newSetCmd()
	cmd.Flags().StringVarP(&setType, "type", "t", "string", "Value type (string, dword, qword, binary, multistring)")
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <hive> <path> <name> <value>",
		Short: "Write one value, creating the key if needed",
		Long: `The set command writes a value under the key at path, creating the
key and any missing ancestors first. The value argument is parsed
according to --type: binary expects hex, multistring splits on commas.

Example:
  hivectl set system.ahv "Root\Services\Disk" Driver disk.sys
  hivectl set system.ahv "Root\Services\Disk" Start 2 --type dword
  hivectl set system.ahv Root Blob deadbeef --type binary`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

func writeTyped(h *hive.Hive, keyPath, name, raw string) error {
	switch setType {
	case "string":
		return h.SetString(keyPath, name, raw)
	case "dword":
		n, err := strconv.ParseUint(raw, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid dword %q: %w", raw, err)
		}
		return h.SetDword(keyPath, name, uint32(n))
	case "qword":
		n, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid qword %q: %w", raw, err)
		}
		return h.SetQword(keyPath, name, n)
	case "binary":
		data, err := hex.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("invalid hex %q: %w", raw, err)
		}
		return h.SetBinary(keyPath, name, data)
	case "multistring":
		return h.SetMultiString(keyPath, name, strings.Split(raw, ","))
	}
	return fmt.Errorf("unknown value type %q", setType)
}

func runSet(args []string) error {
	hivePath, keyPath, name, raw := args[0], args[1], args[2], args[3]

	h, err := openHive(hivePath, false)
	if err != nil {
		return err
	}
	if err := h.CreateKey(keyPath); err != nil {
		return fmt.Errorf("failed to create key %s: %w", keyPath, err)
	}
	if err := writeTyped(h, keyPath, name, raw); err != nil {
		return err
	}
	if err := saveHive(h, hivePath); err != nil {
		return err
	}
	printInfo("Set %s\\%s (%s)\n", keyPath, name, setType)
	return nil
}
