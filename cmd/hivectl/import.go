package main

import (
	"encoding/hex"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/arizkami/aurorahive/hive"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <hive> <seed.hcl>",
		Short: "Apply keys and values from an HCL seed file",
		Long: `The import command reads an HCL seed file and applies its key and
value blocks to the hive, creating keys as needed.

Seed file format:

  key "Root\\Services\\Disk" {
    value "Driver" {
      type = "string"
      data = "disk.sys"
    }
    value "Start" {
      type = "dword"
      data = 2
    }
  }

Example:
  hivectl import system.ahv seed.hcl`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args)
		},
	}
	return cmd
}

type seedRoot struct {
	Keys []*seedKey `hcl:"key,block"`
}

type seedKey struct {
	Path   string       `hcl:"path,label"`
	Values []*seedValue `hcl:"value,block"`
}

type seedValue struct {
	Name string    `hcl:"name,label"`
	Type string    `hcl:"type"`
	Data cty.Value `hcl:"data"`
}

func loadSeed(path string) (*seedRoot, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	var root seedRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}
	return &root, nil
}

// applySeedValue converts one decoded value block and writes it.
func applySeedValue(h *hive.Hive, keyPath string, v *seedValue) error {
	switch v.Type {
	case "string":
		var s string
		if err := gocty.FromCtyValue(v.Data, &s); err != nil {
			return fmt.Errorf("value %q: %w", v.Name, err)
		}
		return h.SetString(keyPath, v.Name, s)
	case "dword":
		var n uint32
		if err := gocty.FromCtyValue(v.Data, &n); err != nil {
			return fmt.Errorf("value %q: %w", v.Name, err)
		}
		return h.SetDword(keyPath, v.Name, n)
	case "qword":
		var n uint64
		if err := gocty.FromCtyValue(v.Data, &n); err != nil {
			return fmt.Errorf("value %q: %w", v.Name, err)
		}
		return h.SetQword(keyPath, v.Name, n)
	case "binary":
		var s string
		if err := gocty.FromCtyValue(v.Data, &s); err != nil {
			return fmt.Errorf("value %q: %w", v.Name, err)
		}
		data, err := hex.DecodeString(s)
		if err != nil {
			return fmt.Errorf("value %q: invalid hex: %w", v.Name, err)
		}
		return h.SetBinary(keyPath, v.Name, data)
	case "multistring":
		var parts []string
		if err := gocty.FromCtyValue(v.Data, &parts); err != nil {
			return fmt.Errorf("value %q: %w", v.Name, err)
		}
		return h.SetMultiString(keyPath, v.Name, parts)
	}
	return fmt.Errorf("value %q: unknown type %q", v.Name, v.Type)
}

func runImport(args []string) error {
	hivePath, seedPath := args[0], args[1]

	seed, err := loadSeed(seedPath)
	if err != nil {
		return err
	}

	h, err := openHive(hivePath, false)
	if err != nil {
		return err
	}

	keys, values := 0, 0
	for _, k := range seed.Keys {
		if err := h.CreateKey(k.Path); err != nil {
			return fmt.Errorf("failed to create key %s: %w", k.Path, err)
		}
		keys++
		for _, v := range k.Values {
			if err := applySeedValue(h, k.Path, v); err != nil {
				return err
			}
			values++
		}
	}
	logger.Info("seed applied", "file", seedPath, "keys", keys, "values", values)

	if err := saveHive(h, hivePath); err != nil {
		return err
	}
	printInfo("Imported %d keys and %d values from %s\n", keys, values, seedPath)
	return nil
}
