package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arizkami/aurorahive/hive"
	"github.com/arizkami/aurorahive/internal/format"
)

const testSeed = `
key "Root\\Services\\Disk" {
  value "Driver" {
    type = "string"
    data = "disk.sys"
  }
  value "Start" {
    type = "dword"
    data = 2
  }
  value "Blob" {
    type = "binary"
    data = "deadbeef"
  }
  value "Depends" {
    type = "multistring"
    data = ["scsi", "pci"]
  }
}

key "Root\\Services\\Net" {
  value "Timeout" {
    type = "qword"
    data = 30000000000
  }
}
`

func TestLoadSeedAndApply(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "seed.hcl")
	require.NoError(t, os.WriteFile(seedPath, []byte(testSeed), 0o644))

	seed, err := loadSeed(seedPath)
	require.NoError(t, err)
	require.Len(t, seed.Keys, 2)
	require.Equal(t, `Root\Services\Disk`, seed.Keys[0].Path)
	require.Len(t, seed.Keys[0].Values, 4)

	mgr := hive.NewManager(hive.Options{})
	h, err := mgr.Create("SEED", 64*1024)
	require.NoError(t, err)

	for _, k := range seed.Keys {
		require.NoError(t, h.CreateKey(k.Path))
		for _, v := range k.Values {
			require.NoError(t, applySeedValue(h, k.Path, v))
		}
	}

	driver, err := h.GetString(`Root\Services\Disk`, "Driver")
	require.NoError(t, err)
	require.Equal(t, "disk.sys", driver)

	start, err := h.GetDword(`Root\Services\Disk`, "Start")
	require.NoError(t, err)
	require.Equal(t, uint32(2), start)

	blob, err := h.GetBinary(`Root\Services\Disk`, "Blob")
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, blob)

	deps, err := h.GetMultiString(`Root\Services\Disk`, "Depends")
	require.NoError(t, err)
	require.Equal(t, []string{"scsi", "pci"}, deps)

	timeout, err := h.GetQword(`Root\Services\Net`, "Timeout")
	require.NoError(t, err)
	require.Equal(t, uint64(30000000000), timeout)
}

func TestLoadSeedBadFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte(`key "X" {`), 0o644))
	_, err := loadSeed(bad)
	require.Error(t, err)

	_, err = loadSeed(filepath.Join(dir, "missing.hcl"))
	require.Error(t, err)
}

func TestApplySeedValueUnknownType(t *testing.T) {
	mgr := hive.NewManager(hive.Options{})
	h, err := mgr.Create("SEED", 32*1024)
	require.NoError(t, err)
	require.NoError(t, h.CreateKey("Root"))

	err = applySeedValue(h, "Root", &seedValue{Name: "v", Type: "float"})
	require.ErrorContains(t, err, "unknown type")
}

func TestRenderValue(t *testing.T) {
	require.Equal(t, "hello", renderValue(format.TypeString, []byte("hello")))
	require.Equal(t, "258", renderValue(format.TypeDword, []byte{2, 1, 0, 0}))
	require.Equal(t, "1", renderValue(format.TypeQword, []byte{1, 0, 0, 0, 0, 0, 0, 0}))
	require.Equal(t, "a, b", renderValue(format.TypeMultiString, []byte("a\x00b\x00\x00")))
	require.Equal(t, "0aff", renderValue(format.TypeBinary, []byte{0x0A, 0xFF}))
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "string", typeName(format.TypeString))
	require.Equal(t, "dword", typeName(format.TypeDword))
	require.Equal(t, "type(99)", typeName(99))
}
