package hive

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arizkami/aurorahive/internal/format"
)

// Building a key with a value, deleting the value, and compacting must
// leave just the key cell followed by one free cell spanning the rest
// of the arena.
func TestCompactToMinimalLayout(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey("A"))
	require.NoError(t, h.SetValue("A", "X", format.TypeBinary, bytes.Repeat([]byte{0xAB}, 16)))
	require.NoError(t, h.DeleteValue("A", "X"))

	moved, err := h.Compact()
	require.NoError(t, err)
	require.GreaterOrEqual(t, moved, 0)

	s, err := h.Statistics()
	require.NoError(t, err)
	require.Equal(t, 1, s.AllocatedCells)
	require.Equal(t, 1, s.KeyCells)
	require.Equal(t, 1, s.FreeCells)
	require.Equal(t, 2, s.TotalCells)
	require.Equal(t, s.FreeBytes, s.LargestFree)

	ki, err := h.FindKey("A")
	require.NoError(t, err)
	require.Equal(t, "A", ki.Name)
}

func TestCompactKeepsTreeResolvable(t *testing.T) {
	h := newTestHive(t, 128*1024)
	require.NoError(t, h.CreateKey(`Root\Services\Disk`))
	require.NoError(t, h.SetString(`Root\Services\Disk`, "Driver", "disk.sys"))
	require.NoError(t, h.CreateKey(`Root\Services\Net`))
	require.NoError(t, h.SetDword(`Root\Services\Net`, "Start", 2))

	// Punch holes ahead of the surviving cells so compaction has to
	// slide them down.
	require.NoError(t, h.CreateKey(`Root\Temp`))
	require.NoError(t, h.SetBinary(`Root\Temp`, "pad", bytes.Repeat([]byte{1}, 512)))
	require.NoError(t, h.DeleteValue(`Root\Temp`, "pad"))
	require.NoError(t, h.DeleteKey(`Root\Temp`))

	moved, err := h.Compact()
	require.NoError(t, err)
	require.Positive(t, moved)

	driver, err := h.GetString(`Root\Services\Disk`, "Driver")
	require.NoError(t, err)
	require.Equal(t, "disk.sys", driver)

	start, err := h.GetDword(`Root\Services\Net`, "Start")
	require.NoError(t, err)
	require.Equal(t, uint32(2), start)

	names, err := h.EnumerateKeys(`Root\Services`)
	require.NoError(t, err)
	require.Equal(t, []string{"Disk", "Net"}, names)

	require.NoError(t, h.Flush(context.Background()))
	rep, err := h.CheckIntegrity()
	require.NoError(t, err)
	require.True(t, rep.Healthy(), "findings: %v", rep.Findings)
}

func TestCompactNoOpStaysClean(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey("A"))
	require.NoError(t, h.Flush(context.Background()))
	require.False(t, h.Dirty())

	// Already packed: one key up front, one trailing free cell.
	moved, err := h.Compact()
	require.NoError(t, err)
	require.Zero(t, moved)
	require.False(t, h.Dirty(), "a no-op compaction must not dirty the hive")
}

func TestDefragmentAndFragmentationLevel(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey("A"))
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, h.SetBinary("A", name, bytes.Repeat([]byte{3}, 64)))
	}
	for _, name := range []string{"a", "c", "e"} {
		require.NoError(t, h.DeleteValue("A", name))
	}

	before, err := h.FragmentationLevel()
	require.NoError(t, err)

	merged, err := h.Defragment()
	require.NoError(t, err)
	require.GreaterOrEqual(t, merged, 0)

	after, err := h.FragmentationLevel()
	require.NoError(t, err)
	require.LessOrEqual(t, after, before)

	// A second pass finds nothing left to merge.
	merged, err = h.Defragment()
	require.NoError(t, err)
	require.Zero(t, merged)
}

func TestOptimizeFreeSpace(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey("A"))
	require.NoError(t, h.SetBinary("A", "v1", bytes.Repeat([]byte{1}, 128)))
	require.NoError(t, h.SetBinary("A", "v2", bytes.Repeat([]byte{2}, 128)))
	require.NoError(t, h.DeleteValue("A", "v1"))

	require.NoError(t, h.OptimizeFreeSpace())

	fs, err := h.FreeSpace()
	require.NoError(t, err)
	require.Equal(t, 1, fs.Blocks)
	require.Equal(t, fs.TotalBytes, fs.LargestBytes)

	ext, err := h.FreeSpaceMap()
	require.NoError(t, err)
	require.Len(t, ext, 1)

	_, data, err := h.GetValue("A", "v2")
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{2}, 128), data)
}

func TestMaintenanceDeniedReadOnly(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey("A"))
	require.NoError(t, h.Flush(context.Background()))

	mgr, _ := newTestManager()
	ro, err := mgr.Load("COPY", h.Image(), true)
	require.NoError(t, err)

	_, err = ro.Compact()
	require.ErrorIs(t, err, ErrAccessDenied)
	_, err = ro.Defragment()
	require.ErrorIs(t, err, ErrAccessDenied)
	require.ErrorIs(t, ro.OptimizeFreeSpace(), ErrAccessDenied)
}
