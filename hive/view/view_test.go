package view

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapViewAlignsToPages(t *testing.T) {
	m := NewMemory(make([]byte, 256*1024))

	v, window, err := m.MapView(100, 200)
	require.NoError(t, err)
	require.Len(t, window, 200)
	require.Equal(t, 0, v.Offset)
	require.Equal(t, Granularity, v.Size)
	require.NoError(t, m.UnmapView(v))

	v, _, err = m.MapView(Granularity+1, Granularity)
	require.NoError(t, err)
	require.Equal(t, Granularity, v.Offset)
	require.Equal(t, 2*Granularity, v.Size)
	require.NoError(t, m.UnmapView(v))
}

func TestMapViewDefaultSizeClamped(t *testing.T) {
	m := NewMemory(make([]byte, 16*1024))

	v, window, err := m.MapView(0, 0)
	require.NoError(t, err)
	require.Len(t, window, 16*1024, "default span clamps to the backing")
	require.NoError(t, m.UnmapView(v))

	_, _, err = m.MapView(-1, 100)
	require.ErrorIs(t, err, ErrBadRange)
	_, _, err = m.MapView(15*1024, 2*1024)
	require.ErrorIs(t, err, ErrBadRange)
}

func TestCoveringViewIsReused(t *testing.T) {
	m := NewMemory(make([]byte, 64*1024))

	v1, _, err := m.MapView(0, 8*1024)
	require.NoError(t, err)
	v2, _, err := m.MapView(1024, 2048)
	require.NoError(t, err)
	require.Same(t, v1, v2)

	s := m.Stats()
	require.Equal(t, 1, s.Views)
	require.Equal(t, uint64(1), s.Hits)
	require.Equal(t, uint64(1), s.Faults)

	// Two references now; the view survives one unmap.
	require.NoError(t, m.UnmapView(v1))
	require.Equal(t, 1, m.Stats().Views)
	require.NoError(t, m.UnmapView(v2))
	require.Equal(t, 0, m.Stats().Views)

	require.ErrorIs(t, m.UnmapView(v1), ErrNotMapped)
}

func TestMaxViewsLimit(t *testing.T) {
	m := NewMemory(make([]byte, (MaxViews+1)*Granularity))

	views := make([]*View, 0, MaxViews)
	for i := 0; i < MaxViews; i++ {
		v, _, err := m.MapView(i*Granularity, Granularity)
		require.NoError(t, err)
		views = append(views, v)
	}
	_, _, err := m.MapView(MaxViews*Granularity, Granularity)
	require.ErrorIs(t, err, ErrTooManyViews)

	require.NoError(t, m.UnmapView(views[0]))
	_, _, err = m.MapView(MaxViews*Granularity, Granularity)
	require.NoError(t, err)
}

func TestCloseWhileBusy(t *testing.T) {
	m := NewMemory(make([]byte, 8*1024))
	v, _, err := m.MapView(0, 1024)
	require.NoError(t, err)

	require.ErrorIs(t, m.Close(), ErrBusy)
	require.NoError(t, m.UnmapView(v))
	require.NoError(t, m.Close())
}

func TestMemoryMappingFlushIsNoOp(t *testing.T) {
	m := NewMemory(make([]byte, 8*1024))
	v, window, err := m.MapView(0, 1024)
	require.NoError(t, err)
	window[0] = 0xEE
	m.MarkDirty(v)
	require.NoError(t, m.Flush())
	require.NoError(t, m.Prefault(v))
	require.NoError(t, m.LockPages(v))
	require.NoError(t, m.UnlockPages(v))
	require.NoError(t, m.UnmapView(v))
}

func TestFileBackedViewWritesReachFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 64*1024), 0o644))

	m, err := OpenFile(path)
	require.NoError(t, err)
	require.Equal(t, 64*1024, m.Len())

	v, window, err := m.MapView(Granularity, 512)
	require.NoError(t, err)
	copy(window, []byte("persisted through the mapping"))
	m.MarkDirty(v)
	require.NoError(t, m.UnmapView(v))
	require.NoError(t, m.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("persisted through the mapping"),
		data[Granularity:Granularity+29])
}

func TestRegistryDeduplicatesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "h.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 8*1024), 0o644))

	r := NewRegistry()
	m1, err := r.Map(path)
	require.NoError(t, err)
	m2, err := r.Map(filepath.Join(dir, ".", "h.bin"))
	require.NoError(t, err)
	require.Same(t, m1, m2)
	require.Equal(t, 1, r.Len())

	// Unmap refuses while a view is live, and the mapping stays.
	v, _, err := m1.MapView(0, 1024)
	require.NoError(t, err)
	require.ErrorIs(t, r.Unmap(path), ErrBusy)
	require.Equal(t, 1, r.Len())

	require.NoError(t, m1.UnmapView(v))
	require.NoError(t, r.Unmap(path))
	require.Equal(t, 0, r.Len())
	require.ErrorIs(t, r.Unmap(path), ErrNotMapped)
}

func TestRegistryMapMissingFile(t *testing.T) {
	r := NewRegistry()
	_, err := r.Map(filepath.Join(t.TempDir(), "absent.bin"))
	require.Error(t, err)
	require.Equal(t, 0, r.Len())
}

func TestStatsMappedBytes(t *testing.T) {
	m := NewMemory(make([]byte, 64*1024))
	var views []*View
	for i := 0; i < 3; i++ {
		v, _, err := m.MapView(i*2*Granularity, Granularity)
		require.NoError(t, err)
		views = append(views, v)
	}
	s := m.Stats()
	require.Equal(t, 3, s.Views)
	require.Equal(t, 3*Granularity, s.MappedBytes)
	for _, v := range views {
		require.NoError(t, m.UnmapView(v))
	}
}
