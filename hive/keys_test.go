package hive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateKeyBuildsTree(t *testing.T) {
	h := newTestHive(t, 64*1024)

	require.NoError(t, h.CreateKey(`NTCore\System\Boot`))
	require.NoError(t, h.CreateKey(`NTCore\Drivers`))
	require.NoError(t, h.CreateKey(`NTCore\Drivers`), "creating an existing key is a no-op")

	root, err := h.FindKey("NTCore")
	require.NoError(t, err)
	require.Equal(t, "NTCore", root.Name)
	require.Equal(t, 2, root.SubKeys)
	require.Zero(t, root.Values)

	sys, err := h.FindKey(`NTCore\System`)
	require.NoError(t, err)
	require.Equal(t, 1, sys.SubKeys)

	names, err := h.EnumerateKeys("NTCore")
	require.NoError(t, err)
	require.Equal(t, []string{"System", "Drivers"}, names, "list order is creation order")
}

func TestFindKeyCaseInsensitive(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey(`NTCore\ControlSet001`))

	ki, err := h.FindKey(`ntcore\CONTROLSET001`)
	require.NoError(t, err)
	require.Equal(t, "ControlSet001", ki.Name, "stored casing is preserved")
}

func TestFindKeyMissing(t *testing.T) {
	h := newTestHive(t, 64*1024)
	_, err := h.FindKey("NTCore")
	require.ErrorIs(t, err, ErrNotFound, "empty hive has no root")

	require.NoError(t, h.CreateKey("NTCore"))
	_, err = h.FindKey(`NTCore\Missing`)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = h.FindKey("Other")
	require.ErrorIs(t, err, ErrNotFound, "first component must name the root")
}

func TestCreateKeyPathValidation(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.ErrorIs(t, h.CreateKey(""), ErrInvalidParameter)
	require.ErrorIs(t, h.CreateKey(`A\\B`), ErrInvalidParameter, "empty component")

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'k'
	}
	require.ErrorIs(t, h.CreateKey(string(long)), ErrInvalidParameter)

	require.NoError(t, h.CreateKey("A"))
	require.ErrorIs(t, h.CreateKey("B"), ErrNotFound, "a hive has exactly one root")
}

func TestDeleteKeyRules(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey(`A\B\C`))
	require.NoError(t, h.SetDword(`A\B`, "flag", 1))

	require.ErrorIs(t, h.DeleteKey("A"), ErrNotEmpty, "key with subkeys")
	require.ErrorIs(t, h.DeleteKey(`A\B`), ErrNotEmpty, "key with subkeys and values")

	require.NoError(t, h.DeleteKey(`A\B\C`))
	require.ErrorIs(t, h.DeleteKey(`A\B`), ErrNotEmpty, "key with values")
	require.NoError(t, h.DeleteValue(`A\B`, "flag"))
	require.NoError(t, h.DeleteKey(`A\B`))

	a, err := h.FindKey("A")
	require.NoError(t, err)
	require.Zero(t, a.SubKeys)

	// Deleting the root clears the tree; a new root can then be created.
	require.NoError(t, h.DeleteKey("A"))
	_, err = h.FindKey("A")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, h.CreateKey("Fresh"))
}

func TestDeleteKeyFreesListCells(t *testing.T) {
	h := newTestHive(t, 64*1024)
	require.NoError(t, h.CreateKey(`A\B`))

	s, err := h.Statistics()
	require.NoError(t, err)
	require.Equal(t, 1, s.ListCells, "parent holds one subkeys list")

	require.NoError(t, h.DeleteKey(`A\B`))
	s, err = h.Statistics()
	require.NoError(t, err)
	require.Zero(t, s.ListCells, "empty list cells are released")
	require.Equal(t, 1, s.KeyCells)
}

func TestSubkeyListGrowsPastInitialCapacity(t *testing.T) {
	h := newTestHive(t, 256*1024)
	require.NoError(t, h.CreateKey("root"))
	names := []string{"k00", "k01", "k02", "k03", "k04", "k05", "k06", "k07", "k08", "k09", "k10", "k11"}
	for _, n := range names {
		require.NoError(t, h.CreateKey(`root\`+n))
	}
	got, err := h.EnumerateKeys("root")
	require.NoError(t, err)
	require.Equal(t, names, got, "growth must preserve order and entries")

	ki, err := h.FindKey("root")
	require.NoError(t, err)
	require.Equal(t, len(names), ki.SubKeys)
}

func TestKeyTimestampsAdvance(t *testing.T) {
	mgr, clk := newTestManager()
	h, err := mgr.Create("SYSTEM", 64*1024)
	require.NoError(t, err)

	require.NoError(t, h.CreateKey(`A\B`))
	a1, err := h.FindKey("A")
	require.NoError(t, err)

	_ = clk.now()
	require.NoError(t, h.CreateKey(`A\C`))
	a2, err := h.FindKey("A")
	require.NoError(t, err)
	require.Greater(t, a2.LastWriteTime, a1.LastWriteTime,
		"adding a child must touch the parent")
}
