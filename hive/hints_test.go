package hive

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arizkami/aurorahive/hive/hint"
)

func TestLookupsPopulateHints(t *testing.T) {
	mgr, _ := newTestManager()
	h, err := mgr.Create("SYSTEM", 64*1024)
	require.NoError(t, err)
	require.NoError(t, h.CreateKey(`Root\Sub`))
	require.NoError(t, h.SetString(`Root\Sub`, "v", "x"))

	_, err = h.FindKey(`Root\Sub`)
	require.NoError(t, err)
	_, _, err = h.GetValue(`Root\Sub`, "v")
	require.NoError(t, err)

	_, ok := mgr.Hints().Find("SYSTEM", hint.KeyAccess, `Root\Sub`)
	require.True(t, ok)
	_, ok = mgr.Hints().Find("SYSTEM", hint.ValueAccess, `Root\Sub\v`)
	require.True(t, ok)
	_, ok = mgr.Hints().Find("SYSTEM", hint.KeyAccess, `Root\Other`)
	require.False(t, ok)
}

func TestUpdateHintsSeedsWideKeys(t *testing.T) {
	mgr, _ := newTestManager()
	h, err := mgr.Create("SYSTEM", 256*1024)
	require.NoError(t, err)

	// 11 subkeys crosses the fanout threshold; 2 does not.
	for i := 0; i < 11; i++ {
		require.NoError(t, h.CreateKey(fmt.Sprintf(`Root\Wide\k%02d`, i)))
	}
	require.NoError(t, h.CreateKey(`Root\Narrow\a`))
	require.NoError(t, h.CreateKey(`Root\Narrow\b`))

	require.NoError(t, h.UpdateHints())

	_, ok := mgr.Hints().Find("SYSTEM", hint.FrequentPath, `Root\Wide`)
	require.True(t, ok)
	_, ok = mgr.Hints().Find("SYSTEM", hint.FrequentPath, `Root\Narrow`)
	require.False(t, ok)
}

func TestCloseDropsHints(t *testing.T) {
	mgr, _ := newTestManager()
	h, err := mgr.Create("SYSTEM", 64*1024)
	require.NoError(t, err)
	require.NoError(t, h.CreateKey("Root"))
	_, err = h.FindKey("Root")
	require.NoError(t, err)
	_, ok := mgr.Hints().Find("SYSTEM", hint.KeyAccess, "Root")
	require.True(t, ok)

	require.NoError(t, h.Close(context.Background()))
	_, ok = mgr.Hints().Find("SYSTEM", hint.KeyAccess, "Root")
	require.False(t, ok)
}
