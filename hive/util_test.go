package hive

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// testClock is a deterministic tick source.
type testClock struct {
	t atomic.Uint64
}

func (c *testClock) now() uint64 { return c.t.Add(1) }

func newTestManager() (*Manager, *testClock) {
	clk := &testClock{}
	return NewManager(Options{Clock: clk.now}), clk
}

func newTestHive(t *testing.T, size int) *Hive {
	t.Helper()
	mgr, _ := newTestManager()
	h, err := mgr.Create("SYSTEM", size)
	require.NoError(t, err, "create test hive")
	return h
}
