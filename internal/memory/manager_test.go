package memory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oss-sched/csopesy-sim/internal/memory"
)

func newManager(t *testing.T, maxOverallMem, memPerFrame int) *memory.Manager {
	t.Helper()
	m := memory.NewManager()
	path := filepath.Join(t.TempDir(), "backing-store.txt")
	require.NoError(t, m.Initialize(maxOverallMem, memPerFrame, path))
	return m
}

func TestAllocateRejectsNonPowerOfTwo(t *testing.T) {
	m := newManager(t, 64, 16)
	require.Error(t, m.Allocate(1, 100))
	require.Error(t, m.Allocate(1, 32)) // below 64
	require.Error(t, m.Allocate(1, 70000))
	require.NoError(t, m.Allocate(1, 64))
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	m := newManager(t, 64, 16)
	require.NoError(t, m.Allocate(1, 64))

	ok := m.Write(1, 10, 0xBEEF)
	require.True(t, ok)

	v, ok := m.Read(1, 10)
	require.True(t, ok)
	require.Equal(t, uint16(0xBEEF), v)
}

func TestPageFaultAndSwapScenario(t *testing.T) {
	// max-overall-mem=4, mem-per-frame=2 -> total_frames=2.
	m := newManager(t, 4, 2)
	require.NoError(t, m.Allocate(1, 64)) // 32 pages

	require.True(t, m.Write(1, 0, 0xAAAA))
	require.True(t, m.Write(1, 2, 0xBBBB))
	require.True(t, m.Write(1, 4, 0xCCCC)) // forces eviction of page 0

	v, ok := m.Read(1, 0) // forces eviction + swap-in of page 0
	require.True(t, ok)
	require.Equal(t, uint16(0xAAAA), v)

	stats := m.Stats()
	require.Equal(t, int64(4), stats.TotalPageFaults)
	require.GreaterOrEqual(t, stats.TotalPagesOut, int64(1))
	require.GreaterOrEqual(t, stats.TotalPagesIn, int64(1))
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	// total_frames = F; a sequence of F+1 distinct accesses evicts the frame
	// touched least recently.
	m := newManager(t, 6, 2) // 3 frames
	require.NoError(t, m.Allocate(1, 64))

	require.True(t, m.Write(1, 0, 1)) // page 0 -> some frame
	require.True(t, m.Write(1, 2, 2)) // page 1
	require.True(t, m.Write(1, 4, 3)) // page 2, all 3 frames now used, page0 oldest

	require.True(t, m.Write(1, 6, 4)) // page 3: must evict page 0 (LRU)

	// page 0 should now be a fault again (it was evicted).
	statsBefore := m.Stats()
	_, ok := m.Read(1, 0)
	require.True(t, ok)
	statsAfter := m.Stats()
	require.Greater(t, statsAfter.TotalPageFaults, statsBefore.TotalPageFaults)
}

func TestDeallocateRemovesAllTraces(t *testing.T) {
	m := newManager(t, 64, 16)
	require.NoError(t, m.Allocate(7, 64))
	require.True(t, m.Write(7, 0, 42))
	require.True(t, m.Write(7, 16, 43)) // second page; 4 frames, so no eviction

	m.Deallocate(7)

	stats := m.Stats()
	require.Equal(t, stats.TotalFrames, stats.FreeFrames)
	require.Equal(t, 0, stats.UsedFrames)

	_, ok := m.Read(7, 0)
	require.False(t, ok)
}

func TestInitializeIsIdempotentModuloStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.txt")
	m := memory.NewManager()
	require.NoError(t, m.Initialize(64, 16, path))
	require.NoError(t, m.Allocate(1, 64))
	require.True(t, m.Write(1, 0, 5))

	require.NoError(t, m.Initialize(64, 16, path))
	stats := m.Stats()
	require.Equal(t, int64(0), stats.TotalPageFaults)
	require.Equal(t, stats.TotalFrames, stats.FreeFrames)

	_, err := os.Stat(path)
	require.NoError(t, err)
}
