package scheduler_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oss-sched/csopesy-sim/internal/memory"
	"github.com/oss-sched/csopesy-sim/internal/process"
	"github.com/oss-sched/csopesy-sim/internal/scheduler"
)

func newTestScheduler(t *testing.T, cfg scheduler.Config) (*scheduler.Scheduler, *memory.Manager) {
	t.Helper()
	mem := memory.NewManager()
	return scheduler.New(cfg, mem), mem
}

func mustProgram(t *testing.T, text string) []process.Instruction {
	t.Helper()
	ins, err := process.ParseCustomProgram(text)
	require.NoError(t, err)
	return ins
}

// Both processes run four PRINTs each under a quantum of two, on a single
// core: neither should starve and both must reach completion.
func TestRoundRobinBothProcessesComplete(t *testing.T) {
	sched, _ := newTestScheduler(t, scheduler.Config{
		NumCPU: 1, QuantumCycles: 2, BatchProcessFreq: 100000,
		MinIns: 1, MaxIns: 1, DelayPerExec: 0,
	})

	p1 := process.New(0, "p1", mustProgram(t, "PRINT;PRINT;PRINT;PRINT"), 0)
	p2 := process.New(1, "p2", mustProgram(t, "PRINT;PRINT;PRINT;PRINT"), 0)
	sched.Admit(p1)
	sched.Admit(p2)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	require.Eventually(t, func() bool {
		return p1.IsFinished() && p2.IsFinished()
	}, 3*time.Second, 2*time.Millisecond)

	snap1, snap2 := p1.Snapshot(), p2.Snapshot()
	require.Equal(t, 4, snap1.PC)
	require.Equal(t, 4, snap2.PC)
}

// P1 sleeps after its first PRINT; with only P1 and P2 in the ready queue,
// P2 must run both its PRINTs to completion before P1's sleep expires and
// its second PRINT is observed. A 10ms per-iteration delay leaves p1 five
// iterations (about 50ms) between p2 finishing and its own second PRINT,
// so the 2ms poll below can observe that gap.
func TestSleepYieldsCoreToOtherProcess(t *testing.T) {
	sched, _ := newTestScheduler(t, scheduler.Config{
		NumCPU: 1, QuantumCycles: 10, BatchProcessFreq: 100000,
		MinIns: 1, MaxIns: 1, DelayPerExec: 10,
	})

	p1 := process.New(0, "p1", mustProgram(t, "PRINT;SLEEP 5;PRINT"), 0)
	p2 := process.New(1, "p2", mustProgram(t, "PRINT;PRINT"), 0)
	sched.Admit(p1)
	sched.Admit(p2)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	require.Eventually(t, func() bool {
		return p2.IsFinished()
	}, 3*time.Second, 2*time.Millisecond)

	pc, _ := p1.Progress()
	require.Less(t, pc, 3, "p1's second PRINT must not run before p2 finishes")

	require.Eventually(t, func() bool {
		return p1.IsFinished()
	}, 3*time.Second, 2*time.Millisecond)
}

// A process that touches two pages and finishes must leave no frames in use
// once the worker deallocates it.
func TestFinishedProcessMemoryIsReclaimed(t *testing.T) {
	backing := filepath.Join(t.TempDir(), "backing.txt")
	sched, mem := newTestScheduler(t, scheduler.Config{
		NumCPU: 1, QuantumCycles: 10, BatchProcessFreq: 100000,
		MinIns: 1, MaxIns: 1, DelayPerExec: 0,
	})
	require.NoError(t, mem.Initialize(64, 16, backing))

	p1 := process.New(0, "p1", mustProgram(t, "WRITE 0 111;WRITE 20 222;PRINT"), 64)
	require.NoError(t, mem.Allocate(p1.PID, p1.MemorySize))
	sched.Admit(p1)

	require.NoError(t, sched.Start())
	defer sched.Stop()

	require.Eventually(t, func() bool {
		return p1.IsFinished()
	}, 3*time.Second, 2*time.Millisecond)

	require.Eventually(t, func() bool {
		return mem.Stats().UsedFrames == 0
	}, time.Second, 2*time.Millisecond, "frames must be reclaimed once the worker deallocates the finished process")
}
