// Package clock holds the simulator's monotonic tick sources: the
// memory manager's strictly-increasing LRU access counter, and the
// per-core active/idle tallies the scheduler reports through vmstat.
package clock

import "sync/atomic"

// LRUClock hands out a strictly increasing tick on every call, used to
// timestamp frame and page-table-entry accesses for LRU victim selection.
type LRUClock struct {
	counter atomic.Int64
}

// Tick returns the next value in the strictly increasing sequence.
func (c *LRUClock) Tick() int64 {
	return c.counter.Add(1)
}

// CoreTally tracks one CPU core's active/idle tick counts. Both fields are
// atomic so the worker can update them without taking any other lock.
type CoreTally struct {
	ActiveTicks atomic.Int64
	IdleTicks   atomic.Int64
}

func (t *CoreTally) MarkActive() { t.ActiveTicks.Add(1) }
func (t *CoreTally) MarkIdle()   { t.IdleTicks.Add(1) }

// Snapshot is a point-in-time, non-atomic copy safe to hand to a reporter.
type Snapshot struct {
	ActiveTicks int64
	IdleTicks   int64
}

func (t *CoreTally) Snapshot() Snapshot {
	return Snapshot{ActiveTicks: t.ActiveTicks.Load(), IdleTicks: t.IdleTicks.Load()}
}
