package scheduler

import (
	"time"

	"github.com/oss-sched/csopesy-sim/internal/process"
)

// runWorker is one CPU core's loop: tick
// accounting, acquire, act under the PCB's mutex, post-iteration
// finish/preempt, then a real-time delay before the next iteration.
func (s *Scheduler) runWorker(core int) {
	defer s.wg.Done()

	var current *process.PCB
	runCycles := 0

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		if current != nil {
			s.tally[core].MarkActive()
		} else {
			s.tally[core].MarkIdle()
		}
		s.busy[core].Store(current != nil)

		if current == nil {
			if pcb, ok := s.ready.TryPop(); ok {
				current = pcb
				runCycles = 0
			}
		}

		var finished, preempted bool
		if current != nil {
			finished, preempted = s.dispatchOne(core, current, &runCycles)
		}

		if finished {
			s.completionsMu.Lock()
			s.coreCompletions[core]++
			s.completionsMu.Unlock()
			if current.MemorySize > 0 {
				s.mem.Deallocate(current.PID)
			}
			current = nil
		} else if preempted {
			s.ready.Push(current)
			current = nil
		}

		select {
		case <-s.stop:
			return
		case <-time.After(time.Duration(s.cfg.DelayPerExec) * time.Millisecond):
		}
	}
}

// dispatchOne runs exactly one iteration's worth of work on pcb under its
// own mutex, per the lock order ready-queue -> per-PCB -> memory-manager.
// It never holds the ready-queue mutex while doing so.
func (s *Scheduler) dispatchOne(core int, pcb *process.PCB, runCycles *int) (finished, preempted bool) {
	pcb.Mu.Lock()
	defer pcb.Mu.Unlock()

	pcb.CPUCore = core

	if pcb.SleepTicks > 0 {
		pcb.SleepTicks--
		if pcb.SleepTicks == 0 {
			pcb.PC++
			if pcb.PC >= pcb.TotalInstructions {
				pcb.Finished = true
				pcb.EndTime = time.Now()
			}
		}
		return pcb.Finished, true
	}

	if pcb.MemorySize > 0 {
		s.mem.Read(pcb.PID, pcb.PC%pcb.MemorySize)
	}

	process.Execute(pcb, s.mem)
	*runCycles++

	if pcb.Finished {
		return true, false
	}
	if *runCycles >= s.cfg.QuantumCycles {
		return false, true
	}
	return false, false
}
