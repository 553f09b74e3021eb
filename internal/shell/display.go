package shell

import (
	"github.com/oss-sched/csopesy-sim/internal/report"
	"github.com/oss-sched/csopesy-sim/internal/scheduler"
)

func (sh *Shell) coreUsage() []report.CoreUsage {
	var snaps []scheduler.CoreSnapshot
	if sh.sched != nil {
		snaps = sh.sched.CoreSnapshots()
	}
	if len(snaps) == 0 {
		snaps = make([]scheduler.CoreSnapshot, sh.cfg.NumCPU)
	}
	out := make([]report.CoreUsage, len(snaps))
	for i, s := range snaps {
		out[i] = report.CoreUsage{Active: s.Busy}
	}
	return out
}

func (sh *Shell) printListing() {
	pcbs := sh.sched.Registry().All()
	sh.printf("%s", report.Listing(pcbs, sh.coreUsage()))
}

func (sh *Shell) printProcessSMI() {
	cores := sh.coreUsage()
	used := 0
	for _, c := range cores {
		if c.Active {
			used++
		}
	}
	util := 0.0
	if len(cores) > 0 {
		util = 100 * float64(used) / float64(len(cores))
	}
	sh.printf("CPU utilization: %.0f%%\n", util)
	sh.printf("Cores used: %d\n", used)
	sh.printf("Cores available: %d\n", len(cores)-used)
	sh.printf("\nMemory per running process:\n")
	for _, pcb := range sh.sched.Registry().All() {
		snap := pcb.Snapshot()
		if snap.Finished {
			continue
		}
		sh.printf("  %-16s memory_size=%d\n", snap.Name, snap.MemorySize)
	}
}

func (sh *Shell) printVMStat() {
	stats := sh.mem.Stats()
	var activeTicks, idleTicks int64
	for _, c := range sh.sched.CoreSnapshots() {
		activeTicks += c.Active
		idleTicks += c.Idle
	}
	sh.printf("total_frames:      %d\n", stats.TotalFrames)
	sh.printf("used_frames:       %d\n", stats.UsedFrames)
	sh.printf("free_frames:       %d\n", stats.FreeFrames)
	sh.printf("total_page_faults: %d\n", stats.TotalPageFaults)
	sh.printf("total_pages_in:    %d\n", stats.TotalPagesIn)
	sh.printf("total_pages_out:   %d\n", stats.TotalPagesOut)
	sh.printf("active_ticks:      %d\n", activeTicks)
	sh.printf("idle_ticks:        %d\n", idleTicks)
}

func (sh *Shell) printAttachedProcess() {
	snap := sh.attached.Snapshot()
	sh.printf("Process name: %s\n", snap.Name)
	sh.printf("ID: %d\n", snap.PID)
	sh.printf("Current instruction line: %d\n", snap.PC)
	sh.printf("Lines of code: %d\n", snap.TotalInstructions)
	if snap.Finished {
		sh.printf("Finished!\n")
	}
	sh.printf("Logs:\n")
	for _, l := range snap.Log {
		sh.printf("  %s\n", l)
	}
}
