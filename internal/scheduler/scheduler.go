// Package scheduler implements the ready queue, the per-core CPU workers,
// the batch process generator, and scheduler lifecycle (start/stop).
package scheduler

import (
	"sync"
	"sync/atomic"

	"github.com/oss-sched/csopesy-sim/internal/clock"
	"github.com/oss-sched/csopesy-sim/internal/errs"
	"github.com/oss-sched/csopesy-sim/internal/logging"
	"github.com/oss-sched/csopesy-sim/internal/memory"
	"github.com/oss-sched/csopesy-sim/internal/process"
)

var log = logging.For("scheduler")

// Config bounds the round-robin discipline and the batch generator, lifted
// from the parsed configuration file.
type Config struct {
	NumCPU           int
	QuantumCycles    int
	BatchProcessFreq int // seconds
	MinIns           int
	MaxIns           int
	DelayPerExec     int // milliseconds
	MinMemPerProc    int
	MaxMemPerProc    int
}

// Scheduler owns the ready queue, the process registry, the memory
// manager, and every worker goroutine. It is the single top-level service
// object the shell talks to — no package-level singletons.
type Scheduler struct {
	cfg Config
	mem *memory.Manager

	registry *Registry
	ready    *ReadyQueue

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	tally           []clock.CoreTally
	busy            []atomic.Bool
	completionsMu   sync.Mutex
	coreCompletions []int
}

func New(cfg Config, mem *memory.Manager) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		mem:      mem,
		registry: NewRegistry(),
		ready:    NewReadyQueue(),
	}
}

func (s *Scheduler) Registry() *Registry { return s.registry }
func (s *Scheduler) ReadyQueue() *ReadyQueue { return s.ready }

// Start launches one worker per configured core and one batch generator.
// Refuses if already running.
func (s *Scheduler) Start() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.running {
		return errs.AlreadyRunningf("scheduler is already running")
	}

	s.tally = make([]clock.CoreTally, s.cfg.NumCPU)
	s.busy = make([]atomic.Bool, s.cfg.NumCPU)
	s.coreCompletions = make([]int, s.cfg.NumCPU)
	s.stop = make(chan struct{})
	s.running = true

	for core := 0; core < s.cfg.NumCPU; core++ {
		s.wg.Add(1)
		go s.runWorker(core)
	}
	s.wg.Add(1)
	go s.runBatchGenerator()

	log.WithField("num_cpu", s.cfg.NumCPU).Info("scheduler started")
	return nil
}

// Stop signals the batch generator and every CPU worker to exit, waits on a
// single WaitGroup until all of them have returned (no join order among
// them), and zeros the busy vector. Stats (core tallies, completions) and
// the registry survive.
func (s *Scheduler) Stop() error {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return errs.NotRunningf("scheduler is not running")
	}
	s.running = false
	close(s.stop)
	s.runMu.Unlock()

	s.wg.Wait()

	for i := range s.busy {
		s.busy[i].Store(false)
	}

	log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.running
}

// Admit assigns pcb to the registry and pushes it onto the ready queue.
func (s *Scheduler) Admit(pcb *process.PCB) {
	s.registry.Insert(pcb)
	s.ready.Push(pcb)
}

// CoreSnapshot is a point-in-time view of one core's activity, used by
// process-smi/vmstat.
type CoreSnapshot struct {
	Active      int64
	Idle        int64
	Completions int
	Busy        bool
}

func (s *Scheduler) CoreSnapshots() []CoreSnapshot {
	s.completionsMu.Lock()
	defer s.completionsMu.Unlock()

	out := make([]CoreSnapshot, len(s.tally))
	for i := range s.tally {
		snap := s.tally[i].Snapshot()
		out[i] = CoreSnapshot{
			Active:      snap.ActiveTicks,
			Idle:        snap.IdleTicks,
			Completions: s.coreCompletions[i],
			Busy:        s.busy[i].Load(),
		}
	}
	return out
}

// NumCPU reports the configured core count, used by the shell even when the
// scheduler has never started.
func (s *Scheduler) NumCPU() int { return s.cfg.NumCPU }

// Mem exposes the memory manager for vmstat/process-smi rendering.
func (s *Scheduler) Mem() *memory.Manager { return s.mem }
