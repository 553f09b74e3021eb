package scheduler

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oss-sched/csopesy-sim/internal/process"
)

// runBatchGenerator periodically synthesizes and admits a new process,
// periodically. It shares nothing with the CPU workers except the
// registry, the ready queue and the memory manager, each independently
// mutex-guarded.
func (s *Scheduler) runBatchGenerator() {
	defer s.wg.Done()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	genCfg := process.GeneratorConfig{MinIns: s.cfg.MinIns, MaxIns: s.cfg.MaxIns}

	for {
		select {
		case <-s.stop:
			return
		case <-time.After(time.Duration(s.cfg.BatchProcessFreq) * time.Second):
		}

		memorySize := 0
		if s.mem != nil && s.mem.Initialized() && s.cfg.MaxMemPerProc > 0 {
			memorySize = process.RandomMemorySize(rng, s.cfg.MinMemPerProc, s.cfg.MaxMemPerProc)
		}

		program := process.RandomProgram(rng, genCfg)
		pid := s.registry.NextPID()
		name := fmt.Sprintf("process_%d", pid)

		pcb := process.New(pid, name, program, memorySize)

		if memorySize > 0 {
			if err := s.mem.Allocate(pid, memorySize); err != nil {
				log.WithError(err).WithField("pid", pid).Warn("batch process dropped: memory allocation failed")
				continue
			}
		}

		s.Admit(pcb)
		log.WithFields(map[string]interface{}{"pid": pid, "name": name, "memory_size": memorySize}).Info("batch process admitted")
	}
}
