package scheduler

import (
	"sync"

	"github.com/oss-sched/csopesy-sim/internal/process"
)

// Registry exclusively owns every PCB created during a scheduler's
// lifetime, indexed by both pid and name. The ready queue and CPU workers
// hold non-owning references into it; they never delete from it. PCBs are
// never removed during scheduler uptime, only drained on shutdown.
type Registry struct {
	mu      sync.RWMutex
	byPID   map[int]*process.PCB
	byName  map[string]*process.PCB
	nextPID int
}

func NewRegistry() *Registry {
	return &Registry{
		byPID:  make(map[int]*process.PCB),
		byName: make(map[string]*process.PCB),
	}
}

// NextPID returns the next monotonic pid and reserves it.
func (r *Registry) NextPID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	pid := r.nextPID
	r.nextPID++
	return pid
}

func (r *Registry) NameTaken(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// Insert registers pcb under both its pid and name.
func (r *Registry) Insert(pcb *process.PCB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPID[pcb.PID] = pcb
	r.byName[pcb.Name] = pcb
}

func (r *Registry) ByName(name string) (*process.PCB, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

func (r *Registry) ByPID(pid int) (*process.PCB, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byPID[pid]
	return p, ok
}

// All returns every registered PCB in pid order.
func (r *Registry) All() []*process.PCB {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*process.PCB, 0, len(r.byPID))
	for pid := 0; pid < r.nextPID; pid++ {
		if p, ok := r.byPID[pid]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Drain empties the registry, invoking onEach once per PCB beforehand so the
// caller can release any resources (memory frames) the PCB still owns.
// Called when the shell exits, not by Scheduler.Stop.
func (r *Registry) Drain(onEach func(*process.PCB)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if onEach != nil {
		for pid := 0; pid < r.nextPID; pid++ {
			if p, ok := r.byPID[pid]; ok {
				onEach(p)
			}
		}
	}
	r.byPID = make(map[int]*process.PCB)
	r.byName = make(map[string]*process.PCB)
}
