package scheduler

import (
	"sync"

	"github.com/oss-sched/csopesy-sim/internal/process"
)

// ReadyQueue is a FIFO of non-owning PCB references, guarded by a single
// mutex. No priority, no aging: round-robin fairness comes entirely from
// CPU workers taking exactly one dispatch's worth of instructions per pop.
type ReadyQueue struct {
	mu    sync.Mutex
	items []*process.PCB
}

func NewReadyQueue() *ReadyQueue {
	return &ReadyQueue{}
}

func (q *ReadyQueue) Push(pcb *process.PCB) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, pcb)
}

// TryPop removes and returns the head of the queue, or (nil, false) if empty.
func (q *ReadyQueue) TryPop() (*process.PCB, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	pcb := q.items[0]
	q.items = q.items[1:]
	return pcb, true
}

func (q *ReadyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
