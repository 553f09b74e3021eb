package process

import (
	"fmt"
	"sync"
	"time"

	"github.com/oss-sched/csopesy-sim/internal/logging"
)

var log = logging.For("process")

// PCB is the process control block. Every mutable field below is guarded by
// Mu; components that only ever observe PCBs through the registry's
// non-owning references (ready queue, CPU workers) must take Mu before
// touching any of them.
type PCB struct {
	Mu sync.Mutex

	PID  int
	Name string

	PC           int
	Env          map[string]uint16
	Instructions []Instruction

	SleepTicks int
	Finished   bool

	Log []string

	StartTime time.Time
	EndTime   time.Time

	CPUCore int // -1 if never dispatched

	TotalInstructions int
	MemorySize        int // 0 means no memory
}

func New(pid int, name string, instructions []Instruction, memorySize int) *PCB {
	return &PCB{
		PID:               pid,
		Name:              name,
		Env:               make(map[string]uint16),
		Instructions:      instructions,
		CPUCore:           -1,
		TotalInstructions: len(instructions),
		MemorySize:        memorySize,
		StartTime:         time.Now(),
	}
}

// appendLog must be called with Mu held.
func (p *PCB) appendLog(msg string) {
	p.Log = append(p.Log, fmt.Sprintf("(%s) %s", time.Now().Format("01/02/2006 03:04:05PM"), msg))
}

// IsFinished reports whether the process has run to completion. Takes Mu.
func (p *PCB) IsFinished() bool {
	p.Mu.Lock()
	defer p.Mu.Unlock()
	return p.Finished
}

// Progress returns (pc, total) for screen -ls style progress bars.
func (p *PCB) Progress() (int, int) {
	p.Mu.Lock()
	defer p.Mu.Unlock()
	return p.PC, p.TotalInstructions
}

// Snapshot returns a read-only copy of the fields the shell needs to render
// screen -ls / screen -r / process-smi, without holding Mu past the call.
type Snapshot struct {
	PID               int
	Name              string
	PC                int
	TotalInstructions int
	Finished          bool
	CPUCore           int
	MemorySize        int
	StartTime         time.Time
	EndTime           time.Time
	Log               []string
}

func (p *PCB) Snapshot() Snapshot {
	p.Mu.Lock()
	defer p.Mu.Unlock()
	logCopy := make([]string, len(p.Log))
	copy(logCopy, p.Log)
	return Snapshot{
		PID:               p.PID,
		Name:              p.Name,
		PC:                p.PC,
		TotalInstructions: p.TotalInstructions,
		Finished:          p.Finished,
		CPUCore:           p.CPUCore,
		MemorySize:        p.MemorySize,
		StartTime:         p.StartTime,
		EndTime:           p.EndTime,
		Log:               logCopy,
	}
}

func (p *PCB) String() string {
	return fmt.Sprintf("PCB{pid=%d name=%s pc=%d/%d finished=%t}", p.PID, p.Name, p.PC, p.TotalInstructions, p.Finished)
}
