package memory

import (
	"sync"

	"github.com/oss-sched/csopesy-sim/internal/clock"
	"github.com/oss-sched/csopesy-sim/internal/errs"
	"github.com/oss-sched/csopesy-sim/internal/logging"
	"github.com/oss-sched/csopesy-sim/internal/store"
)

var log = logging.For("memory")

// Stats is a point-in-time snapshot of the manager's counters.
type Stats struct {
	TotalFrames     int
	UsedFrames      int
	FreeFrames      int
	TotalPageFaults int64
	TotalPagesIn    int64
	TotalPagesOut   int64
}

// Manager is the public memory subsystem: address translation, the
// page-fault handler, and LRU eviction against the backing store. All
// public methods hold mu for their full duration — reads, writes and faults
// never run concurrently with each other or with Allocate/Deallocate.
type Manager struct {
	mu sync.Mutex

	initialized bool
	memPerFrame int
	frames      *FrameTable
	pages       *Registry
	lru         clock.LRUClock
	backing     *store.Store

	totalPageFaults int64
	totalPagesIn    int64
	totalPagesOut   int64
}

func NewManager() *Manager {
	return &Manager{pages: NewRegistry()}
}

// Initialize (re)establishes the manager's frame pool and resets stats. It
// is safe to call more than once; the second call is a full reset, which is
// the idempotence the memory manager promises modulo stats.
func (m *Manager) Initialize(maxOverallMem, memPerFrame int, backingPath string) error {
	if memPerFrame <= 0 || maxOverallMem <= 0 || maxOverallMem%memPerFrame != 0 {
		return errs.InvalidArgumentf("max-overall-mem (%d) must be a positive multiple of mem-per-frame (%d)", maxOverallMem, memPerFrame)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	totalFrames := maxOverallMem / memPerFrame
	m.memPerFrame = memPerFrame
	m.frames = NewFrameTable(totalFrames, memPerFrame)
	m.pages = NewRegistry()
	m.backing = store.New(backingPath, memPerFrame)
	m.backing.Reset()
	m.totalPageFaults, m.totalPagesIn, m.totalPagesOut = 0, 0, 0
	m.initialized = true

	log.WithFields(map[string]interface{}{
		"total_frames":  totalFrames,
		"mem_per_frame": memPerFrame,
	}).Info("memory manager initialized")
	return nil
}

func isPowerOfTwoInRange(size int) bool {
	if size < 64 || size > 65536 {
		return false
	}
	return size&(size-1) == 0
}

// Allocate installs an all-invalid page table for pid. It never reserves
// frames: paging is purely on demand.
func (m *Manager) Allocate(pid, size int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return errs.NotInitializedf("memory manager not initialized")
	}
	if !isPowerOfTwoInRange(size) {
		return errs.InvalidArgumentf("memory size %d must be a power of two in [64, 65536]", size)
	}

	numPages := (size + m.memPerFrame - 1) / m.memPerFrame
	m.pages.Install(pid, size, numPages)

	log.WithFields(map[string]interface{}{"pid": pid, "size": size, "pages": numPages}).Info("process memory allocated")
	return nil
}

// Deallocate frees every frame owned by pid, removes its page table and
// size record, and erases its backing-store entries.
func (m *Manager) Deallocate(pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frames != nil {
		for _, id := range m.frames.FramesOwnedBy(pid) {
			m.frames.Release(id)
		}
	}
	m.pages.Remove(pid)
	if m.backing != nil {
		m.backing.EvictProcess(pid)
	}

	log.WithField("pid", pid).Info("process memory deallocated")
}

// Read resolves pid's virtual address vaddr to a 16-bit value, faulting the
// owning page in if needed.
func (m *Manager) Read(pid, vaddr int) (uint16, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, offset, ok := m.translate(pid, vaddr)
	if !ok {
		return 0, false
	}
	frame := m.frames.Get(entry.FrameNumber)
	value := uint16(frame.Data[offset]) | uint16(frame.Data[offset+1])<<8
	return value, true
}

// Write stores a 16-bit value at pid's virtual address vaddr, faulting the
// owning page in if needed.
func (m *Manager) Write(pid, vaddr int, value uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, offset, ok := m.translate(pid, vaddr)
	if !ok {
		return false
	}
	frame := m.frames.Get(entry.FrameNumber)
	frame.Data[offset] = byte(value)
	frame.Data[offset+1] = byte(value >> 8)
	return true
}

// translate resolves vaddr to (entry, offset), faulting the page in if its
// PTE is currently invalid. Caller must hold mu.
func (m *Manager) translate(pid, vaddr int) (*PageTableEntry, int, bool) {
	if !m.initialized {
		return nil, 0, false
	}
	if !m.pages.Has(pid) || vaddr < 0 {
		return nil, 0, false
	}

	page := vaddr / m.memPerFrame
	offset := vaddr % m.memPerFrame
	if page >= m.pages.NumPages(pid) {
		return nil, 0, false
	}
	// a 16-bit cell must fit entirely within the frame
	if offset+1 >= m.memPerFrame {
		return nil, 0, false
	}

	entry, ok := m.pages.Entry(pid, page)
	if !ok {
		return nil, 0, false
	}

	if !entry.Valid {
		if !m.handleFault(pid, page, entry) {
			return nil, 0, false
		}
	}

	now := m.lru.Tick()
	entry.LastAccessTime = now
	m.frames.Get(entry.FrameNumber).LastAccessTime = now

	return entry, offset, true
}

// handleFault binds a frame to (pid, page), evicting an LRU victim to the
// backing store if no frame is free, then loading from the backing store
// (or zeroing) and marking the entry valid. Caller holds mu.
func (m *Manager) handleFault(pid, page int, entry *PageTableEntry) bool {
	frameID := m.frames.FindFree()
	if frameID == -1 {
		victim := m.frames.FindLRUVictim()
		if victim == -1 {
			log.WithFields(map[string]interface{}{"pid": pid, "page": page}).Error("page fault: no victim frame available")
			return false
		}
		vf := m.frames.Get(victim)
		m.backing.Put(vf.ProcessID, vf.PageNumber, vf.Data)
		m.pages.InvalidateFrame(vf.ProcessID, victim)
		m.totalPagesOut++
		log.WithFields(map[string]interface{}{
			"victim_pid": vf.ProcessID, "victim_page": vf.PageNumber, "frame": victim,
		}).Info("page evicted to backing store")
		m.frames.Release(victim)
		frameID = victim
	}

	frame := m.frames.Get(frameID)
	if data, ok := m.backing.Get(pid, page); ok {
		copy(frame.Data, data)
		m.totalPagesIn++
		log.WithFields(map[string]interface{}{"pid": pid, "page": page, "frame": frameID}).Info("page swapped in from backing store")
	} else {
		for i := range frame.Data {
			frame.Data[i] = 0
		}
	}
	m.frames.Bind(frameID, pid, page)

	entry.Valid = true
	entry.FrameNumber = frameID
	m.totalPageFaults++

	log.WithFields(map[string]interface{}{"pid": pid, "page": page, "frame": frameID}).Info("page fault resolved")
	return true
}

// Stats returns a snapshot copy of the manager's counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frames == nil {
		return Stats{}
	}
	return Stats{
		TotalFrames:     m.frames.Total(),
		UsedFrames:      m.frames.Used(),
		FreeFrames:      m.frames.Free(),
		TotalPageFaults: m.totalPageFaults,
		TotalPagesIn:    m.totalPagesIn,
		TotalPagesOut:   m.totalPagesOut,
	}
}

// MemPerFrame reports the configured frame size.
func (m *Manager) MemPerFrame() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.memPerFrame
}

func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}
