// Package memory implements the demand-paging memory manager: the frame
// table (physical memory), the per-process page table registry, and the
// public read/write/allocate contract with LRU victim selection.
package memory

import (
	"sort"

	"github.com/Workiva/go-datastructures/bitarray"
)

// Frame is one fixed-size physical memory slot plus its occupancy metadata.
type Frame struct {
	FrameID        int
	ProcessID      int // -1 when free
	PageNumber     int // -1 when free
	IsFree         bool
	LastAccessTime int64
	Data           []byte
}

// FrameTable is the array of physical frames. It has no mutex of its own —
// every method is only ever called while the owning Manager holds its single
// process-wide mutex, per the memory manager's concurrency contract.
type FrameTable struct {
	frames      []Frame
	memPerFrame int
	free        bitarray.BitArray // bit set <=> frame is free
}

func NewFrameTable(totalFrames, memPerFrame int) *FrameTable {
	ft := &FrameTable{
		frames:      make([]Frame, totalFrames),
		memPerFrame: memPerFrame,
		free:        bitarray.NewBitArray(uint64(totalFrames)),
	}
	for i := range ft.frames {
		ft.frames[i] = Frame{
			FrameID:    i,
			ProcessID:  -1,
			PageNumber: -1,
			IsFree:     true,
			Data:       make([]byte, memPerFrame),
		}
		_ = ft.free.SetBit(uint64(i))
	}
	return ft
}

func (ft *FrameTable) Total() int { return len(ft.frames) }

func (ft *FrameTable) Get(id int) *Frame { return &ft.frames[id] }

// Used counts frames currently allocated to a process.
func (ft *FrameTable) Used() int {
	used := 0
	for i := range ft.frames {
		if !ft.frames[i].IsFree {
			used++
		}
	}
	return used
}

func (ft *FrameTable) Free() int { return ft.Total() - ft.Used() }

// FindFree returns the lowest-numbered free frame, or -1 if none exists.
// The free set is tracked in a bitmap rather than by re-scanning every
// frame's IsFree flag on each lookup.
func (ft *FrameTable) FindFree() int {
	nums := ft.free.ToNums()
	if len(nums) == 0 {
		return -1
	}
	min := nums[0]
	for _, n := range nums[1:] {
		if n < min {
			min = n
		}
	}
	return int(min)
}

// FindLRUVictim returns the allocated frame with the smallest
// LastAccessTime, tie-broken by lowest FrameID. Returns -1 if every frame is
// free (there is nothing to evict, which FindFree would have already
// claimed).
func (ft *FrameTable) FindLRUVictim() int {
	victim := -1
	var victimTime int64
	for i := range ft.frames {
		f := &ft.frames[i]
		if f.IsFree {
			continue
		}
		if victim == -1 || f.LastAccessTime < victimTime ||
			(f.LastAccessTime == victimTime && f.FrameID < victim) {
			victim = f.FrameID
			victimTime = f.LastAccessTime
		}
	}
	return victim
}

// Bind assigns frame id to (pid, page), clearing the free bit.
func (ft *FrameTable) Bind(id, pid, page int) {
	f := &ft.frames[id]
	f.ProcessID = pid
	f.PageNumber = page
	f.IsFree = false
	_ = ft.free.ClearBit(uint64(id))
}

// Release marks frame id free again, zeroing its data and metadata.
func (ft *FrameTable) Release(id int) {
	f := &ft.frames[id]
	f.ProcessID = -1
	f.PageNumber = -1
	f.IsFree = true
	f.LastAccessTime = 0
	for i := range f.Data {
		f.Data[i] = 0
	}
	_ = ft.free.SetBit(uint64(id))
}

// FramesOwnedBy returns, in ascending order, the ids of every frame
// currently allocated to pid.
func (ft *FrameTable) FramesOwnedBy(pid int) []int {
	var ids []int
	for i := range ft.frames {
		if !ft.frames[i].IsFree && ft.frames[i].ProcessID == pid {
			ids = append(ids, ft.frames[i].FrameID)
		}
	}
	sort.Ints(ids)
	return ids
}
