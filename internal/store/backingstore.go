// Package store implements the demand-paging backing store: a durable
// mapping from (pid, page) to a fixed-size byte block, rewritten to a
// human-readable file on every mutation. The format and file name are part
// of the external interface: one line per live block,
// "Key: <pid>_<page> Data: [<u16> <u16> ...]".
package store

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/oss-sched/csopesy-sim/internal/logging"
)

var log = logging.For("store")

const DefaultPath = "csopesy-backing-store.txt"

type key struct {
	pid  int
	page int
}

// Store is the durable backing store for evicted pages. All public methods
// take the store's own mutex; the memory manager's fault handler holds its
// own mutex across a call into Store, matching the lock order
// ready-queue -> per-PCB -> memory-manager -> backing-store file handle.
type Store struct {
	mu       sync.Mutex
	path     string
	blocks   map[key][]byte
	blockLen int
}

// New creates a backing store that persists to path. blockLen is the fixed
// size (mem_per_frame) of every block it will ever hold.
func New(path string, blockLen int) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, blocks: make(map[key][]byte), blockLen: blockLen}
}

// Reset empties the store and truncates the persisted file.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = make(map[key][]byte)
	s.flushLocked()
}

// Put writes (or overwrites) the block for (pid, page) and persists it.
func (s *Store) Put(pid, page int, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, s.blockLen)
	copy(cp, data)
	s.blocks[key{pid, page}] = cp
	s.flushLocked()

	log.WithFields(map[string]interface{}{"pid": pid, "page": page}).Info("page written to backing store")
}

// Get returns the stored block for (pid, page), if any.
func (s *Store) Get(pid, page int) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[key{pid, page}]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, true
}

// EvictProcess erases every entry belonging to pid, used on deallocation.
func (s *Store) EvictProcess(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.blocks {
		if k.pid == pid {
			delete(s.blocks, k)
		}
	}
	s.flushLocked()

	log.WithField("pid", pid).Info("backing store entries purged for process")
}

// flushLocked rewrites the entire persisted file. Correct but O(N) per
// mutation; an implementer may buffer and checkpoint instead, but the file's
// content after a quiescent period must match this output exactly.
func (s *Store) flushLocked() {
	f, err := os.Create(s.path)
	if err != nil {
		log.WithError(err).WithField("path", s.path).Error("failed to open backing store file")
		return
	}
	defer f.Close()

	keys := make([]key, 0, len(s.blocks))
	for k := range s.blocks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pid != keys[j].pid {
			return keys[i].pid < keys[j].pid
		}
		return keys[i].page < keys[j].page
	})

	w := bufio.NewWriter(f)
	for _, k := range keys {
		data := s.blocks[k]
		cells := make([]string, 0, len(data)/2)
		for i := 0; i+1 < len(data); i += 2 {
			v := uint16(data[i]) | uint16(data[i+1])<<8
			cells = append(cells, strconv.Itoa(int(v)))
		}
		fmt.Fprintf(w, "Key: %d_%d Data: [%s]\n", k.pid, k.page, strings.Join(cells, " "))
	}
	w.Flush()
}
