// Package config parses the simulator's configuration file: whitespace
// key-value pairs, one per line, string values optionally quoted. This is
// a boundary concern — the wire format is fixed by the external
// interface, so it is parsed with a small hand-rolled scanner rather than a
// general-purpose structured-config library; see DESIGN.md for why
// gopkg.in/yaml.v3 does not fit here.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/oss-sched/csopesy-sim/internal/errs"
)

// Config mirrors the simulator's configuration-file key table.
type Config struct {
	NumCPU             int
	Scheduler          string
	QuantumCycles      int
	BatchProcessFreq   int
	MinIns             int
	MaxIns             int
	DelayPerExec       int
	MaxOverallMem      int
	MemPerFrame        int
	MinMemPerProc      int
	MaxMemPerProc      int
}

// Load reads and validates a configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, "opening config file", err)
	}
	defer f.Close()

	raw := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := strings.ToLower(fields[0])
		value := strings.TrimSpace(strings.Join(fields[1:], " "))
		value = strings.Trim(value, `"`)
		raw[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.IOError, "reading config file", err)
	}

	cfg := &Config{}
	var parseErr error
	geti := func(key string) int {
		v, err := strconv.Atoi(raw[key])
		if err != nil {
			parseErr = errs.InvalidArgumentf("config key %q: expected integer, got %q", key, raw[key])
		}
		return v
	}
	// The four memory keys are optional; an absent one reads as 0.
	getOptional := func(key string) int {
		if _, ok := raw[key]; !ok {
			return 0
		}
		return geti(key)
	}

	cfg.NumCPU = geti("num-cpu")
	cfg.Scheduler = raw["scheduler"]
	cfg.QuantumCycles = geti("quantum-cycles")
	cfg.BatchProcessFreq = geti("batch-processes-freq")
	cfg.MinIns = geti("min-ins")
	cfg.MaxIns = geti("max-ins")
	cfg.DelayPerExec = geti("delay-per-exec")
	cfg.MaxOverallMem = getOptional("max-overall-mem")
	cfg.MemPerFrame = getOptional("mem-per-frame")
	cfg.MinMemPerProc = getOptional("min-mem-per-proc")
	cfg.MaxMemPerProc = getOptional("max-mem-per-proc")
	if parseErr != nil {
		return nil, parseErr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration bounds.
func (c *Config) Validate() error {
	if c.NumCPU < 1 {
		return errs.InvalidArgumentf("num-cpu must be >= 1, got %d", c.NumCPU)
	}
	if c.Scheduler != "" && c.Scheduler != "rr" {
		return errs.InvalidArgumentf("scheduler %q is not implemented (only \"rr\")", c.Scheduler)
	}
	if c.QuantumCycles < 1 {
		return errs.InvalidArgumentf("quantum-cycles must be >= 1, got %d", c.QuantumCycles)
	}
	if c.BatchProcessFreq < 0 {
		return errs.InvalidArgumentf("batch-processes-freq must be >= 0, got %d", c.BatchProcessFreq)
	}
	if c.MinIns > c.MaxIns {
		return errs.InvalidArgumentf("min-ins (%d) must be <= max-ins (%d)", c.MinIns, c.MaxIns)
	}
	if c.DelayPerExec < 0 {
		return errs.InvalidArgumentf("delay-per-exec must be >= 0, got %d", c.DelayPerExec)
	}

	if c.HasMemoryConfig() {
		if c.MemPerFrame <= 0 || c.MaxOverallMem%c.MemPerFrame != 0 {
			return errs.InvalidArgumentf("mem-per-frame (%d) must divide max-overall-mem (%d)", c.MemPerFrame, c.MaxOverallMem)
		}
		if !isPowerOfTwoInRange(c.MinMemPerProc) || !isPowerOfTwoInRange(c.MaxMemPerProc) {
			return errs.InvalidArgumentf("min/max-mem-per-proc must be powers of two in [64, 65536]")
		}
	}
	return nil
}

// HasMemoryConfig reports whether both memory keys were present (and
// nonzero), which lazily initializes the memory manager per the
// "initialize" command's contract.
func (c *Config) HasMemoryConfig() bool {
	return c.MaxOverallMem > 0 && c.MemPerFrame > 0
}

func isPowerOfTwoInRange(v int) bool {
	return v >= 64 && v <= 65536 && v&(v-1) == 0
}
