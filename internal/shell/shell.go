// Package shell is the line-oriented command boundary: it reads commands
// from stdin, translates them into core operations against the scheduler
// and memory manager, and writes responses to stdout. None of the
// concurrency or paging logic lives here — this package only dispatches.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/oss-sched/csopesy-sim/internal/config"
	"github.com/oss-sched/csopesy-sim/internal/errs"
	"github.com/oss-sched/csopesy-sim/internal/logging"
	"github.com/oss-sched/csopesy-sim/internal/memory"
	"github.com/oss-sched/csopesy-sim/internal/process"
	"github.com/oss-sched/csopesy-sim/internal/scheduler"
)

var log = logging.For("shell")

const backingStorePath = "csopesy-backing-store.txt"

// Shell holds everything the command layer needs across a session: the
// loaded config (nil before "initialize"), the memory manager, the
// scheduler, and whichever process screen is currently attached (nil means
// the main menu).
type Shell struct {
	cfg   *config.Config
	mem   *memory.Manager
	sched *scheduler.Scheduler
	rng   *rand.Rand

	attached *process.PCB

	out io.Writer
}

// New constructs a Shell. If initialConfigPath is non-empty, it is
// initialized immediately (mirroring the root command's optional
// positional argument) and any error is returned before the REPL starts.
func New(out io.Writer, initialConfigPath string) (*Shell, error) {
	sh := &Shell{
		mem: memory.NewManager(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		out: out,
	}
	if initialConfigPath != "" {
		if err := sh.initialize(initialConfigPath); err != nil {
			return nil, err
		}
	}
	return sh, nil
}

// Run drives the REPL until "exit" is issued from the main menu or in
// reaches EOF.
func (sh *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	sh.printf("csopesy-sim ready. Type a command.\n")
	for {
		if sh.attached == nil {
			sh.printf("> ")
		} else {
			sh.printf("[%s]> ", sh.attached.Name)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		stop, err := sh.dispatch(line)
		if err != nil {
			sh.printf("ERROR: %s\n", describeErr(err))
		}
		if stop {
			return nil
		}
	}
}

func (sh *Shell) printf(format string, a ...interface{}) {
	fmt.Fprintf(sh.out, format, a...)
}

// describeErr renders a core error the way the command surface promises:
// bare "invalid command" for every InvalidArgument error (bad instruction
// text, bad usage, bad sizes or names, bad config values), the structured
// message otherwise.
func describeErr(err error) string {
	if errs.Is(err, errs.InvalidArgument) {
		return "invalid command"
	}
	return err.Error()
}

// requireInitialized is the guard every command but "initialize" and
// "exit" must pass first.
func (sh *Shell) requireInitialized() error {
	if sh.cfg == nil {
		return errs.NotInitializedf("run \"initialize <config-path>\" first")
	}
	return nil
}

func (sh *Shell) initialize(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	sh.cfg = cfg
	sh.sched = scheduler.New(scheduler.Config{
		NumCPU:           cfg.NumCPU,
		QuantumCycles:    cfg.QuantumCycles,
		BatchProcessFreq: cfg.BatchProcessFreq,
		MinIns:           cfg.MinIns,
		MaxIns:           cfg.MaxIns,
		DelayPerExec:     cfg.DelayPerExec,
		MinMemPerProc:    cfg.MinMemPerProc,
		MaxMemPerProc:    cfg.MaxMemPerProc,
	}, sh.mem)

	if cfg.HasMemoryConfig() {
		if err := sh.mem.Initialize(cfg.MaxOverallMem, cfg.MemPerFrame, backingStorePath); err != nil {
			return err
		}
	}
	log.WithField("path", path).Info("simulator initialized")
	return nil
}
