package shell

import (
	"strconv"
	"strings"

	"github.com/oss-sched/csopesy-sim/internal/errs"
	"github.com/oss-sched/csopesy-sim/internal/process"
	"github.com/oss-sched/csopesy-sim/internal/report"
)

// dispatch interprets one input line. The returned bool is true only when
// the whole program should stop (exit from the main menu).
func (sh *Shell) dispatch(line string) (bool, error) {
	tokens := tokenize(strings.TrimSpace(line))
	if len(tokens) == 0 {
		return false, nil
	}
	cmd := tokens[0]

	if sh.attached != nil {
		return sh.dispatchAttached(cmd)
	}

	switch cmd {
	case "initialize":
		if len(tokens) != 2 {
			return false, errs.InvalidArgumentf("usage: initialize <config-path>")
		}
		return false, sh.initialize(tokens[1])

	case "scheduler-start":
		if err := sh.requireInitialized(); err != nil {
			return false, err
		}
		return false, sh.sched.Start()

	case "scheduler-stop":
		if err := sh.requireInitialized(); err != nil {
			return false, err
		}
		return false, sh.sched.Stop()

	case "screen":
		if err := sh.requireInitialized(); err != nil {
			return false, err
		}
		return false, sh.dispatchScreen(tokens[1:])

	case "process-smi":
		if err := sh.requireInitialized(); err != nil {
			return false, err
		}
		sh.printProcessSMI()
		return false, nil

	case "vmstat":
		if err := sh.requireInitialized(); err != nil {
			return false, err
		}
		sh.printVMStat()
		return false, nil

	case "report-util":
		if err := sh.requireInitialized(); err != nil {
			return false, err
		}
		return false, sh.writeReport()

	case "exit":
		sh.shutdown()
		return true, nil

	default:
		return false, errs.InvalidArgumentf("invalid command")
	}
}

// dispatchAttached handles input while a process screen is open: only
// "process-smi" (show this process) and "exit" (return to main) apply.
func (sh *Shell) dispatchAttached(cmd string) (bool, error) {
	switch cmd {
	case "process-smi":
		sh.printAttachedProcess()
		return false, nil
	case "exit":
		sh.attached = nil
		return false, nil
	default:
		return false, errs.InvalidArgumentf("invalid command")
	}
}

func (sh *Shell) dispatchScreen(args []string) error {
	if len(args) == 0 {
		return errs.InvalidArgumentf("usage: screen -s|-c|-r|-ls ...")
	}
	switch args[0] {
	case "-s":
		return sh.screenStart(args[1:])
	case "-c":
		return sh.screenCustom(args[1:])
	case "-r":
		return sh.screenReattach(args[1:])
	case "-ls":
		sh.printListing()
		return nil
	default:
		return errs.InvalidArgumentf("invalid command")
	}
}

func (sh *Shell) screenStart(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errs.InvalidArgumentf("usage: screen -s <name> [<mem>]")
	}
	name := args[0]
	memSize := 0
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil || !isPowerOfTwoInRange(v) {
			return errs.InvalidArgumentf("memory size must be a power of two in [64, 65536]")
		}
		memSize = v
	}
	if sh.sched.Registry().NameTaken(name) {
		return errs.InvalidArgumentf("process %q already exists", name)
	}

	program := process.RandomProgram(sh.rng, process.GeneratorConfig{MinIns: sh.cfg.MinIns, MaxIns: sh.cfg.MaxIns})
	pcb, err := sh.admitNew(name, program, memSize)
	if err != nil {
		return err
	}
	sh.attached = pcb
	sh.printAttachedProcess()
	return nil
}

func (sh *Shell) screenCustom(args []string) error {
	if len(args) != 3 {
		return errs.InvalidArgumentf("invalid command")
	}
	name, memArg, instrText := args[0], args[1], args[2]
	memSize, err := strconv.Atoi(memArg)
	if err != nil || !isPowerOfTwoInRange(memSize) {
		return errs.InvalidArgumentf("invalid command")
	}
	if sh.sched.Registry().NameTaken(name) {
		return errs.InvalidArgumentf("invalid command")
	}
	program, err := process.ParseCustomProgram(instrText)
	if err != nil {
		return err
	}
	pcb, err := sh.admitNew(name, program, memSize)
	if err != nil {
		return err
	}
	sh.attached = pcb
	sh.printAttachedProcess()
	return nil
}

func (sh *Shell) admitNew(name string, program []process.Instruction, memSize int) (*process.PCB, error) {
	pid := sh.sched.Registry().NextPID()
	pcb := process.New(pid, name, program, memSize)
	if memSize > 0 {
		if err := sh.mem.Allocate(pid, memSize); err != nil {
			return nil, err
		}
	}
	sh.sched.Admit(pcb)
	return pcb, nil
}

func (sh *Shell) screenReattach(args []string) error {
	if len(args) != 1 {
		return errs.InvalidArgumentf("usage: screen -r <name>")
	}
	pcb, ok := sh.sched.Registry().ByName(args[0])
	if !ok {
		return errs.NotFoundf("no such process %q", args[0])
	}
	sh.attached = pcb
	sh.printAttachedProcess()
	return nil
}

func (sh *Shell) writeReport() error {
	pcbs := sh.sched.Registry().All()
	return report.WriteUtilizationReport("", pcbs, sh.coreUsage())
}

func isPowerOfTwoInRange(v int) bool {
	return v >= 64 && v <= 65536 && v&(v-1) == 0
}

func (sh *Shell) shutdown() {
	if sh.sched != nil && sh.sched.IsRunning() {
		_ = sh.sched.Stop()
	}
	if sh.sched != nil {
		sh.sched.Registry().Drain(func(p *process.PCB) {
			if p.MemorySize > 0 {
				sh.mem.Deallocate(p.PID)
			}
		})
	}
	log.Info("shell exiting")
}
