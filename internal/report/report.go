// Package report renders the scheduler/registry snapshot that both
// "screen -ls" and "report-util" share, and writes the latter to disk.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oss-sched/csopesy-sim/internal/errs"
	"github.com/oss-sched/csopesy-sim/internal/logging"
	"github.com/oss-sched/csopesy-sim/internal/process"
)

var log = logging.For("report")

const defaultLogPath = "csopesy-log.txt"

// CoreUsage is the subset of scheduler.CoreSnapshot the report needs,
// restated here so this package does not import scheduler.
type CoreUsage struct {
	Active bool
}

// Listing renders the "screen -ls" body: running and finished processes,
// one line each, plus the cores-used/available/utilization summary.
func Listing(pcbs []*process.PCB, cores []CoreUsage) string {
	var running, finished []process.Snapshot
	for _, p := range pcbs {
		snap := p.Snapshot()
		if snap.Finished {
			finished = append(finished, snap)
		} else {
			running = append(running, snap)
		}
	}

	used := 0
	for _, c := range cores {
		if c.Active {
			used++
		}
	}
	total := len(cores)
	util := 0.0
	if total > 0 {
		util = 100 * float64(used) / float64(total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CPU utilization: %.0f%%\n", util)
	fmt.Fprintf(&b, "Cores used: %d\n", used)
	fmt.Fprintf(&b, "Cores available: %d\n", total-used)
	b.WriteString("\n")

	b.WriteString("Running processes:\n")
	if len(running) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, s := range running {
		writeLine(&b, s)
	}

	b.WriteString("\nFinished processes:\n")
	if len(finished) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, s := range finished {
		writeLine(&b, s)
	}
	return b.String()
}

func writeLine(b *strings.Builder, s process.Snapshot) {
	core := "-"
	if s.CPUCore >= 0 {
		core = fmt.Sprintf("%d", s.CPUCore)
	}
	stamp := s.StartTime.Format("01/02/2006 03:04:05PM")
	if s.Finished {
		stamp = s.EndTime.Format("01/02/2006 03:04:05PM")
	}
	fmt.Fprintf(b, "  %-16s (%s)  core:%-3s  %d / %d\n", s.Name, stamp, core, s.PC, s.TotalInstructions)
}

// WriteUtilizationReport writes Listing's output to path (defaultLogPath if
// empty), truncating any prior content — report-util is not cumulative.
func WriteUtilizationReport(path string, pcbs []*process.PCB, cores []CoreUsage) error {
	if path == "" {
		path = defaultLogPath
	}
	body := fmt.Sprintf("Report generated %s\n\n%s", time.Now().Format("01/02/2006 03:04:05PM"), Listing(pcbs, cores))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return errs.Wrap(errs.IOError, "writing utilization report", err)
	}
	log.WithField("path", path).Info("utilization report written")
	return nil
}
