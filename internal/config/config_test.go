package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oss-sched/csopesy-sim/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
num-cpu 4
scheduler "rr"
quantum-cycles 5
batch-processes-freq 1
min-ins 1000
max-ins 2000
delay-per-exec 0
max-overall-mem 16384
mem-per-frame 16
min-mem-per-proc 64
max-mem-per-proc 1024
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.NumCPU)
	require.Equal(t, "rr", cfg.Scheduler)
	require.True(t, cfg.HasMemoryConfig())
}

func TestLoadRejectsBadScheduler(t *testing.T) {
	path := writeConfig(t, `
num-cpu 1
scheduler fcfs
quantum-cycles 1
batch-processes-freq 0
min-ins 1
max-ins 1
delay-per-exec 0
max-overall-mem 0
mem-per-frame 0
min-mem-per-proc 64
max-mem-per-proc 64
`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadWithZeroMemoryKeysHasNoMemoryConfig(t *testing.T) {
	path := writeConfig(t, `
num-cpu 1
scheduler rr
quantum-cycles 1
batch-processes-freq 0
min-ins 1
max-ins 1
delay-per-exec 0
max-overall-mem 0
mem-per-frame 0
min-mem-per-proc 64
max-mem-per-proc 64
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.False(t, cfg.HasMemoryConfig())
}
