package process_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oss-sched/csopesy-sim/internal/process"
)

func TestArithmeticWrapsModulo65536(t *testing.T) {
	program, err := process.ParseCustomProgram("DECLARE x0 65530;ADD x0 x0 10;PRINT x0")
	require.NoError(t, err)

	pcb := process.New(1, "p1", program, 0)
	for !pcb.Finished {
		pcb.Mu.Lock()
		process.Execute(pcb, nil)
		pcb.Mu.Unlock()
	}

	require.Equal(t, uint16(4), pcb.Env["x0"])
	found := false
	for _, line := range pcb.Log {
		if strings.Contains(line, "Value: 4") {
			found = true
		}
	}
	require.True(t, found)
}

func TestCustomProgramValidation(t *testing.T) {
	_, err := process.ParseCustomProgram(`PRINT;SLEEP 2;ADD x0 x0 1`)
	require.NoError(t, err)

	_, err = process.ParseCustomProgram("FOO")
	require.Error(t, err)
}

func TestPrintWithoutValue(t *testing.T) {
	program := []process.Instruction{{Kind: process.Print}}
	pcb := process.New(1, "p1", program, 0)
	pcb.Mu.Lock()
	process.Execute(pcb, nil)
	pcb.Mu.Unlock()

	require.Len(t, pcb.Log, 1)
	require.Contains(t, pcb.Log[0], "Hello world from p1!")
	require.True(t, pcb.Finished)
}

func TestForCountsAsSingleQuantumInstruction(t *testing.T) {
	program := []process.Instruction{
		{
			Kind:     process.For,
			ForCount: 3,
			ForBody:  []process.Instruction{{Kind: process.Print}},
		},
		{Kind: process.Print},
	}
	pcb := process.New(1, "loopy", program, 0)

	pcb.Mu.Lock()
	process.Execute(pcb, nil) // the whole FOR runs as one top-level instruction
	pcb.Mu.Unlock()

	require.Equal(t, 1, pcb.PC)
	require.Len(t, pcb.Log, 3) // three PRINTs from the loop body
}

type fakeMem struct {
	data map[int]uint16
}

func (f *fakeMem) Read(pid, vaddr int) (uint16, bool) {
	v, ok := f.data[vaddr]
	return v, ok
}

func (f *fakeMem) Write(pid, vaddr int, value uint16) bool {
	f.data[vaddr] = value
	return true
}

func TestReadWriteDelegateToMemory(t *testing.T) {
	mem := &fakeMem{data: map[int]uint16{}}
	program := []process.Instruction{
		{Kind: process.Write, WriteAddr: 4, WriteImm: 99},
		{Kind: process.Read, ReadVar: "x0", ReadAddr: 4},
	}
	pcb := process.New(1, "p1", program, 64)

	pcb.Mu.Lock()
	process.Execute(pcb, mem)
	process.Execute(pcb, mem)
	pcb.Mu.Unlock()

	require.Equal(t, uint16(99), pcb.Env["x0"])
}
