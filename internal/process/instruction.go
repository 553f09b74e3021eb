// Package process implements the PCB, the instruction model and
// interpreter, and the batch process generator.
package process

// Kind tags an Instruction's variant.
type Kind int

const (
	Print Kind = iota
	Declare
	Add
	Sub
	Sleep
	For
	Read
	Write
)

// Operand is either a variable name (Var != "") or an immediate value.
type Operand struct {
	Var   string
	Imm   uint16
	IsImm bool
}

func ImmOperand(v uint16) Operand     { return Operand{Imm: v, IsImm: true} }
func VarOperand(name string) Operand { return Operand{Var: name} }

// Instruction is a tagged variant over the eight instruction kinds. Only the
// fields relevant to Kind are populated; this keeps a structured
// representation so the executor and the batch generator can share it
// without reparsing text at every fetch.
type Instruction struct {
	Kind Kind

	// PRINT
	PrintVar string // empty means no value suffix

	// DECLARE
	DeclareVar string
	DeclareImm uint16

	// ADD / SUB
	Dst string
	A   Operand
	B   Operand

	// SLEEP
	SleepTicks int

	// FOR
	ForCount int
	ForBody  []Instruction

	// READ
	ReadVar  string
	ReadAddr int

	// WRITE
	WriteAddr int
	WriteImm  uint16
}
