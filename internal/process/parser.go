package process

import (
	"strconv"
	"strings"

	"github.com/oss-sched/csopesy-sim/internal/errs"
)

func splitInstructions(text string) []string {
	parts := strings.Split(text, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseOperand accepts "xN" (a variable, N any decimal integer) or a decimal
// immediate in [0, 65535].
func parseOperand(tok string) (Operand, error) {
	if len(tok) >= 2 && tok[0] == 'x' {
		if _, err := strconv.Atoi(tok[1:]); err == nil {
			return VarOperand(tok), nil
		}
	}
	imm, err := strconv.Atoi(tok)
	if err != nil || imm < 0 || imm > 0xFFFF {
		return Operand{}, errs.InvalidArgumentf("invalid command")
	}
	return ImmOperand(uint16(imm)), nil
}

func parseOneInstruction(tok string) (Instruction, error) {
	fields := strings.Fields(tok)
	if len(fields) == 0 {
		return Instruction{}, errs.InvalidArgumentf("invalid command")
	}

	op := strings.ToUpper(fields[0])
	args := fields[1:]

	switch op {
	case "PRINT":
		if len(args) > 1 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		v := ""
		if len(args) == 1 {
			v = args[0]
		}
		return Instruction{Kind: Print, PrintVar: v}, nil

	case "DECLARE":
		if len(args) != 2 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		imm, err := strconv.Atoi(args[1])
		if err != nil || imm < 0 || imm > 0xFFFF {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		return Instruction{Kind: Declare, DeclareVar: args[0], DeclareImm: uint16(imm)}, nil

	case "ADD", "SUBTRACT":
		if len(args) != 3 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		a, err := parseOperand(args[1])
		if err != nil {
			return Instruction{}, err
		}
		b, err := parseOperand(args[2])
		if err != nil {
			return Instruction{}, err
		}
		kind := Add
		if op == "SUBTRACT" {
			kind = Sub
		}
		return Instruction{Kind: kind, Dst: args[0], A: a, B: b}, nil

	case "SLEEP":
		if len(args) != 1 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		return Instruction{Kind: Sleep, SleepTicks: n}, nil

	case "READ":
		if len(args) != 2 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		addr, err := strconv.Atoi(args[1])
		if err != nil || addr < 0 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		return Instruction{Kind: Read, ReadVar: args[0], ReadAddr: addr}, nil

	case "WRITE":
		if len(args) != 2 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		addr, err := strconv.Atoi(args[0])
		if err != nil || addr < 0 {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		imm, err := strconv.Atoi(args[1])
		if err != nil || imm < 0 || imm > 0xFFFF {
			return Instruction{}, errs.InvalidArgumentf("invalid command")
		}
		return Instruction{Kind: Write, WriteAddr: addr, WriteImm: uint16(imm)}, nil

	default:
		return Instruction{}, errs.InvalidArgumentf("invalid command")
	}
}
