package process

import (
	"math/rand"

	"github.com/oss-sched/csopesy-sim/internal/errs"
)

var varNames = []string{"x0", "x1", "x2", "x3", "x4"}

const maxForDepth = 3

// GeneratorConfig bounds random program synthesis, taken from the loaded
// scheduler configuration.
type GeneratorConfig struct {
	MinIns int
	MaxIns int
}

// RandomProgram synthesizes a random instruction sequence of length in
// [cfg.MinIns, cfg.MaxIns], matching the batch generator's rules:
// kinds sampled from the 6 randomizable ones, FOR excluded at nesting depth
// >= 3, FOR count in [2,4] with body length in [1,3].
func RandomProgram(rng *rand.Rand, cfg GeneratorConfig) []Instruction {
	n := cfg.MinIns
	if cfg.MaxIns > cfg.MinIns {
		n = cfg.MinIns + rng.Intn(cfg.MaxIns-cfg.MinIns+1)
	}
	return randomSequence(rng, n, 0)
}

func randomSequence(rng *rand.Rand, n, depth int) []Instruction {
	seq := make([]Instruction, n)
	for i := 0; i < n; i++ {
		seq[i] = randomInstruction(rng, depth)
	}
	return seq
}

func randomInstruction(rng *rand.Rand, depth int) Instruction {
	kinds := []Kind{Print, Declare, Add, Sub, Sleep, For}
	if depth >= maxForDepth {
		kinds = kinds[:len(kinds)-1] // exclude FOR
	}
	kind := kinds[rng.Intn(len(kinds))]

	switch kind {
	case Print:
		v := ""
		if rng.Intn(2) == 0 {
			v = randomVar(rng)
		}
		return Instruction{Kind: Print, PrintVar: v}
	case Declare:
		return Instruction{Kind: Declare, DeclareVar: randomVar(rng), DeclareImm: randomImm(rng)}
	case Add:
		return Instruction{Kind: Add, Dst: randomVar(rng), A: randomOperand(rng), B: randomOperand(rng)}
	case Sub:
		return Instruction{Kind: Sub, Dst: randomVar(rng), A: randomOperand(rng), B: randomOperand(rng)}
	case Sleep:
		return Instruction{Kind: Sleep, SleepTicks: 1 + rng.Intn(5)}
	case For:
		count := 2 + rng.Intn(3) // [2,4]
		bodyLen := 1 + rng.Intn(3) // [1,3]
		return Instruction{Kind: For, ForCount: count, ForBody: randomSequence(rng, bodyLen, depth+1)}
	default:
		return Instruction{Kind: Print}
	}
}

func randomVar(rng *rand.Rand) string {
	return varNames[rng.Intn(len(varNames))]
}

func randomImm(rng *rand.Rand) uint16 {
	return uint16(rng.Intn(500)) // [0, 499]
}

func randomOperand(rng *rand.Rand) Operand {
	if rng.Intn(2) == 0 {
		return VarOperand(randomVar(rng))
	}
	return ImmOperand(randomImm(rng))
}

// RandomMemorySize samples 2^k for k uniform in
// [log2(minMemPerProc), log2(maxMemPerProc)].
func RandomMemorySize(rng *rand.Rand, minMemPerProc, maxMemPerProc int) int {
	minK := log2(minMemPerProc)
	maxK := log2(maxMemPerProc)
	if maxK < minK {
		maxK = minK
	}
	k := minK + rng.Intn(maxK-minK+1)
	return 1 << uint(k)
}

func log2(v int) int {
	k := 0
	for (1 << uint(k)) < v {
		k++
	}
	return k
}

// ParseCustomProgram parses the "screen -c" instruction text: a
// semicolon-separated list of 1-50 instructions using the token grammar in
// the external command grammar (PRINT, DECLARE v imm, ADD v op op, SUBTRACT v op op, SLEEP n,
// READ v addr, WRITE addr imm; each op is "xN" or a decimal immediate).
// Returns an InvalidArgument "invalid command" error on malformed input.
func ParseCustomProgram(text string) ([]Instruction, error) {
	tokens := splitInstructions(text)
	if len(tokens) < 1 || len(tokens) > 50 {
		return nil, errs.InvalidArgumentf("invalid command")
	}
	instructions := make([]Instruction, 0, len(tokens))
	for _, tok := range tokens {
		ins, err := parseOneInstruction(tok)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
	}
	return instructions, nil
}
