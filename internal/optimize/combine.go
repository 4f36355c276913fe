package optimize

import "github.com/avmforge/avmc/internal/teal"

// CombinePushes merges adjacent pushint/pushbytes sequences into a single
// `pushints`/`pushbytess` op carrying every merged literal as an operand
// (spec §4.5). It runs after GatherProgramConstants, so it only sees
// literals that stayed below the hoisting threshold.
func CombinePushes(prog *teal.Program) {
	for _, sub := range prog.AllSubroutines() {
		for _, b := range sub.Blocks {
			b.Ops = combineBlock(b.Ops)
		}
	}
}

func combineBlock(ops []teal.Op) []teal.Op {
	out := make([]teal.Op, 0, len(ops))
	i := 0
	for i < len(ops) {
		op := ops[i]
		if op.Opcode != "pushint" && op.Opcode != "pushbytes" {
			out = append(out, op)
			i++
			continue
		}
		run := []teal.Op{op}
		j := i + 1
		for j < len(ops) && ops[j].Opcode == op.Opcode {
			run = append(run, ops[j])
			j++
		}
		if len(run) == 1 {
			out = append(out, op)
			i++
			continue
		}
		out = append(out, mergeRun(op.Opcode, run))
		i = j
	}
	return out
}

// mergeRun folds a run of same-opcode push ops into one combined op,
// concatenating every operand and carrying forward every merged op's
// StackManipulation trace (conservation invariant, spec §4.5).
func mergeRun(opcode string, run []teal.Op) teal.Op {
	combinedOpcode := "pushints"
	if opcode == "pushbytes" {
		combinedOpcode = "pushbytess"
	}
	merged := teal.Op{Opcode: combinedOpcode}
	for _, op := range run {
		merged.Args = append(merged.Args, op.Args...)
		merged.Net += op.Net
		merged.Manipulations = append(merged.Manipulations, op.Manipulations...)
	}
	return merged
}
