package optimize

import (
	"fmt"

	"github.com/avmforge/avmc/internal/teal"
)

// DefaultThreshold is the minimum number of uses a literal must have
// across a program before GatherProgramConstants hoists it into the
// constant block (spec §4.5: "used >= some threshold"). Below this, the
// per-use `pushint`/`pushbytes` encoding is no larger than an `intc`/
// `bytec` reference plus its one-time constant-block entry.
const DefaultThreshold = 2

// GatherProgramConstants hoists integer and byte literals used at least
// threshold times into the program's constant block, emitted once as
// `intcblock`/`bytecblock` ops prepended to main's entry block, rewriting
// every use-site to an `intc`/`bytec` reference by index (spec §4.5).
// This pass always runs regardless of optimization level, since it is
// purely an encoding-size transform; it is only productive, however,
// once OptimizeProgram's peephole passes have already run, so the
// pipeline runs it after OptimizeProgram when optimization_level > 0.
func GatherProgramConstants(prog *teal.Program, threshold int) {
	intCounts := map[string]int{}
	byteCounts := map[string]int{}
	for _, sub := range prog.AllSubroutines() {
		for _, b := range sub.Blocks {
			for _, op := range b.Ops {
				switch op.Opcode {
				case "pushint":
					intCounts[firstArg(op)]++
				case "pushbytes":
					byteCounts[firstArg(op)]++
				}
			}
		}
	}

	intBlock := hoistCandidates(intCounts, threshold)
	byteBlock := hoistCandidates(byteCounts, threshold)
	if len(intBlock) == 0 && len(byteBlock) == 0 {
		return
	}

	intIndex := indexOf(intBlock)
	byteIndex := indexOf(byteBlock)

	for _, sub := range prog.AllSubroutines() {
		for _, b := range sub.Blocks {
			for i, op := range b.Ops {
				switch op.Opcode {
				case "pushint":
					if idx, ok := intIndex[firstArg(op)]; ok {
						b.Ops[i] = teal.Op{Opcode: "intc", Args: []string{fmt.Sprintf("%d", idx)}, Net: op.Net, Manipulations: op.Manipulations}
					}
				case "pushbytes":
					if idx, ok := byteIndex[firstArg(op)]; ok {
						b.Ops[i] = teal.Op{Opcode: "bytec", Args: []string{fmt.Sprintf("%d", idx)}, Net: op.Net, Manipulations: op.Manipulations}
					}
				}
			}
		}
	}

	prog.IntConstants = intBlock
	prog.ByteConstants = byteBlock

	entry := prog.Main.Blocks[0]
	var preamble []teal.Op
	if len(intBlock) > 0 {
		preamble = append(preamble, teal.Op{Opcode: "intcblock", Args: intBlock, Net: 0})
	}
	if len(byteBlock) > 0 {
		preamble = append(preamble, teal.Op{Opcode: "bytecblock", Args: byteBlock, Net: 0})
	}
	entry.Ops = append(preamble, entry.Ops...)
}

// hoistCandidates returns every literal value used at least threshold
// times, sorted lexically for determinism.
func hoistCandidates(counts map[string]int, threshold int) []string {
	var out []string
	seen := map[string]bool{}
	for v, n := range counts {
		if n >= threshold && !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	// Sort for deterministic, reproducible output across compiler runs -
	// map iteration order is not stable.
	sortStrings(out)
	return out
}

func indexOf(values []string) map[string]int {
	out := make(map[string]int, len(values))
	for i, v := range values {
		out[v] = i
	}
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
