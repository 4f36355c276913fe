package optimize

import "github.com/avmforge/avmc/internal/teal"

// Run applies the three optimizer transforms in the order spec §4.5
// mandates: OptimizeProgram's peephole passes and CombinePushes only
// when level > 0; GatherProgramConstants always, since it is valuable
// for encoding size even at level 0 (its threshold-based rewrites are
// simply less productive without the peephole passes having run first).
func Run(prog *teal.Program, level int) {
	if level > 0 {
		OptimizeProgram(prog)
	}
	GatherProgramConstants(prog, DefaultThreshold)
	if level > 0 {
		CombinePushes(prog)
	}
}
