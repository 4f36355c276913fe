package optimize

import (
	"strconv"

	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/teal"
)

// pureOpcodes are TEAL ops with no side effect beyond producing the value
// they push: safe to elide together with an immediately following `pop`,
// since nothing else in the program can observe that they ran.
var pureOpcodes = map[string]bool{
	"pushint": true, "pushbytes": true, "load": true,
}

// foldableBinops maps a binary opcode to the Go operator it performs,
// used by constant folding over two immediately-preceding integer
// pushes (spec §4.5: "constant folding over AVM-legal arithmetic").
var foldableBinops = map[string]func(a, b uint64) (uint64, bool){
	"+": func(a, b uint64) (uint64, bool) { return a + b, a+b >= a },
	"-": func(a, b uint64) (uint64, bool) { return a - b, a >= b },
	"*": func(a, b uint64) (uint64, bool) { return a * b, a == 0 || a*b/a == b },
	"&": func(a, b uint64) (uint64, bool) { return a & b, true },
	"|": func(a, b uint64) (uint64, bool) { return a | b, true },
	"^": func(a, b uint64) (uint64, bool) { return a ^ b, true },
}

// OptimizeProgram runs the peephole passes to fixpoint, once per
// subroutine (spec §4.5): dead-code/dup-pop cancellation, constant
// folding, and redundant store/load elimination (this compiler's
// simplified named-virtual-slot model has no cover/uncover opcodes to
// fold away, so that sub-pass's analogue here is store-immediately-
// followed-by-load-of-the-same-slot, which is equally redundant).
func OptimizeProgram(prog *teal.Program) {
	for _, sub := range prog.AllSubroutines() {
		for _, b := range sub.Blocks {
			optimizeBlock(b)
		}
	}
}

func optimizeBlock(b *teal.Block) {
	for {
		changed := false
		changed = foldPushPop(b) || changed
		changed = foldConstants(b) || changed
		changed = foldStoreLoad(b) || changed
		if !changed {
			return
		}
	}
}

// elide replaces ops[i:i+n] with a single manipulation-preserving ghost
// op carrying no real stack effect beyond the net of what it replaces,
// keeping the conservation invariant (spec §4.5) intact: every removed
// op's StackManipulation trace is carried forward rather than discarded.
func elide(ops []teal.Op, i, n int, net int) []teal.Op {
	var manips []mir.StackManipulation
	for j := i; j < i+n; j++ {
		manips = append(manips, ops[j].Manipulations...)
	}
	ghost := teal.Op{Opcode: "elided", Net: net, Manipulations: manips}
	out := make([]teal.Op, 0, len(ops)-n+1)
	out = append(out, ops[:i]...)
	out = append(out, ghost)
	out = append(out, ops[i+n:]...)
	return out
}

// replace substitutes ops[i:i+n] with a single new op, carrying forward
// every replaced op's manipulation trace onto it.
func replace(ops []teal.Op, i, n int, newOp teal.Op) []teal.Op {
	var manips []mir.StackManipulation
	for j := i; j < i+n; j++ {
		manips = append(manips, ops[j].Manipulations...)
	}
	newOp.Manipulations = manips
	out := make([]teal.Op, 0, len(ops)-n+1)
	out = append(out, ops[:i]...)
	out = append(out, newOp)
	out = append(out, ops[i+n:]...)
	return out
}

func foldPushPop(b *teal.Block) bool {
	for i := 0; i+1 < len(b.Ops); i++ {
		op, next := b.Ops[i], b.Ops[i+1]
		if pureOpcodes[op.Opcode] && op.Net == 1 && next.Opcode == "pop" && next.Net == -1 {
			b.Ops = elide(b.Ops, i, 2, 0)
			return true
		}
	}
	return false
}

func foldStoreLoad(b *teal.Block) bool {
	for i := 0; i+1 < len(b.Ops); i++ {
		store, load := b.Ops[i], b.Ops[i+1]
		if store.Opcode == "store" && load.Opcode == "load" &&
			len(store.Args) == 1 && len(load.Args) == 1 && store.Args[0] == load.Args[0] {
			// store then immediately reload the same slot: the value
			// never needed to leave the stack. Net across the pair was
			// -1 (store) + 1 (load) = 0: the value simply stays put.
			b.Ops = elide(b.Ops, i, 2, 0)
			return true
		}
	}
	return false
}

func foldConstants(b *teal.Block) bool {
	for i := 0; i+2 < len(b.Ops); i++ {
		a, bOp, op := b.Ops[i], b.Ops[i+1], b.Ops[i+2]
		if a.Opcode != "pushint" || bOp.Opcode != "pushint" {
			continue
		}
		fn, ok := foldableBinops[op.Opcode]
		if !ok {
			continue
		}
		av, aerr := strconv.ParseUint(firstArg(a), 10, 64)
		bv, berr := strconv.ParseUint(firstArg(bOp), 10, 64)
		if aerr != nil || berr != nil {
			continue
		}
		result, valid := fn(av, bv)
		if !valid {
			continue
		}
		b.Ops = replace(b.Ops, i, 3, teal.Op{Opcode: "pushint", Args: []string{strconv.FormatUint(result, 10)}, Net: 1})
		return true
	}
	return false
}

func firstArg(op teal.Op) string {
	if len(op.Args) == 0 {
		return ""
	}
	return op.Args[0]
}
