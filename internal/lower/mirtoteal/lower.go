// Package mirtoteal implements MIR->TEAL lowering (spec §4.4, `_lower_sub`
// in the original): a stack-simulation walk of each MIR subroutine that
// opens a new TEAL block only at the entry block or at a block that is
// the target of some branching op, merging every other (fall-through)
// MIR block into the currently open TEAL block. This is the pipeline's
// primary size-reduction pre-optimization step, since TEAL blocks carry a
// label (and therefore an addressable byte offset) that fall-through
// blocks do not need.
package mirtoteal

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/teal"
)

// LowerSub lowers one MIR subroutine to TEAL. mainLabel is the label to
// give the first block when sub is the program's main subroutine (spec
// §4.4: "except for the first block of main, whose label is the
// subroutine's signature name"); for a non-main subroutine the first
// block is labeled by the subroutine's own name instead, which is also
// what a callsub targeting it by name must resolve to. Every other block
// in the subroutine is namespaced under that same label to keep it
// distinct from same-named blocks in sibling subroutines of the same
// program (see labelOf below).
func LowerSub(ctx *diag.Context, sub *mir.Subroutine, isMain bool, mainLabel string) *teal.Subroutine {
	refs := mir.ReferencedLabels(sub)

	// A program's subroutines each number their own MIR blocks from
	// scratch ("entry", "block_0", ...), so two subroutines' labels
	// collide unless namespaced by the owning subroutine's own label
	// (spec §8's label-uniqueness invariant is program-wide, not
	// per-subroutine). ownLabel is also what a callsub targeting this
	// subroutine by name must resolve to, so the entry block keeps it
	// unprefixed; every other block gets "ownLabel_blockName".
	ownLabel := sub.Name
	if isMain {
		ownLabel = mainLabel
	}
	labelOf := make(map[string]string, len(sub.Blocks))
	for i, b := range sub.Blocks {
		if i == 0 {
			labelOf[b.Name] = ownLabel
		} else {
			labelOf[b.Name] = ownLabel + "_" + b.Name
		}
	}

	out := &teal.Subroutine{Name: sub.Name}
	var cur *teal.Block
	storedGlobal := map[string]bool{}
	storedThisBlock := map[string]bool{}

	for i, b := range sub.Blocks {
		open := i == 0 || refs[b.Name]
		if open {
			cur = &teal.Block{Label: labelOf[b.Name], EntryHeight: b.EntryHeight}
			out.Blocks = append(out.Blocks, cur)
			storedThisBlock = map[string]bool{}
		}
		for _, op := range b.Ops {
			lowered := lowerOp(ctx, op)
			cur.Ops = append(cur.Ops, lowered...)
			trackSlot(op, storedGlobal, storedThisBlock, cur)
		}
		cur.Ops = append(cur.Ops, namespacedTerminatorOps(b, labelOf)...)
		cur.ExitHeight = b.ExitHeight
	}
	return out
}

// namespacedTerminatorOps renders a MIR block's terminator into its
// explicit TEAL control-transfer op(s), rewriting any in-subroutine
// target through labelOf so it points at the namespaced label the target
// MIR block was actually given (see LowerSub). Fallthrough needs no op
// (the next TEAL block in program order is reached by falling off the
// end of this one). A ConditionalBranch's condition value was already
// accounted for by the MIR builder decrementing the block's declared
// exit height without a
// matching op (awsttomir.lowerIf/lowerWhile's "condition consumed by the
// branch below"), so the synthesized "bnz" here carries the matching -1
// net effect that balances entry_height + net = exit_height (spec §4.4,
// §8); the unconditional tail jump to the false branch carries no further
// height change. Return ordinarily needs no synthesized op either, since
// an explicit awst.ReturnStatement already emitted its own inline
// "retsub" MIR op - except for the implicit trailing block
// awsttomir.closeTrailing synthesizes for a subroutine body that falls
// off its end without an explicit return, which carries no such op; that
// case gets a bare "retsub" so the subroutine never falls through past
// its own last block.
func namespacedTerminatorOps(b *mir.Block, labelOf map[string]string) []teal.Op {
	switch b.Terminator.Kind {
	case mir.Goto:
		return []teal.Op{{Opcode: "b", Args: []string{labelOf[b.Terminator.Target]}, Net: 0}}
	case mir.ConditionalBranch:
		return []teal.Op{
			{Opcode: "bnz", Args: []string{labelOf[b.Terminator.Target]}, Net: -1},
			{Opcode: "b", Args: []string{labelOf[b.Terminator.ElseTarget]}, Net: 0},
		}
	case mir.Return:
		if len(b.Ops) > 0 && b.Ops[len(b.Ops)-1].Name == "retsub" {
			return nil
		}
		return []teal.Op{{Opcode: "retsub", Net: 0}}
	default:
		return nil
	}
}

// trackSlot maintains the x-stack bookkeeping described in spec §4.4: a
// slot loaded in this block that was stored somewhere strictly earlier
// (and not yet re-stored within this same teal block) carried its value
// across a block boundary.
func trackSlot(op mir.Op, storedGlobal, storedThisBlock map[string]bool, cur *teal.Block) {
	if len(op.Args) == 0 {
		return
	}
	slot := op.Args[0]
	switch op.Name {
	case "load":
		if storedGlobal[slot] && !storedThisBlock[slot] {
			cur.XStack = append(cur.XStack, slot)
		}
	case "store":
		storedGlobal[slot] = true
		storedThisBlock[slot] = true
	}
}

// lowerOp lowers one MIR op to zero or more TEAL ops (spec §4.4: "the
// stack simulation produces zero or more TEAL ops per MIR op"). Every
// mapping here produces exactly one, carrying the MIR op's
// StackManipulation trace unchanged so the optimizer's conservation
// invariant (spec §4.5, §8) holds across this stage too.
func lowerOp(ctx *diag.Context, op mir.Op) []teal.Op {
	net := netEffect(op)
	mk := func(opcode string, args ...string) []teal.Op {
		return []teal.Op{{Opcode: opcode, Args: args, Net: net, Manipulations: op.Manipulations, Loc: op.Loc}}
	}

	switch op.Name {
	case "literal_bool":
		return mk("pushint", op.Args[0])
	case "literal_u64":
		return mk("pushint", op.Args[0])
	case "literal_biguint":
		return mk("pushbytes", hexLiteral(decimalToBytes(op.Args[0])))
	case "literal_bytes":
		raw, err := hex.DecodeString(op.Args[0])
		if err != nil {
			ctx.Internal(nil, "mirtoteal: malformed literal_bytes hex %q", op.Args[0])
		}
		return mk("pushbytes", hexLiteral(raw))
	case "load":
		return mk("load", op.Args[0])
	case "store":
		return mk("store", op.Args[0])
	case "field":
		return mk("field", op.Args[0])
	case "index":
		return mk("index")
	case "make_tuple":
		return mk("tuple_cons", op.Args[0])
	case "make_array":
		return mk("array_cons", op.Args[0])
	case "callsub":
		return mk("callsub", op.Args[0])
	case "retsub":
		return mk("retsub")
	case "pop":
		return mk("pop")
	case "assert":
		return mk("assert")
	case "arc4_encode":
		return mk("arc4_encode")
	case "arc4_decode":
		return mk("arc4_decode")
	case "dummy":
		return mk("pushint", "0")
	case "store_field":
		return mk("store_field")
	case "store_index":
		return mk("store_index")
	case "widen_biguint":
		return mk("widen_biguint")
	case "make_struct":
		return mk("struct_cons", op.Args[0])
	case "array_len":
		return mk("array_len")
	case "array_append":
		return mk("array_append")
	case "array_pop":
		return mk("array_pop")
	case "array_replace":
		return mk("array_replace")
	case "array_slice":
		return mk("array_slice")
	case "array_contains":
		return mk("array_contains")
	}
	if opcode, ok := binOpcode(op.Name); ok {
		return mk(opcode)
	}
	ctx.Internal(nil, "mirtoteal: unhandled MIR op %q", op.Name)
	return nil
}

func netEffect(op mir.Op) int {
	net := 0
	for _, m := range op.Manipulations {
		if m.Kind == mir.Push {
			net++
		} else {
			net--
		}
	}
	return net
}

// binOpcode maps a "binop_<op>"/"unop_<op>"/"cmp_<op>" MIR op name to its
// AVM mnemonic. True division (`/`) maps to the same opcode as floor
// division, matching spec §4.2's division special-case: the CodeError is
// raised upstream in internal/eb, and the compiler continues with
// floor-division semantics so later errors still surface.
func binOpcode(name string) (string, bool) {
	mapping := map[string]string{
		"binop_+": "+", "binop_-": "-", "binop_*": "*",
		"binop_//": "/", "binop_/": "/", "binop_%": "%",
		"binop_&": "&", "binop_|": "|", "binop_^": "^",
		"binop_<<": "shl", "binop_>>": "shr",
		"binop_&&": "&&", "binop_||": "||",
		"cmp_==": "==", "cmp_!=": "!=", "cmp_<": "<", "cmp_>": ">",
		"cmp_<=": "<=", "cmp_>=": ">=",
		"unop_-": "neg", "unop_~": "~", "unop_not": "!",
	}
	op, ok := mapping[name]
	return op, ok
}

func hexLiteral(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func decimalToBytes(s string) []byte {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return []byte(fmt.Sprintf("<bad-biguint:%s>", s))
	}
	return v.Bytes()
}
