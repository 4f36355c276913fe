// Package teal implements the compiler's near-final stack intermediate
// representation (spec §3.3, §4.4): the textual assembly language the AVM
// executes. A teal.Program is produced from a mir.Program by
// internal/lower/mirtoteal, optionally rewritten by internal/optimize, and
// consumed by internal/asm to produce bytecode.
package teal

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/srcloc"
)

// UnknownHeight marks a block's entry or exit stack height as not
// statically known (spec §3.3: "-1 = unknown"), which arises at a block
// reachable only via dynamic control flow the lowering stage cannot size.
const UnknownHeight = -1

// Op is one TEAL instruction: an opcode mnemonic plus its immediate
// operands (already rendered to their textual form, e.g. "42" or
// "0x0102"), its net stack effect (pushes - pops, used by block
// validation), and the StackManipulation trace carried over from its
// originating MIR op (spec §4.5's conservation invariant is checked over
// these).
type Op struct {
	Opcode        string
	Args          []string
	Net           int
	Manipulations []mir.StackManipulation
	// Loc is the source location this op was lowered from, when known
	// (spec §4.6's debug_events map is keyed by byte offset to one of
	// these).
	Loc *srcloc.Location
}

// String renders one op as a line of TEAL source: "opcode arg1 arg2".
func (o Op) String() string {
	if len(o.Args) == 0 {
		return o.Opcode
	}
	return o.Opcode + " " + strings.Join(o.Args, " ")
}

// Block is one TEAL block: a label, its ops in order, and its stack
// height at entry/exit (spec §3.3). EntryHeight/ExitHeight are
// UnknownHeight when not statically determined.
type Block struct {
	Label       string
	Ops         []Op
	EntryHeight int
	ExitHeight  int
	// XStack is the carry-over set of virtual slots whose values survive
	// from an earlier block into this one without being re-pushed
	// (GLOSSARY "x-stack"; spec §4.4 step 2's "record... the x-stack").
	XStack []string
}

// NetEffect sums every op's net stack effect in the block.
func (b *Block) NetEffect() int {
	net := 0
	for _, op := range b.Ops {
		net += op.Net
	}
	return net
}

// Validate checks the block-validity invariant (spec §4.4, §8):
// entry_height + sum(op.net) = exit_height, skipped when either height is
// unknown since the sum cannot be meaningfully checked against it.
func (b *Block) Validate() error {
	if b.EntryHeight == UnknownHeight || b.ExitHeight == UnknownHeight {
		return nil
	}
	if got := b.EntryHeight + b.NetEffect(); got != b.ExitHeight {
		return fmt.Errorf("teal: block %q: entry height %d + net effect %d = %d, want exit height %d",
			b.Label, b.EntryHeight, b.NetEffect(), got, b.ExitHeight)
	}
	return nil
}

// String renders the block as TEAL source: a label line followed by its
// ops, one per line.
func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", b.Label)
	for _, op := range b.Ops {
		sb.WriteString("    ")
		sb.WriteString(op.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Subroutine is one TEAL function: its blocks in program order, the
// first of which is its entry point. Its label (the first block's Label)
// is the subroutine's signature name, except for main's first block,
// whose label is still the subroutine name by construction (spec §4.4).
type Subroutine struct {
	Name   string
	Blocks []*Block
}

// Program is the final pre-assembly compilation unit (spec §3.3):
// target_avm_version pins the opcode/field set available to the
// assembler; ID is carried over unchanged from the mir.Program it was
// lowered from (SPEC_FULL §3.3 supplement), giving every compilation
// artifact a stable cross-stage correlation key.
type Program struct {
	ID               uuid.UUID
	TargetAVMVersion int
	Main             *Subroutine
	Subroutines      []*Subroutine

	// IntConstants and ByteConstants are the hoisted constant-block
	// entries populated by internal/optimize.GatherProgramConstants
	// (spec §4.5); nil until that pass runs.
	IntConstants  []string
	ByteConstants []string
}

// AllSubroutines returns Main followed by every other subroutine, the
// canonical traversal order used by the optimizer and assembler alike.
func (p *Program) AllSubroutines() []*Subroutine {
	return append([]*Subroutine{p.Main}, p.Subroutines...)
}

// AllManipulations flattens every op's StackManipulation trace across
// the whole program, in the same traversal order as mir.Program's, so the
// two are directly comparable for the optimizer's conservation invariant
// (spec §4.5, §8).
func (p *Program) AllManipulations() []mir.StackManipulation {
	var out []mir.StackManipulation
	for _, sub := range p.AllSubroutines() {
		for _, b := range sub.Blocks {
			for _, op := range b.Ops {
				out = append(out, op.Manipulations...)
			}
		}
	}
	return out
}

// Validate checks every label is unique and every branch target resolves
// to a defined label (spec §4.4, §8), and that every block individually
// satisfies the block-validity invariant.
func (p *Program) Validate() error {
	labels := make(map[string]bool)
	for _, sub := range p.AllSubroutines() {
		for _, b := range sub.Blocks {
			if labels[b.Label] {
				return fmt.Errorf("teal: duplicate label %q", b.Label)
			}
			labels[b.Label] = true
		}
	}
	for _, sub := range p.AllSubroutines() {
		for _, b := range sub.Blocks {
			if err := b.Validate(); err != nil {
				return err
			}
			for _, op := range b.Ops {
				for _, target := range branchTargets(op) {
					if !labels[target] {
						return fmt.Errorf("teal: block %q: branch target %q is not a defined label", b.Label, target)
					}
				}
			}
		}
	}
	return nil
}

// branchTargets returns the label operand(s) of a branching op, if any.
func branchTargets(op Op) []string {
	switch op.Opcode {
	case "b", "bnz", "bz", "callsub":
		if len(op.Args) > 0 {
			return []string{op.Args[0]}
		}
	case "match", "switch":
		return op.Args
	}
	return nil
}

// String renders the full program as TEAL source text: a `#pragma
// version` header followed by main's blocks and then every other
// subroutine's blocks.
func (p *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#pragma version %d\n", p.TargetAVMVersion)
	for _, sub := range p.AllSubroutines() {
		for _, b := range sub.Blocks {
			sb.WriteString(b.String())
		}
	}
	return sb.String()
}
