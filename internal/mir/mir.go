// Package mir implements the compiler's memory-intermediate
// representation (spec §3.3, §4.4): a control-flow graph of blocks over
// named virtual stack slots, produced from AWST by internal/lower/awsttomir
// and consumed by internal/lower/mirtoteal. Every op carries a
// StackManipulation audit trail so the optimizer's conservation invariant
// (spec §4.5, §8) is checkable end to end.
package mir

import (
	"github.com/google/uuid"

	"github.com/avmforge/avmc/internal/srcloc"
)

// ManipKind discriminates a StackManipulation record.
type ManipKind int

const (
	Push ManipKind = iota
	Pop
)

func (k ManipKind) String() string {
	if k == Push {
		return "push"
	}
	return "pop"
}

// StackManipulation is one audit record of a typed slot entering or
// leaving the virtual stack. Slot is the virtual slot name ("%3") when
// the pushed/popped value is bound to a local, or "" for an anonymous
// stack value (an intermediate result of an expression). The flat
// sequence of these records, across every op of every block of every
// subroutine, must be identical before and after optimization (spec
// §4.5's conservation invariant).
type StackManipulation struct {
	Kind ManipKind
	Slot string
}

// Op is one MIR instruction: a named operation (mirroring an eventual
// TEAL opcode family, e.g. "binop_+", "load", "store", "literal_u64") plus its
// immediate operands and its stack-manipulation trace.
type Op struct {
	Name         string
	Args         []string
	Manipulations []StackManipulation
	// Loc is the source location the op was lowered from, when known; it
	// flows unchanged into the lowered TEAL op and from there into the
	// assembler's debug_events map (spec §4.6, §6).
	Loc *srcloc.Location
}

// BranchKind discriminates a block's terminator.
type BranchKind int

const (
	// Fallthrough means control passes to the next block in program
	// order with no explicit branch op (spec §4.4: "fall-through MIR
	// blocks... merge into the previous TEAL block").
	Fallthrough BranchKind = iota
	Goto
	ConditionalBranch
	Return
)

// Terminator is a block's exit control transfer.
type Terminator struct {
	Kind BranchKind
	// Target is the unconditional/true-branch target block name.
	Target string
	// ElseTarget is the false-branch target for ConditionalBranch.
	ElseTarget string
}

// Targets returns every block name this terminator can transfer control
// to, used to compute the referenced-label set (spec §4.4 step 1).
func (t Terminator) Targets() []string {
	switch t.Kind {
	case Goto:
		return []string{t.Target}
	case ConditionalBranch:
		return []string{t.Target, t.ElseTarget}
	default:
		return nil
	}
}

// Block is one MIR basic block: ops in program order plus declared
// entry/exit stack heights (spec §3.3).
type Block struct {
	Name         string
	EntryHeight  int
	ExitHeight   int
	Ops          []Op
	Terminator   Terminator
}

// Subroutine is one MIR function: its name plus its blocks in program
// order, the first of which is the entry block. It carries no parameter
// or return signature.
type Subroutine struct {
	Name   string
	Blocks []*Block
}

// Program is the MIR compilation unit for one contract (spec §3.3): a
// distinguished main subroutine plus the contract's other subroutines,
// whether or not main calls them. ID correlates this program with its lowered TEAL
// program and the final bytecode/debug-events output (SPEC_FULL §3.3
// supplement).
type Program struct {
	ID          uuid.UUID
	Main        *Subroutine
	Subroutines []*Subroutine
}

// NewProgram builds a Program, generating a fresh correlation ID.
func NewProgram(main *Subroutine, subroutines []*Subroutine) *Program {
	return &Program{ID: uuid.New(), Main: main, Subroutines: subroutines}
}

// AllManipulations flattens every StackManipulation from every op of
// every block of every subroutine, in subroutine/block/op order - the
// sequence the optimizer's conservation invariant is checked against
// (spec §4.5, §8).
func (p *Program) AllManipulations() []StackManipulation {
	var out []StackManipulation
	subs := append([]*Subroutine{p.Main}, p.Subroutines...)
	for _, sub := range subs {
		for _, b := range sub.Blocks {
			for _, op := range b.Ops {
				out = append(out, op.Manipulations...)
			}
		}
	}
	return out
}

// ReferencedLabels returns the set of block names that are the target of
// some branching op anywhere in sub, computed per spec §4.4 step 1
// ("reachability-as-label").
func ReferencedLabels(sub *Subroutine) map[string]bool {
	refs := make(map[string]bool)
	for _, b := range sub.Blocks {
		for _, t := range b.Terminator.Targets() {
			refs[t] = true
		}
	}
	return refs
}
