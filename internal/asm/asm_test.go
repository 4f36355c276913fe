package asm_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/avmforge/avmc/internal/asm"
	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/teal"
)

func push() mir.StackManipulation { return mir.StackManipulation{Kind: mir.Push} }

func simpleProgram() *teal.Program {
	b := &teal.Block{Label: "main", EntryHeight: 0, ExitHeight: 1, Ops: []teal.Op{
		{Opcode: "pushint", Args: []string{"7"}, Net: 1, Manipulations: []mir.StackManipulation{push()}},
	}}
	sub := &teal.Subroutine{Name: "main", Blocks: []*teal.Block{b}}
	return &teal.Program{ID: uuid.New(), TargetAVMVersion: 8, Main: sub}
}

func TestAssembleSimpleProgram(t *testing.T) {
	prog := simpleProgram()
	code, events, err := asm.Assemble(prog, asm.NewAssembleContext(nil))
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if len(code) == 0 {
		t.Fatalf("expected non-empty bytecode")
	}
	if len(events) != 1 {
		t.Fatalf("expected one debug event, got %d", len(events))
	}
	if _, ok := events[0]; !ok {
		t.Fatalf("expected a debug event at offset 0")
	}
}

func TestAssembleResolvesTemplateVariable(t *testing.T) {
	b := &teal.Block{Label: "main", EntryHeight: 0, ExitHeight: 1, Ops: []teal.Op{
		{Opcode: "pushint", Args: []string{"TMPL_FEE"}, Net: 1, Manipulations: []mir.StackManipulation{push()}},
	}}
	sub := &teal.Subroutine{Name: "main", Blocks: []*teal.Block{b}}
	prog := &teal.Program{ID: uuid.New(), TargetAVMVersion: 8, Main: sub}

	actx := asm.NewAssembleContext(map[string]asm.TemplateVariable{
		"FEE": {Name: "FEE", Value: "1000"},
	})
	code, _, err := asm.Assemble(prog, actx)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if len(code) == 0 {
		t.Fatalf("expected non-empty bytecode")
	}
}

func TestAssembleUnresolvedTemplateVariableErrors(t *testing.T) {
	b := &teal.Block{Label: "main", EntryHeight: 0, ExitHeight: 1, Ops: []teal.Op{
		{Opcode: "pushint", Args: []string{"TMPL_MISSING"}, Net: 1, Manipulations: []mir.StackManipulation{push()}},
	}}
	sub := &teal.Subroutine{Name: "main", Blocks: []*teal.Block{b}}
	prog := &teal.Program{ID: uuid.New(), TargetAVMVersion: 8, Main: sub}

	_, _, err := asm.Assemble(prog, asm.NewAssembleContext(nil))
	if err == nil {
		t.Fatalf("expected error for unresolved template variable")
	}
}

func TestAssembleBranchResolvesLabel(t *testing.T) {
	entry := &teal.Block{Label: "entry", EntryHeight: 0, ExitHeight: 0, Ops: []teal.Op{
		{Opcode: "b", Args: []string{"target"}, Net: 0},
	}}
	target := &teal.Block{Label: "target", EntryHeight: 0, ExitHeight: 0, Ops: []teal.Op{
		{Opcode: "retsub", Net: 0},
	}}
	sub := &teal.Subroutine{Name: "main", Blocks: []*teal.Block{entry, target}}
	prog := &teal.Program{ID: uuid.New(), TargetAVMVersion: 8, Main: sub}

	code, _, err := asm.Assemble(prog, asm.NewAssembleContext(nil))
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	// opcode(1) + 2-byte offset, then opcode(1) for retsub = 4 bytes.
	if len(code) != 4 {
		t.Fatalf("expected 4 bytes, got %d: %x", len(code), code)
	}
}
