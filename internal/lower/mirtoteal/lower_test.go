package mirtoteal_test

import (
	"testing"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/lower/awsttomir"
	"github.com/avmforge/avmc/internal/lower/mirtoteal"
	"github.com/avmforge/avmc/internal/wtypes"
)

func buildAddSub() *awst.Subroutine {
	sig := awst.Signature{
		Name:       "add",
		Parameters: []awst.Parameter{{Name: "a", Type: wtypes.U64}, {Name: "b", Type: wtypes.U64}},
		ReturnType: wtypes.U64,
	}
	body := []awst.Stmt{
		awst.NewReturnStatement(nil, awst.NewBinaryOpExpression(nil, wtypes.U64, "+",
			awst.NewVarExpression(nil, wtypes.U64, "a"),
			awst.NewVarExpression(nil, wtypes.U64, "b"))),
	}
	return awst.NewSubroutine(nil, sig, body)
}

func TestLowerSubMainLabel(t *testing.T) {
	ctx := diag.NewContext(nil)
	mirSub := awsttomir.Lower(ctx, buildAddSub())
	tealSub := mirtoteal.LowerSub(ctx, mirSub, true, "add")
	if len(tealSub.Blocks) != 1 {
		t.Fatalf("expected 1 merged block, got %d", len(tealSub.Blocks))
	}
	if tealSub.Blocks[0].Label != "add" {
		t.Fatalf("expected main's first block labeled by signature name, got %q", tealSub.Blocks[0].Label)
	}
	if err := tealSub.Blocks[0].Validate(); err != nil {
		t.Fatalf("block invalid: %v", err)
	}
}

func TestLowerSubBranchingKeepsLabels(t *testing.T) {
	ctx := diag.NewContext(nil)
	ifStmt := awst.NewIfStatement(nil,
		awst.NewCompareExpression(nil, "==", awst.NewUInt64Constant(nil, 1), awst.NewUInt64Constant(nil, 1)),
		[]awst.Stmt{awst.NewReturnStatement(nil, awst.NewUInt64Constant(nil, 10))},
		[]awst.Stmt{awst.NewReturnStatement(nil, awst.NewUInt64Constant(nil, 20))},
	)
	sig := awst.Signature{Name: "pick", ReturnType: wtypes.U64}
	sub := awst.NewSubroutine(nil, sig, []awst.Stmt{ifStmt})

	mirSub := awsttomir.Lower(ctx, sub)
	tealSub := mirtoteal.LowerSub(ctx, mirSub, false, "")
	if len(tealSub.Blocks) < 3 {
		t.Fatalf("expected separate blocks for entry/then/else, got %d", len(tealSub.Blocks))
	}
	labels := map[string]bool{}
	for _, b := range tealSub.Blocks {
		if labels[b.Label] {
			t.Fatalf("duplicate label %q", b.Label)
		}
		labels[b.Label] = true
		if err := b.Validate(); err != nil {
			t.Fatalf("block %q invalid: %v", b.Label, err)
		}
	}
}

func TestLowerSubEmitsBranchOps(t *testing.T) {
	ctx := diag.NewContext(nil)
	ifStmt := awst.NewIfStatement(nil,
		awst.NewCompareExpression(nil, "==", awst.NewUInt64Constant(nil, 1), awst.NewUInt64Constant(nil, 1)),
		[]awst.Stmt{awst.NewReturnStatement(nil, awst.NewUInt64Constant(nil, 10))},
		[]awst.Stmt{awst.NewReturnStatement(nil, awst.NewUInt64Constant(nil, 20))},
	)
	sig := awst.Signature{Name: "pick", ReturnType: wtypes.U64}
	sub := awst.NewSubroutine(nil, sig, []awst.Stmt{ifStmt})

	mirSub := awsttomir.Lower(ctx, sub)
	tealSub := mirtoteal.LowerSub(ctx, mirSub, false, "")

	if tealSub.Blocks[0].Label != "pick" {
		t.Fatalf("non-main subroutine's entry block should be labeled by its own name, got %q", tealSub.Blocks[0].Label)
	}

	var gotBnz, gotB bool
	for _, b := range tealSub.Blocks {
		for _, op := range b.Ops {
			switch op.Opcode {
			case "bnz":
				gotBnz = true
				if len(op.Args) != 1 || op.Args[0] == "" {
					t.Fatalf("bnz missing a branch target: %+v", op)
				}
			case "b":
				gotB = true
				if len(op.Args) != 1 || op.Args[0] == "" {
					t.Fatalf("b missing a branch target: %+v", op)
				}
			}
		}
		if err := b.Validate(); err != nil {
			t.Fatalf("block %q invalid: %v", b.Label, err)
		}
	}
	if !gotBnz {
		t.Fatalf("expected a bnz op for the if condition")
	}
	if !gotB {
		t.Fatalf("expected an unconditional b op to the else branch")
	}
}

func TestLowerSubConservesStackManipulations(t *testing.T) {
	ctx := diag.NewContext(nil)
	mirSub := awsttomir.Lower(ctx, buildAddSub())
	tealSub := mirtoteal.LowerSub(ctx, mirSub, true, "add")

	var mirManips, tealManips int
	for _, b := range mirSub.Blocks {
		for _, op := range b.Ops {
			mirManips += len(op.Manipulations)
		}
	}
	for _, b := range tealSub.Blocks {
		for _, op := range b.Ops {
			tealManips += len(op.Manipulations)
		}
	}
	if mirManips != tealManips {
		t.Fatalf("manipulation count changed across lowering: mir=%d teal=%d", mirManips, tealManips)
	}
}
