package compiler_test

import (
	"testing"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/teal"
	"github.com/avmforge/avmc/internal/wtypes"
	"github.com/avmforge/avmc/pkg/compiler"
	"github.com/avmforge/avmc/pkg/parseresult"
)

func addContract() *awst.Contract {
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
	sub := awst.NewSubroutine(nil, sig, body)
	method := &awst.Method{Subroutine: sub, ARC4: &awst.ARC4MethodConfig{Signature: "add(uint64,uint64)uint64"}}
	return awst.NewContract(nil, "Adder", []*awst.Method{method}, nil)
}

func TestCompileEndToEnd(t *testing.T) {
	pr := &parseresult.ParseResult{
		OrderedModules: []parseresult.ModuleEntry{
			{Path: "adder.algo.ts", Module: &parseresult.Module{Contracts: []*awst.Contract{addContract()}}},
		},
		SourcesByPath: map[string]string{},
	}
	opts := parseresult.CompileOptions{TargetAVMVersion: 10, OptimizationLevel: 1}

	ctx := diag.NewContext(nil)
	res, err := compiler.Compile(ctx, pr, opts)
	if err != nil {
		t.Fatalf("Compile returned internal error: %v", err)
	}
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", ctx.Diagnostics())
	}
	if len(res.Contracts) != 1 {
		t.Fatalf("expected 1 compiled contract, got %d", len(res.Contracts))
	}
	artifact := res.Contracts[0]
	if artifact.ContractName != "Adder" {
		t.Fatalf("unexpected contract name %q", artifact.ContractName)
	}
	if len(artifact.Bytecode) == 0 {
		t.Fatalf("expected non-empty bytecode")
	}
	if err := artifact.Program.Validate(); err != nil {
		t.Fatalf("assembled program failed validation: %v", err)
	}
}

// TestCompileWithSubroutineCall exercises a two-method contract where the
// program's main method calls a second, non-main method as a helper
// subroutine. This drives mirtoteal.LowerSub's cross-subroutine label
// namespacing: the helper's TEAL block must be labeled by its own
// signature name (so the "callsub" targeting it resolves) rather than
// colliding with main's "entry" block.
func TestCompileWithSubroutineCall(t *testing.T) {
	helperSig := awst.Signature{
		Name:       "double",
		Parameters: []awst.Parameter{{Name: "x", Type: wtypes.U64}},
		ReturnType: wtypes.U64,
	}
	helperBody := []awst.Stmt{
		awst.NewReturnStatement(nil, awst.NewBinaryOpExpression(nil, wtypes.U64, "+",
			awst.NewVarExpression(nil, wtypes.U64, "x"),
			awst.NewVarExpression(nil, wtypes.U64, "x"))),
	}
	helper := &awst.Method{Subroutine: awst.NewSubroutine(nil, helperSig, helperBody)}

	mainSig := awst.Signature{
		Name:       "quadruple",
		Parameters: []awst.Parameter{{Name: "x", Type: wtypes.U64}},
		ReturnType: wtypes.U64,
	}
	mainBody := []awst.Stmt{
		awst.NewReturnStatement(nil, awst.NewSubroutineCallExpression(nil, wtypes.U64, "double",
			[]awst.Expr{awst.NewSubroutineCallExpression(nil, wtypes.U64, "double",
				[]awst.Expr{awst.NewVarExpression(nil, wtypes.U64, "x")})})),
	}
	main := &awst.Method{
		Subroutine: awst.NewSubroutine(nil, mainSig, mainBody),
		ARC4:       &awst.ARC4MethodConfig{Signature: "quadruple(uint64)uint64"},
	}

	contract := awst.NewContract(nil, "Quadrupler", []*awst.Method{main, helper}, nil)

	pr := &parseresult.ParseResult{
		OrderedModules: []parseresult.ModuleEntry{
			{Path: "quadrupler.algo.ts", Module: &parseresult.Module{Contracts: []*awst.Contract{contract}}},
		},
	}
	opts := parseresult.CompileOptions{TargetAVMVersion: 10, OptimizationLevel: 1}

	ctx := diag.NewContext(nil)
	res, err := compiler.Compile(ctx, pr, opts)
	if err != nil {
		t.Fatalf("Compile returned internal error: %v", err)
	}
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", ctx.Diagnostics())
	}
	if len(res.Contracts) != 1 {
		t.Fatalf("expected 1 compiled contract, got %d (diagnostics: %+v)", len(res.Contracts), ctx.Diagnostics())
	}
	artifact := res.Contracts[0]
	if err := artifact.Program.Validate(); err != nil {
		t.Fatalf("assembled program failed validation: %v", err)
	}

	foundCallsub := false
	for _, sub := range append([]*teal.Subroutine{artifact.Program.Main}, artifact.Program.Subroutines...) {
		for _, block := range sub.Blocks {
			for _, op := range block.Ops {
				if op.Opcode == "callsub" {
					foundCallsub = true
					if len(op.Args) != 1 || op.Args[0] != "double" {
						t.Fatalf("callsub targets %v, want [\"double\"]", op.Args)
					}
				}
			}
		}
	}
	if !foundCallsub {
		t.Fatalf("expected a callsub op targeting the helper subroutine")
	}
}
