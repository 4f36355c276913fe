package awst_test

import (
	"testing"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/wtypes"
)

func TestConstantTyping(t *testing.T) {
	cases := []struct {
		name string
		expr awst.Expr
		want *wtypes.WType
	}{
		{"bool", awst.NewBoolConstant(nil, true), wtypes.Bool},
		{"u64", awst.NewUInt64Constant(nil, 42), wtypes.U64},
		{"bytes", awst.NewBytesConstant(nil, []byte("hi")), wtypes.Bytes},
		{"string", awst.NewStringConstant(nil, "hi"), wtypes.String},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.expr.WType().Equal(tc.want) {
				t.Fatalf("got %s, want %s", tc.expr.WType(), tc.want)
			}
			if tc.expr.Location() != nil {
				t.Fatalf("expected nil location")
			}
		})
	}
}

func TestBinaryOpExpressionCarriesOperands(t *testing.T) {
	lhs := awst.NewUInt64Constant(nil, 1)
	rhs := awst.NewUInt64Constant(nil, 2)
	bin := awst.NewBinaryOpExpression(nil, wtypes.U64, "+", lhs, rhs)
	if bin.Left != lhs || bin.Right != rhs || bin.Op != "+" {
		t.Fatalf("unexpected binary op expression: %+v", bin)
	}
	if !bin.WType().Equal(wtypes.U64) {
		t.Fatalf("expected u64 result type")
	}
}

func TestDummyExpressionDefaultsToVoid(t *testing.T) {
	d := awst.NewDummyExpression(nil, nil)
	if !d.WType().Equal(wtypes.Void) {
		t.Fatalf("expected void default, got %s", d.WType())
	}
}

func TestSubroutineAndContractShape(t *testing.T) {
	sig := awst.Signature{Name: "add", Parameters: []awst.Parameter{{Name: "a", Type: wtypes.U64}, {Name: "b", Type: wtypes.U64}}, ReturnType: wtypes.U64}
	ret := awst.NewReturnStatement(nil, awst.NewBinaryOpExpression(nil, wtypes.U64, "+",
		awst.NewVarExpression(nil, wtypes.U64, "a"), awst.NewVarExpression(nil, wtypes.U64, "b")))
	sub := awst.NewSubroutine(nil, sig, []awst.Stmt{ret})
	method := &awst.Method{Subroutine: sub, ARC4: &awst.ARC4MethodConfig{Signature: "add(uint64,uint64)uint64"}}
	contract := awst.NewContract(nil, "Adder", []*awst.Method{method}, nil)
	if contract.Name != "Adder" || len(contract.Methods) != 1 {
		t.Fatalf("unexpected contract: %+v", contract)
	}
	if contract.Methods[0].Subroutine.Signature.Name != "add" {
		t.Fatalf("unexpected subroutine name")
	}
}
