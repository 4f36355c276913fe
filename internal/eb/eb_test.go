package eb_test

import (
	"math/big"
	"testing"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/eb"
	"github.com/avmforge/avmc/internal/wtypes"
)

func TestIntLiteralPromotesToU64ByDefault(t *testing.T) {
	ctx := diag.NewContext(nil)
	lit := eb.NewIntLiteral(nil, big.NewInt(42))
	other := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 1))

	result := eb.ResolveBinaryOp(ctx, nil, "+", lit, other)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Diagnostics())
	}
	if !result.WType().Equal(wtypes.U64) {
		t.Fatalf("expected u64 result, got %s", result.WType())
	}
	expr, ok := result.Resolve(ctx).(*awst.BinaryOpExpression)
	if !ok {
		t.Fatalf("expected BinaryOpExpression, got %T", result.Resolve(ctx))
	}
	if _, ok := expr.Left.(*awst.UInt64Constant); !ok {
		t.Fatalf("expected promoted literal to resolve to UInt64Constant, got %T", expr.Left)
	}
}

func TestIntLiteralPromotesAgainstBigUintOperand(t *testing.T) {
	ctx := diag.NewContext(nil)
	lit := eb.NewIntLiteral(nil, big.NewInt(7))
	other := eb.NewBigUintInstance(nil, awst.NewBigUIntConstant(nil, big.NewInt(3)))

	result := eb.ResolveBinaryOp(ctx, nil, "+", other, lit)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Diagnostics())
	}
	if !result.WType().Equal(wtypes.BigUint) {
		t.Fatalf("expected biguint result, got %s", result.WType())
	}
}

func TestBigUintLiteralOverflowIsCodeError(t *testing.T) {
	ctx := diag.NewContext(nil)
	huge := new(big.Int).Lsh(big.NewInt(1), 513)
	lit := eb.NewIntLiteral(nil, huge)

	_, ok := eb.BigUintTypeBuilder{}.ConvertLiteral(ctx, nil, lit)
	if !ok {
		t.Fatalf("expected ConvertLiteral to handle an int literal")
	}
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", ctx.ErrorCount(), ctx.Diagnostics())
	}
}

func TestTrueDivisionEmitsCodeErrorButContinues(t *testing.T) {
	ctx := diag.NewContext(nil)
	lhs := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 10))
	rhs := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 3))

	result := eb.ResolveBinaryOp(ctx, nil, "/", lhs, rhs)
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected one CodeError for true division, got %d", ctx.ErrorCount())
	}
	if _, ok := result.Resolve(ctx).(*awst.BinaryOpExpression); !ok {
		t.Fatalf("expected lowering to continue with a binary op expression, got %T", result.Resolve(ctx))
	}
}

func TestUnsupportedBinaryOpReportsBothOperandTypes(t *testing.T) {
	ctx := diag.NewContext(nil)
	lhs := eb.NewBoolInstance(nil, awst.NewBoolConstant(nil, true))
	rhs := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 1))

	eb.ResolveBinaryOp(ctx, nil, "+", lhs, rhs)
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected exactly one error for mismatched operand types, got %d", ctx.ErrorCount())
	}
}

func TestARC4TupleIndexRequiresCompileTimeLiteral(t *testing.T) {
	ctx := diag.NewContext(nil)
	tupType := wtypes.NewARC4Tuple(ctx, nil, []*wtypes.WType{wtypes.ARC4Bool, wtypes.ARC4Byte})
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors building test fixture: %v", ctx.Diagnostics())
	}
	tup := eb.NewARC4TupleInstance(nil, tupType, awst.NewDummyExpression(nil, tupType))

	runtimeIndex := eb.NewU64Instance(nil, awst.NewVarExpression(nil, wtypes.U64, "i"))
	tup.Index(ctx, nil, runtimeIndex)
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected a CodeError for a non-literal ARC4 tuple index, got %d", ctx.ErrorCount())
	}
}

func TestARC4TupleIndexOutOfRangeIsCodeError(t *testing.T) {
	ctx := diag.NewContext(nil)
	tupType := wtypes.NewARC4Tuple(ctx, nil, []*wtypes.WType{wtypes.ARC4Bool})
	tup := eb.NewARC4TupleInstance(nil, tupType, awst.NewDummyExpression(nil, tupType))

	idx := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 5))
	tup.Index(ctx, nil, idx)
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected a CodeError for an out-of-range ARC4 tuple index, got %d", ctx.ErrorCount())
	}
}

func TestARC4TupleIndexInRangeSucceeds(t *testing.T) {
	ctx := diag.NewContext(nil)
	tupType := wtypes.NewARC4Tuple(ctx, nil, []*wtypes.WType{wtypes.ARC4Bool, wtypes.ARC4Byte})
	tup := eb.NewARC4TupleInstance(nil, tupType, awst.NewDummyExpression(nil, tupType))

	idx := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 1))
	result := tup.Index(ctx, nil, idx)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Diagnostics())
	}
	if !result.WType().Equal(wtypes.ARC4Byte) {
		t.Fatalf("expected element type arc4.byte, got %s", result.WType())
	}
}

func TestCoerceARC4ArgumentPassthroughOnExactMatch(t *testing.T) {
	ctx := diag.NewContext(nil)
	source := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 1))
	result := eb.CoerceARC4Argument(ctx, nil, wtypes.U64, source, nil)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Diagnostics())
	}
	if result != source {
		t.Fatalf("expected exact-match coercion to pass the source builder through unchanged")
	}
}

func TestCoerceARC4ArgumentEncodesNativeValue(t *testing.T) {
	ctx := diag.NewContext(nil)
	source := eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, 1))
	target := wtypes.NewARC4UintN(ctx, nil, 64, "")

	result := eb.CoerceARC4Argument(ctx, nil, target, source, nil)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Diagnostics())
	}
	if _, ok := result.Resolve(ctx).(*awst.ARC4EncodeExpression); !ok {
		t.Fatalf("expected an ARC4EncodeExpression, got %T", result.Resolve(ctx))
	}
}

func TestCoerceARC4ArgumentRejectsMismatchedARC4Source(t *testing.T) {
	ctx := diag.NewContext(nil)
	source := eb.NewARC4TupleInstance(nil, wtypes.ARC4Bool, awst.NewDummyExpression(nil, wtypes.ARC4Bool))
	target := wtypes.NewARC4UintN(ctx, nil, 64, "")

	eb.CoerceARC4Argument(ctx, nil, target, source, nil)
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected one error coercing a mismatched ARC4 source, got %d", ctx.ErrorCount())
	}
}

// u64Const is a small helper building a U64Instance literal, used
// throughout the ImmutableArray tests below.
func u64Const(v uint64) *eb.U64Instance {
	return eb.NewU64Instance(nil, awst.NewUInt64Constant(nil, v))
}

func TestImmutableArrayAppendPopReplaceSequence(t *testing.T) {
	// Mirrors the ImmutableArray[UInt64] walk from
	// original_source/test_cases/array/immutable.py: construct with
	// [42, 0, 1, 2, 3, 4, 43] (length 7), pop three times (length 4),
	// append 0..9 (length 14), append 44 (length 15), then
	// replace(2, 23).
	ctx := diag.NewContext(nil)
	arrType := wtypes.NewArray(ctx, nil, wtypes.U64, false)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors building array type: %v", ctx.Diagnostics())
	}

	initial := []eb.InstanceBuilder{
		u64Const(42), u64Const(0), u64Const(1), u64Const(2), u64Const(3), u64Const(4), u64Const(43),
	}
	builder := eb.ArrayTypeBuilder{Typ: arrType}
	arr := builder.Call(ctx, nil, initial)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors constructing array: %v", ctx.Diagnostics())
	}

	arrInst, ok := arr.(*eb.ArrayInstance)
	if !ok {
		t.Fatalf("expected *eb.ArrayInstance, got %T", arr)
	}

	for i := 0; i < 3; i++ {
		popMethod, ok := arrInst.MemberAccess(ctx, nil, "pop").(eb.Callable)
		if !ok {
			t.Fatalf("expected pop to resolve to a Callable")
		}
		result := popMethod.Call(ctx, nil, nil)
		arrInst, ok = result.(*eb.ArrayInstance)
		if !ok {
			t.Fatalf("expected pop() to yield a new *eb.ArrayInstance, got %T", result)
		}
	}
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors popping: %v", ctx.Diagnostics())
	}

	for i := uint64(0); i < 10; i++ {
		appendMethod := arrInst.MemberAccess(ctx, nil, "append").(eb.Callable)
		result := appendMethod.Call(ctx, nil, []eb.InstanceBuilder{u64Const(i)})
		arrInst = result.(*eb.ArrayInstance)
	}
	appendMethod := arrInst.MemberAccess(ctx, nil, "append").(eb.Callable)
	result := appendMethod.Call(ctx, nil, []eb.InstanceBuilder{u64Const(44)})
	arrInst = result.(*eb.ArrayInstance)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors appending: %v", ctx.Diagnostics())
	}

	replaceMethod := arrInst.MemberAccess(ctx, nil, "replace").(eb.Callable)
	result = replaceMethod.Call(ctx, nil, []eb.InstanceBuilder{u64Const(2), u64Const(23)})
	arrInst = result.(*eb.ArrayInstance)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors replacing: %v", ctx.Diagnostics())
	}

	length := arrInst.MemberAccess(ctx, nil, "length")
	lengthExpr, ok := length.Resolve(ctx).(*awst.ArrayLengthExpression)
	if !ok {
		t.Fatalf("expected ArrayLengthExpression, got %T", length.Resolve(ctx))
	}
	if lengthExpr.Base != arrInst.Resolve(ctx) {
		t.Fatalf("expected .length to measure the final array value")
	}

	first := arrInst.Index(ctx, nil, u64Const(0))
	if _, ok := first.Resolve(ctx).(*awst.IndexExpression); !ok {
		t.Fatalf("expected arr[0] to resolve to an IndexExpression, got %T", first.Resolve(ctx))
	}

	last := arrInst.Index(ctx, nil, eb.NewIntLiteral(nil, big.NewInt(-1)))
	lastExpr, ok := last.Resolve(ctx).(*awst.IndexExpression)
	if !ok {
		t.Fatalf("expected negative-index arr[-1] to resolve to an IndexExpression, got %T", last.Resolve(ctx))
	}
	if _, ok := lastExpr.Index.(*awst.BinaryOpExpression); !ok {
		t.Fatalf("expected negative index to lower to a length-offset expression, got %T", lastExpr.Index)
	}
}

func TestArrayPopTakesNoArguments(t *testing.T) {
	ctx := diag.NewContext(nil)
	arrType := wtypes.NewArray(ctx, nil, wtypes.U64, false)
	arr := eb.NewArrayInstance(nil, arrType, awst.NewDummyExpression(nil, arrType))

	popMethod := arr.MemberAccess(ctx, nil, "pop").(eb.Callable)
	popMethod.Call(ctx, nil, []eb.InstanceBuilder{u64Const(1)})
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected a CodeError for pop() given an argument, got %d", ctx.ErrorCount())
	}
}

func TestArrayContainsAndIterate(t *testing.T) {
	ctx := diag.NewContext(nil)
	arrType := wtypes.NewArray(ctx, nil, wtypes.U64, false)
	arr := eb.NewArrayInstance(nil, arrType, awst.NewDummyExpression(nil, arrType))

	contains, ok := arr.Contains(ctx, nil, u64Const(7))
	if !ok {
		t.Fatalf("expected Contains to be implemented for arrays")
	}
	if !contains.WType().Equal(wtypes.Bool) {
		t.Fatalf("expected Contains to yield a Bool value, got %s", contains.WType())
	}

	elem, ok := arr.Iterate(ctx, nil)
	if !ok {
		t.Fatalf("expected Iterate to be implemented for arrays")
	}
	if !elem.WType().Equal(wtypes.U64) {
		t.Fatalf("expected the iteration element to be UInt64-typed, got %s", elem.WType())
	}
}

func TestStructMemberAccessAndUnknownField(t *testing.T) {
	ctx := diag.NewContext(nil)
	fields := []wtypes.Field{{Name: "owner", Type: wtypes.Account}, {Name: "balance", Type: wtypes.U64}}
	structType := wtypes.NewStruct(ctx, nil, "Account", fields, true)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors building struct type: %v", ctx.Diagnostics())
	}

	s := eb.NewStructInstance(nil, structType, awst.NewDummyExpression(nil, structType))

	balance := s.MemberAccess(ctx, nil, "balance")
	if !balance.WType().Equal(wtypes.U64) {
		t.Fatalf("expected balance field to be UInt64-typed, got %s", balance.WType())
	}
	if _, ok := balance.Resolve(ctx).(*awst.FieldExpression); !ok {
		t.Fatalf("expected a FieldExpression, got %T", balance.Resolve(ctx))
	}

	s.MemberAccess(ctx, nil, "nonexistent")
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected a CodeError for an unknown field, got %d", ctx.ErrorCount())
	}
}

func TestImmutableStructRejectsAugmentedAssign(t *testing.T) {
	ctx := diag.NewContext(nil)
	fields := []wtypes.Field{{Name: "n", Type: wtypes.U64}}
	structType := wtypes.NewStruct(ctx, nil, "Counter", fields, true)
	s := eb.NewStructInstance(nil, structType, awst.NewDummyExpression(nil, structType))

	_, ok := s.AugmentedAssign(ctx, nil, "+", u64Const(1))
	if !ok {
		t.Fatalf("expected AugmentedAssign to handle the immutable struct case")
	}
	if ctx.ErrorCount() != 1 {
		t.Fatalf("expected a CodeError rejecting augmented assignment, got %d", ctx.ErrorCount())
	}
}

func TestBigUintBinaryOpWidensTypedUInt64Operand(t *testing.T) {
	ctx := diag.NewContext(nil)
	lhs := eb.NewBigUintInstance(nil, awst.NewBigUIntConstant(nil, big.NewInt(3)))
	rhs := u64Const(5)

	result := eb.ResolveBinaryOp(ctx, nil, "+", lhs, rhs)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors widening UInt64 operand: %v", ctx.Diagnostics())
	}
	if !result.WType().Equal(wtypes.BigUint) {
		t.Fatalf("expected biguint result, got %s", result.WType())
	}
	expr, ok := result.Resolve(ctx).(*awst.BinaryOpExpression)
	if !ok {
		t.Fatalf("expected BinaryOpExpression, got %T", result.Resolve(ctx))
	}
	if _, ok := expr.Right.(*awst.NumericWidenExpression); !ok {
		t.Fatalf("expected the UInt64 operand to be wrapped in a NumericWidenExpression, got %T", expr.Right)
	}
}

func TestBigUintCompareWidensTypedUInt64Operand(t *testing.T) {
	ctx := diag.NewContext(nil)
	lhs := eb.NewBigUintInstance(nil, awst.NewBigUIntConstant(nil, big.NewInt(3)))
	rhs := u64Const(5)

	result := eb.ResolveCompare(ctx, nil, "==", lhs, rhs)
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected errors widening UInt64 operand: %v", ctx.Diagnostics())
	}
	if !result.WType().Equal(wtypes.Bool) {
		t.Fatalf("expected bool result, got %s", result.WType())
	}
}
