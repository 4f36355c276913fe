// This file implements the U64 and BigUint TypeBuilders/InstanceBuilders
// (spec §4.2). BigUint is grounded directly on
// original_source/src/puya/awst_build/eb/biguint.py: the literal-
// promotion rule (an int literal commits to BigUint via an explicit
// BigUInt(...) call or by promotion against a BigUint operand), the implicit UInt64 -> BigUint widening biguint.py's
// binary_op/compare perform via _uint64_to_biguint whenever the other
// operand is already UInt64-typed (see BinaryOp/Compare below, and
// awst.NewNumericWidenExpression), and the division
// special case (true division "/" is a CodeError, since AVM integer
// division has no fractional result; the compiler still emits
// floor-division code so downstream errors are not masked by a missing
// node). There is no original_source/src/puya/awst_build/eb/uint64.py in
// the retrieved pack (only biguint.py and arc4/tuple.py are present under
// awst_build/eb); U64TypeBuilder/U64Instance are this repo's own design,
// built by analogy to BigUint's shape - the same literal-promotion and
// division-diagnostic rules, narrowed to U64's wider operator set (shifts,
// bitwise ops) and its 64-bit-overflow check in place of BigUint's
// 512-bit one.
package eb

import (
	"math/big"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

var arithmeticOps = map[string]bool{
	"+": true, "-": true, "*": true, "//": true, "/": true, "%": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
}

var compareOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// U64TypeBuilder is the TypeBuilder for wtypes.U64.
type U64TypeBuilder struct{}

func (U64TypeBuilder) WType() *wtypes.WType { return wtypes.U64 }

func (U64TypeBuilder) Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder {
	if len(args) != 1 {
		ctx.Errorf(loc, "UInt64(...) takes exactly one argument")
		return NewDummyInstance(loc, wtypes.U64)
	}
	if lit, ok := args[0].(*LiteralBuilder); ok {
		if inst, ok := U64TypeBuilder{}.ConvertLiteral(ctx, loc, lit); ok {
			return inst
		}
	}
	return args[0]
}

// ConvertLiteral promotes an int literal to a U64Instance, recording a
// CodeError if it overflows 64 bits (spec §4.2's biguint.py-mirrored
// overflow diagnostic).
func (U64TypeBuilder) ConvertLiteral(ctx *diag.Context, loc *srcloc.Location, lit *LiteralBuilder) (InstanceBuilder, bool) {
	if lit.Kind != IntLiteral {
		return nil, false
	}
	if lit.IntValue.Sign() < 0 {
		ctx.Errorf(loc, "invalid uint64 value: %s is negative", lit.IntValue.String())
		return NewDummyInstance(loc, wtypes.U64), true
	}
	if !lit.IntValue.IsUint64() {
		ctx.Errorf(loc, "invalid uint64 value: %s does not fit in 64 bits", lit.IntValue.String())
		return NewDummyInstance(loc, wtypes.U64), true
	}
	return NewU64Instance(loc, awst.NewUInt64Constant(loc, lit.IntValue.Uint64())), true
}

// U64Instance is a UInt64-typed value.
type U64Instance struct{ valueInstance }

// NewU64Instance wraps an already-typed expr as a U64Instance.
func NewU64Instance(loc *srcloc.Location, expr awst.Expr) *U64Instance {
	return &U64Instance{valueInstance{base: base{loc: loc, typ: wtypes.U64}, expr: expr}}
}

func (u *U64Instance) Builder() TypeBuilder { return U64TypeBuilder{} }

func (u *U64Instance) BoolEval(ctx *diag.Context, loc *srcloc.Location, negate bool) InstanceBuilder {
	op := "!="
	if negate {
		op = "=="
	}
	cmp := awst.NewCompareExpression(loc, op, u.expr, awst.NewUInt64Constant(loc, 0))
	return NewBoolInstance(loc, cmp)
}

func (u *U64Instance) UnaryOp(ctx *diag.Context, loc *srcloc.Location, op string) (InstanceBuilder, bool) {
	if op != "~" {
		return nil, false
	}
	return NewU64Instance(loc, awst.NewUnaryOpExpression(loc, wtypes.U64, op, u.expr)), true
}

func (u *U64Instance) BinaryOp(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if !arithmeticOps[op] {
		return nil, false
	}
	o, ok := other.(*U64Instance)
	if !ok {
		return nil, false
	}
	left, right := u.expr, o.expr
	if reverse {
		left, right = right, left
	}
	if op == "/" {
		ctx.Errorf(loc, "True division is not supported for UInt64, use // for floor division instead")
	}
	return NewU64Instance(loc, awst.NewBinaryOpExpression(loc, wtypes.U64, op, left, right)), true
}

func (u *U64Instance) Compare(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if !compareOps[op] {
		return nil, false
	}
	o, ok := other.(*U64Instance)
	if !ok {
		return nil, false
	}
	left, right := u.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewBoolInstance(loc, awst.NewCompareExpression(loc, op, left, right)), true
}

// BigUintTypeBuilder is the TypeBuilder for wtypes.BigUint.
type BigUintTypeBuilder struct{}

func (BigUintTypeBuilder) WType() *wtypes.WType { return wtypes.BigUint }

func (BigUintTypeBuilder) Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder {
	if len(args) != 1 {
		ctx.Errorf(loc, "BigUInt(...) takes exactly one argument")
		return NewDummyInstance(loc, wtypes.BigUint)
	}
	if lit, ok := args[0].(*LiteralBuilder); ok {
		if inst, ok := BigUintTypeBuilder{}.ConvertLiteral(ctx, loc, lit); ok {
			return inst
		}
	}
	return args[0]
}

func (BigUintTypeBuilder) ConvertLiteral(ctx *diag.Context, loc *srcloc.Location, lit *LiteralBuilder) (InstanceBuilder, bool) {
	if lit.Kind != IntLiteral {
		return nil, false
	}
	if lit.IntValue.Sign() < 0 {
		ctx.Errorf(loc, "invalid biguint value: %s is negative", lit.IntValue.String())
		return NewDummyInstance(loc, wtypes.BigUint), true
	}
	maxBigUint := new(big.Int).Lsh(big.NewInt(1), 512)
	if lit.IntValue.Cmp(maxBigUint) >= 0 {
		ctx.Errorf(loc, "invalid biguint value: %s exceeds the maximum of a 64 byte unsigned integer", lit.IntValue.String())
		return NewDummyInstance(loc, wtypes.BigUint), true
	}
	return NewBigUintInstance(loc, awst.NewBigUIntConstant(loc, new(big.Int).Set(lit.IntValue))), true
}

// BigUintInstance is a BigUint-typed value.
type BigUintInstance struct{ valueInstance }

// NewBigUintInstance wraps an already-typed expr as a BigUintInstance.
func NewBigUintInstance(loc *srcloc.Location, expr awst.Expr) *BigUintInstance {
	return &BigUintInstance{valueInstance{base: base{loc: loc, typ: wtypes.BigUint}, expr: expr}}
}

func (b *BigUintInstance) Builder() TypeBuilder { return BigUintTypeBuilder{} }

func (b *BigUintInstance) BoolEval(ctx *diag.Context, loc *srcloc.Location, negate bool) InstanceBuilder {
	op := "!="
	if negate {
		op = "=="
	}
	zero := awst.NewBigUIntConstant(loc, big.NewInt(0))
	cmp := awst.NewCompareExpression(loc, op, b.expr, zero)
	return NewBoolInstance(loc, cmp)
}

// BigUint supports only a restricted operator set relative to U64 (no
// shifts, no bitwise ops): spec §4.2's biguint.py grounding.
var bigUintArithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "//": true, "/": true, "%": true}

func (b *BigUintInstance) BinaryOp(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if !bigUintArithmeticOps[op] {
		return nil, false
	}
	otherExpr, ok := widenToBigUintExpr(other)
	if !ok {
		return nil, false
	}
	left, right := b.expr, otherExpr
	if reverse {
		left, right = right, left
	}
	if op == "/" {
		ctx.Errorf(loc, "True division is not supported for BigUInt, use // for floor division instead")
	}
	return NewBigUintInstance(loc, awst.NewBinaryOpExpression(loc, wtypes.BigUint, op, left, right)), true
}

func (b *BigUintInstance) Compare(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if !compareOps[op] {
		return nil, false
	}
	otherExpr, ok := widenToBigUintExpr(other)
	if !ok {
		return nil, false
	}
	left, right := b.expr, otherExpr
	if reverse {
		left, right = right, left
	}
	return NewBoolInstance(loc, awst.NewCompareExpression(loc, op, left, right)), true
}

// widenToBigUintExpr returns other's underlying expression, implicitly
// widening it to BigUint if it is already a typed UInt64 value
// (biguint.py's _uint64_to_biguint: only a UInt64-typed operand widens,
// an untyped int literal instead commits via ConvertLiteral/promoteLiteral
// before BinaryOp/Compare ever runs).
func widenToBigUintExpr(other InstanceBuilder) (awst.Expr, bool) {
	switch o := other.(type) {
	case *BigUintInstance:
		return o.expr, true
	case *U64Instance:
		return awst.NewNumericWidenExpression(o.Location(), o.expr), true
	default:
		return nil, false
	}
}
