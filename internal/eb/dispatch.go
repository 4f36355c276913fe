// This file implements the operator-dispatch entry points every AWST
// statement/expression lowerer calls into (spec §4.2): a literal operand
// is first promoted against the other operand's wtype, then the binary/
// comparison op is tried on the left operand, then retried on the right
// with reverse=true (mirroring Python's __add__/__radd__ double-dispatch,
// which the source's NotImplemented-sentinel protocol models directly),
// and only then reported as a CodeError.
package eb

import (
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// ResolveBinaryOp dispatches a binary operator expression (spec §4.2).
func ResolveBinaryOp(ctx *diag.Context, loc *srcloc.Location, op string, lhs, rhs InstanceBuilder) InstanceBuilder {
	lhs = promoteLiteral(ctx, lhs, rhs)
	rhs = promoteLiteral(ctx, rhs, lhs)

	if bo, ok := lhs.(BinaryOperator); ok {
		if res, handled := bo.BinaryOp(ctx, loc, op, rhs, false); handled {
			return res
		}
	}
	if bo, ok := rhs.(BinaryOperator); ok {
		if res, handled := bo.BinaryOp(ctx, loc, op, lhs, true); handled {
			return res
		}
	}
	ctx.Errorf(loc, "unsupported operand types for %s: %s and %s", op, typeName(lhs), typeName(rhs))
	return NewDummyInstance(loc, lhs.WType())
}

// ResolveCompare dispatches a comparison expression, with the same
// literal-promotion and double-dispatch order as ResolveBinaryOp.
func ResolveCompare(ctx *diag.Context, loc *srcloc.Location, op string, lhs, rhs InstanceBuilder) InstanceBuilder {
	lhs = promoteLiteral(ctx, lhs, rhs)
	rhs = promoteLiteral(ctx, rhs, lhs)

	if c, ok := lhs.(Comparator); ok {
		if res, handled := c.Compare(ctx, loc, op, rhs, false); handled {
			return res
		}
	}
	if c, ok := rhs.(Comparator); ok {
		if res, handled := c.Compare(ctx, loc, op, lhs, true); handled {
			return res
		}
	}
	ctx.Errorf(loc, "unsupported operand types for %s: %s and %s", op, typeName(lhs), typeName(rhs))
	return NewDummyInstance(loc, wtypes.Bool)
}

// ResolveUnaryOp dispatches a prefix unary operator expression.
func ResolveUnaryOp(ctx *diag.Context, loc *srcloc.Location, op string, operand InstanceBuilder) InstanceBuilder {
	if u, ok := operand.(UnaryOperator); ok {
		if res, handled := u.UnaryOp(ctx, loc, op); handled {
			return res
		}
	}
	ctx.Errorf(loc, "unsupported operand type for unary %s: %s", op, typeName(operand))
	return NewDummyInstance(loc, operand.WType())
}

// promoteLiteral commits self to a concrete InstanceBuilder if it is
// still an uncommitted *LiteralBuilder: first by trying other's
// TypeBuilder's LiteralConverter (so `x + 5` promotes 5 to x's wtype),
// then falling back to the literal's own context-free default (spec
// §4.2).
func promoteLiteral(ctx *diag.Context, self, other InstanceBuilder) InstanceBuilder {
	lit, ok := self.(*LiteralBuilder)
	if !ok {
		return self
	}
	if owner, ok := other.(TypeOwner); ok {
		if inst, handled := ResolveAgainst(ctx, lit, owner.Builder()); handled {
			return inst
		}
	}
	return defaultInstance(ctx, lit)
}

// defaultInstance commits a literal to its context-free default wtype:
// int defaults to U64, and bool/bytes/string literals have only one
// possible wtype regardless of context.
func defaultInstance(ctx *diag.Context, lit *LiteralBuilder) InstanceBuilder {
	switch lit.Kind {
	case IntLiteral:
		inst, _ := U64TypeBuilder{}.ConvertLiteral(ctx, lit.Location(), lit)
		return inst
	case BoolLiteral:
		inst, _ := BoolTypeBuilder{}.ConvertLiteral(ctx, lit.Location(), lit)
		return inst
	case BytesLiteral:
		inst, _ := BytesTypeBuilder{}.ConvertLiteral(ctx, lit.Location(), lit)
		return inst
	case StringLiteral:
		inst, _ := StringTypeBuilder{}.ConvertLiteral(ctx, lit.Location(), lit)
		return inst
	}
	ctx.Internal(lit.Location(), "eb: unhandled literal kind %d", lit.Kind)
	return NewDummyInstance(lit.Location(), nil)
}

func typeName(ib InstanceBuilder) string {
	if ib == nil || ib.WType() == nil {
		return "<literal>"
	}
	return ib.WType().String()
}
