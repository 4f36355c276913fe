package eb

import (
	"math/big"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// LiteralKind discriminates the untyped literal forms the parser can
// produce before a TypeBuilder commits them to a concrete wtype (spec
// §4.2).
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	BoolLiteral
	BytesLiteral
	StringLiteral
)

// LiteralBuilder wraps an as-yet-uncommitted literal value. It satisfies
// InstanceBuilder so it can flow through the same expression pipeline as
// any other builder, but WType reports nil: a LiteralBuilder only becomes
// a real typed value once some TypeBuilder's ConvertLiteral (or the
// default int->U64 promotion in Resolve) commits it.
type LiteralBuilder struct {
	loc  *srcloc.Location
	Kind LiteralKind

	IntValue    *big.Int
	BoolValue   bool
	BytesValue  []byte
	StringValue string
}

// NewIntLiteral builds an IntLiteral LiteralBuilder.
func NewIntLiteral(loc *srcloc.Location, v *big.Int) *LiteralBuilder {
	return &LiteralBuilder{loc: loc, Kind: IntLiteral, IntValue: v}
}

// NewBoolLiteral builds a BoolLiteral LiteralBuilder.
func NewBoolLiteral(loc *srcloc.Location, v bool) *LiteralBuilder {
	return &LiteralBuilder{loc: loc, Kind: BoolLiteral, BoolValue: v}
}

// NewBytesLiteral builds a BytesLiteral LiteralBuilder.
func NewBytesLiteral(loc *srcloc.Location, v []byte) *LiteralBuilder {
	return &LiteralBuilder{loc: loc, Kind: BytesLiteral, BytesValue: v}
}

// NewStringLiteral builds a StringLiteral LiteralBuilder.
func NewStringLiteral(loc *srcloc.Location, v string) *LiteralBuilder {
	return &LiteralBuilder{loc: loc, Kind: StringLiteral, StringValue: v}
}

func (l *LiteralBuilder) Location() *srcloc.Location { return l.loc }
func (l *LiteralBuilder) WType() *wtypes.WType        { return nil }
func (l *LiteralBuilder) ResolveLiteral() *LiteralBuilder { return l }

// Resolve commits an un-promoted literal to its default wtype (spec
// §4.2: an int literal defaults to U64 when no contextual TypeBuilder
// claims it first, a bool/bytes/string literal always resolves to its
// one possible wtype). Callers that have a contextual TypeBuilder should
// call ConvertLiteral on it instead of Resolve, so operator dispatch
// (internal/eb's ResolveBinaryOp) always tries conversion before falling
// back to this default.
func (l *LiteralBuilder) Resolve(ctx *diag.Context) awst.Expr {
	switch l.Kind {
	case IntLiteral:
		if !l.IntValue.IsUint64() {
			ctx.Errorf(l.loc, "int literal %s does not fit in a uint64; use BigUInt(...) to construct an arbitrary precision value", l.IntValue.String())
			return awst.NewDummyExpression(l.loc, wtypes.U64)
		}
		return awst.NewUInt64Constant(l.loc, l.IntValue.Uint64())
	case BoolLiteral:
		return awst.NewBoolConstant(l.loc, l.BoolValue)
	case BytesLiteral:
		return awst.NewBytesConstant(l.loc, l.BytesValue)
	case StringLiteral:
		return awst.NewStringConstant(l.loc, l.StringValue)
	}
	ctx.Internal(l.loc, "eb: unhandled literal kind %d", l.Kind)
	return awst.NewDummyExpression(l.loc, wtypes.Void)
}

// ResolveAgainst commits a literal using ctx's best-known target
// TypeBuilder when one is available and implements LiteralConverter,
// and returns (nil, false) otherwise; the caller (promoteLiteral) then
// falls back to the literal's default type. This is the "try to
// convert the literal to the other operand's type" half of
// ResolveBinaryOp's dispatch (spec §4.2).
func ResolveAgainst(ctx *diag.Context, lit *LiteralBuilder, target TypeBuilder) (InstanceBuilder, bool) {
	if target == nil {
		return nil, false
	}
	conv, ok := target.(LiteralConverter)
	if !ok {
		return nil, false
	}
	return conv.ConvertLiteral(ctx, lit.loc, lit)
}
