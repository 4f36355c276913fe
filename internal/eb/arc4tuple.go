// ARC4TupleInstance implements spec §4.2's ARC4 tuple indexing rule:
// only compile-time integer-literal indices are permitted (out-of-range
// is a CodeError), and ARC4 tuples are neither iterable, sliceable, nor
// containers - only Indexable (plus an AugmentedAssign that always
// rejects) is implemented, so type assertions for
// Iterable/Container/SliceIndexable on this builder simply fail, letting
// the eb call site report the right diagnostic instead of any one of
// these methods silently no-oping. Grounded on
// original_source/src/puya/awst_build/eb/arc4/tuple.py.
package eb

import (
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// ARC4TupleInstance is an arc4.tuple<...>-typed value.
type ARC4TupleInstance struct{ valueInstance }

// NewARC4TupleInstance wraps an already-typed expr as an
// ARC4TupleInstance. typ.Types gives the per-index element wtype.
func NewARC4TupleInstance(loc *srcloc.Location, typ *wtypes.WType, expr awst.Expr) *ARC4TupleInstance {
	return &ARC4TupleInstance{valueInstance{base: base{loc: loc, typ: typ}, expr: expr}}
}

// Index implements Indexable. index must be a compile-time UInt64
// literal constant (spec §4.2); anything else - a runtime-valued
// instance, a negative or out-of-range literal - is a CodeError, and
// Index then returns a Void-typed dummy, since no single element type
// applies to an invalid index.
func (t *ARC4TupleInstance) Index(ctx *diag.Context, loc *srcloc.Location, index InstanceBuilder) InstanceBuilder {
	u64, ok := index.(*U64Instance)
	if !ok {
		ctx.Errorf(loc, "ARC4 tuples only support compile-time constant integer indexes")
		return NewDummyInstance(loc, wtypes.Void)
	}
	konst, ok := u64.expr.(*awst.UInt64Constant)
	if !ok {
		ctx.Errorf(loc, "ARC4 tuples only support compile-time constant integer indexes")
		return NewDummyInstance(loc, wtypes.Void)
	}
	i := int(konst.Value)
	if i < 0 || i >= len(t.typ.Types) {
		ctx.Errorf(loc, "tuple index %d out of range for tuple of length %d", i, len(t.typ.Types))
		return NewDummyInstance(loc, wtypes.Void)
	}
	elemType := t.typ.Types[i]
	return instanceForWType(loc, elemType, awst.NewIndexExpression(loc, elemType, t.expr, konst))
}

// AugmentedAssign implements AugmentedAssigner by always rejecting: an
// ARC4 tuple is an immutable aggregate with no in-place update and no
// BinaryOp to fall back on, the exact case spec §4.2's AugmentedAssigner
// design note calls out ("the rare wtype that must reject augmented
// assignment outright").
func (t *ARC4TupleInstance) AugmentedAssign(ctx *diag.Context, loc *srcloc.Location, op string, value InstanceBuilder) (InstanceBuilder, bool) {
	ctx.Errorf(loc, "%s does not support augmented assignment", t.typ.Name)
	return NewDummyInstance(loc, t.typ), true
}

// typeBuilderForWType returns the TypeBuilder matching typ's Kind, for
// the primitive cases (Bool, UInt64, BigUInt, Bytes, String), so a
// literal argument to a construction call (array element, struct field)
// can be promoted against its declared target type rather than only its
// context-free default. Every other kind (account, ARC4 and aggregate
// types) returns nil - CoerceARC4Argument then
// treats an un-promotable literal the same way any other unmatched
// operand is treated, a CodeError rather than a silent wrong-type guess.
func typeBuilderForWType(typ *wtypes.WType) TypeBuilder {
	switch typ.Kind {
	case wtypes.KindBool:
		return BoolTypeBuilder{}
	case wtypes.KindU64:
		return U64TypeBuilder{}
	case wtypes.KindBigUint:
		return BigUintTypeBuilder{}
	case wtypes.KindBytes:
		return BytesTypeBuilder{}
	case wtypes.KindString:
		return StringTypeBuilder{}
	default:
		return nil
	}
}

// instanceForWType wraps an already-built expr in the InstanceBuilder
// matching its wtype's Kind, covering the primitive and ARC4 cases an
// ARC4 tuple's elements can hold. Aggregate element kinds fall back to a
// bare valueInstance, which still satisfies InstanceBuilder even though
// it offers none of the optional capability interfaces - the same
// degrade-gracefully behavior spec §4.2 specifies for unsupported
// operations on a given builder.
func instanceForWType(loc *srcloc.Location, typ *wtypes.WType, expr awst.Expr) InstanceBuilder {
	switch typ.Kind {
	case wtypes.KindBool:
		return NewBoolInstance(loc, expr)
	case wtypes.KindU64:
		return NewU64Instance(loc, expr)
	case wtypes.KindBigUint:
		return NewBigUintInstance(loc, expr)
	case wtypes.KindBytes:
		return NewBytesInstance(loc, expr)
	case wtypes.KindString:
		return NewStringInstance(loc, expr)
	case wtypes.KindAccount:
		return NewAccountInstance(loc, expr)
	case wtypes.KindARC4Tuple:
		return NewARC4TupleInstance(loc, typ, expr)
	case wtypes.KindArray:
		return NewArrayInstance(loc, typ, expr)
	case wtypes.KindStruct:
		return NewStructInstance(loc, typ, expr)
	default:
		return &valueInstance{base: base{loc: loc, typ: typ}, expr: expr}
	}
}
