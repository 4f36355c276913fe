// BoolInstance, BytesInstance, StringInstance, AccountInstance and the
// dummy-value substitution helper (spec §7: "continue with a placeholder
// after a CodeError rather than aborting the whole compile"). None of
// bool.py, bytes.py, or _base.py exist in the retrieved original_source
// pack (only biguint.py and arc4/tuple.py live under
// src/puya/awst_build/eb/) - these builders are this repo's own design,
// shaped the same way biguint.py's BigUintExpressionBuilder is: a
// TypeBuilder/InstanceBuilder pair per wtype implementing exactly the
// capability interfaces spec §4.2 grants that wtype (Bool/Bytes get
// BoolEval/BinaryOp/Compare, String gets BinaryOp/Compare; Account, a
// reference type, gets only
// Compare, per spec §4.1's "reference types have no arithmetic").
package eb

import (
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// BoolTypeBuilder is the TypeBuilder for wtypes.Bool.
type BoolTypeBuilder struct{}

func (BoolTypeBuilder) WType() *wtypes.WType { return wtypes.Bool }

func (BoolTypeBuilder) Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder {
	if len(args) != 1 {
		ctx.Errorf(loc, "bool(...) takes exactly one argument")
		return NewDummyInstance(loc, wtypes.Bool)
	}
	if lit, ok := args[0].(*LiteralBuilder); ok {
		if inst, ok := BoolTypeBuilder{}.ConvertLiteral(ctx, loc, lit); ok {
			return inst
		}
	}
	return args[0]
}

func (BoolTypeBuilder) ConvertLiteral(ctx *diag.Context, loc *srcloc.Location, lit *LiteralBuilder) (InstanceBuilder, bool) {
	if lit.Kind != BoolLiteral {
		return nil, false
	}
	return NewBoolInstance(loc, awst.NewBoolConstant(loc, lit.BoolValue)), true
}

// BoolInstance is a Bool-typed value.
type BoolInstance struct{ valueInstance }

// NewBoolInstance wraps an already-typed expr as a BoolInstance.
func NewBoolInstance(loc *srcloc.Location, expr awst.Expr) *BoolInstance {
	return &BoolInstance{valueInstance{base: base{loc: loc, typ: wtypes.Bool}, expr: expr}}
}

func (b *BoolInstance) Builder() TypeBuilder { return BoolTypeBuilder{} }

func (b *BoolInstance) BoolEval(ctx *diag.Context, loc *srcloc.Location, negate bool) InstanceBuilder {
	if !negate {
		return b
	}
	return NewBoolInstance(loc, awst.NewUnaryOpExpression(loc, wtypes.Bool, "not", b.expr))
}

func (b *BoolInstance) UnaryOp(ctx *diag.Context, loc *srcloc.Location, op string) (InstanceBuilder, bool) {
	if op != "not" {
		return nil, false
	}
	return NewBoolInstance(loc, awst.NewUnaryOpExpression(loc, wtypes.Bool, op, b.expr)), true
}

var boolLogicOps = map[string]bool{"and": true, "or": true, "&": true, "|": true, "^": true}

func (b *BoolInstance) BinaryOp(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if !boolLogicOps[op] {
		return nil, false
	}
	o, ok := other.(*BoolInstance)
	if !ok {
		return nil, false
	}
	left, right := b.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewBoolInstance(loc, awst.NewBinaryOpExpression(loc, wtypes.Bool, op, left, right)), true
}

func (b *BoolInstance) Compare(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if op != "==" && op != "!=" {
		return nil, false
	}
	o, ok := other.(*BoolInstance)
	if !ok {
		return nil, false
	}
	left, right := b.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewBoolInstance(loc, awst.NewCompareExpression(loc, op, left, right)), true
}

// BytesTypeBuilder is the TypeBuilder for wtypes.Bytes.
type BytesTypeBuilder struct{}

func (BytesTypeBuilder) WType() *wtypes.WType { return wtypes.Bytes }

func (BytesTypeBuilder) Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder {
	if len(args) != 1 {
		ctx.Errorf(loc, "Bytes(...) takes exactly one argument")
		return NewDummyInstance(loc, wtypes.Bytes)
	}
	if lit, ok := args[0].(*LiteralBuilder); ok {
		if inst, ok := BytesTypeBuilder{}.ConvertLiteral(ctx, loc, lit); ok {
			return inst
		}
	}
	return args[0]
}

func (BytesTypeBuilder) ConvertLiteral(ctx *diag.Context, loc *srcloc.Location, lit *LiteralBuilder) (InstanceBuilder, bool) {
	if lit.Kind != BytesLiteral {
		return nil, false
	}
	return NewBytesInstance(loc, awst.NewBytesConstant(loc, lit.BytesValue)), true
}

// BytesInstance is a Bytes-typed value.
type BytesInstance struct{ valueInstance }

// NewBytesInstance wraps an already-typed expr as a BytesInstance.
func NewBytesInstance(loc *srcloc.Location, expr awst.Expr) *BytesInstance {
	return &BytesInstance{valueInstance{base: base{loc: loc, typ: wtypes.Bytes}, expr: expr}}
}

func (b *BytesInstance) Builder() TypeBuilder { return BytesTypeBuilder{} }

func (b *BytesInstance) BoolEval(ctx *diag.Context, loc *srcloc.Location, negate bool) InstanceBuilder {
	op := "!="
	if negate {
		op = "=="
	}
	empty := awst.NewBytesConstant(loc, nil)
	return NewBoolInstance(loc, awst.NewCompareExpression(loc, op, b.expr, empty))
}

var bytesConcatOps = map[string]bool{"+": true, "&": true, "|": true, "^": true}

func (b *BytesInstance) BinaryOp(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if !bytesConcatOps[op] {
		return nil, false
	}
	o, ok := other.(*BytesInstance)
	if !ok {
		return nil, false
	}
	left, right := b.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewBytesInstance(loc, awst.NewBinaryOpExpression(loc, wtypes.Bytes, op, left, right)), true
}

func (b *BytesInstance) Compare(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if op != "==" && op != "!=" {
		return nil, false
	}
	o, ok := other.(*BytesInstance)
	if !ok {
		return nil, false
	}
	left, right := b.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewBoolInstance(loc, awst.NewCompareExpression(loc, op, left, right)), true
}

// Index implements Indexable for byte slicing by a single UInt64
// offset (the full slice form is handled by SliceIndex).
func (b *BytesInstance) Index(ctx *diag.Context, loc *srcloc.Location, index InstanceBuilder) InstanceBuilder {
	idx, ok := index.(*U64Instance)
	if !ok {
		ctx.Errorf(loc, "bytes index must be a UInt64 value")
		return NewDummyInstance(loc, wtypes.Bytes)
	}
	return NewBytesInstance(loc, awst.NewIndexExpression(loc, wtypes.Bytes, b.expr, idx.expr))
}

// StringTypeBuilder is the TypeBuilder for wtypes.String.
type StringTypeBuilder struct{}

func (StringTypeBuilder) WType() *wtypes.WType { return wtypes.String }

func (StringTypeBuilder) Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder {
	if len(args) != 1 {
		ctx.Errorf(loc, "String(...) takes exactly one argument")
		return NewDummyInstance(loc, wtypes.String)
	}
	if lit, ok := args[0].(*LiteralBuilder); ok {
		if inst, ok := StringTypeBuilder{}.ConvertLiteral(ctx, loc, lit); ok {
			return inst
		}
	}
	return args[0]
}

func (StringTypeBuilder) ConvertLiteral(ctx *diag.Context, loc *srcloc.Location, lit *LiteralBuilder) (InstanceBuilder, bool) {
	if lit.Kind != StringLiteral {
		return nil, false
	}
	return NewStringInstance(loc, awst.NewStringConstant(loc, lit.StringValue)), true
}

// StringInstance is a String-typed value.
type StringInstance struct{ valueInstance }

// NewStringInstance wraps an already-typed expr as a StringInstance.
func NewStringInstance(loc *srcloc.Location, expr awst.Expr) *StringInstance {
	return &StringInstance{valueInstance{base: base{loc: loc, typ: wtypes.String}, expr: expr}}
}

func (s *StringInstance) Builder() TypeBuilder { return StringTypeBuilder{} }

func (s *StringInstance) BinaryOp(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if op != "+" {
		return nil, false
	}
	o, ok := other.(*StringInstance)
	if !ok {
		return nil, false
	}
	left, right := s.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewStringInstance(loc, awst.NewBinaryOpExpression(loc, wtypes.String, op, left, right)), true
}

func (s *StringInstance) Compare(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if op != "==" && op != "!=" {
		return nil, false
	}
	o, ok := other.(*StringInstance)
	if !ok {
		return nil, false
	}
	left, right := s.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewBoolInstance(loc, awst.NewCompareExpression(loc, op, left, right)), true
}

// AccountInstance is an Account-typed value (a 32-byte address). It does
// not implement BinaryOperator: accounts support equality via Compare
// only, matching the source's "reference types have no arithmetic"
// restriction (spec §4.1).
type AccountInstance struct{ valueInstance }

// NewAccountInstance wraps an already-typed expr as an AccountInstance.
func NewAccountInstance(loc *srcloc.Location, expr awst.Expr) *AccountInstance {
	return &AccountInstance{valueInstance{base: base{loc: loc, typ: wtypes.Account}, expr: expr}}
}

func (a *AccountInstance) Compare(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool) {
	if op != "==" && op != "!=" {
		return nil, false
	}
	o, ok := other.(*AccountInstance)
	if !ok {
		return nil, false
	}
	left, right := a.expr, o.expr
	if reverse {
		left, right = right, left
	}
	return NewBoolInstance(loc, awst.NewCompareExpression(loc, op, left, right)), true
}

// DummyInstance substitutes for a value the eb layer could not build due
// to an already-reported CodeError, letting expression traversal
// continue without a nil-pointer cascade (spec §7).
type DummyInstance struct{ valueInstance }

// NewDummyInstance builds a DummyInstance of the given (possibly nil,
// meaning Void) wtype.
func NewDummyInstance(loc *srcloc.Location, typ *wtypes.WType) *DummyInstance {
	return &DummyInstance{valueInstance{base: base{loc: loc, typ: typ}, expr: awst.NewDummyExpression(loc, typ)}}
}
