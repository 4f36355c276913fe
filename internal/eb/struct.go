// StructInstance implements the struct{fields, immutable} capability
// surface (spec §4.2, §3.1): MemberAccessor for `b.field`, built from a
// StructConstructorExpression positional in the wtype's declared field
// order. There is no dedicated struct builder anywhere in the retrieved
// original_source pack (AWST-build's eb/ directory only covers scalar
// and arc4 types there); this file follows the same shape as
// ArrayInstance in array.go, itself grounded on
// original_source/test_cases/array/immutable.py, applied to
// wtypes.NewStruct's field list instead of an array's single element
// type.
package eb

import (
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// StructTypeBuilder is the TypeBuilder for one struct{fields, immutable}
// wtype instantiation.
type StructTypeBuilder struct {
	Typ *wtypes.WType
}

func (s StructTypeBuilder) WType() *wtypes.WType { return s.Typ }

// Call builds a struct value positionally from its field values,
// coercing each argument to its declared field type.
func (s StructTypeBuilder) Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder {
	if len(args) != len(s.Typ.Fields) {
		ctx.Errorf(loc, "%s takes %d arguments, got %d", s.Typ.Name, len(s.Typ.Fields), len(args))
		return NewDummyInstance(loc, s.Typ)
	}
	fields := make([]awst.Expr, len(args))
	for i, arg := range args {
		coerced := CoerceARC4Argument(ctx, loc, s.Typ.Fields[i].Type, arg, typeBuilderForWType(s.Typ.Fields[i].Type))
		fields[i] = coerced.Resolve(ctx)
	}
	return NewStructInstance(loc, s.Typ, awst.NewStructConstructorExpression(loc, s.Typ, fields))
}

// StructInstance is a struct{fields, immutable}-typed value.
type StructInstance struct{ valueInstance }

// NewStructInstance wraps an already-typed expr as a StructInstance.
func NewStructInstance(loc *srcloc.Location, typ *wtypes.WType, expr awst.Expr) *StructInstance {
	return &StructInstance{valueInstance{base: base{loc: loc, typ: typ}, expr: expr}}
}

func (s *StructInstance) Builder() TypeBuilder { return StructTypeBuilder{Typ: s.typ} }

// MemberAccess implements MemberAccessor for `b.field`.
func (s *StructInstance) MemberAccess(ctx *diag.Context, loc *srcloc.Location, name string) InstanceBuilder {
	for _, f := range s.typ.Fields {
		if f.Name == name {
			return instanceForWType(loc, f.Type, awst.NewFieldExpression(loc, f.Type, s.expr, name))
		}
	}
	ctx.Errorf(loc, "%s has no field %q", s.typ.Name, name)
	return NewDummyInstance(loc, wtypes.Void)
}

// AugmentedAssign rejects `b.field op= y` on an immutable struct
// outright (spec §4.2's AugmentedAssigner design note); a mutable
// struct's field assignment instead goes through the ordinary lvalue
// path (FieldExpression as an assignment target), which already works
// without this method since that path never consults AugmentedAssigner
// on the struct itself, only on the field's own value.
func (s *StructInstance) AugmentedAssign(ctx *diag.Context, loc *srcloc.Location, op string, value InstanceBuilder) (InstanceBuilder, bool) {
	if !s.typ.Immutable {
		return nil, false
	}
	ctx.Errorf(loc, "%s is immutable and does not support in-place field update", s.typ.Name)
	return NewDummyInstance(loc, s.typ), true
}
