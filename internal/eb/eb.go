// Package eb implements the expression-builder layer (spec §4.2): the
// bidirectional translator between source AST nodes and typed AWST
// expressions. For each wtype there is a TypeBuilder (the type itself,
// used as a callable for construction/conversion) and an InstanceBuilder
// (a typed value, exposing the source-level operations valid on it).
// Rather than the source's multiple-inheritance mixin classes ("not
// iterable", "bytes-backed"), capabilities here are small interfaces a
// concrete builder opts into; a builder lacking one simply never
// satisfies its type assertion, and the call site reports a CodeError
// instead of panicking on an absent method (spec §9 design note).
package eb

import (
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// InstanceBuilder represents one typed source value: every concrete
// builder implements at least this much (spec §4.2).
type InstanceBuilder interface {
	// Resolve lowers this builder to a raw AWST expression.
	Resolve(ctx *diag.Context) awst.Expr
	WType() *wtypes.WType
	Location() *srcloc.Location
}

// LValueResolver is implemented by InstanceBuilders that denote an
// assignable location (spec §4.2's resolve_lvalue capability).
type LValueResolver interface {
	ResolveLValue(ctx *diag.Context) awst.Expr
}

// LiteralResolver is implemented by an InstanceBuilder whose wire type is
// not yet committed - i.e. it is a *LiteralBuilder - exposing itself so
// operator dispatch can attempt literal promotion (spec §4.2's
// resolve_literal capability).
type LiteralResolver interface {
	ResolveLiteral() *LiteralBuilder
}

// Indexable is implemented by builders supporting `b[i]` (spec §4.2).
type Indexable interface {
	Index(ctx *diag.Context, loc *srcloc.Location, index InstanceBuilder) InstanceBuilder
}

// SliceIndexable is implemented by builders supporting `b[i:j]`.
type SliceIndexable interface {
	SliceIndex(ctx *diag.Context, loc *srcloc.Location, lo, hi InstanceBuilder) InstanceBuilder
}

// MemberAccessor is implemented by builders supporting `b.field`.
type MemberAccessor interface {
	MemberAccess(ctx *diag.Context, loc *srcloc.Location, name string) InstanceBuilder
}

// BoolEvaluator is implemented by builders usable directly as a branch
// condition (`if b:`).
type BoolEvaluator interface {
	BoolEval(ctx *diag.Context, loc *srcloc.Location, negate bool) InstanceBuilder
}

// UnaryOperator is implemented by builders supporting a prefix operator
// ("-", "~", "not").
type UnaryOperator interface {
	UnaryOp(ctx *diag.Context, loc *srcloc.Location, op string) (InstanceBuilder, bool)
}

// Comparator is implemented by builders supporting comparison operators.
// reverse mirrors BinaryOperator's double-dispatch convention.
type Comparator interface {
	Compare(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool)
}

// BinaryOperator is implemented by builders supporting arithmetic/bitwise
// binary operators. It returns (result, true) on success or (nil, false)
// to signal the NotImplemented sentinel (spec §4.2): the pipeline then
// retries with the operands swapped and reverse=true before emitting a
// CodeError.
type BinaryOperator interface {
	BinaryOp(ctx *diag.Context, loc *srcloc.Location, op string, other InstanceBuilder, reverse bool) (InstanceBuilder, bool)
}

// AugmentedAssigner is implemented by builders supporting `x op= y`.
// Most builders need no bespoke implementation: augmented assignment
// reuses BinaryOp and targets an lvalue (spec §4.2); this interface only
// exists for the rare wtype that must reject augmented assignment
// outright (e.g. an immutable aggregate).
type AugmentedAssigner interface {
	AugmentedAssign(ctx *diag.Context, loc *srcloc.Location, op string, value InstanceBuilder) (InstanceBuilder, bool)
}

// Iterable is implemented by builders usable in a `for x in b:` loop.
type Iterable interface {
	Iterate(ctx *diag.Context, loc *srcloc.Location) (element InstanceBuilder, ok bool)
}

// Container is implemented by builders supporting `x in b`.
type Container interface {
	Contains(ctx *diag.Context, loc *srcloc.Location, value InstanceBuilder) (InstanceBuilder, bool)
}

// Callable is implemented by a value returned from MemberAccess that is
// itself invocable, modeling a bound method (`arr.append` resolves via
// MemberAccess to a Callable, then `(x)` invokes it) - the same
// two-step shape TypeBuilder.Call already uses for type construction,
// applied to an instance-bound operation instead of a type.
type Callable interface {
	Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder
}

// TypeBuilder represents "the type itself" in source: a callable used
// for construction or conversion (spec §4.2).
type TypeBuilder interface {
	WType() *wtypes.WType
	Call(ctx *diag.Context, loc *srcloc.Location, args []InstanceBuilder) InstanceBuilder
}

// LiteralConverter is implemented by a TypeBuilder that can promote an
// untyped literal to its wtype (spec §4.2): e.g. BigUint's converter
// turns an int literal into a BigUIntConstant, U64's turns it into a
// UInt64Constant with an overflow check.
type LiteralConverter interface {
	ConvertLiteral(ctx *diag.Context, loc *srcloc.Location, lit *LiteralBuilder) (InstanceBuilder, bool)
}

// base is embedded by every concrete InstanceBuilder to supply Location
// and WType without repeating the boilerplate.
type base struct {
	loc *srcloc.Location
	typ *wtypes.WType
}

func (b base) Location() *srcloc.Location { return b.loc }
func (b base) WType() *wtypes.WType        { return b.typ }
