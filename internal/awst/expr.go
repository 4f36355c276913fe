package awst

import (
	"math/big"

	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// BoolConstant is a literal bool value, typed wtypes.Bool.
type BoolConstant struct {
	base
	Value bool
}

// NewBoolConstant builds a BoolConstant.
func NewBoolConstant(loc *srcloc.Location, value bool) *BoolConstant {
	return &BoolConstant{base: base{loc: loc, typ: wtypes.Bool}, Value: value}
}

// UInt64Constant is a literal uint64 value, typed wtypes.U64 (spec §4.2:
// an int literal resolved against U64's LiteralConverter, overflow
// checked at construction by the eb layer before this node is built).
type UInt64Constant struct {
	base
	Value uint64
}

// NewUInt64Constant builds a UInt64Constant.
func NewUInt64Constant(loc *srcloc.Location, value uint64) *UInt64Constant {
	return &UInt64Constant{base: base{loc: loc, typ: wtypes.U64}, Value: value}
}

// BigUIntConstant is a literal arbitrary-precision unsigned value, typed
// wtypes.BigUint (spec §4.2: an int literal resolved against BigUint's
// LiteralConverter).
type BigUIntConstant struct {
	base
	Value *big.Int
}

// NewBigUIntConstant builds a BigUIntConstant.
func NewBigUIntConstant(loc *srcloc.Location, value *big.Int) *BigUIntConstant {
	return &BigUIntConstant{base: base{loc: loc, typ: wtypes.BigUint}, Value: value}
}

// BytesConstant is a literal byte-string value, typed wtypes.Bytes.
type BytesConstant struct {
	base
	Value []byte
}

// NewBytesConstant builds a BytesConstant.
func NewBytesConstant(loc *srcloc.Location, value []byte) *BytesConstant {
	return &BytesConstant{base: base{loc: loc, typ: wtypes.Bytes}, Value: value}
}

// StringConstant is a literal UTF-8 string value, typed wtypes.String.
type StringConstant struct {
	base
	Value string
}

// NewStringConstant builds a StringConstant.
func NewStringConstant(loc *srcloc.Location, value string) *StringConstant {
	return &StringConstant{base: base{loc: loc, typ: wtypes.String}, Value: value}
}

// AddressConstant is a literal 32-byte account literal, typed
// wtypes.Account, carrying the address string it was parsed from for
// diagnostics.
type AddressConstant struct {
	base
	PublicKey [32]byte
	Address   string
}

// NewAddressConstant builds an AddressConstant. The caller (internal/eb's
// account TypeBuilder) is responsible for validating the address
// checksum before constructing this node.
func NewAddressConstant(loc *srcloc.Location, publicKey [32]byte, address string) *AddressConstant {
	return &AddressConstant{base: base{loc: loc, typ: wtypes.Account}, PublicKey: publicKey, Address: address}
}

// MethodConstant is a literal ARC4 method-selector value, typed
// wtypes.Bytes, carrying the parsed signature it was derived from.
type MethodConstant struct {
	base
	Signature string
	Selector  [4]byte
}

// NewMethodConstant builds a MethodConstant.
func NewMethodConstant(loc *srcloc.Location, signature string, selector [4]byte) *MethodConstant {
	return &MethodConstant{base: base{loc: loc, typ: wtypes.Bytes}, Signature: signature, Selector: selector}
}

// VarExpression references a previously bound local variable or
// parameter by name.
type VarExpression struct {
	base
	Name string
}

// NewVarExpression builds a VarExpression.
func NewVarExpression(loc *srcloc.Location, typ *wtypes.WType, name string) *VarExpression {
	return &VarExpression{base: base{loc: loc, typ: typ}, Name: name}
}

// FieldExpression accesses a named field of a struct- or ARC4-struct-
// typed base expression.
type FieldExpression struct {
	base
	Base  Expr
	Field string
}

// NewFieldExpression builds a FieldExpression.
func NewFieldExpression(loc *srcloc.Location, typ *wtypes.WType, baseExpr Expr, field string) *FieldExpression {
	return &FieldExpression{base: base{loc: loc, typ: typ}, Base: baseExpr, Field: field}
}

// IndexExpression indexes a tuple/array/ARC4-array base expression by a
// single index expression (an integer literal for tuples and ARC4
// tuples, per spec §4.2's "only compile-time integer-literal indices are
// permitted" rule, enforced in internal/eb before this node is built).
type IndexExpression struct {
	base
	Base  Expr
	Index Expr
}

// NewIndexExpression builds an IndexExpression.
func NewIndexExpression(loc *srcloc.Location, typ *wtypes.WType, baseExpr, index Expr) *IndexExpression {
	return &IndexExpression{base: base{loc: loc, typ: typ}, Base: baseExpr, Index: index}
}

// TupleExpression builds a tuple value from its element expressions.
type TupleExpression struct {
	base
	Elements []Expr
}

// NewTupleExpression builds a TupleExpression.
func NewTupleExpression(loc *srcloc.Location, typ *wtypes.WType, elements []Expr) *TupleExpression {
	return &TupleExpression{base: base{loc: loc, typ: typ}, Elements: elements}
}

// ArrayConstructorExpression builds an array or ARC4 array value from its
// element expressions.
type ArrayConstructorExpression struct {
	base
	Elements []Expr
}

// NewArrayConstructorExpression builds an ArrayConstructorExpression.
func NewArrayConstructorExpression(loc *srcloc.Location, typ *wtypes.WType, elements []Expr) *ArrayConstructorExpression {
	return &ArrayConstructorExpression{base: base{loc: loc, typ: typ}, Elements: elements}
}

// BinaryOpExpression is the resolved result of operator dispatch (spec
// §4.2): Op is the source operator spelling ("+", "==", "//", ...).
type BinaryOpExpression struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

// NewBinaryOpExpression builds a BinaryOpExpression.
func NewBinaryOpExpression(loc *srcloc.Location, typ *wtypes.WType, op string, left, right Expr) *BinaryOpExpression {
	return &BinaryOpExpression{base: base{loc: loc, typ: typ}, Op: op, Left: left, Right: right}
}

// UnaryOpExpression applies a prefix unary operator ("-", "~", "not") to
// an operand.
type UnaryOpExpression struct {
	base
	Op      string
	Operand Expr
}

// NewUnaryOpExpression builds a UnaryOpExpression.
func NewUnaryOpExpression(loc *srcloc.Location, typ *wtypes.WType, op string, operand Expr) *UnaryOpExpression {
	return &UnaryOpExpression{base: base{loc: loc, typ: typ}, Op: op, Operand: operand}
}

// CompareExpression is a comparison, always typed Bool.
type CompareExpression struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

// NewCompareExpression builds a CompareExpression.
func NewCompareExpression(loc *srcloc.Location, op string, left, right Expr) *CompareExpression {
	return &CompareExpression{base: base{loc: loc, typ: wtypes.Bool}, Op: op, Left: left, Right: right}
}

// ConditionalExpression is a ternary "a if cond else b" expression; both
// branches share Then's type after unification by internal/eb.
type ConditionalExpression struct {
	base
	Condition Expr
	Then      Expr
	Else      Expr
}

// NewConditionalExpression builds a ConditionalExpression.
func NewConditionalExpression(loc *srcloc.Location, typ *wtypes.WType, cond, thenExpr, elseExpr Expr) *ConditionalExpression {
	return &ConditionalExpression{base: base{loc: loc, typ: typ}, Condition: cond, Then: thenExpr, Else: elseExpr}
}

// SubroutineCallExpression calls a subroutine by name with positional
// argument expressions, typed by the callee's declared return type.
type SubroutineCallExpression struct {
	base
	Target string
	Args   []Expr
}

// NewSubroutineCallExpression builds a SubroutineCallExpression.
func NewSubroutineCallExpression(loc *srcloc.Location, typ *wtypes.WType, target string, args []Expr) *SubroutineCallExpression {
	return &SubroutineCallExpression{base: base{loc: loc, typ: typ}, Target: target, Args: args}
}

// ARC4EncodeExpression wraps a native-typed operand with its ARC4
// encoding into the given ARC4 wtype (spec §4.1's avm_to_arc4_equivalent
// mapping, materialized as an explicit conversion node).
type ARC4EncodeExpression struct {
	base
	Value Expr
}

// NewARC4EncodeExpression builds an ARC4EncodeExpression.
func NewARC4EncodeExpression(loc *srcloc.Location, typ *wtypes.WType, value Expr) *ARC4EncodeExpression {
	return &ARC4EncodeExpression{base: base{loc: loc, typ: typ}, Value: value}
}

// ARC4DecodeExpression extracts the native-typed value an ARC4-typed
// operand decodes to (spec §3.1 "decode target").
type ARC4DecodeExpression struct {
	base
	Value Expr
}

// NewARC4DecodeExpression builds an ARC4DecodeExpression.
func NewARC4DecodeExpression(loc *srcloc.Location, typ *wtypes.WType, value Expr) *ARC4DecodeExpression {
	return &ARC4DecodeExpression{base: base{loc: loc, typ: typ}, Value: value}
}

// NumericWidenExpression widens a UInt64-typed operand to BigUint
// (grounded on biguint.py's _uint64_to_biguint: implicit widening is
// only ever UInt64 -> BigUint, never the reverse).
type NumericWidenExpression struct {
	base
	Value Expr
}

// NewNumericWidenExpression builds a NumericWidenExpression, always
// typed wtypes.BigUint.
func NewNumericWidenExpression(loc *srcloc.Location, value Expr) *NumericWidenExpression {
	return &NumericWidenExpression{base: base{loc: loc, typ: wtypes.BigUint}, Value: value}
}

// DummyExpression is the sentinel substituted at a CodeError site so
// downstream traversal can continue without a cascading nil (spec §7).
type DummyExpression struct {
	base
}

// NewDummyExpression builds a DummyExpression typed wtypes.Void (or
// another wtype, when the error site's expected type is known and
// substituting it avoids a spurious type-mismatch cascade).
func NewDummyExpression(loc *srcloc.Location, typ *wtypes.WType) *DummyExpression {
	if typ == nil {
		typ = wtypes.Void
	}
	return &DummyExpression{base: base{loc: loc, typ: typ}}
}

// StructConstructorExpression builds a struct value from its field
// expressions, positional in field-declaration order.
type StructConstructorExpression struct {
	base
	Fields []Expr
}

// NewStructConstructorExpression builds a StructConstructorExpression.
func NewStructConstructorExpression(loc *srcloc.Location, typ *wtypes.WType, fields []Expr) *StructConstructorExpression {
	return &StructConstructorExpression{base: base{loc: loc, typ: typ}, Fields: fields}
}

// ArrayLengthExpression is the `array.length` query (spec §4.2's array
// capability surface; grounded on original_source's
// test_cases/array/immutable.py, which reads `arr.length` after every
// mutating call).
type ArrayLengthExpression struct {
	base
	Base Expr
}

// NewArrayLengthExpression builds an ArrayLengthExpression, always typed
// wtypes.U64.
func NewArrayLengthExpression(loc *srcloc.Location, baseExpr Expr) *ArrayLengthExpression {
	return &ArrayLengthExpression{base: base{loc: loc, typ: wtypes.U64}, Base: baseExpr}
}

// ArrayAppendExpression appends one element, yielding a new array value
// of the same wtype as Base (immutable.py's `arr = arr.append(x)`
// pattern: append never mutates in place, it returns the extended
// array).
type ArrayAppendExpression struct {
	base
	Base  Expr
	Value Expr
}

// NewArrayAppendExpression builds an ArrayAppendExpression.
func NewArrayAppendExpression(loc *srcloc.Location, typ *wtypes.WType, baseExpr, value Expr) *ArrayAppendExpression {
	return &ArrayAppendExpression{base: base{loc: loc, typ: typ}, Base: baseExpr, Value: value}
}

// ArrayPopExpression yields a new array value with Base's last element
// removed (immutable.py's `arr = arr.pop()`; it is always the trailing
// element, there is no pop-by-index form).
type ArrayPopExpression struct {
	base
	Base Expr
}

// NewArrayPopExpression builds an ArrayPopExpression.
func NewArrayPopExpression(loc *srcloc.Location, typ *wtypes.WType, baseExpr Expr) *ArrayPopExpression {
	return &ArrayPopExpression{base: base{loc: loc, typ: typ}, Base: baseExpr}
}

// ArrayReplaceExpression yields a new array value with the element at
// Index replaced by Value (immutable.py's `arr = arr.replace(2,
// UInt64(23))`).
type ArrayReplaceExpression struct {
	base
	Base  Expr
	Index Expr
	Value Expr
}

// NewArrayReplaceExpression builds an ArrayReplaceExpression.
func NewArrayReplaceExpression(loc *srcloc.Location, typ *wtypes.WType, baseExpr, index, value Expr) *ArrayReplaceExpression {
	return &ArrayReplaceExpression{base: base{loc: loc, typ: typ}, Base: baseExpr, Index: index, Value: value}
}

// ArraySliceExpression yields a new array value holding Base's elements
// from Lo (inclusive) to Hi (exclusive); either bound may be nil, meaning
// "from the start" / "to the end" respectively.
type ArraySliceExpression struct {
	base
	Base   Expr
	Lo, Hi Expr
}

// NewArraySliceExpression builds an ArraySliceExpression.
func NewArraySliceExpression(loc *srcloc.Location, typ *wtypes.WType, baseExpr, lo, hi Expr) *ArraySliceExpression {
	return &ArraySliceExpression{base: base{loc: loc, typ: typ}, Base: baseExpr, Lo: lo, Hi: hi}
}

// ArrayContainsExpression is the `value in array` membership test,
// always typed Bool.
type ArrayContainsExpression struct {
	base
	Base  Expr
	Value Expr
}

// NewArrayContainsExpression builds an ArrayContainsExpression.
func NewArrayContainsExpression(loc *srcloc.Location, baseExpr, value Expr) *ArrayContainsExpression {
	return &ArrayContainsExpression{base: base{loc: loc, typ: wtypes.Bool}, Base: baseExpr, Value: value}
}
