// Package wtypes implements the compiler's wire-type universe (spec §3.1,
// §4.1): a closed, tagged union of types every AWST value, MIR slot, and
// TEAL stack position carries. Rather than a class hierarchy, the universe
// is one WType struct carrying a Kind discriminant plus the union of every
// variant's fields; constructors enforce each variant's invariants at
// construction time, matching core/opcode_dispatcher.go's "validate once at
// the boundary, trust it everywhere after" discipline from the teacher.
package wtypes

import (
	"strings"

	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
)

// ScalarClass is the underlying AVM stack slot a wtype occupies, or None
// for aggregates that cannot live directly on the stack.
type ScalarClass int

const (
	ScalarNone ScalarClass = iota
	ScalarUint64
	ScalarBytes
)

func (s ScalarClass) String() string {
	switch s {
	case ScalarUint64:
		return "uint64"
	case ScalarBytes:
		return "bytes"
	default:
		return "none"
	}
}

// Kind discriminates the closed set of wtype variants.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindU64
	KindBigUint
	KindBytes
	KindString
	KindAsset
	KindAccount
	KindApplication
	KindStateKey
	KindBoxKey
	KindGroupTransaction
	KindInnerTransactionFields
	KindInnerTransaction
	KindStruct
	KindArray
	KindTuple
	KindARC4Bool
	KindARC4UintN
	KindARC4UFixedNxM
	KindARC4Tuple
	KindARC4DynamicArray
	KindARC4StaticArray
	KindARC4Struct
)

// TransactionType is the fixed enum of transaction kinds a transaction-
// related wtype may be narrowed to. A nil *TransactionType (rather than a
// dedicated "any" value) means "any kind", matching the original's
// `TransactionType | None`.
type TransactionType int

const (
	TxnPay TransactionType = iota
	TxnKeyreg
	TxnAcfg
	TxnAxfer
	TxnAfrz
	TxnAppl
)

func (t TransactionType) String() string {
	switch t {
	case TxnPay:
		return "pay"
	case TxnKeyreg:
		return "keyreg"
	case TxnAcfg:
		return "acfg"
	case TxnAxfer:
		return "axfer"
	case TxnAfrz:
		return "afrz"
	case TxnAppl:
		return "appl"
	default:
		return "unknown"
	}
}

// Field is one ordered struct field: name plus wtype.
type Field struct {
	Name string
	Type *WType
}

// WType is the closed, tagged wtype union. All fields are set by the
// package's constructors; callers must never build a WType literal
// directly, since that bypasses the per-variant invariants the
// constructors enforce.
type WType struct {
	Kind        Kind
	Name        string
	ScalarClass ScalarClass
	Ephemeral   bool
	Immutable   bool

	// transaction-related
	TransactionType *TransactionType

	// struct
	Fields []Field

	// array / arc4 array element
	Element *WType

	// arc4 static array size
	ArraySize int

	// tuple / arc4 tuple element types
	Types []*WType

	// ARC4-only fields. ArcName is excluded from equality (spec §3.1,
	// §4.1: "aliases unify").
	ArcName              string
	DecodeType           *WType
	OtherEncodeableTypes []*WType
	N                    int
	M                    int
}

// String renders the wtype's canonical (non-ARC4) name, used in
// diagnostics and as the basis of structural equality.
func (w *WType) String() string {
	if w == nil {
		return "<nil>"
	}
	return w.Name
}

// IsARC4 reports whether w is one of the ARC4-encoded variants.
func (w *WType) IsARC4() bool {
	switch w.Kind {
	case KindARC4Bool, KindARC4UintN, KindARC4UFixedNxM, KindARC4Tuple,
		KindARC4DynamicArray, KindARC4StaticArray, KindARC4Struct:
		return true
	default:
		return false
	}
}

// Equal reports structural equality: every field participates except
// ArcName, so ARC4 aliases (e.g. arc4.byte vs. plain arc4.uint8) unify
// (spec §3.1, §4.1).
func (w *WType) Equal(other *WType) bool {
	if w == other {
		return true
	}
	if w == nil || other == nil {
		return false
	}
	if w.Kind != other.Kind || w.Name != other.Name ||
		w.ScalarClass != other.ScalarClass || w.Ephemeral != other.Ephemeral ||
		w.Immutable != other.Immutable {
		return false
	}
	if !transactionTypeEqual(w.TransactionType, other.TransactionType) {
		return false
	}
	if !fieldsEqual(w.Fields, other.Fields) {
		return false
	}
	if !w.Element.Equal(other.Element) {
		return false
	}
	if w.ArraySize != other.ArraySize {
		return false
	}
	if !typesEqual(w.Types, other.Types) {
		return false
	}
	if !w.DecodeType.Equal(other.DecodeType) {
		return false
	}
	if w.N != other.N || w.M != other.M {
		return false
	}
	return true
}

func transactionTypeEqual(a, b *TransactionType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}

func typesEqual(a, b []*WType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Well-known primitive wtypes (spec §3.1). These are always valid, so they
// are package-level values rather than fallible constructors.
var (
	Void = &WType{Kind: KindVoid, Name: "void", ScalarClass: ScalarNone, Immutable: true}

	Bool = &WType{Kind: KindBool, Name: "bool", ScalarClass: ScalarUint64, Immutable: true}

	U64 = &WType{Kind: KindU64, Name: "uint64", ScalarClass: ScalarUint64, Immutable: true}

	BigUint = &WType{Kind: KindBigUint, Name: "biguint", ScalarClass: ScalarBytes, Immutable: true}

	Bytes = &WType{Kind: KindBytes, Name: "bytes", ScalarClass: ScalarBytes, Immutable: true}

	String = &WType{Kind: KindString, Name: "string", ScalarClass: ScalarBytes, Immutable: true}

	Asset = &WType{Kind: KindAsset, Name: "asset", ScalarClass: ScalarUint64, Immutable: true}

	Account = &WType{Kind: KindAccount, Name: "account", ScalarClass: ScalarBytes, Immutable: true}

	Application = &WType{Kind: KindApplication, Name: "application", ScalarClass: ScalarUint64, Immutable: true}

	StateKey = &WType{Kind: KindStateKey, Name: "state_key", ScalarClass: ScalarBytes, Immutable: true}

	BoxKey = &WType{Kind: KindBoxKey, Name: "box_key", ScalarClass: ScalarBytes, Immutable: true}
)

func txnName(base string, t *TransactionType) string {
	if t == nil {
		return base
	}
	return base + "_" + t.String()
}

// NewGroupTransaction builds the ephemeral+immutable group_transaction[T?]
// wtype (spec §3.1). txnType nil means "any".
func NewGroupTransaction(txnType *TransactionType) *WType {
	return &WType{
		Kind: KindGroupTransaction, Name: txnName("group_transaction", txnType),
		ScalarClass: ScalarUint64, Ephemeral: true, Immutable: true,
		TransactionType: txnType,
	}
}

// NewInnerTransactionFields builds the ephemeral+immutable
// inner_transaction_fields[T?] wtype.
func NewInnerTransactionFields(txnType *TransactionType) *WType {
	return &WType{
		Kind: KindInnerTransactionFields, Name: txnName("inner_transaction_fields", txnType),
		ScalarClass: ScalarNone, Ephemeral: true, Immutable: true,
		TransactionType: txnType,
	}
}

// NewInnerTransaction builds the ephemeral+immutable inner_transaction[T?]
// wtype.
func NewInnerTransaction(txnType *TransactionType) *WType {
	return &WType{
		Kind: KindInnerTransaction, Name: txnName("inner_transaction", txnType),
		ScalarClass: ScalarNone, Ephemeral: true, Immutable: true,
		TransactionType: txnType,
	}
}

// NewStruct builds the struct{fields, immutable} wtype (spec §3.1): fields
// must be non-empty and disallow void members. Violations are recorded as
// a CodeError on ctx and Void is returned so callers can keep traversing
// (spec §7's "continue with dummy values" discipline).
func NewStruct(ctx *diag.Context, loc *srcloc.Location, name string, fields []Field, immutable bool) *WType {
	if len(fields) == 0 {
		ctx.Errorf(loc, "struct needs fields")
		return Void
	}
	for _, f := range fields {
		if f.Type.Equal(Void) {
			ctx.Errorf(loc, "struct should not contain void types")
			return Void
		}
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &WType{
		Kind: KindStruct, Name: name, ScalarClass: ScalarNone,
		Immutable: immutable, Fields: cp,
	}
}

// NewArray builds the array{element, mutable} wtype (spec §3.1); element
// must not be void. mutable=false is the ImmutableArray[T] form (see
// original_source/test_cases/array/immutable.py): append/pop/replace
// each yield a new array value rather than mutating Element in place.
func NewArray(ctx *diag.Context, loc *srcloc.Location, element *WType, mutable bool) *WType {
	if element.Equal(Void) {
		ctx.Errorf(loc, "array element type cannot be void")
		return Void
	}
	prefix := "ImmutableArray"
	if mutable {
		prefix = "Array"
	}
	return &WType{
		Kind: KindArray, Name: prefix + "<" + element.Name + ">",
		ScalarClass: ScalarNone, Immutable: !mutable, Element: element,
	}
}

// NewTuple builds the tuple{types, immutable} wtype; types must be
// non-empty and none may be void. Tuples are always immutable (spec §3.1:
// the tuple value itself, as opposed to any mutable reference types it may
// hold, cannot be reassigned in place).
func NewTuple(ctx *diag.Context, loc *srcloc.Location, types []*WType) *WType {
	if len(types) == 0 {
		ctx.Errorf(loc, "tuple needs types")
		return Void
	}
	names := make([]string, len(types))
	for i, t := range types {
		if t.Equal(Void) {
			ctx.Errorf(loc, "tuple should not contain void types")
			return Void
		}
		names[i] = t.Name
	}
	cp := make([]*WType, len(types))
	copy(cp, types)
	return &WType{
		Kind: KindTuple, Name: "tuple<" + strings.Join(names, ",") + ">",
		ScalarClass: ScalarNone, Immutable: true, Types: cp,
	}
}
