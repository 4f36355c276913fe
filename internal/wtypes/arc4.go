package wtypes

import (
	"fmt"
	"strings"

	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
)

// ARC4Bool is the well-known arc4.bool wtype: a single ARC4-encoded bit,
// decoding to the native Bool wtype.
var ARC4Bool = &WType{
	Kind: KindARC4Bool, Name: "arc4.bool", ScalarClass: ScalarBytes,
	Immutable: true, ArcName: "bool", DecodeType: Bool,
}

// NewARC4UintN builds an arc4.uintN{n} wtype (spec §3.1): n must be a
// multiple of 8 in [8, 512]. n<=64 decodes to U64, otherwise to BigUint.
// alias overrides the ARC4 canonical name (used for the arc4.byte well-
// known alias).
func NewARC4UintN(ctx *diag.Context, loc *srcloc.Location, n int, alias string) *WType {
	if n%8 != 0 {
		ctx.Errorf(loc, "bit size must be a multiple of 8")
		return Void
	}
	if n < 8 || n > 512 {
		ctx.Errorf(loc, "bit size must be between 8 and 512 inclusive")
		return Void
	}
	decodeType := U64
	if n > 64 {
		decodeType = BigUint
	}
	defaultName := fmt.Sprintf("uint%d", n)
	arcName := defaultName
	if alias != "" {
		arcName = alias
	}
	return &WType{
		Kind: KindARC4UintN, Name: "arc4." + defaultName, ScalarClass: ScalarBytes,
		Immutable: true, ArcName: arcName, DecodeType: decodeType, N: n,
		OtherEncodeableTypes: []*WType{Bool, U64, BigUint},
	}
}

// NewARC4UFixedNxM builds an arc4.ufixedNxM{n,m} wtype: n must be a
// multiple of 8 in [8,512], m in [1,160]. There is no native decode
// target - ufixed values are encode/decode-able as raw bytes only (spec
// §3.3 supplement; original's `decode_type=None`).
func NewARC4UFixedNxM(ctx *diag.Context, loc *srcloc.Location, n, m int) *WType {
	if n%8 != 0 {
		ctx.Errorf(loc, "bit size must be a multiple of 8")
		return Void
	}
	if n < 8 || n > 512 {
		ctx.Errorf(loc, "bit size must be between 8 and 512 inclusive")
		return Void
	}
	if m < 1 || m > 160 {
		ctx.Errorf(loc, "precision must be between 1 and 160 inclusive")
		return Void
	}
	arcName := fmt.Sprintf("ufixed%dx%d", n, m)
	return &WType{
		Kind: KindARC4UFixedNxM, Name: "arc4." + arcName, ScalarClass: ScalarBytes,
		Immutable: true, ArcName: arcName, N: n, M: m,
	}
}

// NewARC4Tuple builds an arc4.tuple{types} wtype: every element must
// already be an ARC4 type; immutability is the conjunction of the
// children's (spec §3.1 invariant: "a struct's mutability collapses to
// mutable if any child is mutable" applies identically to ARC4 tuples,
// since both are encoded as one bytes value).
func NewARC4Tuple(ctx *diag.Context, loc *srcloc.Location, types []*WType) *WType {
	if len(types) == 0 {
		ctx.Errorf(loc, "ARC4 tuple cannot be empty")
		return Void
	}
	immutable := true
	names := make([]string, len(types))
	arcNames := make([]string, len(types))
	for i, t := range types {
		if !t.IsARC4() {
			ctx.Errorf(loc, "invalid ARC4 tuple type: type at index %d is not an ARC4 encoded type", i)
			return Void
		}
		names[i] = t.Name
		arcNames[i] = t.ArcName
		immutable = immutable && t.Immutable
	}
	cp := make([]*WType, len(types))
	copy(cp, types)
	nativeTypes := make([]*WType, len(types))
	for i, t := range types {
		if t.DecodeType != nil {
			nativeTypes[i] = t.DecodeType
		} else {
			nativeTypes[i] = t
		}
	}
	return &WType{
		Kind: KindARC4Tuple, Name: "arc4.tuple<" + strings.Join(names, ",") + ">",
		ScalarClass: ScalarBytes, Immutable: immutable,
		ArcName:    "(" + strings.Join(arcNames, ",") + ")",
		Types:      cp,
		DecodeType: NewTuple(ctx, loc, nativeTypes),
	}
}

// NewARC4DynamicArray builds an arc4.dynamic_array{element} wtype: element
// must already be ARC4-encoded. nativeType is the optional decode target
// (nil unless this is a well-known alias such as arc4.string).
func NewARC4DynamicArray(ctx *diag.Context, loc *srcloc.Location, element *WType, alias string, nativeType *WType, immutable bool) *WType {
	if !element.IsARC4() {
		ctx.Errorf(loc, "ARC4 arrays must have ARC4 encoded element type")
		return Void
	}
	arcName := element.ArcName + "[]"
	if alias != "" {
		arcName = alias
	}
	return &WType{
		Kind: KindARC4DynamicArray, Name: "arc4.dynamic_array<" + element.Name + ">",
		ScalarClass: ScalarBytes, Immutable: immutable,
		ArcName: arcName, Element: element, DecodeType: nativeType,
	}
}

// NewARC4StaticArray builds an arc4.static_array{element, size} wtype:
// element must already be ARC4-encoded, size must be non-negative.
func NewARC4StaticArray(ctx *diag.Context, loc *srcloc.Location, element *WType, size int, alias string, nativeType *WType, immutable bool) *WType {
	if !element.IsARC4() {
		ctx.Errorf(loc, "ARC4 arrays must have ARC4 encoded element type")
		return Void
	}
	if size < 0 {
		ctx.Errorf(loc, "ARC4 static array size must be non-negative")
		return Void
	}
	arcName := fmt.Sprintf("%s[%d]", element.ArcName, size)
	if alias != "" {
		arcName = alias
	}
	return &WType{
		Kind: KindARC4StaticArray, Name: fmt.Sprintf("arc4.static_array<%s, %d>", element.Name, size),
		ScalarClass: ScalarBytes, Immutable: immutable,
		ArcName: arcName, Element: element, ArraySize: size, DecodeType: nativeType,
	}
}

// NewARC4Struct builds an arc4.struct{fields} wtype: every field's wtype
// must already be ARC4-encoded, and its ARC4 canonical name is the tuple
// of its field ARC4-names.
func NewARC4Struct(ctx *diag.Context, loc *srcloc.Location, name string, fields []Field, immutable bool) *WType {
	if len(fields) == 0 {
		ctx.Errorf(loc, "arc4.Struct needs at least one element")
		return Void
	}
	var badNames []string
	arcNames := make([]string, 0, len(fields))
	for _, f := range fields {
		if !f.Type.IsARC4() {
			badNames = append(badNames, f.Name)
			continue
		}
		arcNames = append(arcNames, f.Type.ArcName)
		immutable = immutable && f.Type.Immutable
	}
	if len(badNames) > 0 {
		ctx.Errorf(loc, "invalid ARC4 struct declaration, the following fields are not ARC4 encoded types: %s", strings.Join(badNames, ", "))
		return Void
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &WType{
		Kind: KindARC4Struct, Name: name, ScalarClass: ScalarBytes,
		Immutable: immutable, ArcName: "(" + strings.Join(arcNames, ",") + ")",
		Fields: cp,
	}
}

// Well-known ARC4 aliases (spec §3.1): arc4.byte is arc4.uint8 under an
// alias, arc4.string is a dynamic array of bytes decoding to String, and
// arc4.address is a 32-element static array of bytes decoding to Account.
var (
	ARC4Byte = &WType{
		Kind: KindARC4UintN, Name: "arc4.uint8", ScalarClass: ScalarBytes,
		Immutable: true, ArcName: "byte", DecodeType: U64, N: 8,
		OtherEncodeableTypes: []*WType{Bool, U64, BigUint},
	}

	ARC4String = &WType{
		Kind: KindARC4DynamicArray, Name: "arc4.dynamic_array<arc4.uint8>",
		ScalarClass: ScalarBytes, Immutable: true,
		ArcName: "string", Element: ARC4Byte, DecodeType: String,
	}

	ARC4Address = &WType{
		Kind: KindARC4StaticArray, Name: "arc4.static_array<arc4.uint8, 32>",
		ScalarClass: ScalarBytes, Immutable: true,
		ArcName: "address", Element: ARC4Byte, ArraySize: 32, DecodeType: Account,
	}
)
