package wtypes

import (
	"github.com/avmforge/avmc/internal/arc4"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
)

// Persistable reports the AVM storage scalar class (u64 or bytes) a wtype
// can be written to global/local/box storage as, recording a CodeError and
// returning ScalarNone if the wtype is ephemeral or has no scalar
// representation (spec §4.1).
func Persistable(ctx *diag.Context, loc *srcloc.Location, w *WType) ScalarClass {
	if w.Ephemeral {
		ctx.Errorf(loc, "ephemeral types (such as transaction related types) are not suitable for storage")
		return ScalarNone
	}
	if w.ScalarClass == ScalarNone {
		ctx.Errorf(loc, "type is not suitable for storage")
		return ScalarNone
	}
	return w.ScalarClass
}

// IsReferenceType reports whether w is one of the AVM reference types that
// are passed by foreign-array index rather than by value (spec §4.1).
func IsReferenceType(w *WType) bool {
	switch w.Kind {
	case KindAsset, KindAccount, KindApplication:
		return true
	default:
		return false
	}
}

// IsARC4ArgumentType reports whether w is legal as a direct ARC4 ABI
// method argument: a reference type, an ARC4 type, or a group transaction
// reference (spec §4.1).
func IsARC4ArgumentType(w *WType) bool {
	return IsReferenceType(w) || w.IsARC4() || w.Kind == KindGroupTransaction
}

// HasARC4Equivalent reports whether a non-ARC4 wtype has a canonical ARC4
// equivalent (spec §4.1): the primitive scalar types always do; a tuple
// does iff every element is itself ARC4-encoded or has an ARC4 equivalent,
// and no element is itself a tuple (no nested-tuple equivalents).
func HasARC4Equivalent(w *WType) bool {
	switch w.Kind {
	case KindBool, KindU64, KindBytes, KindBigUint, KindString:
		return true
	case KindTuple:
		for _, t := range w.Types {
			if t.Kind == KindTuple {
				return false
			}
			if !(HasARC4Equivalent(t) || t.IsARC4()) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AVMToARC4Equivalent computes the canonical avm_to_arc4_equivalent
// mapping (spec §4.1). It is an InternalError (unreachable on any
// well-formed AWST node) for a wtype with no ARC4 equivalent.
func AVMToARC4Equivalent(ctx *diag.Context, loc *srcloc.Location, w *WType) *WType {
	switch {
	case w.Equal(Bool):
		return ARC4Bool
	case w.Equal(U64):
		return NewARC4UintN(ctx, loc, 64, "")
	case w.Equal(BigUint):
		return NewARC4UintN(ctx, loc, 512, "")
	case w.Equal(Bytes):
		return NewARC4DynamicArray(ctx, loc, ARC4Byte, "", Bytes, false)
	case w.Equal(String):
		return ARC4String
	case w.Kind == KindTuple:
		mapped := make([]*WType, len(w.Types))
		for i, t := range w.Types {
			if t.IsARC4() {
				mapped[i] = t
			} else {
				mapped[i] = AVMToARC4Equivalent(ctx, loc, t)
			}
		}
		return NewARC4Tuple(ctx, loc, mapped)
	default:
		ctx.Internal(loc, "%s does not have an arc4 equivalent type", w.Name)
		return Void
	}
}

// ValidAddress re-exports internal/arc4's address-checksum validation
// (base32/SHA-512/256 check, spec §4.1) for the account literal-
// conversion path: address validation is an ARC4/ABI concern shared with
// method-selector hashing, so it lives in internal/arc4 and is surfaced
// here under the wtypes vocabulary.
func ValidAddress(s string) bool {
	return arc4.ValidAddress(s)
}
