// CoerceARC4Argument implements spec §4.3's six-step ABI argument
// coercion rule, applied once per call-site argument against an ARC4
// method's declared (or inferred) parameter type; array.go and
// struct.go also reuse it for array-element/struct-field construction
// arguments, since steps 1 and 6 (exact match, and literal promotion or
// delegation to the target's own TypeBuilder) already cover the general
// "coerce this value to that declared type" case without anything
// ARC4-specific about it. Grounded on
// original_source/src/puyapy/awst_build/eb/arc4/_utils.py's
// argument-coercion pass (there is no arc4_utils.py at the top level of
// src/puya/awst_build in the retrieved pack - the real file lives under
// puyapy's eb/arc4 package).
package eb

import (
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// CoerceARC4Argument coerces source into target's wtype per spec §4.3:
//  1. types match -> pass through.
//  2. target is a transaction type -> accept any compatible
//     group/inner transaction (checked by ARC4 equivalence at a coarser
//     grain: the concrete TransactionType, if any, must agree).
//  3. source is already ARC4-encoded but != target -> error.
//  4. target's ARC4 type cannot encode source's wtype -> error.
//  5. target is an ARC4 struct and source is a tuple of matching arity
//     -> recursively coerce field-wise.
//  6. otherwise, call target's type-builder to construct from source.
func CoerceARC4Argument(ctx *diag.Context, loc *srcloc.Location, target *wtypes.WType, source InstanceBuilder, targetBuilder TypeBuilder) InstanceBuilder {
	sourceType := source.WType()

	// Step 1: exact match.
	if sourceType != nil && sourceType.Equal(target) {
		return source
	}

	// Step 2: transaction-typed target.
	if target.Kind == wtypes.KindGroupTransaction || target.Kind == wtypes.KindInnerTransaction {
		if sourceType != nil && (sourceType.Kind == wtypes.KindGroupTransaction || sourceType.Kind == wtypes.KindInnerTransaction) {
			if transactionKindCompatible(target, sourceType) {
				return source
			}
		}
		ctx.Errorf(loc, "cannot coerce %s to transaction type %s", typeName(source), target.Name)
		return NewDummyInstance(loc, target)
	}

	// Step 3: already ARC4-encoded but mismatched.
	if sourceType != nil && sourceType.IsARC4() {
		ctx.Errorf(loc, "cannot coerce ARC4 type %s to unrelated ARC4 type %s", sourceType.Name, target.Name)
		return NewDummyInstance(loc, target)
	}

	// Step 4: target cannot encode source's wtype.
	if sourceType != nil && !canEncode(target, sourceType) {
		ctx.Errorf(loc, "%s cannot be encoded as %s", sourceType.Name, target.Name)
		return NewDummyInstance(loc, target)
	}

	// Step 5: struct target, tuple-shaped source of matching arity.
	if target.Kind == wtypes.KindARC4Struct {
		if tup, ok := source.(interface{ Elements() []InstanceBuilder }); ok {
			elems := tup.Elements()
			if len(elems) == len(target.Fields) {
				resolved := make([]awst.Expr, len(elems))
				for i, e := range elems {
					coerced := CoerceARC4Argument(ctx, loc, target.Fields[i].Type, e, nil)
					resolved[i] = coerced.Resolve(ctx)
				}
				return instanceForWType(loc, target, awst.NewTupleExpression(loc, target, resolved))
			}
		}
	}

	// Step 6: delegate to the target type-builder's constructor, or - for
	// a native value with a structural ARC4 equivalent and no explicit
	// builder available - wrap it directly with an ARC4EncodeExpression
	// (spec §4.1's avm_to_arc4_equivalent conversion node).
	if targetBuilder != nil {
		return targetBuilder.Call(ctx, loc, []InstanceBuilder{source})
	}
	if sourceType != nil && !sourceType.IsARC4() && wtypes.HasARC4Equivalent(sourceType) {
		return instanceForWType(loc, target, awst.NewARC4EncodeExpression(loc, target, source.Resolve(ctx)))
	}
	ctx.Errorf(loc, "cannot coerce %s to %s", typeName(source), target.Name)
	return NewDummyInstance(loc, target)
}

func transactionKindCompatible(target, source *wtypes.WType) bool {
	if target.TransactionType == nil || source.TransactionType == nil {
		return true
	}
	return *target.TransactionType == *source.TransactionType
}

// canEncode reports whether target (an ARC4 wtype) can represent a
// value of source's wtype, either directly (source already has an ARC4
// equivalent computable from it) or via one of target's
// OtherEncodeableTypes (spec §3.1's uintN widening set).
func canEncode(target, source *wtypes.WType) bool {
	for _, t := range target.OtherEncodeableTypes {
		if t.Equal(source) {
			return true
		}
	}
	if !target.IsARC4() {
		return false
	}
	return wtypes.HasARC4Equivalent(source)
}
