// Package optimize implements the TEAL optimizer (spec §4.5): three
// transforms run in order when optimization_level > 0 -
// OptimizeProgram's peephole passes, GatherProgramConstants' constant-
// block hoisting (which always runs, regardless of level, for
// encoding-size reasons), and CombinePushes' push-instruction merging.
// Every pass must preserve the conservation invariant: the flat multiset
// of StackManipulation records collected from the whole program is
// identical before and after optimization, because it is the audit trail
// of what the program actually does to the stack, independent of how
// compactly that is encoded.
package optimize

import (
	"fmt"
	"sort"

	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/teal"
)

// manipKey is a hashable projection of a StackManipulation used to build
// the conservation multiset.
type manipKey struct {
	Kind mir.ManipKind
	Slot string
}

// multiset counts occurrences of each distinct manipulation.
func multiset(manips []mir.StackManipulation) map[manipKey]int {
	out := make(map[manipKey]int, len(manips))
	for _, m := range manips {
		out[manipKey{Kind: m.Kind, Slot: m.Slot}]++
	}
	return out
}

// AssertConservation checks that before and after carry the identical
// multiset of StackManipulation records (spec §4.5, §8). It returns a
// descriptive error rather than panicking, since this is asserted at the
// optimizer's pipeline boundary (spec §4.5) where the caller may want to
// report an InternalError with more context.
func AssertConservation(before, after []mir.StackManipulation) error {
	b, a := multiset(before), multiset(after)
	if len(b) != len(a) {
		return diffError(b, a)
	}
	for k, n := range b {
		if a[k] != n {
			return diffError(b, a)
		}
	}
	return nil
}

func diffError(before, after map[manipKey]int) error {
	keys := make(map[manipKey]bool)
	for k := range before {
		keys[k] = true
	}
	for k := range after {
		keys[k] = true
	}
	var mismatches []string
	for k := range keys {
		if before[k] != after[k] {
			mismatches = append(mismatches, fmt.Sprintf("%s(%q): before=%d after=%d", k.Kind, k.Slot, before[k], after[k]))
		}
	}
	sort.Strings(mismatches)
	return fmt.Errorf("optimize: stack manipulation conservation violated: %v", mismatches)
}
