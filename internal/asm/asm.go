// Package asm implements the assembler (spec §4.6): the final stage that
// turns a validated TEAL program into bytecode, resolving labels to byte
// offsets in two passes, substituting named TMPL_-prefixed template
// variables, and emitting a debug_events map consumed by the external
// debug-info writer.
package asm

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/teal"
	"github.com/avmforge/avmc/internal/wtypes"
)

// Event is one debug_events map entry: the opcode executed at a byte
// offset and the source location it was lowered from (spec §4.6).
type Event struct {
	Op       string
	Location *srcloc.Location
}

// TemplateVariable describes one `TMPL_`-prefixed placeholder the
// assembler must substitute before emission (spec §4.6, §6): Name
// excludes the `TMPL_` prefix, and Value is encoded the way the opcode
// referencing the placeholder requires (decimal integer text for
// pushint/pushints, hex text for pushbytes/pushbytess). Type records the
// placeholder's declared wtype; Assemble does not read it.
type TemplateVariable struct {
	Name  string
	Type  *wtypes.WType
	Value string
}

// AssembleContext carries the template-variable bindings for one
// assembly run, provided by the compiler's options (spec §4.6:
// "values are provided by the AssembleContext").
type AssembleContext struct {
	TemplateVariables map[string]TemplateVariable
}

// NewAssembleContext builds an AssembleContext with the given bindings.
func NewAssembleContext(vars map[string]TemplateVariable) *AssembleContext {
	if vars == nil {
		vars = map[string]TemplateVariable{}
	}
	return &AssembleContext{TemplateVariables: vars}
}

const templatePrefix = "TMPL_"

// Assemble lowers a validated TEAL program to bytecode (spec §4.6).
// Label targets are resolved to byte offsets in two passes: the first
// estimates every op's encoded size to compute a candidate label->offset
// table; the second re-encodes using that table and re-measures, looping
// until offsets stop moving (the "fixed-point adjust for variable-length
// intc/bytec variants" spec calls for) or a small iteration cap is hit,
// which this encoding's fixed per-opcode sizes always satisfies on the
// first extra pass.
func Assemble(prog *teal.Program, actx *AssembleContext) ([]byte, map[int]Event, error) {
	if err := prog.Validate(); err != nil {
		return nil, nil, fmt.Errorf("asm: %w", err)
	}
	slots := collectSlots(prog)

	offsets, err := resolveOffsets(prog, actx, slots)
	if err != nil {
		return nil, nil, err
	}

	var out []byte
	events := map[int]Event{}
	for _, sub := range prog.AllSubroutines() {
		for _, b := range sub.Blocks {
			for _, op := range b.Ops {
				start := len(out)
				encoded, err := encodeOp(op, actx, offsets, slots, false)
				if err != nil {
					return nil, nil, fmt.Errorf("asm: %q: %w", op.Opcode, err)
				}
				out = append(out, encoded...)
				events[start] = Event{Op: op.Opcode, Location: op.Loc}
			}
		}
	}
	return out, events, nil
}

// resolveOffsets runs the size-estimate pass and returns every label's
// byte offset, re-running until the computed offsets stabilize.
func resolveOffsets(prog *teal.Program, actx *AssembleContext, slots map[string]int) (map[string]int, error) {
	offsets := map[string]int{}
	for iteration := 0; iteration < 4; iteration++ {
		next := map[string]int{}
		pos := 0
		for _, sub := range prog.AllSubroutines() {
			for _, b := range sub.Blocks {
				next[b.Label] = pos
				for _, op := range b.Ops {
					size, err := encodedSize(op, actx, offsets, slots)
					if err != nil {
						return nil, fmt.Errorf("asm: %q: %w", op.Opcode, err)
					}
					pos += size
				}
			}
		}
		if mapsEqual(offsets, next) {
			return next, nil
		}
		offsets = next
	}
	return offsets, nil
}

func mapsEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// collectSlots assigns a stable byte index to every distinct virtual
// slot name referenced by a load/store op, in first-seen order, standing
// in for real AVM scratch-space allocation.
func collectSlots(prog *teal.Program) map[string]int {
	slots := map[string]int{}
	for _, sub := range prog.AllSubroutines() {
		for _, b := range sub.Blocks {
			for _, op := range b.Ops {
				if (op.Opcode == "load" || op.Opcode == "store") && len(op.Args) == 1 {
					if _, ok := slots[op.Args[0]]; !ok {
						slots[op.Args[0]] = len(slots)
					}
				}
			}
		}
	}
	return slots
}

func resolveTemplate(actx *AssembleContext, arg string) (string, error) {
	if !strings.HasPrefix(arg, templatePrefix) {
		return arg, nil
	}
	name := strings.TrimPrefix(arg, templatePrefix)
	v, ok := actx.TemplateVariables[name]
	if !ok {
		return "", fmt.Errorf("unresolved template variable %s%s", templatePrefix, name)
	}
	return v.Value, nil
}

func encodedSize(op teal.Op, actx *AssembleContext, offsets map[string]int, slots map[string]int) (int, error) {
	encoded, err := encodeOp(op, actx, offsets, slots, true)
	if err != nil {
		return 0, err
	}
	return len(encoded), nil
}

// SortedLabels returns a program's labels in the order they appear, used
// by diagnostics and tests that want deterministic output.
func SortedLabels(offsets map[string]int) []string {
	out := make([]string, 0, len(offsets))
	for l := range offsets {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return offsets[out[i]] < offsets[out[j]] })
	return out
}

func varint(n uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	l := binary.PutUvarint(buf, n)
	return buf[:l]
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
