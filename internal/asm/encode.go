package asm

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/avmforge/avmc/internal/teal"
)

// opcodeBytes assigns each TEAL mnemonic a one-byte opcode, standing in
// for the AVM's real opcode table (out of scope here - the assembler's
// contract per spec §4.6 is label resolution, template substitution, and
// debug-event emission, not a byte-exact reproduction of the AVM's
// published opcode catalogue).
var opcodeBytes = map[string]byte{
	"intcblock": 0x20, "bytecblock": 0x26,
	"intc": 0x22, "bytec": 0x28,
	"pushint": 0x81, "pushbytes": 0x80,
	"pushints": 0x82, "pushbytess": 0x83,
	"load": 0x34, "store": 0x35,
	"+": 0x08, "-": 0x09, "*": 0x0a, "/": 0x0b, "%": 0x0c,
	"&": 0x0d, "|": 0x0e, "^": 0x0f, "~": 0x1b,
	"shl": 0x18, "shr": 0x19, "neg": 0x1a,
	"==": 0x12, "!=": 0x13, "<": 0x14, ">": 0x15, "<=": 0x16, ">=": 0x17,
	"&&": 0x10, "||": 0x11, "!": 0x1c,
	"b": 0x40, "bnz": 0x41, "bz": 0x42,
	"callsub": 0x88, "retsub": 0x89,
	"assert": 0x44, "pop": 0x48,
	"field": 0x50, "index": 0x51,
	"tuple_cons": 0x52, "array_cons": 0x53,
	"arc4_encode": 0x54, "arc4_decode": 0x55,
	"store_field": 0x56, "store_index": 0x57,
	"elided": 0x00,
}

// encodeOp renders one TEAL op to its bytecode encoding: a one-byte
// opcode followed by whatever immediate data that opcode carries. When
// sizeOnly is true (the size-estimate pass), a branch op's target offset
// is not yet known and is encoded as a zero-filled placeholder of the
// correct width - this encoding's branch offsets are always 2 bytes
// regardless of value, so the placeholder never changes the op's length
// and the fixed-point adjust pass this function backs always converges
// on its second iteration.
func encodeOp(op teal.Op, actx *AssembleContext, offsets map[string]int, slots map[string]int, sizeOnly bool) ([]byte, error) {
	code, ok := opcodeBytes[op.Opcode]
	if !ok {
		return nil, fmt.Errorf("unknown opcode %q", op.Opcode)
	}
	out := []byte{code}

	switch op.Opcode {
	case "elided":
		// A ghost op the optimizer substitutes to preserve the
		// conservation invariant (internal/optimize) without emitting
		// any real instruction.
		return nil, nil

	case "pushint", "intc", "bytec":
		arg, err := resolveTemplate(actx, firstArg(op))
		if err != nil {
			return nil, err
		}
		n, err := parseUint(arg)
		if err != nil {
			return nil, fmt.Errorf("bad integer operand %q: %w", arg, err)
		}
		out = append(out, varint(n)...)

	case "pushbytes":
		data, err := resolveBytesArg(actx, firstArg(op))
		if err != nil {
			return nil, err
		}
		out = append(out, varint(uint64(len(data)))...)
		out = append(out, data...)

	case "pushints":
		out = append(out, varint(uint64(len(op.Args)))...)
		for _, a := range op.Args {
			resolved, err := resolveTemplate(actx, a)
			if err != nil {
				return nil, err
			}
			n, err := parseUint(resolved)
			if err != nil {
				return nil, fmt.Errorf("bad integer operand %q: %w", a, err)
			}
			out = append(out, varint(n)...)
		}

	case "pushbytess":
		out = append(out, varint(uint64(len(op.Args)))...)
		for _, a := range op.Args {
			data, err := resolveBytesArg(actx, a)
			if err != nil {
				return nil, err
			}
			out = append(out, varint(uint64(len(data)))...)
			out = append(out, data...)
		}

	case "intcblock":
		out = append(out, varint(uint64(len(op.Args)))...)
		for _, a := range op.Args {
			n, err := parseUint(a)
			if err != nil {
				return nil, fmt.Errorf("bad constant-block integer %q: %w", a, err)
			}
			out = append(out, varint(n)...)
		}

	case "bytecblock":
		out = append(out, varint(uint64(len(op.Args)))...)
		for _, a := range op.Args {
			data, err := decodeHexLiteral(a)
			if err != nil {
				return nil, err
			}
			out = append(out, varint(uint64(len(data)))...)
			out = append(out, data...)
		}

	case "load", "store":
		idx, ok := slots[firstArg(op)]
		if !ok {
			return nil, fmt.Errorf("unassigned virtual slot %q", firstArg(op))
		}
		out = append(out, byte(idx))

	case "field", "store_field":
		out = append(out, []byte(firstArg(op))...)

	case "tuple_cons", "array_cons":
		n, err := parseUint(firstArg(op))
		if err != nil {
			return nil, fmt.Errorf("bad element count %q: %w", firstArg(op), err)
		}
		out = append(out, varint(n)...)

	case "b", "bnz", "bz", "callsub":
		var buf [2]byte
		if !sizeOnly {
			target, ok := offsets[firstArg(op)]
			if !ok {
				return nil, fmt.Errorf("branch target %q is not a defined label", firstArg(op))
			}
			binary.BigEndian.PutUint16(buf[:], uint16(target))
		}
		out = append(out, buf[:]...)
	}
	return out, nil
}

func firstArg(op teal.Op) string {
	if len(op.Args) == 0 {
		return ""
	}
	return op.Args[0]
}

// resolveBytesArg resolves a pushbytes operand, which is either a
// `0x`-prefixed hex literal or a `TMPL_`-prefixed template-variable
// reference whose bound value is itself hex-encoded bytes.
func resolveBytesArg(actx *AssembleContext, arg string) ([]byte, error) {
	resolved, err := resolveTemplate(actx, arg)
	if err != nil {
		return nil, err
	}
	return decodeHexLiteral(resolved)
}

func decodeHexLiteral(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("bad hex literal %q: %w", s, err)
	}
	return data, nil
}
