package arc4_test

import (
	"testing"

	"github.com/avmforge/avmc/internal/arc4"
)

// FuzzBoolPackingRoundTrip checks the encode/decode round-trip property
// from spec §8 for the bit-packed boolean array codec: for any bit
// length, packing then unpacking must reproduce the original bits.
func FuzzBoolPackingRoundTrip(f *testing.F) {
	f.Add(0)
	f.Add(1)
	f.Add(12)
	f.Add(37)
	f.Fuzz(func(t *testing.T, n int) {
		if n < 0 || n > 4096*8 {
			t.Skip("out of the 4096-byte max bytestring range")
		}
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = i%3 == 0
		}
		packed := arc4.PackBools(bits)
		if len(packed) != (n+7)/8 {
			t.Fatalf("packed length = %d, want %d", len(packed), (n+7)/8)
		}
		got, err := arc4.UnpackBools(packed, n)
		if err != nil {
			t.Fatalf("UnpackBools failed: %v", err)
		}
		for i := range bits {
			if got[i] != bits[i] {
				t.Fatalf("mismatch at bit %d: got %v want %v", i, got[i], bits[i])
			}
		}
	})
}

// FuzzParseSignatureRenderRoundTrip checks the parse/re-render property
// from spec §8 for ParseSignature: any signature that parses successfully
// must re-render (via Signature.String) to a string that parses back to
// an identical Signature.
func FuzzParseSignatureRenderRoundTrip(f *testing.F) {
	f.Add("hello(uint64,string)uint64")
	f.Add("noargs()")
	f.Add("pair(uint8,uint8)(uint8,uint8)")
	f.Add("(a)b(c)")
	f.Add("bareword")
	f.Fuzz(func(t *testing.T, sig string) {
		parsed, err := arc4.ParseSignature(sig)
		if err != nil {
			return // malformed input is expected to error, not panic
		}
		rendered := parsed.String()
		reparsed, err := arc4.ParseSignature(rendered)
		if err != nil {
			t.Fatalf("re-parsing rendered signature %q failed: %v", rendered, err)
		}
		if reparsed.Name != parsed.Name || reparsed.Return != parsed.Return || len(reparsed.Args) != len(parsed.Args) {
			t.Fatalf("round-trip mismatch: %+v -> %q -> %+v", parsed, rendered, reparsed)
		}
		for i := range parsed.Args {
			if reparsed.Args[i] != parsed.Args[i] {
				t.Fatalf("round-trip arg %d mismatch: %q vs %q", i, parsed.Args[i], reparsed.Args[i])
			}
		}
	})
}
