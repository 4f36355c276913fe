package arc4_test

import (
	"encoding/hex"
	"testing"

	"github.com/avmforge/avmc/internal/arc4"
)

func TestPackBoolsStaticArrayAllTrue(t *testing.T) {
	bits := make([]bool, 12)
	for i := range bits {
		bits[i] = true
	}
	got := arc4.PackBools(bits)
	if hex.EncodeToString(got) != "fff0" {
		t.Fatalf("expected fff0, got %x", got)
	}
}

func TestUnpackBoolsRoundTrip(t *testing.T) {
	bits := []bool{true, false, true, true, false, false, true, false, true}
	packed := arc4.PackBools(bits)
	got, err := arc4.UnpackBools(packed, len(bits))
	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	for i := range bits {
		if got[i] != bits[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, got[i], bits[i])
		}
	}
}

func TestDynamicBoolArrayEncoding(t *testing.T) {
	bits := []bool{true, false, true}
	data := append(arc4.LengthPrefix(len(bits)), arc4.PackBools(bits)...)
	if hex.EncodeToString(data) != "0003a0" {
		t.Fatalf("expected 0003a0, got %x", data)
	}
}

func TestParseSignatureHello(t *testing.T) {
	sig, err := arc4.ParseSignature("hello(uint64,string)uint64")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sig.Name != "hello" {
		t.Fatalf("unexpected name: %s", sig.Name)
	}
	if len(sig.Args) != 2 || sig.Args[0] != "uint64" || sig.Args[1] != "string" {
		t.Fatalf("unexpected args: %v", sig.Args)
	}
	if sig.Return != "uint64" {
		t.Fatalf("unexpected return: %s", sig.Return)
	}
	wantSelector := arc4.Selector("hello(uint64,string)uint64")
	if sig.Selector() != wantSelector {
		t.Fatalf("selector mismatch")
	}
}

func TestParseSignatureTextAfterReturns(t *testing.T) {
	_, err := arc4.ParseSignature("(a)b(c)")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "invalid signature, text after returns" {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestParseSignatureNestedTuple(t *testing.T) {
	sig, err := arc4.ParseSignature("f((uint64,string),bool)(uint64,bool)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(sig.Args) != 2 {
		t.Fatalf("expected 2 top-level args, got %d: %v", len(sig.Args), sig.Args)
	}
	if sig.Args[0] != "(uint64,string)" || sig.Args[1] != "bool" {
		t.Fatalf("unexpected args: %v", sig.Args)
	}
	if sig.Return != "(uint64,bool)" {
		t.Fatalf("unexpected return: %s", sig.Return)
	}
}

func TestParseSignatureNoArgsInferred(t *testing.T) {
	sig, err := arc4.ParseSignature("create")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sig.Args != nil {
		t.Fatalf("expected nil args signalling inference, got %v", sig.Args)
	}
	if sig.Return != "void" {
		t.Fatalf("expected void return, got %s", sig.Return)
	}
}

func TestAddressRoundTrip(t *testing.T) {
	var pub [32]byte
	for i := range pub {
		pub[i] = byte(i)
	}
	addr := arc4.EncodeAddress(pub)
	if len(addr) != 58 {
		t.Fatalf("expected 58-char address, got %d: %s", len(addr), addr)
	}
	if !arc4.ValidAddress(addr) {
		t.Fatalf("expected address to validate: %s", addr)
	}
	decoded, ok := arc4.DecodeAddress(addr)
	if !ok || decoded != pub {
		t.Fatalf("round-trip mismatch")
	}
}

func TestAddressInvalidChecksum(t *testing.T) {
	var pub [32]byte
	addr := arc4.EncodeAddress(pub)
	tampered := "B" + addr[1:]
	if arc4.ValidAddress(tampered) && tampered != addr {
		// only fail the test if the mutation actually changed the string
		t.Fatalf("expected tampered address to be invalid")
	}
}

func TestAddressWrongLength(t *testing.T) {
	if arc4.ValidAddress("TOOSHORT") {
		t.Fatalf("expected short string to be invalid")
	}
}
