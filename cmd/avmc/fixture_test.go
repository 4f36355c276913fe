package main

import (
	"testing"

	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/pkg/compiler"
	"github.com/avmforge/avmc/pkg/parseresult"
)

const adderFixture = `{
  "modules": [
    {
      "path": "adder.algo.ts",
      "contracts": [
        {
          "name": "Adder",
          "methods": [
            {
              "name": "add",
              "params": [{"name": "a", "type": "uint64"}, {"name": "b", "type": "uint64"}],
              "return": "uint64",
              "arc4_signature": "add(uint64,uint64)uint64",
              "body": [
                {"kind": "return", "value": {
                  "kind": "binop", "type": "uint64", "op": "+",
                  "left": {"kind": "var", "type": "uint64", "name": "a"},
                  "right": {"kind": "var", "type": "uint64", "name": "b"}
                }}
              ]
            }
          ]
        }
      ]
    }
  ]
}`

func TestDecodeFixtureAdder(t *testing.T) {
	ctx := diag.NewContext(nil)
	pr, err := decodeFixture(ctx, []byte(adderFixture))
	if err != nil {
		t.Fatalf("decodeFixture failed: %v", err)
	}
	if len(pr.OrderedModules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(pr.OrderedModules))
	}
	contracts := pr.OrderedModules[0].Module.Contracts
	if len(contracts) != 1 || contracts[0].Name != "Adder" {
		t.Fatalf("unexpected contracts: %+v", contracts)
	}
	if len(contracts[0].Methods) != 1 || contracts[0].Methods[0].Subroutine.Signature.Name != "add" {
		t.Fatalf("unexpected methods: %+v", contracts[0].Methods)
	}
}

func TestDecodeFixtureThenCompile(t *testing.T) {
	ctx := diag.NewContext(nil)
	pr, err := decodeFixture(ctx, []byte(adderFixture))
	if err != nil {
		t.Fatalf("decodeFixture failed: %v", err)
	}

	opts := parseresult.CompileOptions{TargetAVMVersion: 10, OptimizationLevel: 1}

	res, err := compiler.Compile(ctx, pr, opts)
	if err != nil {
		t.Fatalf("Compile returned internal error: %v", err)
	}
	if ctx.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", ctx.Diagnostics())
	}
	if len(res.Contracts) != 1 {
		t.Fatalf("expected 1 compiled contract, got %d", len(res.Contracts))
	}
	if err := res.Contracts[0].Program.Validate(); err != nil {
		t.Fatalf("compiled program failed validation: %v", err)
	}
}

func TestDecodeFixtureRejectsUnknownStatementKind(t *testing.T) {
	ctx := diag.NewContext(nil)
	_, err := decodeFixture(ctx, []byte(`{"modules":[{"path":"x","contracts":[{"name":"X","methods":[
		{"name":"m","return":"uint64","body":[{"kind":"nonsense"}]}
	]}]}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown statement kind")
	}
}

func TestParseTemplateVars(t *testing.T) {
	vars, err := parseTemplateVars([]string{"FEE=uint64:1000", "NOTE=bytes:deadbeef"})
	if err != nil {
		t.Fatalf("parseTemplateVars failed: %v", err)
	}
	if vars["FEE"].Value != "1000" || vars["NOTE"].Value != "deadbeef" {
		t.Fatalf("unexpected bindings: %+v", vars)
	}
	if _, err := parseTemplateVars([]string{"BAD"}); err == nil {
		t.Fatalf("expected an error for a malformed --template-var flag")
	}
}
