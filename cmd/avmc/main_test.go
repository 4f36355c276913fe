package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/avmforge/avmc/internal/testutil"
)

// TestCompileCmdEndToEnd drives the cobra "compile" subcommand the way a
// user would from a shell: fixture file in, bytecode file out.
func TestCompileCmdEndToEnd(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatalf("NewSandbox failed: %v", err)
	}
	defer sb.Cleanup()

	if err := sb.WriteFile("adder.json", []byte(adderFixture), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cmd := compileCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{sb.Path("adder.json")})
	if err := cmd.Flags().Set("out", sb.Root); err != nil {
		t.Fatalf("set --out: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile command failed: %v\noutput:\n%s", err, out.String())
	}

	bytecode, err := os.ReadFile(filepath.Join(sb.Root, "Adder.teal.bin"))
	if err != nil {
		t.Fatalf("expected bytecode file to be written: %v", err)
	}
	if len(bytecode) == 0 {
		t.Fatalf("expected non-empty bytecode")
	}
}

func TestCompileCmdRejectsMissingFixture(t *testing.T) {
	cmd := compileCmd()
	cmd.SetArgs([]string{"/nonexistent/fixture.json"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for a missing fixture file")
	}
}
