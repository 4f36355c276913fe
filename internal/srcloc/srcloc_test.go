package srcloc_test

import (
	"testing"

	"github.com/avmforge/avmc/internal/srcloc"
)

func TestInternReturnsSamePointerForSamePath(t *testing.T) {
	table := srcloc.NewTable()
	a := table.Intern("contract.algo.ts")
	b := table.Intern("contract.algo.ts")
	if a != b {
		t.Fatalf("expected interned File to be the same pointer")
	}
}

func TestInternDistinctPathsDistinctFiles(t *testing.T) {
	table := srcloc.NewTable()
	a := table.Intern("one.algo.ts")
	b := table.Intern("two.algo.ts")
	if a == b {
		t.Fatalf("expected distinct paths to intern to distinct Files")
	}
}

func TestLocationStringDegradesGracefully(t *testing.T) {
	table := srcloc.NewTable()

	var nilLoc *srcloc.Location
	if got := nilLoc.String(); got != "<unknown>" {
		t.Fatalf("expected <unknown> for nil location, got %q", got)
	}

	noLine := &srcloc.Location{File: table.Intern("a.ts"), Line: srcloc.Unset, Column: srcloc.Unset}
	if got := noLine.String(); got != "a.ts" {
		t.Fatalf("expected bare path, got %q", got)
	}

	noCol := &srcloc.Location{File: table.Intern("a.ts"), Line: 3, Column: srcloc.Unset}
	if got := noCol.String(); got != "a.ts:3" {
		t.Fatalf("expected path:line, got %q", got)
	}

	full := table.At("a.ts", 3, 5, 3, 9)
	if got := full.String(); got != "a.ts:3:5" {
		t.Fatalf("expected path:line:col, got %q", got)
	}
}

func TestStartPointsAtFileBeginning(t *testing.T) {
	table := srcloc.NewTable()
	loc := table.Start("a.ts")
	if loc.Line != 1 || loc.Column != 0 {
		t.Fatalf("expected line 1 col 0, got %d:%d", loc.Line, loc.Column)
	}
	if loc.File != table.Intern("a.ts") {
		t.Fatalf("expected Start to intern the same File as Intern")
	}
}
