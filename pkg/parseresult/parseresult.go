// Package parseresult defines the boundary shapes the compiler core
// consumes from the external front-end parser (spec §6, SPEC_FULL §6):
// a ParseResult carrying one or more already-resolved Modules in source
// order, plus the compiler options that govern lowering and assembly.
//
// The front-end parser itself, and the translation from raw source text
// into these typed AWST contracts, are external collaborators outside
// this core's scope (spec §1); this package only fixes the shape of the
// handoff.
package parseresult

import (
	"github.com/avmforge/avmc/internal/asm"
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
)

// Module is one compiled source file's worth of contracts, keyed by path
// in ParseResult.OrderedModules.
type Module struct {
	Contracts []*awst.Contract
}

// ModuleEntry pairs a path with its Module, preserving the ordered-map
// semantics spec §6 requires of ParseResult.ordered_modules (Go has no
// ordered map literal, so this is a slice of pairs instead).
type ModuleEntry struct {
	Path   string
	Module *Module
}

// ParseResult is the complete input handed to this core by the front-end
// (spec §6): every parsed module in source order, the raw source text of
// each (for diagnostic rendering), and any diagnostics the parser itself
// already accumulated before handoff.
type ParseResult struct {
	OrderedModules []ModuleEntry
	SourcesByPath  map[string]string
	Diagnostics    []diag.Diagnostic
}

// CompileOptions is the compilation-options shape named in spec §6:
// target AVM version, optimization level, output directory, and optional
// template-variable bindings consumed by the assembler (spec §4.6).
type CompileOptions struct {
	TargetAVMVersion  int
	OptimizationLevel int
	OutDir            string
	TemplateVariables map[string]asm.TemplateVariable
}
