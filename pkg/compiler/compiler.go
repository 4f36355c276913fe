// Package compiler wires the AWST->MIR->TEAL->bytecode pipeline (spec §2)
// into a single entry point driven by a parseresult.ParseResult and
// parseresult.CompileOptions, the way the front-end parser, the CLI
// driver, and the language-server wrapper each do (spec §1's external
// collaborators, minus the front end itself).
//
// Each contract method is lowered independently; a contract's first
// method becomes its MIR/TEAL program's distinguished "main" subroutine
// and every other method becomes a callable subroutine of that program.
// Spec.md leaves ARC4 dispatch-table construction (the routing logic a
// real entry-point "main" uses to select which method a bare application
// call invokes) to the AWST-build stage it treats as already given
// (§4.4); this package does not synthesize one, so a compiled contract
// here calls directly into its first declared method rather than
// dispatching on an ABI selector.
package compiler

import (
	"fmt"

	"github.com/avmforge/avmc/internal/asm"
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/lower/awsttomir"
	"github.com/avmforge/avmc/internal/lower/mirtoteal"
	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/optimize"
	"github.com/avmforge/avmc/internal/teal"
	"github.com/avmforge/avmc/pkg/parseresult"
)

// ContractArtifact is everything produced for one compiled contract.
type ContractArtifact struct {
	Path         string
	ContractName string
	Program      *teal.Program
	Bytecode     []byte
	DebugEvents  map[int]asm.Event
}

// Result is the full output of one Compile invocation.
type Result struct {
	Contracts []ContractArtifact
}

// Compile runs every module's every contract through the full pipeline,
// in source order (spec §5's "ordering" requirement for diagnostics
// extends naturally to which contract is lowered first). It applies the
// error-gate checkpoints named in spec §5/§7: AWST->MIR lowering and
// TEAL validation are each gated, and an error at either one prunes that
// contract (best-effort diagnostics) rather than aborting the whole run,
// the "prune the failing module and continue" branch of the gate
// described in spec §5 - appropriate for this harness, which exists to
// exercise as much of the pipeline as possible rather than to gate a
// release build.
func Compile(ctx *diag.Context, pr *parseresult.ParseResult, opts parseresult.CompileOptions) (*Result, error) {
	res := &Result{}
	for _, entry := range pr.OrderedModules {
		if entry.Module == nil {
			continue
		}
		for _, contract := range entry.Module.Contracts {
			artifact, internalErr, ok := compileContract(ctx, entry.Path, contract, opts)
			if internalErr != nil {
				return nil, fmt.Errorf("compiler: internal error in %s/%s: %w", entry.Path, contract.Name, internalErr)
			}
			if !ok {
				continue
			}
			res.Contracts = append(res.Contracts, *artifact)
		}
	}
	return res, nil
}

// compileContract lowers one contract through AWST->MIR->TEAL, runs the
// optimizer and assembler, and reports whether the contract survived its
// error gates cleanly (spec §5, §7).
func compileContract(ctx *diag.Context, path string, contract *awst.Contract, opts parseresult.CompileOptions) (*ContractArtifact, error, bool) {
	if len(contract.Methods) == 0 {
		ctx.Errorf(contract.Loc, "contract %q has no methods", contract.Name)
		return nil, nil, false
	}

	var mainSub *mir.Subroutine
	var subs []*mir.Subroutine
	internalErr, ok := ctx.Gate(func() {
		for i, m := range contract.Methods {
			lowered := awsttomir.Lower(ctx, m.Subroutine)
			if i == 0 {
				mainSub = lowered
			} else {
				subs = append(subs, lowered)
			}
		}
	})
	if internalErr != nil {
		return nil, internalErr, false
	}
	if !ok {
		return nil, nil, false
	}

	mirProg := mir.NewProgram(mainSub, subs)

	var tealProg *teal.Program
	internalErr, ok = ctx.Gate(func() {
		tealProg = mirtoteal.LowerProgram(ctx, opts.TargetAVMVersion, mirProg)
	})
	if internalErr != nil {
		return nil, internalErr, false
	}
	if !ok {
		return nil, nil, false
	}

	if err := tealProg.Validate(); err != nil {
		ctx.Errorf(contract.Loc, "contract %q: %v", contract.Name, err)
		return nil, nil, false
	}

	beforeManips := tealProg.AllManipulations()
	internalErr, ok = ctx.Gate(func() {
		optimize.Run(tealProg, opts.OptimizationLevel)
		if err := optimize.AssertConservation(beforeManips, tealProg.AllManipulations()); err != nil {
			ctx.Internal(contract.Loc, "contract %q: %v", contract.Name, err)
		}
	})
	if internalErr != nil {
		return nil, internalErr, false
	}
	if !ok {
		return nil, nil, false
	}

	if err := tealProg.Validate(); err != nil {
		ctx.Errorf(contract.Loc, "contract %q: post-optimization: %v", contract.Name, err)
		return nil, nil, false
	}

	actx := asm.NewAssembleContext(opts.TemplateVariables)
	bytecode, events, err := asm.Assemble(tealProg, actx)
	if err != nil {
		ctx.Errorf(contract.Loc, "contract %q: %v", contract.Name, err)
		return nil, nil, false
	}

	return &ContractArtifact{
		Path:         path,
		ContractName: contract.Name,
		Program:      tealProg,
		Bytecode:     bytecode,
		DebugEvents:  events,
	}, nil, true
}
