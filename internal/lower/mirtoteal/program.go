package mirtoteal

import (
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/teal"
)

// LowerProgram lowers a full MIR program to TEAL (spec §3.3, §4.4),
// carrying the program's correlation ID over unchanged (SPEC_FULL §3.3
// supplement).
func LowerProgram(ctx *diag.Context, targetAVMVersion int, prog *mir.Program) *teal.Program {
	main := LowerSub(ctx, prog.Main, true, prog.Main.Name)
	subs := make([]*teal.Subroutine, len(prog.Subroutines))
	for i, s := range prog.Subroutines {
		subs[i] = LowerSub(ctx, s, false, "")
	}
	return &teal.Program{
		ID:               prog.ID,
		TargetAVMVersion: targetAVMVersion,
		Main:             main,
		Subroutines:      subs,
	}
}
