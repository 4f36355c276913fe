package eb

import (
	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
)

// valueInstance is embedded by every InstanceBuilder that wraps an
// already-resolved AWST expression: Resolve is then just a field access,
// matching the teacher's pattern of a thin builder type wrapping its
// resolved node rather than re-deriving it lazily every time.
type valueInstance struct {
	base
	expr awst.Expr
}

func (v valueInstance) Resolve(ctx *diag.Context) awst.Expr { return v.expr }

// TypeOwner is implemented by an InstanceBuilder that can name its own
// TypeBuilder, letting operator dispatch (ResolveBinaryOp) look up the
// other operand's LiteralConverter when one side of a binary expression
// is still an uncommitted literal (spec §4.2).
type TypeOwner interface {
	Builder() TypeBuilder
}
