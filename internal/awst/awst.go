// Package awst implements the compiler's typed abstract syntax tree (spec
// §3.2): an immutable tagged-tree of expressions, statements, subroutines
// and contracts, every node carrying its wire type (where applicable) and
// an optional source location. Nodes are constructed once by the eb layer
// (package internal/eb) and never mutated after publication to the
// AWST->MIR lowering stage, matching the "construct once, read many"
// ownership rule in spec §3.4.
package awst

import (
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// Expr is any typed AWST expression node. Every expression carries its
// wire type and, optionally, the source location it was built from.
type Expr interface {
	WType() *wtypes.WType
	Location() *srcloc.Location
	isExpr()
}

// Stmt is any AWST statement node.
type Stmt interface {
	Location() *srcloc.Location
	isStmt()
}

// base is embedded by every concrete expression node to carry its
// location and wire type without repeating the two accessor methods.
type base struct {
	loc *srcloc.Location
	typ *wtypes.WType
}

func (b base) Location() *srcloc.Location { return b.loc }
func (b base) WType() *wtypes.WType        { return b.typ }
func (base) isExpr()                       {}

// stmtBase is embedded by every concrete statement node.
type stmtBase struct {
	loc *srcloc.Location
}

func (b stmtBase) Location() *srcloc.Location { return b.loc }
func (stmtBase) isStmt()                      {}
