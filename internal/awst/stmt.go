package awst

import "github.com/avmforge/avmc/internal/srcloc"

// ExpressionStatement evaluates an expression and discards its result
// (e.g. a bare subroutine call used for its side effects).
type ExpressionStatement struct {
	stmtBase
	Expr Expr
}

// NewExpressionStatement builds an ExpressionStatement.
func NewExpressionStatement(loc *srcloc.Location, expr Expr) *ExpressionStatement {
	return &ExpressionStatement{stmtBase: stmtBase{loc: loc}, Expr: expr}
}

// AssignmentStatement binds Value to an lvalue Target (a VarExpression,
// FieldExpression, or IndexExpression already resolved by internal/eb's
// resolve_lvalue).
type AssignmentStatement struct {
	stmtBase
	Target Expr
	Value  Expr
}

// NewAssignmentStatement builds an AssignmentStatement.
func NewAssignmentStatement(loc *srcloc.Location, target, value Expr) *AssignmentStatement {
	return &AssignmentStatement{stmtBase: stmtBase{loc: loc}, Target: target, Value: value}
}

// ReturnStatement returns from the enclosing subroutine, optionally with
// a value (nil Value means the subroutine returns Void).
type ReturnStatement struct {
	stmtBase
	Value Expr
}

// NewReturnStatement builds a ReturnStatement.
func NewReturnStatement(loc *srcloc.Location, value Expr) *ReturnStatement {
	return &ReturnStatement{stmtBase: stmtBase{loc: loc}, Value: value}
}

// IfStatement is a conditional branch with an optional else-branch.
type IfStatement struct {
	stmtBase
	Condition Expr
	Then      []Stmt
	Else      []Stmt
}

// NewIfStatement builds an IfStatement.
func NewIfStatement(loc *srcloc.Location, cond Expr, thenBody, elseBody []Stmt) *IfStatement {
	return &IfStatement{stmtBase: stmtBase{loc: loc}, Condition: cond, Then: thenBody, Else: elseBody}
}

// WhileStatement is a pre-condition loop.
type WhileStatement struct {
	stmtBase
	Condition Expr
	Body      []Stmt
}

// NewWhileStatement builds a WhileStatement.
func NewWhileStatement(loc *srcloc.Location, cond Expr, body []Stmt) *WhileStatement {
	return &WhileStatement{stmtBase: stmtBase{loc: loc}, Condition: cond, Body: body}
}

// BlockStatement groups statements that share one entry/exit, used for
// explicit nested scoping (e.g. a subroutine's top-level body).
type BlockStatement struct {
	stmtBase
	Body []Stmt
}

// NewBlockStatement builds a BlockStatement.
func NewBlockStatement(loc *srcloc.Location, body []Stmt) *BlockStatement {
	return &BlockStatement{stmtBase: stmtBase{loc: loc}, Body: body}
}

// AssertStatement lowers to an AVM `assert`. Message is carried into
// MIR but is not emitted in the TEAL output.
type AssertStatement struct {
	stmtBase
	Condition Expr
	Message   string
}

// NewAssertStatement builds an AssertStatement.
func NewAssertStatement(loc *srcloc.Location, cond Expr, message string) *AssertStatement {
	return &AssertStatement{stmtBase: stmtBase{loc: loc}, Condition: cond, Message: message}
}
