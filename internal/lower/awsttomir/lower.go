// Package awsttomir lowers AWST subroutines into MIR (spec §4.4). It is a
// single-pass recursive expression linearizer that assigns each local a
// virtual slot name "%<n>", walks statements in source order building
// basic blocks split at every branch/label/loop boundary, and records one
// StackManipulation per MIR op describing the literal push/pop trace.
// This is the minimum design SPEC_FULL.md §4.4 calls for: a concrete (if
// simplified relative to a production compiler) AWST->MIR stage, since
// spec.md itself treats this stage as already-given and only specifies
// MIR's contract.
package awsttomir

import (
	"fmt"
	"math/big"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/mir"
	"github.com/avmforge/avmc/internal/srcloc"
)

// lowerer carries the running state of one subroutine's linearization: a
// monotonically increasing slot/block counter and the list of blocks
// built so far, the last of which is open for appends.
type lowerer struct {
	ctx    *diag.Context
	blocks []*mir.Block
	cur    *mir.Block
	height int
	nextSlot  int
	nextBlock int
	slots  map[string]string // source var name -> virtual slot name
	curLoc *srcloc.Location
}

// Lower builds the MIR subroutine for sub. Every subroutine's first MIR
// block is named "entry"; giving main's first block the subroutine's
// signature name (spec §4.4) happens later, in mirtoteal.
func Lower(ctx *diag.Context, sub *awst.Subroutine) *mir.Subroutine {
	l := &lowerer{ctx: ctx, slots: make(map[string]string)}
	for _, p := range sub.Signature.Parameters {
		l.slots[p.Name] = l.bindSlot(p.Name)
	}
	l.openBlock("entry")
	for _, stmt := range sub.Body {
		l.lowerStmt(stmt)
	}
	l.closeTrailing()
	return &mir.Subroutine{Name: sub.Signature.Name, Blocks: l.blocks}
}

func (l *lowerer) bindSlot(name string) string {
	s := fmt.Sprintf("%%%d", l.nextSlot)
	l.nextSlot++
	return s
}

func (l *lowerer) slotFor(name string) string {
	if s, ok := l.slots[name]; ok {
		return s
	}
	s := l.bindSlot(name)
	l.slots[name] = s
	return s
}

func (l *lowerer) blockName() string {
	n := fmt.Sprintf("block_%d", l.nextBlock)
	l.nextBlock++
	return n
}

// openBlock starts a new block named name, inheriting the running height
// as its entry height, and makes it current.
func (l *lowerer) openBlock(name string) *mir.Block {
	b := &mir.Block{Name: name, EntryHeight: l.height}
	l.blocks = append(l.blocks, b)
	l.cur = b
	return b
}

// closeTrailing finalizes the currently open block's exit height and, if
// it has no terminator yet, marks it as falling through (used for a
// subroutine body that ends without an explicit return).
func (l *lowerer) closeTrailing() {
	if l.cur == nil {
		return
	}
	l.cur.ExitHeight = l.height
	if l.cur.Terminator == (mir.Terminator{}) {
		l.cur.Terminator = mir.Terminator{Kind: mir.Return}
	}
}

// terminate closes the current block with term, recording the running
// height as its exit height, without opening a replacement block.
func (l *lowerer) terminate(term mir.Terminator) {
	l.cur.ExitHeight = l.height
	l.cur.Terminator = term
}

func (l *lowerer) emit(name string, args []string, manips ...mir.StackManipulation) {
	l.cur.Ops = append(l.cur.Ops, mir.Op{Name: name, Args: args, Manipulations: manips, Loc: l.curLoc})
	for _, m := range manips {
		if m.Kind == mir.Push {
			l.height++
		} else {
			l.height--
		}
	}
}

func push(slot string) mir.StackManipulation { return mir.StackManipulation{Kind: mir.Push, Slot: slot} }
func pop(slot string) mir.StackManipulation  { return mir.StackManipulation{Kind: mir.Pop, Slot: slot} }

// lowerExpr emits ops that push exactly one value - e's result - onto the
// running virtual stack.
func (l *lowerer) lowerExpr(e awst.Expr) {
	switch n := e.(type) {
	case *awst.BoolConstant:
		v := "0"
		if n.Value {
			v = "1"
		}
		l.emit("literal_bool", []string{v}, push(""))
	case *awst.UInt64Constant:
		l.emit("literal_u64", []string{fmt.Sprintf("%d", n.Value)}, push(""))
	case *awst.BigUIntConstant:
		v := n.Value
		if v == nil {
			v = big.NewInt(0)
		}
		l.emit("literal_biguint", []string{v.String()}, push(""))
	case *awst.BytesConstant:
		l.emit("literal_bytes", []string{fmt.Sprintf("%x", n.Value)}, push(""))
	case *awst.StringConstant:
		l.emit("literal_bytes", []string{fmt.Sprintf("%x", []byte(n.Value))}, push(""))
	case *awst.AddressConstant:
		l.emit("literal_bytes", []string{fmt.Sprintf("%x", n.PublicKey[:])}, push(""))
	case *awst.MethodConstant:
		l.emit("literal_bytes", []string{fmt.Sprintf("%x", n.Selector[:])}, push(""))
	case *awst.VarExpression:
		l.emit("load", []string{l.slotFor(n.Name)}, push(l.slotFor(n.Name)))
	case *awst.FieldExpression:
		l.lowerExpr(n.Base)
		l.emit("field", []string{n.Field}, pop(""), push(""))
	case *awst.IndexExpression:
		l.lowerExpr(n.Base)
		l.lowerExpr(n.Index)
		l.emit("index", nil, pop(""), pop(""), push(""))
	case *awst.TupleExpression:
		for _, elem := range n.Elements {
			l.lowerExpr(elem)
		}
		manips := make([]mir.StackManipulation, 0, len(n.Elements)+1)
		for range n.Elements {
			manips = append(manips, pop(""))
		}
		manips = append(manips, push(""))
		l.emit("make_tuple", []string{fmt.Sprintf("%d", len(n.Elements))}, manips...)
	case *awst.ArrayConstructorExpression:
		for _, elem := range n.Elements {
			l.lowerExpr(elem)
		}
		manips := make([]mir.StackManipulation, 0, len(n.Elements)+1)
		for range n.Elements {
			manips = append(manips, pop(""))
		}
		manips = append(manips, push(""))
		l.emit("make_array", []string{fmt.Sprintf("%d", len(n.Elements))}, manips...)
	case *awst.BinaryOpExpression:
		l.lowerExpr(n.Left)
		l.lowerExpr(n.Right)
		l.emit("binop_"+n.Op, nil, pop(""), pop(""), push(""))
	case *awst.UnaryOpExpression:
		l.lowerExpr(n.Operand)
		l.emit("unop_"+n.Op, nil, pop(""), push(""))
	case *awst.CompareExpression:
		l.lowerExpr(n.Left)
		l.lowerExpr(n.Right)
		l.emit("cmp_"+n.Op, nil, pop(""), pop(""), push(""))
	case *awst.ConditionalExpression:
		l.lowerConditionalExpr(n)
	case *awst.SubroutineCallExpression:
		for _, a := range n.Args {
			l.lowerExpr(a)
		}
		manips := make([]mir.StackManipulation, 0, len(n.Args)+1)
		for range n.Args {
			manips = append(manips, pop(""))
		}
		void := n.WType() == nil || n.WType().Name == "void"
		if !void {
			manips = append(manips, push(""))
		}
		l.emit("callsub", []string{n.Target}, manips...)
	case *awst.ARC4EncodeExpression:
		l.lowerExpr(n.Value)
		l.emit("arc4_encode", nil, pop(""), push(""))
	case *awst.ARC4DecodeExpression:
		l.lowerExpr(n.Value)
		l.emit("arc4_decode", nil, pop(""), push(""))
	case *awst.NumericWidenExpression:
		l.lowerExpr(n.Value)
		l.emit("widen_biguint", nil, pop(""), push(""))
	case *awst.StructConstructorExpression:
		for _, f := range n.Fields {
			l.lowerExpr(f)
		}
		manips := make([]mir.StackManipulation, 0, len(n.Fields)+1)
		for range n.Fields {
			manips = append(manips, pop(""))
		}
		manips = append(manips, push(""))
		l.emit("make_struct", []string{fmt.Sprintf("%d", len(n.Fields))}, manips...)
	case *awst.ArrayLengthExpression:
		l.lowerExpr(n.Base)
		l.emit("array_len", nil, pop(""), push(""))
	case *awst.ArrayAppendExpression:
		l.lowerExpr(n.Base)
		l.lowerExpr(n.Value)
		l.emit("array_append", nil, pop(""), pop(""), push(""))
	case *awst.ArrayPopExpression:
		l.lowerExpr(n.Base)
		l.emit("array_pop", nil, pop(""), push(""))
	case *awst.ArrayReplaceExpression:
		l.lowerExpr(n.Base)
		l.lowerExpr(n.Index)
		l.lowerExpr(n.Value)
		l.emit("array_replace", nil, pop(""), pop(""), pop(""), push(""))
	case *awst.ArraySliceExpression:
		l.lowerExpr(n.Base)
		if n.Lo != nil {
			l.lowerExpr(n.Lo)
		} else {
			l.emit("literal_u64", []string{"0"}, push(""))
		}
		if n.Hi != nil {
			l.lowerExpr(n.Hi)
		} else {
			// No upper bound given: re-evaluate Base to compute its
			// length as the default "to the end" bound.
			l.lowerExpr(n.Base)
			l.emit("array_len", nil, pop(""), push(""))
		}
		l.emit("array_slice", nil, pop(""), pop(""), pop(""), push(""))
	case *awst.ArrayContainsExpression:
		l.lowerExpr(n.Base)
		l.lowerExpr(n.Value)
		l.emit("array_contains", nil, pop(""), pop(""), push(""))
	case *awst.DummyExpression:
		l.emit("dummy", nil, push(""))
	default:
		l.ctx.Internal(e.Location(), "awsttomir: unhandled expression node %T", e)
	}
}

// lowerConditionalExpr lowers a ternary expression by splitting into
// then/else/join blocks, binding each branch's value into a shared
// temporary slot the join block loads.
func (l *lowerer) lowerConditionalExpr(n *awst.ConditionalExpression) {
	tmp := l.bindSlot("$cond")
	l.lowerExpr(n.Condition)
	l.height-- // condition consumed by the branch below
	thenName, elseName, joinName := l.blockName(), l.blockName(), l.blockName()
	l.terminate(mir.Terminator{Kind: mir.ConditionalBranch, Target: thenName, ElseTarget: elseName})

	l.openBlock(thenName)
	l.lowerExpr(n.Then)
	l.emit("store", []string{tmp}, pop(tmp))
	l.terminate(mir.Terminator{Kind: mir.Goto, Target: joinName})

	l.openBlock(elseName)
	l.lowerExpr(n.Else)
	l.emit("store", []string{tmp}, pop(tmp))
	l.terminate(mir.Terminator{Kind: mir.Goto, Target: joinName})

	l.openBlock(joinName)
	l.emit("load", []string{tmp}, push(tmp))
}

func (l *lowerer) lowerStmt(stmt awst.Stmt) {
	l.curLoc = stmt.Location()
	if l.cur.Terminator != (mir.Terminator{}) {
		// statements after a return start a fresh (unreachable) block
		l.openBlock(l.blockName())
	}
	switch n := stmt.(type) {
	case *awst.ExpressionStatement:
		l.lowerExpr(n.Expr)
		l.emit("pop", nil, pop(""))
	case *awst.AssignmentStatement:
		l.lowerExpr(n.Value)
		l.lowerAssignTarget(n.Target)
	case *awst.ReturnStatement:
		if n.Value != nil {
			l.lowerExpr(n.Value)
			l.emit("retsub", nil, pop(""))
		} else {
			l.emit("retsub", nil)
		}
		l.terminate(mir.Terminator{Kind: mir.Return})
	case *awst.IfStatement:
		l.lowerIf(n)
	case *awst.WhileStatement:
		l.lowerWhile(n)
	case *awst.BlockStatement:
		for _, s := range n.Body {
			l.lowerStmt(s)
		}
	case *awst.AssertStatement:
		l.lowerExpr(n.Condition)
		l.emit("assert", []string{n.Message}, pop(""))
	default:
		l.ctx.Internal(stmt.Location(), "awsttomir: unhandled statement node %T", stmt)
	}
}

func (l *lowerer) lowerAssignTarget(target awst.Expr) {
	switch t := target.(type) {
	case *awst.VarExpression:
		slot := l.slotFor(t.Name)
		l.emit("store", []string{slot}, pop(slot))
	case *awst.FieldExpression:
		l.lowerExpr(t.Base)
		l.emit("store_field", []string{t.Field}, pop(""), pop(""))
	case *awst.IndexExpression:
		l.lowerExpr(t.Base)
		l.lowerExpr(t.Index)
		l.emit("store_index", nil, pop(""), pop(""), pop(""))
	default:
		l.ctx.Internal(target.Location(), "awsttomir: unassignable lvalue node %T", target)
	}
}

func (l *lowerer) lowerIf(n *awst.IfStatement) {
	l.lowerExpr(n.Condition)
	l.height--
	thenName, joinName := l.blockName(), l.blockName()
	elseName := joinName
	if len(n.Else) > 0 {
		elseName = l.blockName()
	}
	l.terminate(mir.Terminator{Kind: mir.ConditionalBranch, Target: thenName, ElseTarget: elseName})

	l.openBlock(thenName)
	for _, s := range n.Then {
		l.lowerStmt(s)
	}
	if l.cur.Terminator == (mir.Terminator{}) {
		l.terminate(mir.Terminator{Kind: mir.Goto, Target: joinName})
	}

	if elseName != joinName {
		l.openBlock(elseName)
		for _, s := range n.Else {
			l.lowerStmt(s)
		}
		if l.cur.Terminator == (mir.Terminator{}) {
			l.terminate(mir.Terminator{Kind: mir.Goto, Target: joinName})
		}
	}

	l.openBlock(joinName)
}

func (l *lowerer) lowerWhile(n *awst.WhileStatement) {
	headerName, bodyName, exitName := l.blockName(), l.blockName(), l.blockName()
	l.terminate(mir.Terminator{Kind: mir.Goto, Target: headerName})

	l.openBlock(headerName)
	l.lowerExpr(n.Condition)
	l.height--
	l.terminate(mir.Terminator{Kind: mir.ConditionalBranch, Target: bodyName, ElseTarget: exitName})

	l.openBlock(bodyName)
	for _, s := range n.Body {
		l.lowerStmt(s)
	}
	if l.cur.Terminator == (mir.Terminator{}) {
		l.terminate(mir.Terminator{Kind: mir.Goto, Target: headerName})
	}

	l.openBlock(exitName)
}
