// Fixture decoding: a small JSON grammar standing in for the front-end
// parser's ParseResult (spec §1, SPEC_FULL §1), so this harness can drive
// the full awst->mir->teal->bytecode pipeline without a real AWST builder.
// It covers only the subset of AWST this pipeline's tests and examples
// exercise - scalar constants, variable references, the usual operator
// set, subroutine calls, ARC4 encode/decode, and the standard control-flow
// statements - not the full surface (tuples, arrays, struct field access)
// spec.md's eb layer would normally build.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/avmforge/avmc/internal/awst"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/wtypes"
	"github.com/avmforge/avmc/pkg/parseresult"
)

type fixtureFile struct {
	Modules []fixtureModule `json:"modules"`
}

type fixtureModule struct {
	Path      string            `json:"path"`
	Contracts []fixtureContract `json:"contracts"`
}

type fixtureContract struct {
	Name    string          `json:"name"`
	Methods []fixtureMethod `json:"methods"`
}

type fixtureMethod struct {
	Name          string            `json:"name"`
	Params        []fixtureParam    `json:"params"`
	Return        string            `json:"return"`
	ARC4Signature string            `json:"arc4_signature"`
	AllowActions  []string          `json:"allow_bare_actions"`
	Body          []json.RawMessage `json:"body"`
}

type fixtureParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// kinded is the common envelope every statement and expression fixture
// node carries, used to sniff which concrete shape to unmarshal into.
type kinded struct {
	Kind string `json:"kind"`
}

// decodeFixture parses raw JSON bytes into a parseresult.ParseResult. ctx
// only receives CodeErrors for malformed wtype names encountered while
// resolving a fixture's declared types; structurally invalid JSON is
// reported directly as a Go error, since it has no source location to
// attach a diagnostic to.
func decodeFixture(ctx *diag.Context, raw []byte) (*parseresult.ParseResult, error) {
	var f fixtureFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	pr := &parseresult.ParseResult{SourcesByPath: map[string]string{}}
	for _, fm := range f.Modules {
		mod := &parseresult.Module{}
		for _, fc := range fm.Contracts {
			contract, err := decodeContract(ctx, fc)
			if err != nil {
				return nil, fmt.Errorf("module %s: %w", fm.Path, err)
			}
			mod.Contracts = append(mod.Contracts, contract)
		}
		pr.OrderedModules = append(pr.OrderedModules, parseresult.ModuleEntry{Path: fm.Path, Module: mod})
		pr.SourcesByPath[fm.Path] = string(raw)
	}
	return pr, nil
}

func decodeContract(ctx *diag.Context, fc fixtureContract) (*awst.Contract, error) {
	methods := make([]*awst.Method, 0, len(fc.Methods))
	for _, fm := range fc.Methods {
		method, err := decodeMethod(ctx, fm)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", fm.Name, err)
		}
		methods = append(methods, method)
	}
	return awst.NewContract(nil, fc.Name, methods, nil), nil
}

func decodeMethod(ctx *diag.Context, fm fixtureMethod) (*awst.Method, error) {
	retType, err := resolveType(ctx, fm.Return)
	if err != nil {
		return nil, err
	}
	params := make([]awst.Parameter, 0, len(fm.Params))
	for _, p := range fm.Params {
		t, err := resolveType(ctx, p.Type)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", p.Name, err)
		}
		params = append(params, awst.Parameter{Name: p.Name, Type: t})
	}
	sig := awst.Signature{Name: fm.Name, Parameters: params, ReturnType: retType}

	body := make([]awst.Stmt, 0, len(fm.Body))
	for _, raw := range fm.Body {
		stmt, err := decodeStmt(ctx, raw)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	sub := awst.NewSubroutine(nil, sig, body)

	method := &awst.Method{Subroutine: sub}
	if fm.ARC4Signature != "" {
		method.ARC4 = &awst.ARC4MethodConfig{Signature: fm.ARC4Signature, AllowActions: fm.AllowActions}
	}
	return method, nil
}

func decodeStmt(ctx *diag.Context, raw json.RawMessage) (awst.Stmt, error) {
	var k kinded
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("decode statement: %w", err)
	}
	switch k.Kind {
	case "return":
		var n struct {
			Value *json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		var value awst.Expr
		if n.Value != nil {
			v, err := decodeExpr(ctx, *n.Value)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return awst.NewReturnStatement(nil, value), nil

	case "if":
		var n struct {
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(ctx, n.Cond)
		if err != nil {
			return nil, err
		}
		thenBody, err := decodeStmts(ctx, n.Then)
		if err != nil {
			return nil, err
		}
		elseBody, err := decodeStmts(ctx, n.Else)
		if err != nil {
			return nil, err
		}
		return awst.NewIfStatement(nil, cond, thenBody, elseBody), nil

	case "while":
		var n struct {
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(ctx, n.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmts(ctx, n.Body)
		if err != nil {
			return nil, err
		}
		return awst.NewWhileStatement(nil, cond, body), nil

	case "block":
		var n struct {
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		body, err := decodeStmts(ctx, n.Body)
		if err != nil {
			return nil, err
		}
		return awst.NewBlockStatement(nil, body), nil

	case "assign":
		var n struct {
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		target, err := decodeExpr(ctx, n.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		return awst.NewAssignmentStatement(nil, target, value), nil

	case "expr":
		var n struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		value, err := decodeExpr(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		return awst.NewExpressionStatement(nil, value), nil

	case "assert":
		var n struct {
			Cond    json.RawMessage `json:"cond"`
			Message string          `json:"message"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(ctx, n.Cond)
		if err != nil {
			return nil, err
		}
		return awst.NewAssertStatement(nil, cond, n.Message), nil

	default:
		return nil, fmt.Errorf("unknown statement kind %q", k.Kind)
	}
}

func decodeStmts(ctx *diag.Context, raws []json.RawMessage) ([]awst.Stmt, error) {
	out := make([]awst.Stmt, 0, len(raws))
	for _, raw := range raws {
		stmt, err := decodeStmt(ctx, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeExpr(ctx *diag.Context, raw json.RawMessage) (awst.Expr, error) {
	var k kinded
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	switch k.Kind {
	case "bool":
		var n struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return awst.NewBoolConstant(nil, n.Value), nil

	case "uint64":
		var n struct {
			Value uint64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return awst.NewUInt64Constant(nil, n.Value), nil

	case "biguint":
		var n struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		v, ok := new(big.Int).SetString(n.Value, 10)
		if !ok {
			return nil, fmt.Errorf("malformed biguint literal %q", n.Value)
		}
		return awst.NewBigUIntConstant(nil, v), nil

	case "bytes":
		var n struct {
			Hex string `json:"hex"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		b, err := hex.DecodeString(n.Hex)
		if err != nil {
			return nil, fmt.Errorf("malformed bytes literal %q: %w", n.Hex, err)
		}
		return awst.NewBytesConstant(nil, b), nil

	case "string":
		var n struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return awst.NewStringConstant(nil, n.Value), nil

	case "var":
		var n struct {
			Type string `json:"type"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		t, err := resolveType(ctx, n.Type)
		if err != nil {
			return nil, err
		}
		return awst.NewVarExpression(nil, t, n.Name), nil

	case "binop":
		var n struct {
			Type  string          `json:"type"`
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		t, err := resolveType(ctx, n.Type)
		if err != nil {
			return nil, err
		}
		left, err := decodeExpr(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		return awst.NewBinaryOpExpression(nil, t, n.Op, left, right), nil

	case "unop":
		var n struct {
			Type    string          `json:"type"`
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		t, err := resolveType(ctx, n.Type)
		if err != nil {
			return nil, err
		}
		operand, err := decodeExpr(ctx, n.Operand)
		if err != nil {
			return nil, err
		}
		return awst.NewUnaryOpExpression(nil, t, n.Op, operand), nil

	case "compare":
		var n struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		left, err := decodeExpr(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		return awst.NewCompareExpression(nil, n.Op, left, right), nil

	case "conditional":
		var n struct {
			Type string          `json:"type"`
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		t, err := resolveType(ctx, n.Type)
		if err != nil {
			return nil, err
		}
		cond, err := decodeExpr(ctx, n.Cond)
		if err != nil {
			return nil, err
		}
		thenExpr, err := decodeExpr(ctx, n.Then)
		if err != nil {
			return nil, err
		}
		elseExpr, err := decodeExpr(ctx, n.Else)
		if err != nil {
			return nil, err
		}
		return awst.NewConditionalExpression(nil, t, cond, thenExpr, elseExpr), nil

	case "call":
		var n struct {
			Type   string            `json:"type"`
			Target string            `json:"target"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		t, err := resolveType(ctx, n.Type)
		if err != nil {
			return nil, err
		}
		args := make([]awst.Expr, 0, len(n.Args))
		for _, a := range n.Args {
			argExpr, err := decodeExpr(ctx, a)
			if err != nil {
				return nil, err
			}
			args = append(args, argExpr)
		}
		return awst.NewSubroutineCallExpression(nil, t, n.Target, args), nil

	case "arc4_encode":
		var n struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		t, err := resolveType(ctx, n.Type)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		return awst.NewARC4EncodeExpression(nil, t, value), nil

	case "arc4_decode":
		var n struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		t, err := resolveType(ctx, n.Type)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(ctx, n.Value)
		if err != nil {
			return nil, err
		}
		return awst.NewARC4DecodeExpression(nil, t, value), nil

	default:
		return nil, fmt.Errorf("unknown expression kind %q", k.Kind)
	}
}

// resolveType maps a fixture's type name to its wtype, reusing the
// well-known singletons and the arc4.uintN constructor for the parametric
// form (spec §3.1). arc4.ufixedNxM names are not recognised and are
// reported as an unsupported fixture type.
func resolveType(ctx *diag.Context, name string) (*wtypes.WType, error) {
	switch name {
	case "void":
		return wtypes.Void, nil
	case "bool":
		return wtypes.Bool, nil
	case "uint64":
		return wtypes.U64, nil
	case "biguint":
		return wtypes.BigUint, nil
	case "bytes":
		return wtypes.Bytes, nil
	case "string":
		return wtypes.String, nil
	case "asset":
		return wtypes.Asset, nil
	case "account":
		return wtypes.Account, nil
	case "application":
		return wtypes.Application, nil
	case "state_key":
		return wtypes.StateKey, nil
	case "box_key":
		return wtypes.BoxKey, nil
	case "arc4.bool":
		return wtypes.ARC4Bool, nil
	}
	if strings.HasPrefix(name, "arc4.uint") {
		n, err := strconv.Atoi(strings.TrimPrefix(name, "arc4.uint"))
		if err != nil {
			return nil, fmt.Errorf("malformed arc4 uint type %q: %w", name, err)
		}
		before := ctx.ErrorCount()
		t := wtypes.NewARC4UintN(ctx, nil, n, "")
		if ctx.ErrorCount() > before {
			return nil, fmt.Errorf("invalid arc4 uint type %q", name)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unsupported fixture type %q", name)
}
