package awst

import (
	"github.com/avmforge/avmc/internal/srcloc"
	"github.com/avmforge/avmc/internal/wtypes"
)

// Parameter is one subroutine parameter: a name plus its declared wtype.
type Parameter struct {
	Name string
	Type *wtypes.WType
}

// Signature is a subroutine's calling shape, shared between AWST and
// (unchanged) the lowered MIR/TEAL subroutine signature.
type Signature struct {
	Name       string
	Parameters []Parameter
	ReturnType *wtypes.WType
}

// Subroutine is a typed, named function: either a contract method or a
// free-standing helper subroutine called by one.
type Subroutine struct {
	Loc       *srcloc.Location
	Signature Signature
	Body      []Stmt
}

// NewSubroutine builds a Subroutine.
func NewSubroutine(loc *srcloc.Location, sig Signature, body []Stmt) *Subroutine {
	return &Subroutine{Loc: loc, Signature: sig, Body: body}
}

// ARC4MethodConfig carries the subroutine's ABI exposure: the parsed
// signature it responds to and whether it permits bare (no-ARC4-selector)
// calls, per spec §4.3.
type ARC4MethodConfig struct {
	Signature    string
	Selector     [4]byte
	AllowActions []string
}

// Method is a contract method: a Subroutine plus its optional ABI
// exposure. A nil ARC4 means the method is not ABI-callable (internal
// helper only).
type Method struct {
	Subroutine *Subroutine
	ARC4       *ARC4MethodConfig
}

// Contract is a typed, named smart contract: an ordered set of methods
// plus its declared global/local state schema slots.
type Contract struct {
	Loc     *srcloc.Location
	Name    string
	Methods []*Method
	// StateFields is the ordered set of persisted storage slots declared
	// by the contract, each with the scalar class (spec §4.1 Persistable)
	// it must collapse to.
	StateFields []StateField
}

// StateField is one declared global/local/box storage slot.
type StateField struct {
	Key         string
	Type        *wtypes.WType
	ScalarClass wtypes.ScalarClass
	Local       bool
}

// NewContract builds a Contract.
func NewContract(loc *srcloc.Location, name string, methods []*Method, stateFields []StateField) *Contract {
	return &Contract{Loc: loc, Name: name, Methods: methods, StateFields: stateFields}
}
