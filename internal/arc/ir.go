package arc

import (
	"github.com/orilang/oricore/internal/ast"
	"github.com/orilang/oricore/internal/pool"
)

// ArcVarId names a local variable (including parameters and block params)
// within one ArcFunction.
type ArcVarId uint32

// InvalidArcVarId is the sentinel for "no variable" (e.g. a Return in a
// block with no terminator value yet assigned during construction).
const InvalidArcVarId ArcVarId = 1<<32 - 1

// ArcBlockId names a basic block within one ArcFunction.
type ArcBlockId uint32

// Ownership is the borrow-inference lattice: Borrowed is bottom (most
// optimistic, no release obligation on the callee), Owned is top (the
// callee must release on every exit path). See Classify/borrow.go.
type Ownership uint8

const (
	Borrowed Ownership = iota
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "Owned"
	}
	return "Borrowed"
}

// Join computes the least upper bound of two Ownership values on the
// Owned ⊏ Borrowed lattice (Borrowed is bottom): the join is Owned unless
// both sides are Borrowed.
func (o Ownership) Join(other Ownership) Ownership {
	if o == Owned || other == Owned {
		return Owned
	}
	return Borrowed
}

// ArcParam is one parameter of an ArcFunction: its variable slot, declared
// type, and inferred (or annotated) ownership.
type ArcParam struct {
	Var       ArcVarId
	Type      pool.TypeIdx
	Ownership Ownership
}

// ArcInstr is one ARC-IR instruction. Concrete variants implement Kind for
// a closed discriminant, matching the CanExpr interface-plus-Kind idiom
// used across the canon package.
type ArcInstr interface {
	Kind() ArcInstrKind
}

// ArcInstrKind discriminates an ArcInstr variant.
type ArcInstrKind uint8

const (
	InstrRcInc ArcInstrKind = iota
	InstrRcDec
	InstrAssign
	InstrCall
	InstrLoadField
	InstrStoreField
	InstrMakeStruct
	InstrMakeTuple
	InstrMakeList
)

// RcInc increments the refcount of var. No-op on a Scalar-classified var;
// the insertion pass never emits one for a scalar, but the eliminator and
// any downstream consumer must tolerate a stray one defensively.
type RcInc struct{ Var ArcVarId }

func (RcInc) Kind() ArcInstrKind { return InstrRcInc }

// RcDec decrements the refcount of var, running its drop procedure if the
// count reaches zero.
type RcDec struct{ Var ArcVarId }

func (RcDec) Kind() ArcInstrKind { return InstrRcDec }

// Assign copies a scalar or moves a ref-bearing value from Src into Dst.
type Assign struct {
	Dst, Src ArcVarId
}

func (Assign) Kind() ArcInstrKind { return InstrAssign }

// Call invokes Callee with Args, each tagged with the Ownership the callee
// expects, binding the result to Dst.
type Call struct {
	Dst      ArcVarId
	Callee   pool.Name
	Args     []ArcVarId
	ArgOwned []Ownership
}

func (Call) Kind() ArcInstrKind { return InstrCall }

// LoadField reads field Index of Src into Dst.
type LoadField struct {
	Dst, Src ArcVarId
	Index    int
}

func (LoadField) Kind() ArcInstrKind { return InstrLoadField }

// StoreField writes Value into field Index of Dst.
type StoreField struct {
	Dst   ArcVarId
	Index int
	Value ArcVarId
}

func (StoreField) Kind() ArcInstrKind { return InstrStoreField }

// MakeStruct allocates a struct/tuple value of Type from Fields into Dst.
type MakeStruct struct {
	Dst    ArcVarId
	Type   pool.TypeIdx
	Fields []ArcVarId
}

func (MakeStruct) Kind() ArcInstrKind { return InstrMakeStruct }

// MakeTuple allocates a tuple value of Type from Elements into Dst.
type MakeTuple struct {
	Dst      ArcVarId
	Type     pool.TypeIdx
	Elements []ArcVarId
}

func (MakeTuple) Kind() ArcInstrKind { return InstrMakeTuple }

// MakeList allocates a list value of Type from Elements into Dst.
type MakeList struct {
	Dst      ArcVarId
	Type     pool.TypeIdx
	Elements []ArcVarId
}

func (MakeList) Kind() ArcInstrKind { return InstrMakeList }

// ArcTerminator ends a basic block. Concrete variants implement Kind.
type ArcTerminator interface {
	TerminatorKind() ArcTerminatorKind
}

// ArcTerminatorKind discriminates an ArcTerminator variant.
type ArcTerminatorKind uint8

const (
	TermBr ArcTerminatorKind = iota
	TermCondBr
	TermSwitch
	TermReturn
	TermUnreachable
)

// Br is an unconditional jump to Target, passing Args as the target
// block's phi-like parameters.
type Br struct {
	Target ArcBlockId
	Args   []ArcVarId
}

func (Br) TerminatorKind() ArcTerminatorKind { return TermBr }

// CondBr branches to Then or Else depending on Cond.
type CondBr struct {
	Cond       ArcVarId
	Then, Else ArcBlockId
}

func (CondBr) TerminatorKind() ArcTerminatorKind { return TermCondBr }

// SwitchCase is one arm of a Switch: the enum variant index it matches and
// the block to jump to.
type SwitchCase struct {
	Variant int
	Target  ArcBlockId
}

// Switch dispatches on an enum/option/result discriminant.
type Switch struct {
	Scrutinee ArcVarId
	Cases     []SwitchCase
	Default   ArcBlockId
}

func (Switch) TerminatorKind() ArcTerminatorKind { return TermSwitch }

// Return exits the function with Value (InvalidCanId-equivalent zero
// ArcVarId for a unit-returning function is the caller's convention, not
// encoded here).
type Return struct{ Value ArcVarId }

func (Return) TerminatorKind() ArcTerminatorKind { return TermReturn }

// Unreachable marks a block that control can never reach (e.g. after a
// Never-typed expression, or in a test fixture body that never runs).
type Unreachable struct{}

func (Unreachable) TerminatorKind() ArcTerminatorKind { return TermUnreachable }

// ArcBlock is one basic block: its phi-like parameters, its straight-line
// instruction body, and its terminator.
type ArcBlock struct {
	ID         ArcBlockId
	Params     []ArcVarId
	Body       []ArcInstr
	Terminator ArcTerminator
}

// ArcFunction is one function lowered to ARC IR: parameters with inferred
// ownership, a CFG of blocks, and a flat per-variable type table indexed
// by ArcVarId. Spans mirror Body 1:1 per block, for diagnostics.
type ArcFunction struct {
	Name       pool.Name
	Params     []ArcParam
	ReturnType pool.TypeIdx
	Blocks     []ArcBlock
	Entry      ArcBlockId
	VarTypes   []pool.TypeIdx
	Spans      [][]ast.Span
}
