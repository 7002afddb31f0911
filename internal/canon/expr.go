package canon

import "github.com/orilang/oricore/internal/pool"

// CanExprKind discriminates the variant of a CanNode's Kind. Order follows
// the node-kind list in the data model: literals, identifier, binary/unary
// op, call, method-call, field, index, if, match, for, loop, break,
// continue, try, await, block, let, assign, lambda, list, tuple, map,
// struct, range, ok/err/some/none, with-capability, function-expression —
// plus the handful of reference/constant forms the front end additionally
// lowers to (Constant, Const, FunctionRef, TypeRef, SelfRef, HashLength,
// Duration/Size literals, Error).
type CanExprKind uint8

const (
	KindInt CanExprKind = iota
	KindFloat
	KindBool
	KindChar
	KindDuration
	KindSize
	KindUnit
	KindNone
	KindSelfRef
	KindHashLength
	KindError
	KindConstant
	KindStr
	KindIdent
	KindConst
	KindFunctionRef
	KindTypeRef
	KindBinary
	KindUnary
	KindCast
	KindCall
	KindMethodCall
	KindField
	KindIndex
	KindIf
	KindMatch
	KindFor
	KindLoop
	KindBreak
	KindContinue
	KindTry
	KindAwait
	KindBlock
	KindLet
	KindAssign
	KindLambda
	KindList
	KindTuple
	KindMap
	KindStruct
	KindRange
	KindOk
	KindErr
	KindSome
	KindWithCapability
	KindFunctionExp
)

// CanExpr is the variant payload of a CanNode. Every concrete type below
// implements it; the discriminant used for hashing and switching is its
// Kind() method, not a Go type assertion, so hashing never depends on
// reflection.
type CanExpr interface {
	Kind() CanExprKind
}

// --- Literals ---

type Int int64

func (Int) Kind() CanExprKind { return KindInt }

type Float float64

func (Float) Kind() CanExprKind { return KindFloat }

type Bool bool

func (Bool) Kind() CanExprKind { return KindBool }

type Char rune

func (Char) Kind() CanExprKind { return KindChar }

type DurationUnit uint8

const (
	DurationNanos DurationUnit = iota
	DurationMicros
	DurationMillis
	DurationSeconds
	DurationMinutes
	DurationHours
)

type Duration struct {
	Value int64
	Unit  DurationUnit
}

func (Duration) Kind() CanExprKind { return KindDuration }

type SizeUnit uint8

const (
	SizeBytes SizeUnit = iota
	SizeKB
	SizeMB
	SizeGB
)

type Size struct {
	Value int64
	Unit  SizeUnit
}

func (Size) Kind() CanExprKind { return KindSize }

type UnitExpr struct{}

func (UnitExpr) Kind() CanExprKind { return KindUnit }

type NoneExpr struct{}

func (NoneExpr) Kind() CanExprKind { return KindNone }

type SelfRefExpr struct{}

func (SelfRefExpr) Kind() CanExprKind { return KindSelfRef }

type HashLengthExpr struct{}

func (HashLengthExpr) Kind() CanExprKind { return KindHashLength }

type ErrorExpr struct{}

func (ErrorExpr) Kind() CanExprKind { return KindError }

// --- References ---

// ConstantID addresses an entry in a module-level constant pool (string
// literals, big numeric literals) kept outside the arena.
type ConstantID uint32

type Constant struct{ ID ConstantID }

func (Constant) Kind() CanExprKind { return KindConstant }

type Str struct{ Name pool.Name }

func (Str) Kind() CanExprKind { return KindStr }

type Ident struct{ Name pool.Name }

func (Ident) Kind() CanExprKind { return KindIdent }

type Const struct{ Name pool.Name }

func (Const) Kind() CanExprKind { return KindConst }

type FunctionRef struct{ Name pool.Name }

func (FunctionRef) Kind() CanExprKind { return KindFunctionRef }

type TypeRef struct{ Name pool.Name }

func (TypeRef) Kind() CanExprKind { return KindTypeRef }

// --- Operators ---

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

type Binary struct {
	Op    BinaryOp
	Left  CanId
	Right CanId
}

func (Binary) Kind() CanExprKind { return KindBinary }

type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
)

type Unary struct {
	Op      UnaryOp
	Operand CanId
}

func (Unary) Kind() CanExprKind { return KindUnary }

type Cast struct {
	Expr     CanId
	Target   pool.TypeIdx
	Fallible bool
}

func (Cast) Kind() CanExprKind { return KindCast }

// --- Calls ---

type Call struct {
	Func CanId
	Args CanRange
}

func (Call) Kind() CanExprKind { return KindCall }

type MethodCall struct {
	Receiver CanId
	Method   pool.Name
	Args     CanRange
}

func (MethodCall) Kind() CanExprKind { return KindMethodCall }

// --- Access ---

type Field struct {
	Receiver  CanId
	FieldName pool.Name
}

func (Field) Kind() CanExprKind { return KindField }

type Index struct {
	Receiver CanId
	Index    CanId
}

func (Index) Kind() CanExprKind { return KindIndex }

// --- Control flow ---

type If struct {
	Cond       CanId
	ThenBranch CanId
	ElseBranch CanId // InvalidCanId if no else
}

func (If) Kind() CanExprKind { return KindIf }

// DecisionTreeID addresses a compiled decision tree kept in a side table
// (internal/dtree), not in this arena — it is opaque content here, hashed
// by its raw value like any other non-child data field.
type DecisionTreeID uint32

type Match struct {
	Scrutinee    CanId
	DecisionTree DecisionTreeID
	Arms         CanRange
}

func (Match) Kind() CanExprKind { return KindMatch }

type For struct {
	Binding pool.Name
	Iter    CanId
	Guard   CanId // InvalidCanId if no guard clause
	Body    CanId
	IsYield bool
}

func (For) Kind() CanExprKind { return KindFor }

type Loop struct{ Body CanId }

func (Loop) Kind() CanExprKind { return KindLoop }

type Break struct{ Value CanId }

func (Break) Kind() CanExprKind { return KindBreak }

type Continue struct{ Value CanId }

func (Continue) Kind() CanExprKind { return KindContinue }

type Try struct{ Value CanId }

func (Try) Kind() CanExprKind { return KindTry }

type Await struct{ Value CanId }

func (Await) Kind() CanExprKind { return KindAwait }

// --- Bindings ---

type Block struct {
	Stmts  CanRange
	Result CanId
}

func (Block) Kind() CanExprKind { return KindBlock }

type Let struct {
	Pattern CanBindingPatternId
	Init    CanId
	Mutable bool
}

func (Let) Kind() CanExprKind { return KindLet }

type Assign struct {
	Target CanId
	Value  CanId
}

func (Assign) Kind() CanExprKind { return KindAssign }

// --- Functions ---

type Lambda struct {
	Params CanParamRange
	Body   CanId
}

func (Lambda) Kind() CanExprKind { return KindLambda }

// --- Collections ---

type List struct{ Elements CanRange }

func (List) Kind() CanExprKind { return KindList }

type Tuple struct{ Elements CanRange }

func (Tuple) Kind() CanExprKind { return KindTuple }

type Map struct{ Entries CanMapEntryRange }

func (Map) Kind() CanExprKind { return KindMap }

type Struct struct {
	Name   pool.Name
	Fields CanFieldRange
}

func (Struct) Kind() CanExprKind { return KindStruct }

type Range struct {
	Start     CanId
	End       CanId
	Step      CanId // InvalidCanId if default step
	Inclusive bool
}

func (Range) Kind() CanExprKind { return KindRange }

// --- Algebraic ---

type Ok struct{ Value CanId }

func (Ok) Kind() CanExprKind { return KindOk }

type Err struct{ Value CanId }

func (Err) Kind() CanExprKind { return KindErr }

type Some struct{ Value CanId }

func (Some) Kind() CanExprKind { return KindSome }

// --- Capabilities ---

type WithCapability struct {
	Capability pool.Name
	Provider   CanId
	Body       CanId
}

func (WithCapability) Kind() CanExprKind { return KindWithCapability }

// --- Special forms ---

// FunctionExpKind discriminates a first-class pattern form (map, filter,
// fold, recurse, parallel, spawn, timeout, cache, with, ...). The set of
// patterns is closed at compile time: a tagged union, not open dispatch.
type FunctionExpKind uint8

const (
	FuncExpMap FunctionExpKind = iota
	FuncExpFilter
	FuncExpFold
	FuncExpFind
	FuncExpRecurse
	FuncExpParallel
	FuncExpSpawn
	FuncExpTimeout
	FuncExpCache
	FuncExpWith
)

type FunctionExp struct {
	PatternKind FunctionExpKind
	Props       CanNamedExprRange
}

func (FunctionExp) Kind() CanExprKind { return KindFunctionExp }
