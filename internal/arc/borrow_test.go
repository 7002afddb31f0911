package arc

import (
	"testing"

	"github.com/orilang/oricore/internal/pool"
	"github.com/stretchr/testify/require"
)

func TestBorrowSolverDirectlyReturnedParamIsOwned(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	name := pool.Name(1)
	fn := ArcFunction{
		Name:       name,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Str(),
		Blocks: []ArcBlock{{
			ID:         0,
			Terminator: Return{Value: 0},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str()},
	}

	sigs := NewBorrowSolver([]ArcFunction{fn}, c).Solve()
	require.Equal(t, Owned, sigs[name].Ownership[0])
}

func TestBorrowSolverUnusedParamStaysBorrowed(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	name := pool.Name(1)
	fn := ArcFunction{
		Name:       name,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Unit(),
		Blocks: []ArcBlock{{
			ID:         0,
			Terminator: Return{Value: 1}, // a distinct, non-param var
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Unit()},
	}

	sigs := NewBorrowSolver([]ArcFunction{fn}, c).Solve()
	require.Equal(t, Borrowed, sigs[name].Ownership[0])
}

func TestBorrowSolverScalarParamNeverPromoted(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	name := pool.Name(1)
	fn := ArcFunction{
		Name:       name,
		Params:     []ArcParam{{Var: 0, Type: p.Int(), Ownership: Borrowed}},
		ReturnType: p.Int(),
		Blocks: []ArcBlock{{
			ID:         0,
			Terminator: Return{Value: 0},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Int()},
	}

	sigs := NewBorrowSolver([]ArcFunction{fn}, c).Solve()
	require.Equal(t, Borrowed, sigs[name].Ownership[0])
}

func TestBorrowSolverAggregateCaptureEscapesTransitively(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	sname := pool.Name(99)
	structTy := p.Struct(sname, pool.Field{Name: pool.Name(100), Type: p.Str()})

	name := pool.Name(1)
	fn := ArcFunction{
		Name:       name,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: structTy,
		Blocks: []ArcBlock{{
			ID: 0,
			Body: []ArcInstr{
				MakeStruct{Dst: 1, Type: structTy, Fields: []ArcVarId{0}},
			},
			Terminator: Return{Value: 1},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), structTy},
	}

	sigs := NewBorrowSolver([]ArcFunction{fn}, c).Solve()
	require.Equal(t, Owned, sigs[name].Ownership[0])
}

func TestBorrowSolverPropagatesThroughOwnedCallee(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	calleeName := pool.Name(1)
	callee := ArcFunction{
		Name:       calleeName,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Str(),
		Blocks:     []ArcBlock{{ID: 0, Terminator: Return{Value: 0}}},
		Entry:      0,
		VarTypes:   []pool.TypeIdx{p.Str()},
	}

	callerName := pool.Name(2)
	caller := ArcFunction{
		Name:       callerName,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Str(),
		Blocks: []ArcBlock{{
			ID: 0,
			Body: []ArcInstr{
				Call{Dst: 1, Callee: calleeName, Args: []ArcVarId{0}},
			},
			Terminator: Return{Value: 1},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Str()},
	}

	sigs := NewBorrowSolver([]ArcFunction{callee, caller}, c).Solve()
	require.Equal(t, Owned, sigs[calleeName].Ownership[0])
	require.Equal(t, Owned, sigs[callerName].Ownership[0])
}

func TestBorrowSolverMutualRecursionWithNoEscapeStaysBorrowed(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	aName := pool.Name(1)
	bName := pool.Name(2)

	a := ArcFunction{
		Name:       aName,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Unit(),
		Blocks: []ArcBlock{{
			ID:         0,
			Body:       []ArcInstr{Call{Dst: 1, Callee: bName, Args: []ArcVarId{0}}},
			Terminator: Return{Value: 2}, // distinct unit var, not the call result or param
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Unit(), p.Unit()},
	}

	b := ArcFunction{
		Name:       bName,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Unit(),
		Blocks: []ArcBlock{{
			ID:         0,
			Body:       []ArcInstr{Call{Dst: 1, Callee: aName, Args: []ArcVarId{0}}},
			Terminator: Return{Value: 2},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Unit(), p.Unit()},
	}

	sigs := NewBorrowSolver([]ArcFunction{a, b}, c).Solve()
	require.Equal(t, Borrowed, sigs[aName].Ownership[0])
	require.Equal(t, Borrowed, sigs[bName].Ownership[0])
}

func TestBorrowSolverMutualRecursionEscapePropagatesAroundCycle(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	aName := pool.Name(1)
	bName := pool.Name(2)

	a := ArcFunction{
		Name:       aName,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Str(),
		Blocks: []ArcBlock{{
			ID:         0,
			Body:       []ArcInstr{Call{Dst: 1, Callee: bName, Args: []ArcVarId{0}}},
			Terminator: Return{Value: 1},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Str()},
	}

	// b directly returns its own parameter, the genuine escape source.
	b := ArcFunction{
		Name:       bName,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Str(),
		Blocks: []ArcBlock{{
			ID:         0,
			Body:       []ArcInstr{Call{Dst: 1, Callee: aName, Args: []ArcVarId{0}}},
			Terminator: Return{Value: 0},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Str()},
	}

	sigs := NewBorrowSolver([]ArcFunction{a, b}, c).Solve()
	require.Equal(t, Owned, sigs[aName].Ownership[0])
	require.Equal(t, Owned, sigs[bName].Ownership[0])
}

func TestBorrowSolverUnknownCalleeIsConservativelyOwned(t *testing.T) {
	p := pool.NewPool()
	c := NewClassifier(p)

	name := pool.Name(1)
	fn := ArcFunction{
		Name:       name,
		Params:     []ArcParam{{Var: 0, Type: p.Str(), Ownership: Borrowed}},
		ReturnType: p.Unit(),
		Blocks: []ArcBlock{{
			ID:         0,
			Body:       []ArcInstr{Call{Dst: 1, Callee: pool.Name(999), Args: []ArcVarId{0}}},
			Terminator: Return{Value: 2},
		}},
		Entry:    0,
		VarTypes: []pool.TypeIdx{p.Str(), p.Unit(), p.Unit()},
	}

	sigs := NewBorrowSolver([]ArcFunction{fn}, c).Solve()
	require.Equal(t, Owned, sigs[name].Ownership[0])
}
