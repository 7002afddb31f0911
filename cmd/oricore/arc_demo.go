package main

import (
	"fmt"

	"github.com/orilang/oricore/internal/arc"
	"github.com/orilang/oricore/internal/pool"
)

// runArcDemo builds a tiny two-function module by hand (a "box" struct
// constructor and an identity function that returns a box unchanged) and walks
// it through the full ARC pipeline: classification, drop synthesis,
// borrow inference, RC-op insertion, and peephole elimination.
func runArcDemo() {
	p := pool.NewPool()
	names := pool.NewInterner()

	boxName := names.Intern("Box")
	fieldName := names.Intern("value")
	boxType := p.Struct(boxName, pool.Field{Name: fieldName, Type: p.Str()})

	makeBox := names.Intern("make_box")
	identity := names.Intern("identity")

	vArg := arc.ArcVarId(0)
	vResult := arc.ArcVarId(1)

	makeBoxFn := arc.ArcFunction{
		Name:       makeBox,
		Params:     []arc.ArcParam{{Var: vArg, Type: p.Str(), Ownership: arc.Borrowed}},
		ReturnType: boxType,
		VarTypes:   []pool.TypeIdx{p.Str(), boxType},
		Entry:      0,
		Blocks: []arc.ArcBlock{{
			ID: 0,
			Body: []arc.ArcInstr{
				arc.MakeStruct{Dst: vResult, Type: boxType, Fields: []arc.ArcVarId{vArg}},
			},
			Terminator: arc.Return{Value: vResult},
		}},
	}

	identityFn := arc.ArcFunction{
		Name:       identity,
		Params:     []arc.ArcParam{{Var: vArg, Type: boxType, Ownership: arc.Borrowed}},
		ReturnType: boxType,
		VarTypes:   []pool.TypeIdx{boxType},
		Entry:      0,
		Blocks: []arc.ArcBlock{{
			ID:         0,
			Terminator: arc.Return{Value: vArg},
		}},
	}

	functions := []arc.ArcFunction{makeBoxFn, identityFn}

	classifier := arc.NewClassifier(p)
	fmt.Printf("%s Box classified as %s\n", cyan("arc:"), classifier.Classify(boxType))

	dropInfos := arc.CollectDropInfos(functions, classifier, p)
	fmt.Printf("%s collected %d drop info(s)\n", cyan("arc:"), len(dropInfos))

	solver := arc.NewBorrowSolver(functions, classifier)
	sigs := solver.Solve()
	for _, fn := range functions {
		sig := sigs[fn.Name]
		fmt.Printf("%s %s params: %v\n", cyan("arc:"), names.Lookup(fn.Name), sig.Ownership)
	}

	withRc := arc.InsertRcOps(identityFn, sigs[identity], sigs, classifier)
	beforeOps := countInstrs(withRc)
	reduced := arc.EliminateAdjacentRcOps(withRc)
	afterOps := countInstrs(reduced)
	fmt.Printf("%s identity: %d instr(s) before peephole, %d after\n", green("OK:"), beforeOps, afterOps)
}

func countInstrs(fn arc.ArcFunction) int {
	n := 0
	for _, blk := range fn.Blocks {
		n += len(blk.Body)
	}
	return n
}
