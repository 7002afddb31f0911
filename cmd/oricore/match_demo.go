package main

import (
	"encoding/json"
	"fmt"

	"github.com/orilang/oricore/internal/ast"
	"github.com/orilang/oricore/internal/canon"
	"github.com/orilang/oricore/internal/diag"
	"github.com/orilang/oricore/internal/dtree"
	"github.com/orilang/oricore/internal/pool"
	"github.com/orilang/oricore/internal/schema"
)

// matchTreeDump is the schema-tagged JSON shape a build-cache or debugger
// would read back for a compiled decision tree.
type matchTreeDump struct {
	Schema   string `json:"schema"`
	TreeKind string `json:"treeKind"`
	ArmCount int    `json:"armCount"`
}

// runMatchDemo compiles `match opt { Some(v) if v > 0 => ..., Some(v) =>
// ..., None => ... }` into a decision tree and evaluates it against three
// scrutinees, printing which arm and bindings each picks.
func runMatchDemo() {
	names := pool.NewInterner()
	v := names.Intern("v")
	some := names.Intern("Some")
	none := names.Intern("None")
	guardExpr := canon.CanId(1)

	arms := []dtree.MatchArm{
		{
			Pattern: dtree.ConstructorPattern{Name: some, Args: []dtree.MatchPattern{dtree.VarPattern{Name: v}}},
			Guard:   guardExpr,
		},
		{
			Pattern: dtree.ConstructorPattern{Name: some, Args: []dtree.MatchPattern{dtree.VarPattern{Name: v}}},
			Guard:   canon.InvalidCanId,
		},
		{Pattern: dtree.ConstructorPattern{Name: none}, Guard: canon.InvalidCanId},
	}
	tree := dtree.CompileMatchArms(arms)
	fmt.Printf("%s compiled %d arms into a %T\n", cyan("match:"), len(arms), tree)

	dump := matchTreeDump{Schema: schema.MatchV1, TreeKind: tree.Kind().String(), ArmCount: len(arms)}
	if out, err := json.Marshal(dump); err == nil {
		fmt.Printf("%s %s\n", cyan("match:"), out)
	}

	guard := func(expr canon.CanId, bindings []dtree.Binding, values []dtree.Value) (bool, error) {
		n, _ := values[0].AsInt()
		return n > 0, nil
	}

	scrutinees := []dtree.Value{
		dtree.SomeValue(some, dtree.IntValue(5)),
		dtree.SomeValue(some, dtree.IntValue(-1)),
		dtree.NoneValue(none),
	}
	for _, s := range scrutinees {
		r, err := dtree.EvalDecisionTree(tree, s, guard)
		if err != nil {
			fmt.Printf("%s %v\n", red("FAIL:"), err)
			continue
		}
		fmt.Printf("%s scrutinee=%v -> arm %d, %d binding(s)\n", green("OK:"), s, r.ArmIndex, len(r.Bindings))
	}

	runNonExhaustiveDemo(none)
}

// runNonExhaustiveDemo compiles a match whose only arm is None and
// evaluates it against the integer 1, which no arm covers, turning the
// resulting non-exhaustive-match error into a
// structured diagnostic the way a real frontend would surface it.
func runNonExhaustiveDemo(none pool.Name) {
	partial := dtree.CompileMatchArms([]dtree.MatchArm{
		{Pattern: dtree.ConstructorPattern{Name: none}, Guard: canon.InvalidCanId},
	})

	span := ast.Span{Start: ast.Pos{Line: 3, Column: 5, File: "demo.ori"}, End: ast.Pos{Line: 3, Column: 9, File: "demo.ori"}}
	_, err := dtree.EvalDecisionTree(partial, dtree.IntValue(1), func(canon.CanId, []dtree.Binding, []dtree.Value) (bool, error) {
		panic("guard should not have been evaluated")
	})
	if err == nil {
		fmt.Printf("%s expected a non-exhaustive-match error\n", red("FAIL:"))
		return
	}

	report := diag.New(diag.MAT001, "match", diag.SeverityError, "match is not exhaustive").
		WithPrimaryLabel(span, err.Error()).
		WithSuggestion("add a wildcard arm", diag.Unspecified)
	out, jsonErr := report.ToJSON()
	if jsonErr != nil {
		fmt.Printf("%s %v\n", red("FAIL:"), jsonErr)
		return
	}
	fmt.Printf("%s non-exhaustive match reported as:\n%s\n", yellow("diag:"), out)
}
