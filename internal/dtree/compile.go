package dtree

import (
	"sort"

	"github.com/orilang/oricore/internal/canon"
	"github.com/orilang/oricore/internal/pool"
)

// MatchArm is one arm of a source match expression, in the shape the
// compiler consumes: a pattern to test the scrutinee against, an optional
// guard (canon.InvalidCanId when absent), and the arm's own index — the
// index canon's Match node uses to reach the arm's body in its Arms range
// (see canon/expr.go's comment on DecisionTreeID; the tree itself never
// needs to know the body, only which arm won).
type MatchArm struct {
	Pattern MatchPattern
	Guard   canon.CanId
}

// CompileMatchArms compiles arms into a DecisionTree, in the order the
// arms are given (earlier arms take priority over later ones on overlap,
// matching ordinary match semantics). The occurrence addressing the
// scrutinee itself is the empty Path.
//
// This is a direct port of the Maranget pattern-matching-compilation
// algorithm (also called "decision tree compilation from a clause
// matrix"): repeatedly pick one column to test, partition rows by what
// they require of it, and recurse on each partition with that column
// removed and its constructor's sub-patterns spliced in as new columns.
// Grounded on the Rust original's matrix compiler
// (original_source/compiler/ori_ir/src/canon/tree.rs, referenced from
// decision_tree.rs's eval side) for the shape of the output tree; the
// matrix-compilation control flow itself is standard Maranget and has no
// single teacher file to cite beyond that.
func CompileMatchArms(arms []MatchArm) DecisionTree {
	rows := make([]row, len(arms))
	for i, arm := range arms {
		rows[i] = row{
			patterns: []MatchPattern{arm.Pattern},
			armIndex: i,
			guard:    arm.Guard,
		}
	}
	return compileMatrix(rows, []Path{{}})
}

// row is one clause-matrix row: the remaining column patterns still to be
// tested, the bindings already committed to (from columns specialized
// away in an ancestor call), which source arm this row came from, and
// that arm's guard.
type row struct {
	patterns []MatchPattern
	bindings []Binding
	armIndex int
	guard    canon.CanId
}

func compileMatrix(rows []row, occurrences []Path) DecisionTree {
	if len(rows) == 0 {
		return Fail{}
	}

	first := rows[0]
	if rowIsIrrefutable(first) {
		bindings := append(append([]Binding{}, first.bindings...), varBindings(first.patterns, occurrences)...)
		if first.guard != canon.InvalidCanId {
			return Guard{
				ArmIndex:  first.armIndex,
				Bindings:  bindings,
				GuardExpr: first.guard,
				OnFail:    compileMatrix(rows[1:], occurrences),
			}
		}
		return Leaf{ArmIndex: first.armIndex, Bindings: bindings}
	}

	col := selectColumn(rows)
	return buildSwitch(rows, occurrences, col)
}

// rowIsIrrefutable reports whether every remaining column of row always
// matches — the base case where this row wins outright (modulo its guard).
func rowIsIrrefutable(r row) bool {
	for _, p := range r.patterns {
		if !isIrrefutable(p) {
			return false
		}
	}
	return true
}

// varBindings returns the bindings a row's irrefutable columns contribute:
// a VarPattern binds its Name to that column's occurrence, a
// WildcardPattern binds nothing.
func varBindings(patterns []MatchPattern, occurrences []Path) []Binding {
	var out []Binding
	for i, p := range patterns {
		if v, ok := p.(VarPattern); ok {
			out = append(out, Binding{Name: v.Name, Path: occurrences[i]})
		}
	}
	return out
}

// selectColumn picks which column buildSwitch should test next, among
// columns with at least one refutable pattern somewhere in rows.
//
// Heuristic, applied in order: (1) leftmost-non-wildcard-first — prefer
// the column that becomes refutable soonest when scanning rows top to
// bottom, since that is the column closest to actually mattering for
// priority resolution; (2) fewest-distinct-constructors — among columns
// tied on (1), prefer the one that produces the smallest Switch, since
// most multi-column ties come from sibling columns specialized out of the
// same parent pattern and a narrower dispatch compiles to less code;
// (3) lowest original column index, to make the choice fully
// deterministic when (1) and (2) both tie.
func selectColumn(rows []row) int {
	numCols := len(rows[0].patterns)

	best := -1
	bestRank := len(rows) + 1
	bestDistinct := -1

	for col := 0; col < numCols; col++ {
		rank := -1
		distinct := map[TestValue]struct{}{}
		for i, r := range rows {
			if col >= len(r.patterns) || isIrrefutable(r.patterns[col]) {
				continue
			}
			if rank == -1 {
				rank = i
			}
			if tv, _, ok := patternTest(r.patterns[col]); ok {
				distinct[tv] = struct{}{}
			}
		}
		if rank == -1 {
			continue
		}
		if best == -1 || rank < bestRank || (rank == bestRank && len(distinct) < bestDistinct) {
			best, bestRank, bestDistinct = col, rank, len(distinct)
		}
	}

	return best
}

// buildSwitch partitions rows on column col into one group per distinct
// TestValue plus a Default group, recursing into each.
func buildSwitch(rows []row, occurrences []Path, col int) DecisionTree {
	path := occurrences[col]
	restOccurrences := removePath(occurrences, col)

	var order []TestValue
	groups := map[TestValue]*groupInfo{}
	groupOf := func(tv TestValue, testKind TestKind, arity int, pathKind PathInstructionKind) *groupInfo {
		g, ok := groups[tv]
		if !ok {
			g = &groupInfo{test: tv, testKind: testKind, arity: arity, pathKind: pathKind}
			groups[tv] = g
			order = append(order, tv)
		}
		return g
	}

	// Pass 1: discover every distinct test this column carries, in the
	// order rows present them.
	for _, r := range rows {
		if col >= len(r.patterns) || isIrrefutable(r.patterns[col]) {
			continue
		}
		pat := r.patterns[col]
		tv, tk, ok := patternTest(pat)
		if !ok {
			continue
		}
		groupOf(tv, tk, patternArity(pat), patternPathKind(pat))
	}

	// Pass 2: build each group's sub-matrix, preserving row order and
	// propagating every wildcard/var row (expanded to that group's
	// arity) into every group it must also satisfy.
	for _, tv := range order {
		g := groups[tv]
		var subRows []row
		var subOccurrences []Path
		for _, r := range rows {
			if col >= len(r.patterns) {
				continue
			}
			pat := r.patterns[col]
			if isIrrefutable(pat) {
				bindings := append(append([]Binding{}, r.bindings...), varBindings([]MatchPattern{pat}, []Path{path})...)
				wild := make([]MatchPattern, g.arity)
				for i := range wild {
					wild[i] = WildcardPattern{}
				}
				subRows = append(subRows, row{
					patterns: append(append([]MatchPattern{}, wild...), removeCol(r.patterns, col)...),
					bindings: bindings,
					armIndex: r.armIndex,
					guard:    r.guard,
				})
				continue
			}
			thisTV, _, ok := patternTest(pat)
			if !ok || thisTV != tv {
				continue
			}
			subPatterns, subBindings := specializeColumn(pat, r.bindings, path)
			subRows = append(subRows, row{
				patterns: append(append([]MatchPattern{}, subPatterns...), removeCol(r.patterns, col)...),
				bindings: subBindings,
				armIndex: r.armIndex,
				guard:    r.guard,
			})
		}
		subOccurrences = append(append([]Path{}, childPaths(g.pathKind, path, g.arity)...), restOccurrences...)
		g.tree = compileMatrix(subRows, subOccurrences)
	}

	// Default: the rows whose column is already irrefutable, with that
	// column dropped (no expansion — it's never examined past this point).
	var defaultRows []row
	for _, r := range rows {
		if col < len(r.patterns) && isIrrefutable(r.patterns[col]) {
			bindings := append(append([]Binding{}, r.bindings...), varBindings([]MatchPattern{r.patterns[col]}, []Path{path})...)
			defaultRows = append(defaultRows, row{
				patterns: removeCol(r.patterns, col),
				bindings: bindings,
				armIndex: r.armIndex,
				guard:    r.guard,
			})
		}
	}
	var defaultTree DecisionTree
	if len(defaultRows) > 0 {
		defaultTree = compileMatrix(defaultRows, restOccurrences)
	}

	edges := make([]SwitchEdge, len(order))
	testKind := TestBool
	for i, tv := range order {
		g := groups[tv]
		edges[i] = SwitchEdge{Test: tv, Subtree: g.tree}
		testKind = g.testKind
	}

	return Switch{Path: path, TestKind: testKind, Edges: edges, Default: defaultTree}
}

type groupInfo struct {
	test     TestValue
	testKind TestKind
	arity    int
	pathKind PathInstructionKind
	tree     DecisionTree
}

// patternPathKind returns which PathInstructionKind addresses p's
// sub-patterns once specialized into new columns.
func patternPathKind(p MatchPattern) PathInstructionKind {
	switch p.(type) {
	case ListPattern:
		return ListElement
	case RecordPattern:
		return StructField
	default:
		return TagPayload
	}
}

// patternTest returns the TestValue (and its TestKind) a refutable
// pattern's column contributes, or ok=false for an irrefutable one.
func patternTest(p MatchPattern) (TestValue, TestKind, bool) {
	switch x := p.(type) {
	case LitPattern:
		switch x.LitKind {
		case LitInt:
			return TestValue{Kind: TestInt, Int: x.Int}, TestInt, true
		case LitFloat:
			return TestValue{Kind: TestFloat, FloatBits: floatBits(x.Float)}, TestFloat, true
		case LitBool:
			return TestValue{Kind: TestBool, Bool: x.Bool}, TestBool, true
		case LitStr:
			return TestValue{Kind: TestStr, Str: x.Str}, TestStr, true
		}
	case ConstructorPattern:
		return TestValue{Kind: TestTag, TagName: x.Name}, TestTag, true
	case ListPattern:
		return TestValue{Kind: TestListLen, Len: len(x.Elements), Exact: x.Tail == nil}, TestListLen, true
	case RecordPattern:
		// A record column carries exactly one shape; the tag name is
		// irrelevant, so every RecordPattern at a column produces the
		// same TestValue and therefore the same single group.
		return TestValue{Kind: TestTag}, TestTag, true
	}
	return TestValue{}, 0, false
}

// patternArity returns how many new columns specializing p on its column
// introduces.
func patternArity(p MatchPattern) int {
	switch x := p.(type) {
	case ConstructorPattern:
		return len(x.Args)
	case ListPattern:
		return len(x.Elements)
	case RecordPattern:
		return len(sortedFieldNames(x.Fields))
	default:
		return 0
	}
}

// specializeColumn expands a refutable pattern's sub-patterns into new
// columns, and returns the bindings it contributes directly (a
// ConstructorPattern/ListPattern/RecordPattern never itself binds a name —
// only its Args/Elements/Fields might, and those ride along as the new
// columns' own patterns, resolved on a later recursive call).
func specializeColumn(p MatchPattern, bindings []Binding, path Path) ([]MatchPattern, []Binding) {
	switch x := p.(type) {
	case ConstructorPattern:
		return append([]MatchPattern{}, x.Args...), bindings
	case ListPattern:
		return append([]MatchPattern{}, x.Elements...), bindings
	case RecordPattern:
		names := sortedFieldNames(x.Fields)
		out := make([]MatchPattern, len(names))
		for i, n := range names {
			out[i] = x.Fields[n]
		}
		return out, bindings
	case LitPattern:
		return nil, bindings
	default:
		return nil, bindings
	}
}

// childPaths returns the Paths the new columns specializeColumn introduces
// address, given the parent occurrence path, the addressing kind, and the
// constructor's arity.
func childPaths(kind PathInstructionKind, parent Path, arity int) []Path {
	out := make([]Path, arity)
	for i := range out {
		out[i] = parent.extend(PathInstruction{Kind: kind, Index: i})
	}
	return out
}

func removeCol(patterns []MatchPattern, col int) []MatchPattern {
	out := make([]MatchPattern, 0, len(patterns)-1)
	out = append(out, patterns[:col]...)
	out = append(out, patterns[col+1:]...)
	return out
}

func removePath(paths []Path, col int) []Path {
	out := make([]Path, 0, len(paths)-1)
	out = append(out, paths[:col]...)
	out = append(out, paths[col+1:]...)
	return out
}

func sortedFieldNames(fields map[pool.Name]MatchPattern) []pool.Name {
	names := make([]pool.Name, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
