package arc

import "github.com/orilang/oricore/internal/pool"

// AnnotatedSig is the transferable output of borrow inference for one
// non-generic function: its declared shape plus the inferred Ownership of
// each parameter.
type AnnotatedSig struct {
	Name       pool.Name
	ParamTypes []pool.TypeIdx
	Ownership  []Ownership
	ReturnType pool.TypeIdx
}

// BorrowSolver computes Ownership for every parameter of every function in
// a module by a fixed-point, monotone dataflow over the Owned ⊏ Borrowed
// lattice (Borrowed is bottom, the most optimistic starting guess).
//
// A call to a function outside the module (no ArcFunction body available,
// e.g. a builtin or an as-yet-unanalyzed external) is treated
// conservatively: every ref-bearing argument position is assumed Owned,
// since the solver has no evidence the callee does not retain it.
type BorrowSolver struct {
	classifier *Classifier
	funcs      map[pool.Name]*ArcFunction
	sigs       map[pool.Name]*AnnotatedSig
}

// NewBorrowSolver prepares a solver over functions, seeding every
// parameter at the lattice bottom (Borrowed).
func NewBorrowSolver(functions []ArcFunction, c *Classifier) *BorrowSolver {
	s := &BorrowSolver{
		classifier: c,
		funcs:      make(map[pool.Name]*ArcFunction, len(functions)),
		sigs:       make(map[pool.Name]*AnnotatedSig, len(functions)),
	}
	for i := range functions {
		fn := &functions[i]
		s.funcs[fn.Name] = fn

		paramTypes := make([]pool.TypeIdx, len(fn.Params))
		ownership := make([]Ownership, len(fn.Params))
		for i, p := range fn.Params {
			paramTypes[i] = p.Type
			ownership[i] = Borrowed
		}
		s.sigs[fn.Name] = &AnnotatedSig{
			Name:       fn.Name,
			ParamTypes: paramTypes,
			Ownership:  ownership,
			ReturnType: fn.ReturnType,
		}
	}
	return s
}

// Solve runs the fixed-point solver to completion and returns the final
// AnnotatedSig for every function, keyed by name.
func (s *BorrowSolver) Solve() map[pool.Name]*AnnotatedSig {
	order := s.sccOrder()

	for _, scc := range order {
		for {
			changed := false
			for _, name := range scc {
				if s.refineOne(name) {
					changed = true
				}
			}
			if !changed {
				break
			}
		}
	}

	return s.sigs
}

// refineOne runs one escape-analysis pass over fn and promotes any newly
// escaping parameter from Borrowed to Owned. Returns whether anything
// changed, so the caller can iterate to a fixed point.
func (s *BorrowSolver) refineOne(name pool.Name) bool {
	fn := s.funcs[name]
	sig := s.sigs[name]
	escaped := s.escapingVars(fn)

	changed := false
	for i, p := range fn.Params {
		if sig.Ownership[i] == Owned {
			continue
		}
		if !s.classifier.Classify(p.Type).IsScalar() && escaped[p.Var] {
			sig.Ownership[i] = Owned
			changed = true
		}
	}
	return changed
}

// escapingVars computes the set of variables whose value flows into an
// ownership-transferring position: a function return, an aggregate
// literal that (transitively) flows into one, or an Owned-expecting
// argument position of a call. It is itself an inner fixed point, since a
// var can escape only because a var it feeds into escapes, in either
// instruction order.
func (s *BorrowSolver) escapingVars(fn *ArcFunction) map[ArcVarId]bool {
	escaped := make(map[ArcVarId]bool)

	for {
		changed := false
		mark := func(v ArcVarId) {
			if !escaped[v] {
				escaped[v] = true
				changed = true
			}
		}

		for _, blk := range fn.Blocks {
			if ret, ok := blk.Terminator.(Return); ok {
				mark(ret.Value)
			}

			for _, instr := range blk.Body {
				switch in := instr.(type) {
				case Assign:
					if escaped[in.Dst] {
						mark(in.Src)
					}
				case MakeStruct:
					if escaped[in.Dst] {
						for _, f := range in.Fields {
							mark(f)
						}
					}
				case MakeTuple:
					if escaped[in.Dst] {
						for _, e := range in.Elements {
							mark(e)
						}
					}
				case MakeList:
					if escaped[in.Dst] {
						for _, e := range in.Elements {
							mark(e)
						}
					}
				case Call:
					for i, arg := range in.Args {
						if s.calleeExpectsOwned(in.Callee, i) {
							mark(arg)
						}
					}
				}
			}
		}

		if !changed {
			break
		}
	}

	return escaped
}

func (s *BorrowSolver) calleeExpectsOwned(callee pool.Name, argIndex int) bool {
	sig, ok := s.sigs[callee]
	if !ok {
		// External/builtin: no body to analyze, assume the worst.
		return true
	}
	if argIndex >= len(sig.Ownership) {
		return true
	}
	return sig.Ownership[argIndex] == Owned
}

// calls returns the set of local callee names invoked anywhere in fn's
// body, used only to build the call graph for SCC ordering.
func (fn *ArcFunction) calls() []pool.Name {
	var out []pool.Name
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Body {
			if c, ok := instr.(Call); ok {
				out = append(out, c.Callee)
			}
		}
	}
	return out
}

// sccOrder returns the functions grouped into strongly connected
// components of the call graph, in reverse topological order (a callee's
// SCC is processed before any SCC that calls it) — Tarjan's algorithm
// produces SCCs in this order as a side effect of its stack-unwind
// discipline, so no separate topological sort is needed.
func (s *BorrowSolver) sccOrder() [][]pool.Name {
	t := &tarjan{
		graph:   s.funcs,
		index:   make(map[pool.Name]int),
		lowlink: make(map[pool.Name]int),
		onStack: make(map[pool.Name]bool),
	}
	for name := range s.funcs {
		if _, seen := t.index[name]; !seen {
			t.strongConnect(name)
		}
	}
	return t.sccs
}

type tarjan struct {
	graph   map[pool.Name]*ArcFunction
	index   map[pool.Name]int
	lowlink map[pool.Name]int
	onStack map[pool.Name]bool
	stack   []pool.Name
	counter int
	sccs    [][]pool.Name
}

func (t *tarjan) strongConnect(v pool.Name) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph[v].calls() {
		if _, ok := t.graph[w]; !ok {
			continue // external callee, no node to visit
		}
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []pool.Name
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
