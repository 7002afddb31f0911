package arc

import "github.com/orilang/oricore/internal/pool"

// InsertRcOps lowers fn's plain instructions into ARC IR carrying explicit
// RcInc/RcDec operations, given the function's own inferred sig (for its
// parameters' Ownership) and every function's sig in the module (to
// decide whether a call argument position expects Owned).
//
// Per block, independently (cross-block liveness is not tracked — a
// value live across a block boundary is conservatively treated as if its
// last use were the block's terminator; see DESIGN.md):
//
//  1. Insert RcInc immediately before any instruction that copies a
//     ref-bearing value into a new binding that outlives the original:
//     an Assign, a field/element of a MakeStruct/MakeTuple/MakeList, an
//     Owned-expected Call argument, or a returned terminator Value.
//  2. Insert RcDec at the end of the block body for every ref-bearing
//     local read in the block, unless it is the value being handed to
//     the caller via Return (ownership transfers out, no local decrement).
//  3. Insert RcDec for an Owned ref-bearing parameter that the block
//     never reads at all (a pure discard).
//
// EliminateAdjacentRcOps then removes immediately-adjacent
// RcInc(x); RcDec(x) pairs the insertion pass introduces for values whose
// only use was the copy that produced the pair.
func InsertRcOps(fn ArcFunction, sig *AnnotatedSig, sigs map[pool.Name]*AnnotatedSig, c *Classifier) ArcFunction {
	refBearing := make(map[ArcVarId]bool)
	for v, ty := range fn.VarTypes {
		if !c.Classify(ty).IsScalar() {
			refBearing[ArcVarId(v)] = true
		}
	}

	ownedParam := make(map[ArcVarId]bool)
	for i, p := range fn.Params {
		if sig.Ownership[i] == Owned && refBearing[p.Var] {
			ownedParam[p.Var] = true
		}
	}

	out := fn
	out.Blocks = make([]ArcBlock, len(fn.Blocks))
	for bi, blk := range fn.Blocks {
		out.Blocks[bi] = insertRcOpsInBlock(blk, refBearing, ownedParam, sigs)
	}
	return out
}

func insertRcOpsInBlock(blk ArcBlock, refBearing map[ArcVarId]bool, ownedParam map[ArcVarId]bool, sigs map[pool.Name]*AnnotatedSig) ArcBlock {
	var body []ArcInstr

	// touched tracks every ref-bearing var read anywhere in this block,
	// so a never-read Owned parameter can be flagged for a discard Dec.
	touched := make(map[ArcVarId]bool)
	// returnedVar is the var handed off by the terminator Return, if
	// any — it gets no Dec.
	returnedVar := InvalidArcVarId
	if ret, ok := blk.Terminator.(Return); ok {
		returnedVar = ret.Value
	}

	read := func(v ArcVarId) {
		if refBearing[v] {
			touched[v] = true
		}
	}
	incIfRef := func(v ArcVarId) {
		if refBearing[v] {
			body = append(body, RcInc{Var: v})
		}
	}

	for _, instr := range blk.Body {
		switch in := instr.(type) {
		case Assign:
			read(in.Src)
			incIfRef(in.Src)
		case MakeStruct:
			for _, f := range in.Fields {
				read(f)
				incIfRef(f)
			}
		case MakeTuple:
			for _, e := range in.Elements {
				read(e)
				incIfRef(e)
			}
		case MakeList:
			for _, e := range in.Elements {
				read(e)
				incIfRef(e)
			}
		case Call:
			for i, arg := range in.Args {
				read(arg)
				if calleeExpectsOwnedArg(sigs, in.Callee, i) && refBearing[arg] {
					body = append(body, RcInc{Var: arg})
				}
			}
		case LoadField:
			read(in.Src)
		case StoreField:
			read(in.Value)
		}
		body = append(body, instr)
	}

	switch t := blk.Terminator.(type) {
	case Return:
		read(t.Value)
		incIfRef(t.Value)
	case CondBr:
		read(t.Cond)
	case Switch:
		read(t.Scrutinee)
	}

	// Last-use Dec: every ref-bearing var read in this block, other than
	// the one handed off via Return, gets exactly one Dec appended after
	// its final use. With only per-block (not per-program) liveness
	// tracked, "after its final use" degenerates to "at the end of the
	// block" — a conservative approximation that is always at least as
	// late as the true last use.
	for v := range touched {
		if v == returnedVar {
			continue
		}
		body = append(body, RcDec{Var: v})
	}

	// Discard Dec: an Owned ref-bearing parameter never read in this
	// block at all must still be released on this path.
	for v := range ownedParam {
		if !touched[v] && v != returnedVar {
			body = append(body, RcDec{Var: v})
		}
	}

	blk.Body = body
	return blk
}

func calleeExpectsOwnedArg(sigs map[pool.Name]*AnnotatedSig, callee pool.Name, argIndex int) bool {
	sig, ok := sigs[callee]
	if !ok {
		return true
	}
	if argIndex >= len(sig.Ownership) {
		return true
	}
	return sig.Ownership[argIndex] == Owned
}

// EliminateAdjacentRcOps removes RcInc(x); RcDec(x) pairs with nothing in
// between, and the SSA-aware extension: pairs separated only by
// instructions that neither read nor write x ("non-interfering").
func EliminateAdjacentRcOps(fn ArcFunction) ArcFunction {
	out := fn
	out.Blocks = make([]ArcBlock, len(fn.Blocks))
	for i, blk := range fn.Blocks {
		nb := blk
		nb.Body = eliminateInBody(blk.Body)
		out.Blocks[i] = nb
	}
	return out
}

func eliminateInBody(body []ArcInstr) []ArcInstr {
	removed := make([]bool, len(body))

	for i, instr := range body {
		inc, ok := instr.(RcInc)
		if !ok || removed[i] {
			continue
		}
		for j := i + 1; j < len(body); j++ {
			if removed[j] {
				continue
			}
			if dec, ok := body[j].(RcDec); ok && dec.Var == inc.Var {
				removed[i] = true
				removed[j] = true
				break
			}
			if instrTouchesVar(body[j], inc.Var) {
				// Interferes: some other op on x between the Inc and a
				// later Dec, so this Inc cannot be proven redundant.
				break
			}
		}
	}

	out := make([]ArcInstr, 0, len(body))
	for i, instr := range body {
		if !removed[i] {
			out = append(out, instr)
		}
	}
	return out
}

// instrTouchesVar reports whether instr reads or writes v, used by the
// peephole to decide whether it may safely skip over instr while looking
// for a matching RcDec.
func instrTouchesVar(instr ArcInstr, v ArcVarId) bool {
	switch in := instr.(type) {
	case RcInc:
		return in.Var == v
	case RcDec:
		return in.Var == v
	case Assign:
		return in.Dst == v || in.Src == v
	case Call:
		if in.Dst == v {
			return true
		}
		for _, a := range in.Args {
			if a == v {
				return true
			}
		}
		return false
	case LoadField:
		return in.Dst == v || in.Src == v
	case StoreField:
		return in.Dst == v || in.Value == v
	case MakeStruct:
		if in.Dst == v {
			return true
		}
		for _, f := range in.Fields {
			if f == v {
				return true
			}
		}
		return false
	case MakeTuple:
		if in.Dst == v {
			return true
		}
		for _, e := range in.Elements {
			if e == v {
				return true
			}
		}
		return false
	case MakeList:
		if in.Dst == v {
			return true
		}
		for _, e := range in.Elements {
			if e == v {
				return true
			}
		}
		return false
	default:
		return false
	}
}
