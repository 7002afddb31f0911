package query

import (
	"encoding/json"
	"fmt"

	"github.com/orilang/oricore/internal/arc"
	"github.com/orilang/oricore/internal/ast"
	"github.com/orilang/oricore/internal/pool"
)

// instrWire is the tagged-union wire form of an arc.ArcInstr. ArcInstr's
// variants are a closed Kind()-discriminated interface (the same idiom
// canon.CanExpr uses), which encoding/json cannot round-trip directly —
// this envelope carries every variant's fields with omitempty, the same
// flattening approach the teacher uses for its own tagged JSON payloads
// (internal/errors/report.go's Fix/Span embedding).
type instrWire struct {
	Kind     string        `json:"kind"`
	Var      arc.ArcVarId  `json:"var,omitempty"`
	Dst      arc.ArcVarId  `json:"dst,omitempty"`
	Src      arc.ArcVarId  `json:"src,omitempty"`
	Callee   pool.Name     `json:"callee,omitempty"`
	Args     []arc.ArcVarId `json:"args,omitempty"`
	ArgOwned []arc.Ownership `json:"argOwned,omitempty"`
	Index    int           `json:"index,omitempty"`
	Value    arc.ArcVarId  `json:"value,omitempty"`
	Type     pool.TypeIdx  `json:"type,omitempty"`
	Fields   []arc.ArcVarId `json:"fields,omitempty"`
	Elements []arc.ArcVarId `json:"elements,omitempty"`
}

func encodeInstr(in arc.ArcInstr) instrWire {
	switch v := in.(type) {
	case arc.RcInc:
		return instrWire{Kind: "rcinc", Var: v.Var}
	case arc.RcDec:
		return instrWire{Kind: "rcdec", Var: v.Var}
	case arc.Assign:
		return instrWire{Kind: "assign", Dst: v.Dst, Src: v.Src}
	case arc.Call:
		return instrWire{Kind: "call", Dst: v.Dst, Callee: v.Callee, Args: v.Args, ArgOwned: v.ArgOwned}
	case arc.LoadField:
		return instrWire{Kind: "loadfield", Dst: v.Dst, Src: v.Src, Index: v.Index}
	case arc.StoreField:
		return instrWire{Kind: "storefield", Dst: v.Dst, Index: v.Index, Value: v.Value}
	case arc.MakeStruct:
		return instrWire{Kind: "makestruct", Dst: v.Dst, Type: v.Type, Fields: v.Fields}
	case arc.MakeTuple:
		return instrWire{Kind: "maketuple", Dst: v.Dst, Type: v.Type, Elements: v.Elements}
	case arc.MakeList:
		return instrWire{Kind: "makelist", Dst: v.Dst, Type: v.Type, Elements: v.Elements}
	default:
		panic(fmt.Sprintf("query: encodeInstr: unhandled ArcInstr variant %T", in))
	}
}

func decodeInstr(w instrWire) (arc.ArcInstr, error) {
	switch w.Kind {
	case "rcinc":
		return arc.RcInc{Var: w.Var}, nil
	case "rcdec":
		return arc.RcDec{Var: w.Var}, nil
	case "assign":
		return arc.Assign{Dst: w.Dst, Src: w.Src}, nil
	case "call":
		return arc.Call{Dst: w.Dst, Callee: w.Callee, Args: w.Args, ArgOwned: w.ArgOwned}, nil
	case "loadfield":
		return arc.LoadField{Dst: w.Dst, Src: w.Src, Index: w.Index}, nil
	case "storefield":
		return arc.StoreField{Dst: w.Dst, Index: w.Index, Value: w.Value}, nil
	case "makestruct":
		return arc.MakeStruct{Dst: w.Dst, Type: w.Type, Fields: w.Fields}, nil
	case "maketuple":
		return arc.MakeTuple{Dst: w.Dst, Type: w.Type, Elements: w.Elements}, nil
	case "makelist":
		return arc.MakeList{Dst: w.Dst, Type: w.Type, Elements: w.Elements}, nil
	default:
		return nil, fmt.Errorf("query: decodeInstr: unknown instruction kind %q", w.Kind)
	}
}

// termWire is the tagged-union wire form of an arc.ArcTerminator.
type termWire struct {
	Kind      string           `json:"kind"`
	Target    arc.ArcBlockId   `json:"target,omitempty"`
	Args      []arc.ArcVarId   `json:"args,omitempty"`
	Cond      arc.ArcVarId     `json:"cond,omitempty"`
	Then      arc.ArcBlockId   `json:"then,omitempty"`
	Else      arc.ArcBlockId   `json:"else,omitempty"`
	Scrutinee arc.ArcVarId     `json:"scrutinee,omitempty"`
	Cases     []arc.SwitchCase `json:"cases,omitempty"`
	Default   arc.ArcBlockId   `json:"default,omitempty"`
	Value     arc.ArcVarId     `json:"value,omitempty"`
}

func encodeTerm(t arc.ArcTerminator) termWire {
	switch v := t.(type) {
	case arc.Br:
		return termWire{Kind: "br", Target: v.Target, Args: v.Args}
	case arc.CondBr:
		return termWire{Kind: "condbr", Cond: v.Cond, Then: v.Then, Else: v.Else}
	case arc.Switch:
		return termWire{Kind: "switch", Scrutinee: v.Scrutinee, Cases: v.Cases, Default: v.Default}
	case arc.Return:
		return termWire{Kind: "return", Value: v.Value}
	case arc.Unreachable:
		return termWire{Kind: "unreachable"}
	default:
		panic(fmt.Sprintf("query: encodeTerm: unhandled ArcTerminator variant %T", t))
	}
}

func decodeTerm(w termWire) (arc.ArcTerminator, error) {
	switch w.Kind {
	case "br":
		return arc.Br{Target: w.Target, Args: w.Args}, nil
	case "condbr":
		return arc.CondBr{Cond: w.Cond, Then: w.Then, Else: w.Else}, nil
	case "switch":
		return arc.Switch{Scrutinee: w.Scrutinee, Cases: w.Cases, Default: w.Default}, nil
	case "return":
		return arc.Return{Value: w.Value}, nil
	case "unreachable":
		return arc.Unreachable{}, nil
	default:
		return nil, fmt.Errorf("query: decodeTerm: unknown terminator kind %q", w.Kind)
	}
}

type blockWire struct {
	ID         arc.ArcBlockId `json:"id"`
	Params     []arc.ArcVarId `json:"params,omitempty"`
	Body       []instrWire    `json:"body,omitempty"`
	Terminator termWire       `json:"terminator"`
}

type functionWire struct {
	Name       pool.Name      `json:"name"`
	Params     []arc.ArcParam `json:"params,omitempty"`
	ReturnType pool.TypeIdx   `json:"returnType"`
	Blocks     []blockWire    `json:"blocks,omitempty"`
	Entry      arc.ArcBlockId `json:"entry"`
	VarTypes   []pool.TypeIdx `json:"varTypes,omitempty"`
	Spans      [][]ast.Span   `json:"spans,omitempty"`
}

// SerializeArcFunction renders fn as the pre-optimization ARC IR blob the
// ArtifactCache stores: deterministic JSON over the tagged-union wire
// forms above, so the same ArcFunction always serializes to the same
// bytes (required for content addressing in artifact.go).
func SerializeArcFunction(fn arc.ArcFunction) ([]byte, error) {
	w := functionWire{
		Name:       fn.Name,
		Params:     fn.Params,
		ReturnType: fn.ReturnType,
		Entry:      fn.Entry,
		VarTypes:   fn.VarTypes,
		Spans:      fn.Spans,
	}
	for _, b := range fn.Blocks {
		bw := blockWire{ID: b.ID, Params: b.Params, Terminator: encodeTerm(b.Terminator)}
		for _, in := range b.Body {
			bw.Body = append(bw.Body, encodeInstr(in))
		}
		w.Blocks = append(w.Blocks, bw)
	}
	return json.Marshal(w)
}

// DeserializeArcFunction reverses SerializeArcFunction.
func DeserializeArcFunction(data []byte) (arc.ArcFunction, error) {
	var w functionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return arc.ArcFunction{}, fmt.Errorf("query: unmarshal ArcFunction: %w", err)
	}

	fn := arc.ArcFunction{
		Name:       w.Name,
		Params:     w.Params,
		ReturnType: w.ReturnType,
		Entry:      w.Entry,
		VarTypes:   w.VarTypes,
		Spans:      w.Spans,
	}
	for _, bw := range w.Blocks {
		blk := arc.ArcBlock{ID: bw.ID, Params: bw.Params}
		for _, iw := range bw.Body {
			in, err := decodeInstr(iw)
			if err != nil {
				return arc.ArcFunction{}, err
			}
			blk.Body = append(blk.Body, in)
		}
		term, err := decodeTerm(bw.Terminator)
		if err != nil {
			return arc.ArcFunction{}, err
		}
		blk.Terminator = term
		fn.Blocks = append(fn.Blocks, blk)
	}
	return fn, nil
}
