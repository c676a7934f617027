package debugimpl

import (
	"strings"

	"debuggen/internal/types"
)

// ArrayDeriveLimit is the largest array length for which the Rust standard
// library implements Debug on [T; N]. Longer arrays are printed element by
// element.
const ArrayDeriveLimit = 32

// FnPointerDeriveLimit is the largest parameter count for which function
// pointers implement Debug.
const FnPointerDeriveLimit = 12

// hasTypeParamInArray reports whether the element type of the array id
// involves a generic parameter, looking through aliases, nested arrays and
// template arguments.
func hasTypeParamInArray(g *types.Graph, id types.TypeID) bool {
	tt := g.MustLookup(id)
	return involvesTypeParam(g, tt.Elem, g.Len())
}

// involvesTypeParam walks value positions only; pointers break the walk since
// a raw pointer prints its address whatever it points to. budget bounds the
// walk on malformed graphs.
func involvesTypeParam(g *types.Graph, id types.TypeID, budget int) bool {
	if budget <= 0 {
		return false
	}
	id = g.Canonical(id)
	tt, ok := g.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindTypeParam:
		return true
	case types.KindArray:
		return involvesTypeParam(g, tt.Elem, budget-1)
	case types.KindTemplateInstantiation:
		info, ok := g.InstInfo(id)
		if !ok {
			return false
		}
		for _, arg := range info.Args {
			if involvesTypeParam(g, arg, budget-1) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// instantiationIsOpaque reports whether printing the instantiation id is
// unsafe: its definition or one of its arguments is opaque, or the spelled
// out instantiation was marked opaque by name.
func instantiationIsOpaque(g *types.Graph, id types.TypeID) bool {
	info, ok := g.InstInfo(id)
	if !ok {
		return true
	}
	def := g.Canonical(info.Definition)
	if g.IsOpaque(def) || g.Kind(def) == types.KindOpaque {
		return true
	}
	args := make([]string, len(info.Args))
	for i, arg := range info.Args {
		canon := g.Canonical(arg)
		if g.IsOpaque(canon) || g.Kind(canon) == types.KindOpaque {
			return true
		}
		args[i] = types.Label(g, arg)
	}
	if g.OpaqueByName(g.Name(id)) {
		return true
	}
	spelled := types.Label(g, def) + "<" + strings.Join(args, ", ") + ">"
	return g.OpaqueByName(spelled)
}

// fnCanTriviallyRender reports whether a pointer to the function signature id
// implements Debug in Rust.
func fnCanTriviallyRender(g *types.Graph, id types.TypeID) bool {
	info, ok := g.FnInfo(id)
	if !ok {
		return false
	}
	switch info.ABI {
	case types.ABIC, types.ABIUnknown:
	default:
		return false
	}
	if len(info.Params) > FnPointerDeriveLimit {
		return false
	}
	for _, p := range info.Params {
		if !signatureTypeSupported(g, p) {
			return false
		}
	}
	if info.Result != types.NoTypeID && !signatureTypeSupported(g, info.Result) {
		return false
	}
	return true
}

func signatureTypeSupported(g *types.Graph, id types.TypeID) bool {
	switch g.Kind(g.Canonical(id)) {
	case types.KindTypeParam,
		types.KindOpaque,
		types.KindArray,
		types.KindBlockPointer,
		types.KindObjCInterface,
		types.KindObjCID,
		types.KindObjCSel,
		types.KindInvalid:
		return false
	default:
		return true
	}
}
