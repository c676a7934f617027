package types

import (
	"fmt"
	"strings"
)

// Label returns a user-friendly label for a TypeID, e.g. "*fn(int) -> void"
// or "[Point; 4]". Named items print their display name.
func Label(g *Graph, id TypeID) string {
	return labelDepth(g, id, 0)
}

func labelDepth(g *Graph, id TypeID, depth int) string {
	if id == NoTypeID {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := g.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindPointer:
		return "*" + labelDepth(g, tt.Elem, depth+1)
	case KindReference:
		return "&" + labelDepth(g, tt.Elem, depth+1)
	case KindArray:
		return fmt.Sprintf("[%s; %d]", labelDepth(g, tt.Elem, depth+1), tt.Count)
	case KindFunction:
		if name := g.Name(id); name != "" {
			return name
		}
		return formatFnType(g, id, depth)
	case KindTemplateInstantiation:
		if name := g.Name(id); name != "" {
			return name
		}
		info, ok := g.InstInfo(id)
		if !ok {
			return "?<?>"
		}
		args := make([]string, len(info.Args))
		for i, a := range info.Args {
			args[i] = labelDepth(g, a, depth+1)
		}
		return labelDepth(g, info.Definition, depth+1) + "<" + strings.Join(args, ", ") + ">"
	}
	if name := g.Name(id); name != "" {
		return name
	}
	switch tt.Kind {
	case KindVoid:
		return "void"
	case KindNullPtr:
		return "nullptr_t"
	case KindTypeParam:
		if info, ok := g.TypeParamInfo(id); ok {
			return fmt.Sprintf("T%d", info.Index)
		}
		return "T"
	case KindResolvedRef, KindTemplateAlias, KindAlias:
		return labelDepth(g, tt.Elem, depth+1)
	default:
		return "<" + tt.Kind.String() + ">"
	}
}

func formatFnType(g *Graph, id TypeID, depth int) string {
	info, ok := g.FnInfo(id)
	if !ok {
		return "fn(?)"
	}
	params := make([]string, len(info.Params), len(info.Params)+1)
	for i, param := range info.Params {
		params[i] = labelDepth(g, param, depth+1)
	}
	if info.Variadic {
		params = append(params, "...")
	}
	ret := "void"
	if info.Result != NoTypeID {
		ret = labelDepth(g, info.Result, depth+1)
	}
	return "fn(" + strings.Join(params, ", ") + ") -> " + ret
}
