package debugimpl

import (
	"fmt"
	"strings"

	"debuggen/internal/types"
)

// Procedure is the finished body of a Debug impl: one format string and the
// values it interpolates, in order.
type Procedure struct {
	Name   string
	Format string
	Args   []Expr
}

// RenderRecord builds the procedure printing the record id with the given
// fields. Opaque records print `Name { opaque }` and unions `Name { union }`
// since the active member of a union is not known statically.
func RenderRecord(ctx *Context, id types.TypeID, fields []types.Field, kind types.CompKind) Procedure {
	name := ctx.graph.Name(id)

	var sb strings.Builder
	sb.WriteString(escapeFormat(name))
	sb.WriteString(" {{ ")

	var args []Expr
	switch {
	case ctx.graph.IsOpaque(id):
		sb.WriteString("opaque")
	case kind == types.CompUnion:
		sb.WriteString("union")
	case kind == types.CompStruct:
		i := 0
		for _, f := range fields {
			for _, frag := range RenderField(ctx, f) {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(frag.Format)
				args = append(args, frag.Args...)
				i++
			}
		}
	default:
		panic(fmt.Errorf("debugimpl: unhandled record kind %s", kind))
	}

	sb.WriteString(" }}")
	return Procedure{Name: name, Format: sb.String(), Args: args}
}

// RenderItem renders a record using the fields and kind stored in the graph.
// It returns false when id is not a record.
func RenderItem(ctx *Context, id types.TypeID) (Procedure, bool) {
	info, ok := ctx.graph.CompInfo(id)
	if !ok {
		return Procedure{}, false
	}
	return RenderRecord(ctx, id, info.Fields, info.Kind), true
}
