package debugimpl

import (
	"fmt"

	"debuggen/internal/types"
)

// UnhandledFieldError is raised (via panic) for a types.Field implementation
// this package does not know.
type UnhandledFieldError struct {
	Field types.Field
}

func (e *UnhandledFieldError) Error() string {
	return fmt.Sprintf("debugimpl: unhandled field %T", e.Field)
}

// RenderField produces zero or more fragments for one field of a struct.
// Anonymous members are never printed. Bitfields always print through their
// generated getter since they cannot be addressed directly.
func RenderField(ctx *Context, field types.Field) []Fragment {
	switch f := field.(type) {
	case types.DataMember:
		if f.Name == "" {
			return nil
		}
		frag, ok := Resolve(ctx, f.Type, f.Name)
		if !ok {
			return nil
		}
		return []Fragment{frag}
	case types.BitfieldUnit:
		frags := make([]Fragment, 0, len(f.Bitfields))
		for _, bf := range f.Bitfields {
			if bf.Name == "" {
				continue
			}
			frags = append(frags, Fragment{
				Format: escapeFormat(bf.Name) + " : " + debugPlaceholder,
				Args:   []Expr{ctx.expr(ExprBitfieldGetter, bf.Name)},
			})
		}
		return frags
	default:
		panic(&UnhandledFieldError{Field: field})
	}
}
