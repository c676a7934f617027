package debugimpl

import (
	"fmt"
	"strings"
)

// ExprKind selects how a value is pulled out of the record at runtime.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	// ExprField reads the member directly: self.<ident>.
	ExprField
	// ExprBitfieldGetter calls the generated bitfield accessor: self.<ident>().
	ExprBitfieldGetter
	// ExprJoinedArray renders every array element and joins them with ", ".
	ExprJoinedArray
)

func (k ExprKind) String() string {
	switch k {
	case ExprField:
		return "field"
	case ExprBitfieldGetter:
		return "bitfield"
	case ExprJoinedArray:
		return "joined_array"
	default:
		return "invalid"
	}
}

// ParseExprKind converts the String form back to an ExprKind.
func ParseExprKind(s string) (ExprKind, error) {
	switch s {
	case "field":
		return ExprField, nil
	case "bitfield":
		return ExprBitfieldGetter, nil
	case "joined_array":
		return ExprJoinedArray, nil
	default:
		return ExprInvalid, fmt.Errorf("unknown expression kind %q", s)
	}
}

// Expr is a value-extraction expression. Ident is already converted by the
// identifier layer.
type Expr struct {
	Kind  ExprKind
	Ident string
}

// Fragment is a piece of the format string and the values it interpolates.
// The number of placeholders in Format always equals len(Args).
type Fragment struct {
	Format string
	Args   []Expr
}

const (
	debugPlaceholder   = "{:?}"
	displayPlaceholder = "{}"
)

var formatEscaper = strings.NewReplacer("{", "{{", "}", "}}")

// escapeFormat makes arbitrary text safe to embed in a format string.
func escapeFormat(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	return formatEscaper.Replace(s)
}

// CountPlaceholders returns the number of `{...}` markers in a format string.
// Doubled braces are literal. A lone '}' or an unterminated '{' is an error.
func CountPlaceholders(format string) (int, error) {
	n := 0
	for i := 0; i < len(format); i++ {
		switch format[i] {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return n, fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			n++
			i += end
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				i++
				continue
			}
			return n, fmt.Errorf("unmatched '}' at offset %d", i)
		}
	}
	return n, nil
}
