// Package emit turns rendering procedures into Rust `impl Debug` source text.
package emit

import (
	"fmt"
	"io"
	"strings"

	"debuggen/internal/debugimpl"
)

// Target names the Rust type an impl is written for.
type Target struct {
	Name     string
	Generics []string
}

// Unit is one impl block to emit.
type Unit struct {
	Target Target
	Proc   debugimpl.Procedure
}

// FileOptions controls the file-level output.
type FileOptions struct {
	// Header is written as line comments before the first impl.
	Header []string
}

// Expr renders a value-extraction expression as Rust.
func Expr(e debugimpl.Expr) (string, error) {
	switch e.Kind {
	case debugimpl.ExprField:
		return "self." + e.Ident, nil
	case debugimpl.ExprBitfieldGetter:
		return "self." + e.Ident + "()", nil
	case debugimpl.ExprJoinedArray:
		return "self." + e.Ident +
			`.iter().enumerate().map(|(i, v)| format!("{}{:?}", if i > 0 { ", " } else { "" }, v)).collect::<String>()`, nil
	case debugimpl.ExprInvalid:
		return "", fmt.Errorf("invalid expression for %q", e.Ident)
	default:
		return "", fmt.Errorf("unknown expression kind %d for %q", e.Kind, e.Ident)
	}
}

// WriteArgs returns the arguments of the write! call: the format string
// literal first, then every value expression in order.
func WriteArgs(p debugimpl.Procedure) ([]string, error) {
	out := make([]string, 0, len(p.Args)+1)
	out = append(out, StringLiteral(p.Format))
	for _, a := range p.Args {
		s, err := Expr(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Impl writes one `impl ::std::fmt::Debug` block.
func Impl(w io.Writer, target Target, p debugimpl.Procedure) error {
	args, err := WriteArgs(p)
	if err != nil {
		return err
	}
	generics := ""
	if len(target.Generics) > 0 {
		generics = "<" + strings.Join(target.Generics, ", ") + ">"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "impl%s ::std::fmt::Debug for %s%s {\n", generics, target.Name, generics)
	sb.WriteString("    fn fmt(&self, f: &mut ::std::fmt::Formatter) -> ::std::fmt::Result {\n")
	fmt.Fprintf(&sb, "        write!(f, %s)\n", strings.Join(args, ", "))
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	_, err = io.WriteString(w, sb.String())
	return err
}

// File writes the header and every impl, separated by blank lines.
func File(w io.Writer, units []Unit, opts FileOptions) error {
	for _, line := range opts.Header {
		if _, err := fmt.Fprintf(w, "// %s\n", line); err != nil {
			return err
		}
	}
	for i, u := range units {
		if i > 0 || len(opts.Header) > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Impl(w, u.Target, u.Proc); err != nil {
			return err
		}
	}
	return nil
}

// StringLiteral quotes s as a Rust string literal.
func StringLiteral(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u{%x}`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
