package emit

import (
	"strings"
	"testing"

	"debuggen/internal/debugimpl"
)

func TestExprForms(t *testing.T) {
	cases := []struct {
		in   debugimpl.Expr
		want string
	}{
		{debugimpl.Expr{Kind: debugimpl.ExprField, Ident: "x"}, "self.x"},
		{debugimpl.Expr{Kind: debugimpl.ExprBitfieldGetter, Ident: "flag"}, "self.flag()"},
		{debugimpl.Expr{Kind: debugimpl.ExprJoinedArray, Ident: "r#type"},
			`self.r#type.iter().enumerate().map(|(i, v)| format!("{}{:?}", if i > 0 { ", " } else { "" }, v)).collect::<String>()`},
	}
	for _, tc := range cases {
		got, err := Expr(tc.in)
		if err != nil {
			t.Fatalf("Expr(%+v): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Expr(%+v) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := Expr(debugimpl.Expr{Ident: "x"}); err == nil {
		t.Fatal("invalid expression must fail")
	}
}

func TestStringLiteral(t *testing.T) {
	cases := map[string]string{
		`S {{ a: {:?} }}`: `"S {{ a: {:?} }}"`,
		`say "hi"\`:       `"say \"hi\"\\"`,
		"tab\tnl\n":       `"tab\tnl\n"`,
		"bell\a":          `"bell\u{7}"`,
	}
	for in, want := range cases {
		if got := StringLiteral(in); got != want {
			t.Fatalf("StringLiteral(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestWriteArgsPutsFormatFirst(t *testing.T) {
	p := debugimpl.Procedure{
		Name:   "S",
		Format: "S {{ a: {:?}, b : {:?} }}",
		Args: []debugimpl.Expr{
			{Kind: debugimpl.ExprField, Ident: "a"},
			{Kind: debugimpl.ExprBitfieldGetter, Ident: "b"},
		},
	}
	args, err := WriteArgs(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{`"S {{ a: {:?}, b : {:?} }}"`, "self.a", "self.b()"}
	if strings.Join(args, "|") != strings.Join(want, "|") {
		t.Fatalf("args = %q", args)
	}
}

const wantFile = `// generated by debuggen

impl ::std::fmt::Debug for Point {
    fn fmt(&self, f: &mut ::std::fmt::Formatter) -> ::std::fmt::Result {
        write!(f, "Point {{ x: {:?} }}", self.x)
    }
}

impl<T> ::std::fmt::Debug for Boxed<T> {
    fn fmt(&self, f: &mut ::std::fmt::Formatter) -> ::std::fmt::Result {
        write!(f, "Boxed {{ value: Non-debuggable generic }}")
    }
}
`

func TestFileGolden(t *testing.T) {
	units := []Unit{
		{
			Target: Target{Name: "Point"},
			Proc: debugimpl.Procedure{
				Name:   "Point",
				Format: "Point {{ x: {:?} }}",
				Args:   []debugimpl.Expr{{Kind: debugimpl.ExprField, Ident: "x"}},
			},
		},
		{
			Target: Target{Name: "Boxed", Generics: []string{"T"}},
			Proc: debugimpl.Procedure{
				Name:   "Boxed",
				Format: "Boxed {{ value: Non-debuggable generic }}",
			},
		},
	}
	var sb strings.Builder
	if err := File(&sb, units, FileOptions{Header: []string{"generated by debuggen"}}); err != nil {
		t.Fatal(err)
	}
	if sb.String() != wantFile {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", sb.String(), wantFile)
	}
}
