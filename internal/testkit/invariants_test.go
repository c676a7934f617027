package testkit

import (
	"testing"

	"debuggen/internal/debugimpl"
)

func field(name string) debugimpl.Expr {
	return debugimpl.Expr{Kind: debugimpl.ExprField, Ident: name}
}

func TestCheckProcedureInvariants(t *testing.T) {
	ok := debugimpl.Procedure{Name: "P", Format: "P {{ x: {:?}, y: [{}] }}", Args: []debugimpl.Expr{field("x"), field("y")}}
	if err := CheckProcedureInvariants(ok); err != nil {
		t.Fatal(err)
	}
	if err := CheckProcedureInvariants(debugimpl.Procedure{Name: "E", Format: "E {{  }}"}); err != nil {
		t.Fatalf("empty record: %v", err)
	}

	bad := []debugimpl.Procedure{
		{Name: "P", Format: "P {{ x: {:?} }}"},
		{Name: "P", Format: "P {{ x: {:? }}", Args: []debugimpl.Expr{field("x")}},
		{Name: "P", Format: "P x: {:?}", Args: []debugimpl.Expr{field("x")}},
		{Name: "P", Format: "P {{ , x: {:?} }}", Args: []debugimpl.Expr{field("x")}},
		{Name: "P", Format: "P {{ x: {:?} }}", Args: []debugimpl.Expr{{Ident: "x"}}},
		{Name: "P", Format: "P {{ x: {:?} }}", Args: []debugimpl.Expr{{Kind: debugimpl.ExprField}}},
	}
	for _, p := range bad {
		if err := CheckProcedureInvariants(p); err == nil {
			t.Fatalf("expected violation for %q %+v", p.Format, p.Args)
		}
	}
}

func TestCheckFragment(t *testing.T) {
	if err := CheckFragment(debugimpl.Fragment{Format: "a: {:?}", Args: []debugimpl.Expr{field("a")}}); err != nil {
		t.Fatal(err)
	}
	if err := CheckFragment(debugimpl.Fragment{Format: "a: {:?}"}); err == nil {
		t.Fatal("expected parity error")
	}
}
