package types

import (
	"errors"
	"testing"
)

func named(name string) ItemInfo {
	return ItemInfo{Name: name, Whitelisted: true}
}

func TestGraphReservesSentinel(t *testing.T) {
	g := NewGraph()
	if g.Len() != 1 {
		t.Fatalf("expected only the sentinel slot, got %d", g.Len())
	}
	if _, ok := g.Lookup(NoTypeID); ok {
		t.Fatalf("NoTypeID must not resolve")
	}
	if g.Kind(NoTypeID) != KindInvalid {
		t.Fatalf("expected invalid kind for NoTypeID")
	}
}

func TestGraphItemFacts(t *testing.T) {
	g := NewGraph()
	id := g.Add(MakeSimple(KindInt), ItemInfo{Name: "int", Whitelisted: true, Opaque: false})
	hidden := g.Add(MakeSimple(KindInt), ItemInfo{Name: "hidden_t", Whitelisted: false, Opaque: true})
	if !g.IsWhitelisted(id) || g.IsOpaque(id) {
		t.Fatalf("unexpected facts for int: %+v", g.items[id])
	}
	if g.IsWhitelisted(hidden) || !g.IsOpaque(hidden) {
		t.Fatalf("unexpected facts for hidden_t: %+v", g.items[hidden])
	}
	if got, ok := g.ByName("hidden_t"); !ok || got != hidden {
		t.Fatalf("ByName(hidden_t) = %d, %v", got, ok)
	}
}

func TestCanonicalStripsAliasChain(t *testing.T) {
	g := NewGraph()
	base := g.Add(MakeSimple(KindInt), named("int"))
	a := g.Add(MakeAlias(base), named("a_t"))
	b := g.Add(MakeResolvedRef(a), named(""))
	c := g.Add(MakeTemplateAlias(b), named("c_t"))
	if err := g.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := g.Canonical(c); got != base {
		t.Fatalf("Canonical(c) = type#%d, want type#%d", got, base)
	}
	if got := g.Canonical(base); got != base {
		t.Fatalf("Canonical(base) must be identity")
	}
}

func TestValidateReportsAliasCycle(t *testing.T) {
	g := NewGraph()
	a := g.Add(MakeAlias(NoTypeID), named("a"))
	b := g.Add(MakeAlias(a), named("b"))
	g.SetElem(a, b)
	err := g.Validate()
	if err == nil {
		t.Fatal("expected alias cycle error")
	}
	var gerr *GraphError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GraphError, got %T (%v)", err, err)
	}
	if gerr.Kind != GraphErrAliasCycle || len(gerr.Cycle) != 3 {
		t.Fatalf("unexpected error: %+v", gerr)
	}
	if g.Sealed() {
		t.Fatalf("invalid graph must not be sealed")
	}
}

func TestValidateReportsDanglingRefs(t *testing.T) {
	g := NewGraph()
	g.Add(MakePointer(TypeID(42)), named("p"))
	g.AddComp(named("S"), CompStruct, []Field{DataMember{Name: "x", Type: TypeID(99)}})
	err := g.Validate()
	if err == nil {
		t.Fatal("expected dangling reference errors")
	}
	var gerr *GraphError
	if !errors.As(err, &gerr) || gerr.Kind != GraphErrDanglingRef {
		t.Fatalf("expected dangling ref error, got %v", err)
	}
	if gerr.Ref != 42 {
		t.Fatalf("first dangling ref should be type#42, got %+v", gerr)
	}
}

func TestSealedGraphRejectsMutation(t *testing.T) {
	g := NewGraph()
	g.Add(MakeSimple(KindVoid), named("void"))
	if err := g.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when mutating a sealed graph")
		}
	}()
	g.Add(MakeSimple(KindInt), named("int"))
}

func TestCompFieldsAreCloned(t *testing.T) {
	g := NewGraph()
	bits := []Bitfield{{Name: "a", Width: 3}}
	id := g.AddComp(named("S"), CompStruct, []Field{BitfieldUnit{Bitfields: bits}})
	bits[0].Name = "mutated"
	info, ok := g.CompInfo(id)
	if !ok {
		t.Fatal("missing comp info")
	}
	unit := info.Fields[0].(BitfieldUnit)
	if unit.Bitfields[0].Name != "a" {
		t.Fatalf("fields must be copied on insert, got %q", unit.Bitfields[0].Name)
	}
}

func TestKindsRoundTripNames(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("invalid"); err == nil {
		t.Fatal("invalid must not parse")
	}
}

func TestLabel(t *testing.T) {
	g := NewGraph()
	i := g.Add(MakeSimple(KindInt), named("int"))
	fn := g.AddFn(ItemInfo{}, FnInfo{Params: []TypeID{i}, ABI: ABIC})
	ptr := g.Add(MakePointer(fn), ItemInfo{})
	arr := g.Add(MakeArray(i, 4), ItemInfo{})
	if got := Label(g, ptr); got != "*fn(int) -> void" {
		t.Fatalf("Label(ptr) = %q", got)
	}
	if got := Label(g, arr); got != "[int; 4]" {
		t.Fatalf("Label(arr) = %q", got)
	}
}
