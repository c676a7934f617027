package debugimpl_test

import (
	"slices"
	"testing"

	"debuggen/internal/debugimpl"
	"debuggen/internal/testkit"
	"debuggen/internal/types"
)

func render(t *testing.T, f *fixture, id types.TypeID) debugimpl.Procedure {
	t.Helper()
	ctx := f.ctx(t)
	proc, ok := debugimpl.RenderItem(ctx, id)
	if !ok {
		t.Fatalf("type#%d is not a record", id)
	}
	if err := testkit.CheckProcedureInvariants(proc); err != nil {
		t.Fatal(err)
	}
	return proc
}

func TestRenderRecordStruct(t *testing.T) {
	f := newFixture()
	float := f.g.Add(types.MakeSimple(types.KindFloat), pub("double"))
	id := f.g.AddComp(pub("Point"), types.CompStruct, []types.Field{
		types.DataMember{Name: "x", Type: f.intT},
		types.DataMember{Name: "y", Type: float},
	})
	proc := render(t, f, id)
	if proc.Format != "Point {{ x: {:?}, y: {:?} }}" {
		t.Fatalf("format = %q", proc.Format)
	}
	want := []debugimpl.Expr{{Kind: debugimpl.ExprField, Ident: "x"}, {Kind: debugimpl.ExprField, Ident: "y"}}
	if !slices.Equal(proc.Args, want) {
		t.Fatalf("args = %+v", proc.Args)
	}
}

func TestRenderRecordOpaqueIgnoresFields(t *testing.T) {
	f := newFixture()
	id := f.g.AddComp(types.ItemInfo{Name: "Handle", Whitelisted: true, Opaque: true}, types.CompStruct, []types.Field{
		types.DataMember{Name: "fd", Type: f.intT},
	})
	ctx := f.ctx(t)
	info, _ := ctx.Graph().CompInfo(id)
	for _, kind := range []types.CompKind{types.CompStruct, types.CompUnion} {
		proc := debugimpl.RenderRecord(ctx, id, info.Fields, kind)
		if proc.Format != "Handle {{ opaque }}" || len(proc.Args) != 0 {
			t.Fatalf("%s: got %q with %d values", kind, proc.Format, len(proc.Args))
		}
	}
}

func TestRenderRecordSkipsNonWhitelistedField(t *testing.T) {
	for _, hiddenFirst := range []bool{false, true} {
		f := newFixture()
		hidden := f.g.Add(types.MakeSimple(types.KindInt), types.ItemInfo{Name: "hidden_t"})
		a := types.DataMember{Name: "a", Type: f.intT}
		b := types.DataMember{Name: "b", Type: hidden}
		fields := []types.Field{a, b}
		if hiddenFirst {
			fields = []types.Field{b, a}
		}
		id := f.g.AddComp(pub("Pair"), types.CompStruct, fields)
		proc := render(t, f, id)
		if proc.Format != "Pair {{ a: {:?} }}" {
			t.Fatalf("hiddenFirst=%v: format = %q", hiddenFirst, proc.Format)
		}
		if len(proc.Args) != 1 || proc.Args[0].Ident != "a" {
			t.Fatalf("hiddenFirst=%v: args = %+v", hiddenFirst, proc.Args)
		}
	}
}

func TestRenderRecordUnionNeverInspectsMembers(t *testing.T) {
	f := newFixture()
	float := f.g.Add(types.MakeSimple(types.KindFloat), pub("float"))
	char := f.g.Add(types.MakeSimple(types.KindInt), pub("char"))
	id := f.g.AddComp(pub("Value"), types.CompUnion, []types.Field{
		types.DataMember{Name: "i", Type: f.intT},
		types.DataMember{Name: "f", Type: float},
		types.DataMember{Name: "c", Type: char},
	})
	proc := render(t, f, id)
	if proc.Format != "Value {{ union }}" || len(proc.Args) != 0 {
		t.Fatalf("got %q with %d values", proc.Format, len(proc.Args))
	}
}

func TestRenderRecordBitfieldExpansion(t *testing.T) {
	f := newFixture()
	id := f.g.AddComp(pub("Flags"), types.CompStruct, []types.Field{
		types.BitfieldUnit{Bitfields: []types.Bitfield{
			{Name: "a", Width: 3},
			{Name: "b", Width: 5},
			{Width: 2},
		}},
	})
	proc := render(t, f, id)
	if proc.Format != "Flags {{ a : {:?}, b : {:?} }}" {
		t.Fatalf("format = %q", proc.Format)
	}
	want := []debugimpl.Expr{
		{Kind: debugimpl.ExprBitfieldGetter, Ident: "a"},
		{Kind: debugimpl.ExprBitfieldGetter, Ident: "b"},
	}
	if !slices.Equal(proc.Args, want) {
		t.Fatalf("args = %+v", proc.Args)
	}
}

func TestRenderFieldBitfieldUnitAllPadding(t *testing.T) {
	f := newFixture()
	ctx := f.ctx(t)
	frags := debugimpl.RenderField(ctx, types.BitfieldUnit{Bitfields: []types.Bitfield{{Width: 4}, {Width: 4}}})
	if len(frags) != 0 {
		t.Fatalf("padding-only unit must produce nothing, got %+v", frags)
	}
}

func TestRenderRecordMixedFields(t *testing.T) {
	f := newFixture()
	tp := f.g.AddTypeParam(pub("T"), 0)
	big := f.g.Add(types.MakeArray(f.intT, 40), pub(""))
	opaque := f.g.Add(types.MakeSimple(types.KindOpaque), pub("_bindgen_opaque"))
	id := f.g.AddComp(pub("Mixed"), types.CompStruct, []types.Field{
		types.DataMember{Type: f.intT}, // anonymous
		types.DataMember{Name: "payload", Type: tp},
		types.BitfieldUnit{Bitfields: []types.Bitfield{{Name: "on", Width: 1}, {Width: 7}}},
		types.DataMember{Name: "blob", Type: opaque},
		types.DataMember{Name: "data", Type: big},
	})
	proc := render(t, f, id)
	want := "Mixed {{ payload: Non-debuggable generic, on : {:?}, data: [{}] }}"
	if proc.Format != want {
		t.Fatalf("format = %q, want %q", proc.Format, want)
	}
	if len(proc.Args) != 2 || proc.Args[0].Kind != debugimpl.ExprBitfieldGetter || proc.Args[1].Kind != debugimpl.ExprJoinedArray {
		t.Fatalf("args = %+v", proc.Args)
	}
}

func TestRenderRecordEmptyStruct(t *testing.T) {
	f := newFixture()
	id := f.g.AddComp(pub("Empty"), types.CompStruct, nil)
	proc := render(t, f, id)
	if proc.Format != "Empty {{  }}" || len(proc.Args) != 0 {
		t.Fatalf("got %q", proc.Format)
	}
}

func TestRenderRecordEscapesBracesInName(t *testing.T) {
	f := newFixture()
	id := f.g.AddComp(pub("odd{name}"), types.CompStruct, nil)
	proc := render(t, f, id)
	if proc.Format != "odd{{name}} {{  }}" {
		t.Fatalf("got %q", proc.Format)
	}
}

func TestRenderItemRejectsNonRecord(t *testing.T) {
	f := newFixture()
	ctx := f.ctx(t)
	if _, ok := debugimpl.RenderItem(ctx, f.intT); ok {
		t.Fatal("int is not a record")
	}
}
