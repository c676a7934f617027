package graphfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"debuggen/internal/types"
)

const sample = `
[options]
opaque_names = ["Wrapper<int>"]

[[type]]
id = "int"
kind = "int"

[[type]]
id = "int_t"
kind = "alias"
target = "int"

[[type]]
id = "Point"
kind = "struct"

  [[type.field]]
  name = "x"
  type = "int_t"

  [[type.field]]
  name = "next"
  type = "Point_ptr"

  [[type.field]]
  bitfields = [{ name = "a", width = 3 }, { width = 0 }, { name = "b", width = 5 }]

[[type]]
id = "Point_ptr"
name = ""
kind = "pointer"
inner = "Point"

[[type]]
id = "cb"
kind = "function"
abi = "C"
params = ["int", "int_t"]
variadic = true

[[type]]
id = "secret"
kind = "struct"
whitelisted = false
opaque = true
`

func TestParseBuildsGraph(t *testing.T) {
	g, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !g.Sealed() {
		t.Fatal("graph must be sealed after loading")
	}
	point, ok := g.ByName("Point")
	if !ok {
		t.Fatal("Point not registered")
	}
	info, ok := g.CompInfo(point)
	if !ok || info.Kind != types.CompStruct || len(info.Fields) != 3 {
		t.Fatalf("unexpected comp info: %+v", info)
	}
	x, ok := info.Fields[0].(types.DataMember)
	if !ok || x.Name != "x" || g.Kind(g.Canonical(x.Type)) != types.KindInt {
		t.Fatalf("field x = %+v", info.Fields[0])
	}
	next := info.Fields[1].(types.DataMember)
	if tt := g.MustLookup(next.Type); tt.Kind != types.KindPointer || tt.Elem != point {
		t.Fatalf("next must point back to Point, got %+v", tt)
	}
	if g.Name(next.Type) != "" {
		t.Fatalf("explicit empty name must be kept, got %q", g.Name(next.Type))
	}
	unit := info.Fields[2].(types.BitfieldUnit)
	if len(unit.Bitfields) != 3 || unit.Bitfields[1].Name != "" || unit.Bitfields[2].Width != 5 {
		t.Fatalf("bitfields = %+v", unit.Bitfields)
	}

	cb, _ := g.ByName("cb")
	fn, ok := g.FnInfo(cb)
	if !ok || fn.ABI != types.ABIC || !fn.Variadic || len(fn.Params) != 2 || fn.Result != types.NoTypeID {
		t.Fatalf("fn info = %+v", fn)
	}

	secret, _ := g.ByName("secret")
	if g.IsWhitelisted(secret) || !g.IsOpaque(secret) {
		t.Fatal("secret flags not applied")
	}
	if !g.OpaqueByName("Wrapper<int>") {
		t.Fatal("opaque name not registered")
	}
}

func kindsOf(t *testing.T, err error) []ErrorKind {
	t.Helper()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T: %v", err, err)
	}
	var out []ErrorKind
	for _, e := range joined.Unwrap() {
		var ge *Error
		if !errors.As(e, &ge) {
			t.Fatalf("expected *graphfile.Error, got %T: %v", e, e)
		}
		out = append(out, ge.Kind)
	}
	return out
}

func TestBuildReportsAllProblems(t *testing.T) {
	doc := `
[[type]]
kind = "int"

[[type]]
id = "a"
kind = "int"

[[type]]
id = "a"
kind = "float"

[[type]]
id = "b"
kind = "widget"

[[type]]
id = "arr"
kind = "array"
elem = "missing"
len = 4

[[type]]
id = "neg"
kind = "array"
elem = "a"
len = -1

[[type]]
id = "p"
kind = "pointer"

[[type]]
id = "f"
kind = "function"
abi = "pascal"

[[type]]
id = "S"
kind = "struct"

  [[type.field]]
  name = "both"
  type = "a"
  bitfields = [{ name = "x", width = 1 }]
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected errors")
	}
	got := kindsOf(t, err)
	want := []ErrorKind{ErrMissingID, ErrDuplicateID, ErrUnknownKind, ErrBadLength, ErrBadABI, ErrUnknownRef, ErrMissingRef, ErrFieldShape}
	if len(got) != len(want) {
		t.Fatalf("got kinds %v, want %v (%v)", got, want, err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %d, want %d (%v)", i, got[i], want[i], err)
		}
	}
}

func TestBuildReportsAliasCycle(t *testing.T) {
	doc := `
[[type]]
id = "a"
kind = "alias"
target = "b"

[[type]]
id = "b"
kind = "resolved_ref"
target = "c"

[[type]]
id = "c"
kind = "template_alias"
target = "a"
`
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != ErrGraph || ge.TypeID == "" {
		t.Fatalf("expected graph error with declared id, got %v", err)
	}
	var cyc *types.GraphError
	if !errors.As(err, &cyc) || cyc.Kind != types.GraphErrAliasCycle {
		t.Fatalf("expected wrapped alias cycle, got %v", err)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte("[[type]]\nid = \"a\"\nkind = \"int\"\ncolour = \"red\"\n"))
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != ErrUnknownKey {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadWrapsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.toml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "absent.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
