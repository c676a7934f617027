// Package graphfile loads a resolved type graph from its TOML description.
//
// A description lists every type as a [[type]] table keyed by a unique id.
// References between types use those ids and may point forward; the loader
// allocates every node first and binds references in a second pass, then
// validates and seals the graph.
package graphfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"debuggen/internal/types"
)

// Document is the decoded form of a graph description.
type Document struct {
	Options OptionsDecl `toml:"options"`
	Types   []TypeDecl  `toml:"type"`
}

// OptionsDecl holds graph-wide settings.
type OptionsDecl struct {
	// OpaqueNames lists instantiation names that must be treated as opaque.
	OpaqueNames []string `toml:"opaque_names"`
}

// TypeDecl is one [[type]] entry.
type TypeDecl struct {
	ID          string  `toml:"id"`
	Name        *string `toml:"name"`
	Kind        string  `toml:"kind"`
	Whitelisted *bool   `toml:"whitelisted"`
	Opaque      bool    `toml:"opaque"`

	Target string `toml:"target"`
	Elem   string `toml:"elem"`
	Len    int64  `toml:"len"`
	Inner  string `toml:"inner"`

	Definition string   `toml:"definition"`
	Args       []string `toml:"args"`

	Params   []string `toml:"params"`
	Result   string   `toml:"result"`
	ABI      string   `toml:"abi"`
	Variadic bool     `toml:"variadic"`

	Index int64 `toml:"index"`

	TypeParams []string    `toml:"type_params"`
	Fields     []FieldDecl `toml:"field"`
}

// FieldDecl is one [[type.field]] entry: a data member or a bitfield unit.
type FieldDecl struct {
	Name      string         `toml:"name"`
	Type      string         `toml:"type"`
	Bitfields []BitfieldDecl `toml:"bitfields"`
}

// BitfieldDecl is one bitfield of a unit; an empty name is padding.
type BitfieldDecl struct {
	Name  string `toml:"name"`
	Width int64  `toml:"width"`
}

// Load reads and builds the graph stored at path.
func Load(path string) (*types.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph description: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes and builds a graph from TOML text.
func Parse(data []byte) (*types.Graph, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Decode parses TOML text into a Document. Unknown keys are errors.
func Decode(data []byte) (*Document, error) {
	var doc Document
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	var errs []error
	for _, key := range meta.Undecoded() {
		errs = append(errs, &Error{Kind: ErrUnknownKey, Field: key.String()})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Build allocates, binds and validates the graph described by doc.
// Every problem is reported; the result is joined with errors.Join.
func Build(doc *Document) (*types.Graph, error) {
	b := &builder{
		g:    types.NewGraph(),
		ids:  make(map[string]types.TypeID, len(doc.Types)),
		back: []string{""},
	}
	allocated := make([]types.TypeID, len(doc.Types))
	for i := range doc.Types {
		allocated[i] = b.allocate(i+1, &doc.Types[i])
	}
	for i := range doc.Types {
		if allocated[i] != types.NoTypeID {
			b.bind(allocated[i], &doc.Types[i])
		}
	}
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	for _, name := range doc.Options.OpaqueNames {
		b.g.MarkOpaqueName(strings.TrimSpace(name))
	}
	if err := b.g.Validate(); err != nil {
		return nil, b.wrapGraphErrors(err)
	}
	return b.g, nil
}

type builder struct {
	g    *types.Graph
	ids  map[string]types.TypeID
	back []string // TypeID -> declared id
	errs []error
}

func (b *builder) fail(err *Error) {
	b.errs = append(b.errs, err)
}

func (b *builder) allocate(entry int, d *TypeDecl) types.TypeID {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		b.fail(&Error{Kind: ErrMissingID, Entry: entry})
		return types.NoTypeID
	}
	if _, dup := b.ids[id]; dup {
		b.fail(&Error{Kind: ErrDuplicateID, Entry: entry, TypeID: id})
		return types.NoTypeID
	}

	item := types.ItemInfo{Name: id, Whitelisted: true, Opaque: d.Opaque}
	if d.Name != nil {
		item.Name = *d.Name
	}
	if d.Whitelisted != nil {
		item.Whitelisted = *d.Whitelisted
	}

	var tid types.TypeID
	switch d.Kind {
	case "struct":
		tid = b.g.AddComp(item, types.CompStruct, nil)
	case "union":
		tid = b.g.AddComp(item, types.CompUnion, nil)
	default:
		kind, err := types.ParseKind(d.Kind)
		if err != nil || kind == types.KindComp {
			b.fail(&Error{Kind: ErrUnknownKind, Entry: entry, TypeID: id, Detail: d.Kind})
			return types.NoTypeID
		}
		var ok bool
		tid, ok = b.allocateKind(entry, id, kind, item, d)
		if !ok {
			return types.NoTypeID
		}
	}
	b.ids[id] = tid
	b.back = append(b.back, id)
	return tid
}

func (b *builder) allocateKind(entry int, id string, kind types.Kind, item types.ItemInfo, d *TypeDecl) (types.TypeID, bool) {
	switch kind {
	case types.KindFunction:
		abi, err := types.ParseABI(d.ABI)
		if err != nil {
			b.fail(&Error{Kind: ErrBadABI, Entry: entry, TypeID: id, Detail: d.ABI, Err: err})
			return types.NoTypeID, false
		}
		return b.g.AddFn(item, types.FnInfo{ABI: abi, Variadic: d.Variadic}), true
	case types.KindTemplateInstantiation:
		return b.g.AddInstantiation(item, types.NoTypeID, nil), true
	case types.KindTypeParam:
		index, err := safecast.Conv[uint32](d.Index)
		if err != nil {
			b.fail(&Error{Kind: ErrBadIndex, Entry: entry, TypeID: id, Detail: fmt.Sprint(d.Index), Err: err})
			return types.NoTypeID, false
		}
		return b.g.AddTypeParam(item, index), true
	case types.KindArray:
		n, err := safecast.Conv[uint32](d.Len)
		if err != nil {
			b.fail(&Error{Kind: ErrBadLength, Entry: entry, TypeID: id, Field: "len", Detail: fmt.Sprint(d.Len), Err: err})
			return types.NoTypeID, false
		}
		return b.g.Add(types.MakeArray(types.NoTypeID, n), item), true
	default:
		// Elem of pointer, reference and alias-like nodes is bound later.
		return b.g.Add(types.Type{Kind: kind}, item), true
	}
}

// ref resolves a reference key. An empty value is a miss when required.
func (b *builder) ref(owner, field, value string, required bool) (types.TypeID, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			b.fail(&Error{Kind: ErrMissingRef, TypeID: owner, Field: field})
			return types.NoTypeID, false
		}
		return types.NoTypeID, true
	}
	tid, ok := b.ids[value]
	if !ok {
		b.fail(&Error{Kind: ErrUnknownRef, TypeID: owner, Field: field, Detail: value})
		return types.NoTypeID, false
	}
	return tid, true
}

func (b *builder) refs(owner, field string, values []string) ([]types.TypeID, bool) {
	out := make([]types.TypeID, 0, len(values))
	ok := true
	for i, v := range values {
		tid, good := b.ref(owner, fmt.Sprintf("%s[%d]", field, i), v, true)
		ok = ok && good
		out = append(out, tid)
	}
	return out, ok
}

func (b *builder) bind(tid types.TypeID, d *TypeDecl) {
	owner := strings.TrimSpace(d.ID)
	kind := b.g.Kind(tid)
	switch {
	case kind == types.KindComp:
		b.bindComp(tid, owner, d)
	case kind == types.KindFunction:
		params, ok := b.refs(owner, "params", d.Params)
		result, okResult := b.ref(owner, "result", d.Result, false)
		if ok && okResult {
			b.g.SetFnSignature(tid, params, result)
		}
	case kind == types.KindTemplateInstantiation:
		def, okDef := b.ref(owner, "definition", d.Definition, true)
		args, okArgs := b.refs(owner, "args", d.Args)
		if okDef && okArgs {
			b.g.SetInstantiation(tid, def, args)
		}
	case kind == types.KindArray:
		if elem, ok := b.ref(owner, "elem", d.Elem, true); ok {
			b.g.SetElem(tid, elem)
		}
	case kind == types.KindPointer || kind == types.KindReference:
		if inner, ok := b.ref(owner, "inner", d.Inner, true); ok {
			b.g.SetElem(tid, inner)
		}
	case kind.IsAliasLike():
		if target, ok := b.ref(owner, "target", d.Target, true); ok {
			b.g.SetElem(tid, target)
		}
	}
}

func (b *builder) bindComp(tid types.TypeID, owner string, d *TypeDecl) {
	params, okParams := b.refs(owner, "type_params", d.TypeParams)
	fields := make([]types.Field, 0, len(d.Fields))
	ok := okParams
	for i, fd := range d.Fields {
		label := fmt.Sprintf("field[%d]", i)
		hasType := strings.TrimSpace(fd.Type) != ""
		hasBits := len(fd.Bitfields) > 0
		if hasType == hasBits {
			b.fail(&Error{Kind: ErrFieldShape, TypeID: owner, Field: label})
			ok = false
			continue
		}
		if hasType {
			ft, good := b.ref(owner, label+".type", fd.Type, true)
			ok = ok && good
			fields = append(fields, types.DataMember{Name: fd.Name, Type: ft})
			continue
		}
		unit := types.BitfieldUnit{Bitfields: make([]types.Bitfield, 0, len(fd.Bitfields))}
		for j, bf := range fd.Bitfields {
			width, err := safecast.Conv[uint32](bf.Width)
			if err == nil && width == 0 && bf.Name != "" {
				err = errors.New("named bitfield must have a positive width")
			}
			if err != nil {
				b.fail(&Error{Kind: ErrBadWidth, TypeID: owner, Field: fmt.Sprintf("%s.bitfields[%d]", label, j), Err: err})
				ok = false
				continue
			}
			unit.Bitfields = append(unit.Bitfields, types.Bitfield{Name: bf.Name, Width: width})
		}
		fields = append(fields, unit)
	}
	if ok {
		b.g.SetCompFields(tid, fields)
		b.g.SetCompTypeParams(tid, params)
	}
}

// wrapGraphErrors maps structural defects back to declared ids.
func (b *builder) wrapGraphErrors(err error) error {
	var list []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		list = joined.Unwrap()
	} else {
		list = []error{err}
	}
	out := make([]error, 0, len(list))
	for _, e := range list {
		wrapped := &Error{Kind: ErrGraph, Err: e}
		var ge *types.GraphError
		if errors.As(e, &ge) && int(ge.Type) < len(b.back) {
			wrapped.TypeID = b.back[ge.Type]
		}
		out = append(out, wrapped)
	}
	return errors.Join(out...)
}
