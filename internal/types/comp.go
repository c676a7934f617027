package types

import (
	"fmt"
	"slices"
)

// CompKind distinguishes structs from unions.
type CompKind uint8

const (
	CompStruct CompKind = iota
	CompUnion
)

func (k CompKind) String() string {
	switch k {
	case CompStruct:
		return "struct"
	case CompUnion:
		return "union"
	default:
		return fmt.Sprintf("CompKind(%d)", k)
	}
}

// Field is either a DataMember or a BitfieldUnit.
type Field interface {
	isField()
}

// DataMember is a single named-and-typed member. An empty Name means the
// member is anonymous.
type DataMember struct {
	Name string
	Type TypeID
}

// BitfieldUnit groups bitfields packed into one storage unit.
type BitfieldUnit struct {
	Bitfields []Bitfield
}

// Bitfield is a sub-field of a storage unit. Unnamed bitfields are padding.
type Bitfield struct {
	Name  string
	Width uint32
}

func (DataMember) isField()   {}
func (BitfieldUnit) isField() {}

// CompInfo stores metadata for a record type.
type CompInfo struct {
	Kind       CompKind
	Fields     []Field
	TypeParams []TypeID
}

// AddComp allocates a record type slot and returns its TypeID.
func (g *Graph) AddComp(item ItemInfo, kind CompKind, fields []Field) TypeID {
	g.comps = append(g.comps, CompInfo{Kind: kind, Fields: cloneFields(fields)})
	slot := slotOf(len(g.comps), "comp info")
	return g.addRaw(Type{Kind: KindComp, Payload: slot}, item)
}

// SetCompFields stores the resolved fields for the record.
func (g *Graph) SetCompFields(id TypeID, fields []Field) {
	g.mustBeOpen()
	info := g.compInfo(id)
	if info == nil {
		panic(fmt.Errorf("types: type#%d is not a record", id))
	}
	info.Fields = cloneFields(fields)
}

// SetCompTypeParams records the generic parameters declared by the record.
func (g *Graph) SetCompTypeParams(id TypeID, params []TypeID) {
	g.mustBeOpen()
	info := g.compInfo(id)
	if info == nil {
		panic(fmt.Errorf("types: type#%d is not a record", id))
	}
	info.TypeParams = slices.Clone(params)
}

// CompInfo returns metadata for the provided record TypeID.
func (g *Graph) CompInfo(id TypeID) (*CompInfo, bool) {
	info := g.compInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (g *Graph) compInfo(id TypeID) *CompInfo {
	tt, ok := g.Lookup(id)
	if !ok || tt.Kind != KindComp {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(g.comps) {
		return nil
	}
	return &g.comps[tt.Payload]
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		if unit, ok := f.(BitfieldUnit); ok {
			unit.Bitfields = slices.Clone(unit.Bitfields)
			f = unit
		}
		out[i] = f
	}
	return out
}
