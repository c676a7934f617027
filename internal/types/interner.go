package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Graph is the arena holding every type node and item of a generation run.
// It is populated once, sealed by Validate, and read-only afterwards.
type Graph struct {
	types       []Type
	items       []ItemInfo
	comps       []CompInfo
	fns         []FnInfo
	insts       []InstInfo
	params      []TypeParamInfo
	byName      map[string]TypeID
	opaqueNames map[string]struct{}
	sealed      bool
}

// NewGraph constructs an empty graph with slot 0 reserved as the invalid sentinel.
func NewGraph() *Graph {
	g := &Graph{
		byName:      make(map[string]TypeID, 64),
		opaqueNames: make(map[string]struct{}),
	}
	g.types = append(g.types, Type{Kind: KindInvalid})
	g.items = append(g.items, ItemInfo{})
	g.comps = append(g.comps, CompInfo{})
	g.fns = append(g.fns, FnInfo{})
	g.insts = append(g.insts, InstInfo{})
	g.params = append(g.params, TypeParamInfo{})
	return g
}

// Add stores a descriptor together with its item facts and returns its TypeID.
// Kinds with side tables must use their dedicated constructors.
func (g *Graph) Add(t Type, item ItemInfo) TypeID {
	switch t.Kind {
	case KindComp, KindFunction, KindTemplateInstantiation, KindTypeParam:
		panic(fmt.Errorf("types: %s must be added through its constructor", t.Kind))
	case KindInvalid:
		panic("types: cannot add an invalid type")
	}
	return g.addRaw(t, item)
}

func (g *Graph) addRaw(t Type, item ItemInfo) TypeID {
	g.mustBeOpen()
	lenTypes, err := safecast.Conv[uint32](len(g.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	g.types = append(g.types, t)
	g.items = append(g.items, item)
	if item.Name != "" {
		if _, dup := g.byName[item.Name]; !dup {
			g.byName[item.Name] = id
		}
	}
	return id
}

// SetElem binds the element/target reference of an array, pointer, reference
// or alias-like node. Loaders use it to resolve forward references.
func (g *Graph) SetElem(id, elem TypeID) {
	g.mustBeOpen()
	t := g.mustLookup(id)
	if !t.Kind.HasElem() {
		panic(fmt.Errorf("types: %s type#%d has no element", t.Kind, id))
	}
	g.types[id].Elem = elem
}

// MarkOpaqueName registers an instantiation name (e.g. "Wrapper<int>") that
// must be treated as opaque.
func (g *Graph) MarkOpaqueName(name string) {
	g.mustBeOpen()
	g.opaqueNames[name] = struct{}{}
}

// OpaqueByName reports whether the name was registered with MarkOpaqueName.
func (g *Graph) OpaqueByName(name string) bool {
	_, ok := g.opaqueNames[name]
	return ok
}

// Len returns the number of slots including the reserved sentinel.
// Valid TypeIDs are 1..Len()-1.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.types)
}

// Lookup returns the descriptor for a TypeID.
func (g *Graph) Lookup(id TypeID) (Type, bool) {
	if g == nil || id == NoTypeID || int(id) >= len(g.types) {
		return Type{}, false
	}
	return g.types[id], true
}

// MustLookup panics when id is invalid.
func (g *Graph) MustLookup(id TypeID) Type {
	return g.mustLookup(id)
}

func (g *Graph) mustLookup(id TypeID) Type {
	tt, ok := g.Lookup(id)
	if !ok {
		panic(fmt.Errorf("types: invalid TypeID %d", id))
	}
	return tt
}

// Kind returns the kind tag of id, or KindInvalid for unknown ids.
func (g *Graph) Kind(id TypeID) Kind {
	tt, _ := g.Lookup(id)
	return tt.Kind
}

// Item returns the item facts for id.
func (g *Graph) Item(id TypeID) (ItemInfo, bool) {
	if g == nil || id == NoTypeID || int(id) >= len(g.items) {
		return ItemInfo{}, false
	}
	return g.items[id], true
}

// Name returns the display (canonical) name of the item.
func (g *Graph) Name(id TypeID) string {
	item, _ := g.Item(id)
	return item.Name
}

// IsWhitelisted reports whether the item is part of the generated output.
func (g *Graph) IsWhitelisted(id TypeID) bool {
	item, ok := g.Item(id)
	return ok && item.Whitelisted
}

// IsOpaque reports whether the item's internals must be hidden.
func (g *Graph) IsOpaque(id TypeID) bool {
	item, ok := g.Item(id)
	return ok && item.Opaque
}

// ByName finds an item by its display name. The first registration wins.
func (g *Graph) ByName(name string) (TypeID, bool) {
	if g == nil {
		return NoTypeID, false
	}
	id, ok := g.byName[name]
	return id, ok
}

// Canonical strips alias-like wrappers and returns the first non-alias node.
// The graph must have been validated; the walk is bounded by the arena size.
func (g *Graph) Canonical(id TypeID) TypeID {
	for range len(g.types) {
		tt, ok := g.Lookup(id)
		if !ok || !tt.Kind.IsAliasLike() {
			return id
		}
		id = tt.Elem
	}
	panic(fmt.Errorf("types: alias chain from type#%d does not terminate", id))
}

// Sealed reports whether Validate has succeeded.
func (g *Graph) Sealed() bool {
	return g != nil && g.sealed
}

func (g *Graph) mustBeOpen() {
	if g.sealed {
		panic("types: graph is sealed")
	}
}

func slotOf(n int, what string) uint32 {
	slot, err := safecast.Conv[uint32](n - 1)
	if err != nil {
		panic(fmt.Errorf("%s overflow: %w", what, err))
	}
	return slot
}
