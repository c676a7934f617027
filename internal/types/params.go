package types

import (
	"fmt"
	"slices"
)

// TypeParamInfo stores metadata about a generic type parameter.
type TypeParamInfo struct {
	Index uint32
}

// InstInfo stores metadata for a template instantiation.
type InstInfo struct {
	Definition TypeID
	Args       []TypeID
}

// AddTypeParam allocates a new generic parameter descriptor.
func (g *Graph) AddTypeParam(item ItemInfo, index uint32) TypeID {
	g.params = append(g.params, TypeParamInfo{Index: index})
	slot := slotOf(len(g.params), "type param")
	return g.addRaw(Type{Kind: KindTypeParam, Payload: slot}, item)
}

// TypeParamInfo returns metadata for the provided generic parameter.
func (g *Graph) TypeParamInfo(id TypeID) (*TypeParamInfo, bool) {
	tt, ok := g.Lookup(id)
	if !ok || tt.Kind != KindTypeParam {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(g.params) {
		return nil, false
	}
	info := g.params[tt.Payload]
	return &info, true
}

// AddInstantiation allocates a template instantiation of definition with args.
func (g *Graph) AddInstantiation(item ItemInfo, definition TypeID, args []TypeID) TypeID {
	g.insts = append(g.insts, InstInfo{Definition: definition, Args: slices.Clone(args)})
	slot := slotOf(len(g.insts), "instantiation")
	return g.addRaw(Type{Kind: KindTemplateInstantiation, Payload: slot}, item)
}

// SetInstantiation binds the definition and arguments of an instantiation.
func (g *Graph) SetInstantiation(id, definition TypeID, args []TypeID) {
	g.mustBeOpen()
	info := g.instInfo(id)
	if info == nil {
		panic(fmt.Errorf("types: type#%d is not an instantiation", id))
	}
	info.Definition = definition
	info.Args = slices.Clone(args)
}

// InstInfo returns metadata for the provided instantiation.
func (g *Graph) InstInfo(id TypeID) (*InstInfo, bool) {
	info := g.instInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (g *Graph) instInfo(id TypeID) *InstInfo {
	tt, ok := g.Lookup(id)
	if !ok || tt.Kind != KindTemplateInstantiation {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(g.insts) {
		return nil
	}
	return &g.insts[tt.Payload]
}
