package types //nolint:revive

import (
	"fmt"
	"slices"
	"strings"
)

// ABI is the calling convention of a function signature.
type ABI uint8

const (
	ABIUnknown ABI = iota
	ABIC
	ABIStdcall
	ABIFastcall
	ABIThiscall
	ABIVectorcall
	ABIAapcs
	ABIWin64
)

var abiNames = [...]string{
	ABIUnknown:    "unknown",
	ABIC:          "C",
	ABIStdcall:    "stdcall",
	ABIFastcall:   "fastcall",
	ABIThiscall:   "thiscall",
	ABIVectorcall: "vectorcall",
	ABIAapcs:      "aapcs",
	ABIWin64:      "win64",
}

func (a ABI) String() string {
	if int(a) < len(abiNames) {
		return abiNames[a]
	}
	return fmt.Sprintf("ABI(%d)", a)
}

// ParseABI maps a convention name ("C", "stdcall", ...) to an ABI.
// The empty string is the unknown ABI.
func ParseABI(s string) (ABI, error) {
	if s == "" {
		return ABIUnknown, nil
	}
	for i, name := range abiNames {
		if strings.EqualFold(name, s) {
			return ABI(i), nil //nolint:gosec // bounded by abiNames
		}
	}
	return ABIUnknown, fmt.Errorf("unknown ABI %q", s)
}

// FnInfo stores metadata for function signature types.
type FnInfo struct {
	Params   []TypeID // Parameter types (in order)
	Result   TypeID   // Return type, NoTypeID for void
	ABI      ABI
	Variadic bool
}

// AddFn allocates a function signature type.
func (g *Graph) AddFn(item ItemInfo, info FnInfo) TypeID {
	info.Params = slices.Clone(info.Params)
	g.fns = append(g.fns, info)
	slot := slotOf(len(g.fns), "fn info")
	return g.addRaw(Type{Kind: KindFunction, Payload: slot}, item)
}

// SetFnSignature replaces parameter and result types of a function signature.
func (g *Graph) SetFnSignature(id TypeID, params []TypeID, result TypeID) {
	g.mustBeOpen()
	info := g.fnInfo(id)
	if info == nil {
		panic(fmt.Errorf("types: type#%d is not a function", id))
	}
	info.Params = slices.Clone(params)
	info.Result = result
}

// FnInfo retrieves function type metadata by TypeID.
func (g *Graph) FnInfo(id TypeID) (*FnInfo, bool) {
	info := g.fnInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (g *Graph) fnInfo(id TypeID) *FnInfo {
	tt, ok := g.Lookup(id)
	if !ok || tt.Kind != KindFunction {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(g.fns) {
		return nil
	}
	return &g.fns[tt.Payload]
}
