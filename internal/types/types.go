package types

import "fmt"

// TypeID uniquely identifies a type (and the item wrapping it) inside a Graph.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of foreign types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindNullPtr
	KindInt
	KindFloat
	KindComplex
	KindFunction
	KindEnum
	KindReference
	KindBlockPointer
	KindUnresolvedRef
	KindObjCInterface
	KindObjCID
	KindObjCSel
	KindComp
	KindTemplateInstantiation
	KindTypeParam
	KindArray
	KindResolvedRef
	KindTemplateAlias
	KindAlias
	KindPointer
	KindOpaque

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:               "invalid",
	KindVoid:                  "void",
	KindNullPtr:               "nullptr",
	KindInt:                   "int",
	KindFloat:                 "float",
	KindComplex:               "complex",
	KindFunction:              "function",
	KindEnum:                  "enum",
	KindReference:             "reference",
	KindBlockPointer:          "block_pointer",
	KindUnresolvedRef:         "unresolved",
	KindObjCInterface:         "objc_interface",
	KindObjCID:                "objc_id",
	KindObjCSel:               "objc_sel",
	KindComp:                  "comp",
	KindTemplateInstantiation: "instantiation",
	KindTypeParam:             "type_param",
	KindArray:                 "array",
	KindResolvedRef:           "resolved_ref",
	KindTemplateAlias:         "template_alias",
	KindAlias:                 "alias",
	KindPointer:               "pointer",
	KindOpaque:                "opaque",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Kinds returns every valid kind in declaration order. KindInvalid is excluded.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps a kind name back to its Kind. Comp kinds are parsed by
// the caller since "struct" and "union" share KindComp.
func ParseKind(s string) (Kind, error) {
	for k := KindInvalid + 1; k < kindCount; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown type kind %q", s)
}

// IsAliasLike reports whether the kind is transparently equivalent to its target.
func (k Kind) IsAliasLike() bool {
	switch k {
	case KindResolvedRef, KindTemplateAlias, KindAlias:
		return true
	default:
		return false
	}
}

// HasElem reports whether Type.Elem carries a reference for this kind.
func (k Kind) HasElem() bool {
	switch k {
	case KindArray, KindPointer, KindReference, KindResolvedRef, KindTemplateAlias, KindAlias:
		return true
	default:
		return false
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // array element, pointer/reference pointee, alias target
	Count   uint32 // array length
	Payload uint32 // slot in the kind's side table (comp, fn, instantiation, type param)
}

// ItemInfo carries the facts computed upstream for an item.
type ItemInfo struct {
	Name        string
	Whitelisted bool
	Opaque      bool
}

// Descriptor helpers ---------------------------------------------------------

// MakeArray describes a fixed-size array of elem.
func MakeArray(elem TypeID, length uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: length}
}

// MakePointer describes a raw pointer.
func MakePointer(inner TypeID) Type {
	return Type{Kind: KindPointer, Elem: inner}
}

// MakeReference describes a C++ reference.
func MakeReference(inner TypeID) Type {
	return Type{Kind: KindReference, Elem: inner}
}

// MakeAlias describes a typedef.
func MakeAlias(target TypeID) Type {
	return Type{Kind: KindAlias, Elem: target}
}

// MakeResolvedRef describes a reference to an already resolved type.
func MakeResolvedRef(target TypeID) Type {
	return Type{Kind: KindResolvedRef, Elem: target}
}

// MakeTemplateAlias describes a `using X<T> = ...` alias.
func MakeTemplateAlias(target TypeID) Type {
	return Type{Kind: KindTemplateAlias, Elem: target}
}

// MakeSimple describes a kind without payload (numeric, void, opaque blobs, ...).
func MakeSimple(kind Kind) Type {
	return Type{Kind: kind}
}
