package debugimpl

import (
	"fmt"

	"debuggen/internal/types"
)

// Rule names the branch of the decision procedure that produced an outcome.
type Rule uint8

const (
	RuleInvalid Rule = iota
	// RuleNotWhitelisted: the referenced item is not generated, so whether it
	// implements Debug is unknown.
	RuleNotWhitelisted
	// RuleOpaqueItem: the item hides its internals.
	RuleOpaqueItem
	// RuleDirect: the value prints through its own Debug impl.
	RuleDirect
	RuleOpaqueInstantiation
	RuleGeneric
	RuleGenericArray
	RuleSmallArray
	RuleLargeArray
	RuleFunctionPointer
	RulePointer
	RuleOpaqueKind
)

var ruleNames = [...]string{
	RuleInvalid:             "invalid",
	RuleNotWhitelisted:      "not-whitelisted",
	RuleOpaqueItem:          "opaque-item",
	RuleDirect:              "direct",
	RuleOpaqueInstantiation: "opaque-instantiation",
	RuleGeneric:             "generic",
	RuleGenericArray:        "generic-array",
	RuleSmallArray:          "small-array",
	RuleLargeArray:          "large-array",
	RuleFunctionPointer:     "function-pointer",
	RulePointer:             "pointer",
	RuleOpaqueKind:          "opaque-kind",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", r)
}

// Omits reports whether the rule drops the field from the output.
func (r Rule) Omits() bool {
	switch r {
	case RuleNotWhitelisted, RuleOpaqueItem, RuleOpaqueKind:
		return true
	default:
		return false
	}
}

// Decision is the outcome of resolving one field type.
type Decision struct {
	Rule     Rule
	Fragment Fragment
	// OK is false when the field must be omitted entirely.
	OK bool
	// Via lists the alias-like nodes followed before Target was reached.
	Via    []types.TypeID
	Target types.TypeID
}

// UnhandledKindError is raised (via panic) when a node carries a kind the
// decision procedure does not know. It signals a programming defect.
type UnhandledKindError struct {
	Type types.TypeID
	Kind types.Kind
}

func (e *UnhandledKindError) Error() string {
	return fmt.Sprintf("debugimpl: unhandled type kind %s (type#%d)", e.Kind, e.Type)
}

// Resolve decides how the field labelled label, whose type is id, is printed.
// It returns false when the field must be left out of the output, label included.
func Resolve(ctx *Context, id types.TypeID, label string) (Fragment, bool) {
	d := Explain(ctx, id, label)
	return d.Fragment, d.OK
}

// Explain is Resolve with the reasoning attached.
func Explain(ctx *Context, id types.TypeID, label string) Decision {
	var via []types.TypeID
	for {
		d, next, follow := ctx.decide(id, label)
		if !follow {
			d.Via = via
			d.Target = id
			return d
		}
		// Aliases are transparent; the chain is finite on a validated graph.
		via = append(via, id)
		id = next
	}
}

// decide applies the decision procedure to a single node. When the node is
// alias-like it returns follow=true and the target to continue with.
func (c *Context) decide(id types.TypeID, label string) (d Decision, next types.TypeID, follow bool) {
	g := c.graph
	if !g.IsWhitelisted(id) {
		return omit(RuleNotWhitelisted), types.NoTypeID, false
	}
	if g.IsOpaque(id) {
		return omit(RuleOpaqueItem), types.NoTypeID, false
	}
	tt, ok := g.Lookup(id)
	if !ok {
		panic(&UnhandledKindError{Type: id, Kind: types.KindInvalid})
	}

	switch tt.Kind {
	case types.KindVoid,
		types.KindNullPtr,
		types.KindInt,
		types.KindFloat,
		types.KindComplex,
		types.KindFunction,
		types.KindEnum,
		types.KindReference,
		types.KindBlockPointer,
		types.KindUnresolvedRef,
		types.KindObjCInterface,
		types.KindObjCID,
		types.KindObjCSel,
		types.KindComp:
		return c.direct(RuleDirect, label), types.NoTypeID, false

	case types.KindTemplateInstantiation:
		if instantiationIsOpaque(g, id) {
			return literal(RuleOpaqueInstantiation, label, "opaque"), types.NoTypeID, false
		}
		return c.direct(RuleDirect, label), types.NoTypeID, false

	case types.KindTypeParam:
		// Type parameters carry no Debug bound.
		return literal(RuleGeneric, label, "Non-debuggable generic"), types.NoTypeID, false

	case types.KindArray:
		switch {
		case hasTypeParamInArray(g, id):
			return literal(RuleGenericArray, label, fmt.Sprintf("Array with length %d", tt.Count)), types.NoTypeID, false
		case tt.Count <= ArrayDeriveLimit:
			return c.direct(RuleSmallArray, label), types.NoTypeID, false
		default:
			return Decision{
				Rule: RuleLargeArray,
				OK:   true,
				Fragment: Fragment{
					Format: escapeFormat(label) + ": [" + displayPlaceholder + "]",
					Args:   []Expr{c.expr(ExprJoinedArray, label)},
				},
			}, types.NoTypeID, false
		}

	case types.KindResolvedRef, types.KindTemplateAlias, types.KindAlias:
		return Decision{}, tt.Elem, true

	case types.KindPointer:
		inner := g.Canonical(tt.Elem)
		if g.Kind(inner) == types.KindFunction && !fnCanTriviallyRender(g, inner) {
			return literal(RuleFunctionPointer, label, "FunctionPointer"), types.NoTypeID, false
		}
		return c.direct(RulePointer, label), types.NoTypeID, false

	case types.KindOpaque:
		return omit(RuleOpaqueKind), types.NoTypeID, false

	case types.KindInvalid:
		panic(&UnhandledKindError{Type: id, Kind: tt.Kind})
	default:
		panic(&UnhandledKindError{Type: id, Kind: tt.Kind})
	}
}

func omit(rule Rule) Decision {
	return Decision{Rule: rule}
}

// direct delegates to the value's own Debug impl.
func (c *Context) direct(rule Rule, label string) Decision {
	return Decision{
		Rule: rule,
		OK:   true,
		Fragment: Fragment{
			Format: escapeFormat(label) + ": " + debugPlaceholder,
			Args:   []Expr{c.expr(ExprField, label)},
		},
	}
}

// literal prints a fixed marker instead of the value.
func literal(rule Rule, label, text string) Decision {
	return Decision{
		Rule:     rule,
		OK:       true,
		Fragment: Fragment{Format: escapeFormat(label) + ": " + escapeFormat(text)},
	}
}
