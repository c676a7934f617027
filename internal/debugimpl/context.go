package debugimpl

import (
	"debuggen/internal/ident"
	"debuggen/internal/types"
)

// Context carries the read-only collaborators every decision needs.
type Context struct {
	graph  *types.Graph
	idents ident.Func
}

// NewContext binds a sealed graph and an identifier converter. A nil
// converter uses names verbatim.
func NewContext(g *types.Graph, idents ident.Func) *Context {
	if g == nil {
		panic("debugimpl: nil graph")
	}
	if !g.Sealed() {
		panic("debugimpl: graph must be validated before resolution")
	}
	if idents == nil {
		idents = ident.Raw
	}
	return &Context{graph: g, idents: idents}
}

// Graph returns the graph decisions are made against.
func (c *Context) Graph() *types.Graph {
	return c.graph
}

func (c *Context) expr(kind ExprKind, name string) Expr {
	return Expr{Kind: kind, Ident: c.idents(name)}
}
