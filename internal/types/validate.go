package types

import (
	"errors"
	"fmt"
	"strings"
)

// GraphErrorKind enumerates structural defects found by Validate.
type GraphErrorKind uint8

const (
	// GraphErrAliasCycle indicates an alias chain that never reaches a non-alias node.
	GraphErrAliasCycle GraphErrorKind = iota + 1
	GraphErrDanglingRef
	GraphErrMissingPayload
)

// GraphError represents a defect in the type graph.
type GraphError struct {
	Kind  GraphErrorKind
	Type  TypeID
	Ref   TypeID   // for GraphErrDanglingRef
	Cycle []TypeID // for GraphErrAliasCycle
	What  string   // which reference was dangling
}

func (e *GraphError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case GraphErrAliasCycle:
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("alias chain does not terminate (cycle: %s)", strings.Join(parts, " -> "))
	case GraphErrDanglingRef:
		return fmt.Sprintf("type#%d: %s refers to unknown type#%d", e.Type, e.What, e.Ref)
	case GraphErrMissingPayload:
		return fmt.Sprintf("type#%d: missing %s metadata", e.Type, e.What)
	default:
		return fmt.Sprintf("graph error kind=%d type#%d", e.Kind, e.Type)
	}
}

// Validate checks reference integrity and alias-chain termination, then seals
// the graph. Resolution code relies on these invariants and never re-checks them.
func (g *Graph) Validate() error {
	if g.sealed {
		return nil
	}
	var errs []error
	for i := 1; i < len(g.types); i++ {
		id := TypeID(i) //nolint:gosec // bounded by arena length
		errs = append(errs, g.checkRefs(id)...)
	}
	if len(errs) == 0 {
		errs = append(errs, g.checkAliasChains()...)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	g.sealed = true
	return nil
}

func (g *Graph) checkRefs(id TypeID) []error {
	var errs []error
	ref := func(what string, target TypeID) {
		if _, ok := g.Lookup(target); !ok {
			errs = append(errs, &GraphError{Kind: GraphErrDanglingRef, Type: id, Ref: target, What: what})
		}
	}
	missing := func(what string) {
		errs = append(errs, &GraphError{Kind: GraphErrMissingPayload, Type: id, What: what})
	}
	tt := g.types[id]
	if tt.Kind.HasElem() {
		ref(tt.Kind.String()+" element", tt.Elem)
	}
	switch tt.Kind {
	case KindComp:
		info, ok := g.CompInfo(id)
		if !ok {
			missing("record")
			break
		}
		for _, f := range info.Fields {
			if dm, ok := f.(DataMember); ok {
				ref("field "+fieldLabel(dm.Name), dm.Type)
			}
		}
		for _, p := range info.TypeParams {
			ref("type parameter", p)
		}
	case KindFunction:
		info, ok := g.FnInfo(id)
		if !ok {
			missing("function")
			break
		}
		for _, p := range info.Params {
			ref("parameter", p)
		}
		if info.Result != NoTypeID {
			ref("result", info.Result)
		}
	case KindTemplateInstantiation:
		info, ok := g.InstInfo(id)
		if !ok {
			missing("instantiation")
			break
		}
		ref("template definition", info.Definition)
		for _, a := range info.Args {
			ref("template argument", a)
		}
	case KindTypeParam:
		if _, ok := g.TypeParamInfo(id); !ok {
			missing("type parameter")
		}
	}
	return errs
}

func fieldLabel(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

// checkAliasChains walks each alias chain once; nodes proven to terminate are
// remembered so the whole pass stays linear.
func (g *Graph) checkAliasChains() []error {
	const (
		unvisited uint8 = iota
		onPath
		done
	)
	state := make([]uint8, len(g.types))
	var errs []error
	for i := 1; i < len(g.types); i++ {
		if state[i] != unvisited {
			continue
		}
		var path []TypeID
		id := TypeID(i) //nolint:gosec // bounded by arena length
		for {
			tt := g.types[id]
			if !tt.Kind.IsAliasLike() || state[id] == done {
				break
			}
			if state[id] == onPath {
				start := 0
				for j, p := range path {
					if p == id {
						start = j
						break
					}
				}
				cycle := append(append([]TypeID(nil), path[start:]...), id)
				errs = append(errs, &GraphError{Kind: GraphErrAliasCycle, Type: id, Cycle: cycle})
				break
			}
			state[id] = onPath
			path = append(path, id)
			id = tt.Elem
		}
		for _, p := range path {
			state[p] = done
		}
		state[i] = done
	}
	return errs
}
