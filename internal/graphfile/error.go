package graphfile

import (
	"fmt"
)

// ErrorKind enumerates problems found while loading a graph description.
type ErrorKind uint8

const (
	// ErrMissingID indicates a [[type]] entry without an id.
	ErrMissingID ErrorKind = iota + 1
	ErrDuplicateID
	ErrUnknownKind
	ErrUnknownRef
	ErrMissingRef
	ErrBadLength
	ErrBadWidth
	ErrBadIndex
	ErrFieldShape
	ErrBadABI
	ErrUnknownKey
	// ErrGraph wraps a structural defect reported by types.Graph.Validate.
	ErrGraph
)

// Error describes one problem in a graph description.
type Error struct {
	Kind   ErrorKind
	Entry  int    // 1-based position of the [[type]] entry, 0 when not tied to one
	TypeID string // declared id of the offending type
	Field  string // offending key, e.g. "elem" or "field[2].type"
	Detail string // offending value
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := e.where()
	switch e.Kind {
	case ErrMissingID:
		return fmt.Sprintf("%s: missing id", where)
	case ErrDuplicateID:
		return fmt.Sprintf("%s: duplicate id %q", where, e.TypeID)
	case ErrUnknownKind:
		return fmt.Sprintf("%s: unknown kind %q", where, e.Detail)
	case ErrUnknownRef:
		return fmt.Sprintf("%s: %s refers to unknown type %q", where, e.Field, e.Detail)
	case ErrMissingRef:
		return fmt.Sprintf("%s: missing %s", where, e.Field)
	case ErrBadLength:
		return fmt.Sprintf("%s: bad array length %s: %v", where, e.Detail, e.Err)
	case ErrBadWidth:
		return fmt.Sprintf("%s: bad bitfield width in %s: %v", where, e.Field, e.Err)
	case ErrBadIndex:
		return fmt.Sprintf("%s: bad type parameter index %s: %v", where, e.Detail, e.Err)
	case ErrFieldShape:
		return fmt.Sprintf("%s: %s must set exactly one of type or bitfields", where, e.Field)
	case ErrBadABI:
		return fmt.Sprintf("%s: %v", where, e.Err)
	case ErrUnknownKey:
		return fmt.Sprintf("unknown key %q", e.Field)
	case ErrGraph:
		return fmt.Sprintf("%s: %v", where, e.Err)
	default:
		return fmt.Sprintf("graph description error kind=%d (%s)", e.Kind, where)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) where() string {
	switch {
	case e.TypeID != "":
		return fmt.Sprintf("type %q", e.TypeID)
	case e.Entry > 0:
		return fmt.Sprintf("type entry %d", e.Entry)
	default:
		return "graph"
	}
}
