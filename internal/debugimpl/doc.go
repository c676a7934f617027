// Package debugimpl decides how a foreign record type is printed by a
// generated `impl Debug`.
//
// The package works on a sealed types.Graph and never mutates it. Three
// layers build on each other:
//
//   - Resolve decides, for one field type and label, whether a fragment of
//     the format string can be produced at all and which runtime value (if
//     any) it interpolates.
//   - RenderField applies Resolve to a data member, or expands a bitfield
//     storage unit into one fragment per named bitfield.
//   - RenderRecord assembles the full format string for a struct, union or
//     opaque record.
//
// Every function here is pure; a Context can be shared across goroutines.
package debugimpl
