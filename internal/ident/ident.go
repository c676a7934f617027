// Package ident converts raw foreign field names into identifiers the
// generated code can reference.
package ident

import (
	"golang.org/x/text/unicode/norm"
)

// Func maps a raw field name to an accessor identifier.
type Func func(raw string) string

// Raw uses the name verbatim. Names coming from the upstream mangler are
// already valid identifiers.
func Raw(name string) string {
	return name
}

// Rust keywords that need the raw identifier prefix (r#).
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "static": true, "struct": true,
	"trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "try": true, "typeof": true,
	"unsized": true, "virtual": true,
}

// Keywords that cannot be raw identifiers and get a trailing underscore instead.
var rustPathKeywords = map[string]bool{
	"self": true, "Self": true, "super": true, "crate": true, "_": true,
}

// Rust normalizes the name to NFC and escapes Rust keywords.
func Rust(name string) string {
	name = norm.NFC.String(name)
	if rustPathKeywords[name] {
		return name + "_"
	}
	if rustKeywords[name] {
		return "r#" + name
	}
	return name
}

// IsKeyword reports whether name is reserved in Rust.
func IsKeyword(name string) bool {
	return rustKeywords[name] || rustPathKeywords[name]
}
