// Package util holds naming helpers shared by the synthesizer and backends.
package util

import "strings"

// EscapeMarker is prefixed to identifiers that would collide with a reserved word.
const EscapeMarker = "_"

// reserved are identifiers generated Go code cannot use for parameters or
// table slots: keywords, predeclared identifiers, and the names generated
// method bodies bind locally.
var reserved = map[string]bool{
	// keywords
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,

	// predeclared
	"any": true, "bool": true, "byte": true, "comparable": true, "complex64": true,
	"complex128": true, "error": true, "float32": true, "float64": true, "int": true,
	"int8": true, "int16": true, "int32": true, "int64": true, "rune": true,
	"string": true, "uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true, "true": true, "false": true, "iota": true,
	"nil": true, "append": true, "cap": true, "clear": true, "close": true,
	"complex": true, "copy": true, "delete": true, "imag": true, "len": true,
	"make": true, "max": true, "min": true, "new": true, "panic": true,
	"print": true, "println": true, "real": true, "recover": true,

	// generated body locals and imports
	"o": true, "ret": true, "tbl": true, "varargs": true, "bindrt": true,
}

// IsReserved reports whether name is reserved in generated code.
func IsReserved(name string) bool {
	return reserved[name]
}

// SafeName escapes name when it is reserved. The mapping is injective: names
// that already look like an escaped reserved word ("_type", "__type") are
// escaped again, so no two distinct inputs share an output.
func SafeName(name string) string {
	if reserved[strings.TrimLeft(name, EscapeMarker)] {
		return EscapeMarker + name
	}
	return name
}
