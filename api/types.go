package api

import (
	"strings"

	"github.com/teranos/enginebind/errors"
)

// TypeKind classifies a schema type string.
type TypeKind int

const (
	KindVoid      TypeKind = iota
	KindPrimitive          // bool, int, float, String
	KindBuiltin            // engine value types copied by value (Vector2, Array, Variant ...)
	KindEnum               // enum.Class::Name, or a global enum when Owner is empty
	KindClass              // a class in the model
)

func (k TypeKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindPrimitive:
		return "primitive"
	case KindBuiltin:
		return "builtin"
	case KindEnum:
		return "enum"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// TypeRef is a parsed schema type string.
type TypeRef struct {
	Raw   string
	Kind  TypeKind
	Name  string // primitive/builtin/class name, or enum name
	Owner string // owning class for class-scoped enums
}

// Primitives are the schema's scalar types.
var Primitives = map[string]bool{
	"bool":   true,
	"int":    true,
	"float":  true,
	"String": true,
}

// Builtins are the engine's value types. They never induce dependency edges.
var Builtins = map[string]bool{
	"Variant":          true,
	"Vector2":          true,
	"Rect2":            true,
	"Vector3":          true,
	"Transform2D":      true,
	"Plane":            true,
	"Quat":             true,
	"AABB":             true,
	"Basis":            true,
	"Transform":        true,
	"Color":            true,
	"NodePath":         true,
	"RID":              true,
	"Dictionary":       true,
	"Array":            true,
	"PoolByteArray":    true,
	"PoolIntArray":     true,
	"PoolRealArray":    true,
	"PoolStringArray":  true,
	"PoolVector2Array": true,
	"PoolVector3Array": true,
	"PoolColorArray":   true,
}

const enumPrefix = "enum."

// ParseType classifies raw against the model. A name that is neither
// primitive, builtin nor enum must be a class of the model; anything else is
// an ErrUnknownClass schema inconsistency.
func (a *Api) ParseType(raw string) (TypeRef, error) {
	ref := TypeRef{Raw: raw, Name: raw}

	switch {
	case raw == "" || raw == "void":
		ref.Kind = KindVoid
	case Primitives[raw]:
		ref.Kind = KindPrimitive
	case Builtins[raw]:
		ref.Kind = KindBuiltin
	case strings.HasPrefix(raw, enumPrefix):
		ref.Kind = KindEnum
		qualified := strings.TrimPrefix(raw, enumPrefix)
		owner, name, scoped := strings.Cut(qualified, "::")
		if !scoped {
			// Global enum (e.g. enum.Error)
			ref.Name = qualified
			return ref, nil
		}
		ref.Name = name
		owner = strings.TrimPrefix(owner, "_")
		if Builtins[owner] {
			// Enums scoped to value types (enum.Variant::Type) are global ints
			return ref, nil
		}
		if _, ok := a.classes[owner]; !ok {
			return TypeRef{}, errors.UnknownClass(owner, "enum type "+raw)
		}
		declaring, ok := a.enumOwner(owner, name)
		if !ok {
			return TypeRef{}, errors.Wrapf(errors.ErrSchema, "enum %s not declared by %s or its ancestors", name, owner)
		}
		ref.Owner = declaring
	default:
		name := strings.TrimPrefix(raw, "_")
		if _, ok := a.classes[name]; !ok {
			return TypeRef{}, errors.UnknownClass(raw, "type reference")
		}
		ref.Kind = KindClass
		ref.Name = name
	}
	return ref, nil
}

// ReferencedClass returns the class a type points at, if any: the class itself
// for class types and the owning class for class-scoped enums.
func (t TypeRef) ReferencedClass() (string, bool) {
	switch t.Kind {
	case KindClass:
		return t.Name, true
	case KindEnum:
		return t.Owner, t.Owner != ""
	default:
		return "", false
	}
}

// enumOwner finds the class in owner's base chain that declares the enum.
func (a *Api) enumOwner(owner, name string) (string, bool) {
	chain, err := a.chain(owner)
	if err != nil {
		return "", false
	}
	for _, c := range chain {
		for _, e := range c.Enums {
			if e.Name == name {
				return c.Name, true
			}
		}
	}
	return "", false
}
