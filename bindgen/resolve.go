package bindgen

import (
	"strconv"
	"strings"

	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/bindgen/util"
	"github.com/teranos/enginebind/errors"
)

// Ownership is the binding-side treatment of one argument or return value.
type Ownership int

const (
	// Primitive values (scalars, engine value types, enums) are copied.
	Primitive Ownership = iota
	// Owned handles were freshly allocated; the caller releases them exactly once.
	Owned
	// Borrowed handles are valid only for the duration of the call chain.
	Borrowed
	// RefCounted handles share ownership through the engine's reference count.
	RefCounted
)

func (o Ownership) String() string {
	switch o {
	case Primitive:
		return "primitive"
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	case RefCounted:
		return "refcounted"
	default:
		return "unknown"
	}
}

// Binding is a resolved argument or return type.
type Binding struct {
	Type      api.TypeRef
	Ownership Ownership

	// Transfers is set on reference-counted returns when the engine hands
	// over a share that is already counted. Otherwise the binding acquires one.
	Transfers bool
}

// IsClass reports whether the binding carries an object handle.
func (b Binding) IsClass() bool { return b.Type.Kind == api.KindClass }

// Param is one resolved method parameter.
type Param struct {
	Name       string // target identifier
	Wire       string
	HasDefault bool
	Default    string
	Binding
}

// Signature is a binding-safe method signature.
type Signature struct {
	Method  *api.Method
	Name    string // exported target identifier
	Slot    string // method table slot
	Params  []Param
	Return  *Binding // nil for void
	Varargs bool
}

// OwnershipRules decides whether a class-typed return is a fresh allocation
// when the schema does not say. Patterns are "Class.method" or "*.method";
// an exact class pattern wins over a wildcard. Metadata holds per-method
// entries from a metadata file keyed by "Class.method".
type OwnershipRules struct {
	Owned    []string
	Borrowed []string
	Metadata map[string]bool
}

// ReturnsOwned reports the configured ownership of class.method and whether
// any rule matched.
func (r OwnershipRules) ReturnsOwned(class, method string) (owned, known bool) {
	exact := class + "." + method
	wildcard := "*." + method

	for _, key := range []string{exact, wildcard} {
		if contains(r.Owned, key) {
			return true, true
		}
		if contains(r.Borrowed, key) {
			return false, true
		}
	}
	if owned, ok := r.Metadata[exact]; ok {
		return owned, true
	}
	return false, false
}

// ValidatePattern checks the shape of an ownership pattern.
func ValidatePattern(p string) error {
	class, method, ok := strings.Cut(p, ".")
	if !ok || class == "" || method == "" || strings.Contains(method, ".") {
		return errors.Newf("ownership pattern %q must be Class.method or *.method", p)
	}
	if strings.Contains(class, "*") && class != "*" {
		return errors.Newf("ownership pattern %q: only a bare * is allowed as class", p)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultExcludedMethods are never exposed: release is provided by the
// memory-management helpers instead.
var DefaultExcludedMethods = []string{"free"}

// Resolver maps schema signatures to binding-safe signatures.
type Resolver struct {
	api      *api.Api
	rules    OwnershipRules
	excluded map[string]bool
}

// NewResolver creates a resolver. A nil excluded list means DefaultExcludedMethods.
func NewResolver(a *api.Api, rules OwnershipRules, excluded []string) *Resolver {
	if excluded == nil {
		excluded = DefaultExcludedMethods
	}
	r := &Resolver{api: a, rules: rules, excluded: make(map[string]bool, len(excluded))}
	for _, name := range excluded {
		r.excluded[name] = true
	}
	return r
}

// Excluded reports whether m stays out of the generated surface and the
// method table. Virtual methods are script callbacks the engine calls, not
// methods it exposes.
func (r *Resolver) Excluded(m *api.Method) bool {
	return m.IsVirtual || r.excluded[m.Name]
}

// Methods returns the non-excluded methods of c in schema order.
func (r *Resolver) Methods(c *api.Class) []*api.Method {
	var out []*api.Method
	for _, m := range c.Methods {
		if !r.Excluded(m) {
			out = append(out, m)
		}
	}
	return out
}

// Resolve produces the binding-safe signature of c.m.
func (r *Resolver) Resolve(c *api.Class, m *api.Method) (Signature, error) {
	sig := Signature{
		Method:  m,
		Name:    util.ToPascalCase(m.Name),
		Slot:    SlotName(c.Name, m.Name),
		Varargs: m.HasVarargs,
	}

	ret, err := r.api.ParseType(m.ReturnType)
	if err != nil {
		return Signature{}, errors.Wrapf(err, "return type of %s.%s", c.Name, m.Name)
	}
	if ret.Kind != api.KindVoid {
		b := r.returnBinding(c, m, ret)
		sig.Return = &b
	}

	seen := make(map[string]bool, len(m.Arguments))
	for i, arg := range m.Arguments {
		t, err := r.api.ParseType(arg.Type)
		if err != nil {
			return Signature{}, errors.Wrapf(err, "argument %s of %s.%s", arg.Name, c.Name, m.Name)
		}
		name := paramName(arg.Name, i)
		if seen[name] {
			return Signature{}, errors.Wrapf(errors.ErrNameCollision,
				"%s.%s: parameter %s appears twice", c.Name, m.Name, name)
		}
		seen[name] = true
		sig.Params = append(sig.Params, Param{
			Name:       name,
			Wire:       arg.Name,
			HasDefault: arg.HasDefault,
			Default:    arg.Default,
			Binding:    r.argBinding(t),
		})
	}
	return sig, nil
}

func (r *Resolver) returnBinding(c *api.Class, m *api.Method, t api.TypeRef) Binding {
	if t.Kind != api.KindClass {
		return Binding{Type: t, Ownership: Primitive}
	}
	owned := r.returnsOwned(c, m)
	target, _ := r.api.Class(t.Name)
	if target.IsRefcounted() {
		return Binding{Type: t, Ownership: RefCounted, Transfers: owned}
	}
	if owned {
		return Binding{Type: t, Ownership: Owned}
	}
	return Binding{Type: t, Ownership: Borrowed}
}

// argBinding: arguments never transfer ownership to the callee.
func (r *Resolver) argBinding(t api.TypeRef) Binding {
	if t.Kind != api.KindClass {
		return Binding{Type: t, Ownership: Primitive}
	}
	target, _ := r.api.Class(t.Name)
	if target.IsRefcounted() {
		return Binding{Type: t, Ownership: RefCounted}
	}
	return Binding{Type: t, Ownership: Borrowed}
}

// returnsOwned applies, in order: the schema's own metadata, configured
// patterns and the metadata file. Without any of them a return is borrowed.
func (r *Resolver) returnsOwned(c *api.Class, m *api.Method) bool {
	if m.ReturnsOwned != nil {
		return *m.ReturnsOwned
	}
	owned, _ := r.rules.ReturnsOwned(c.Name, m.Name)
	return owned
}

// SlotName is the method table slot for class.method.
func SlotName(class, method string) string {
	return class + "__" + util.SafeName(method)
}

// ConstructorSlot is the method table slot of a class constructor.
func ConstructorSlot(class string) string {
	return class + "__class_constructor"
}

func paramName(wire string, i int) string {
	if wire == "" {
		return "arg" + strconv.Itoa(i)
	}
	return util.SafeName(util.ToCamelCase(wire))
}
