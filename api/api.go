// Package api is the in-memory model of the engine's class catalog.
//
// An Api is built once per generation run from an immutable schema. The only
// mutation after construction is MarkGenerated, which the partitioning step
// performs exactly once before synthesis begins.
package api

import (
	"sort"

	"github.com/teranos/enginebind/errors"
)

// DefaultRoot is the conventional universal object base.
const DefaultRoot = "Object"

// DefaultRefcountBase is the engine's reference-counting base class.
const DefaultRefcountBase = "Reference"

// Class is one engine class.
type Class struct {
	Name          string
	BaseClass     string // empty for the root
	Singleton     bool
	SingletonName string // engine-side singleton name; defaults to Name
	Instantiable  bool
	IsReference   bool // schema-reported; checked against the derived flag
	Methods       []*Method
	Enums         []Enum
	Constants     []Constant

	// IsGenerated is set by MarkGenerated.
	IsGenerated bool

	refcounted  bool
	pointerSafe bool
}

// IsRefcounted reports whether the class or an ancestor is the reference-counting base.
func (c *Class) IsRefcounted() bool { return c.refcounted }

// IsPointerSafe reports whether a handle may be held across engine calls.
// Reference-counted classes and singletons are always safe; otherwise no
// ancestor (or the class itself) may be one of the configured unsafe bases.
func (c *Class) IsPointerSafe() bool { return c.pointerSafe }

// IsRoot reports whether the class has no base.
func (c *Class) IsRoot() bool { return c.BaseClass == "" }

// Method returns the method with the given wire name.
func (c *Class) Method(name string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// EngineSingletonName is the name the engine registers the singleton under.
func (c *Class) EngineSingletonName() string {
	if c.SingletonName != "" {
		return c.SingletonName
	}
	return c.Name
}

// Method is one exposed native method.
type Method struct {
	Name       string // original wire name
	ReturnType string // schema type string
	Arguments  []Argument
	IsVirtual  bool
	HasVarargs bool
	IsConst    bool

	// ReturnsOwned is explicit per-method ownership metadata from the schema.
	// nil means no metadata; ownership configuration decides.
	ReturnsOwned *bool
}

// Argument is one method parameter.
type Argument struct {
	Name       string
	Type       string
	HasDefault bool
	Default    string
}

// Enum is a named set of integer values scoped to a class.
type Enum struct {
	Name   string
	Values []EnumValue // sorted by value, then name
}

// EnumValue is one member of an Enum.
type EnumValue struct {
	Name  string
	Value int64
}

// Constant is a class-scoped integer constant.
type Constant struct {
	Name  string
	Value int64
}

// Options controls how derived flags are computed.
type Options struct {
	RefcountBase string   // default DefaultRefcountBase
	UnsafeBases  []string // classes whose descendants are not pointer-safe
}

// Api is the whole class catalog.
type Api struct {
	Version string

	classes     map[string]*Class
	names       []string // sorted
	underscored map[string]bool
	root        string
	marked      bool
}

// New builds the model from classes, enforcing the closed-world invariants:
// unique names, every base class resolves, exactly one root, and no
// inheritance cycles. Derived flags are computed here.
func New(classes []*Class, underscored []string, opts Options) (*Api, error) {
	if opts.RefcountBase == "" {
		opts.RefcountBase = DefaultRefcountBase
	}

	a := &Api{
		classes:     make(map[string]*Class, len(classes)),
		underscored: make(map[string]bool, len(underscored)),
	}
	for _, name := range underscored {
		a.underscored[name] = true
	}

	for _, c := range classes {
		if c.Name == "" {
			return nil, errors.Wrap(errors.ErrSchema, "class with empty name")
		}
		if _, dup := a.classes[c.Name]; dup {
			return nil, errors.Wrapf(errors.ErrSchema, "class %s declared twice", c.Name)
		}
		a.classes[c.Name] = c
		a.names = append(a.names, c.Name)
	}
	sort.Strings(a.names)

	for _, name := range a.names {
		c := a.classes[name]
		if c.BaseClass == "" {
			if a.root != "" {
				return nil, errors.Wrapf(errors.ErrSchema, "two root classes: %s and %s", a.root, name)
			}
			a.root = name
			continue
		}
		if _, ok := a.classes[c.BaseClass]; !ok {
			return nil, errors.UnknownClass(c.BaseClass, "base of "+name)
		}
	}
	if a.root == "" && len(a.names) > 0 {
		return nil, errors.Wrap(errors.ErrSchema, "no root class")
	}

	unsafe := make(map[string]bool, len(opts.UnsafeBases))
	for _, name := range opts.UnsafeBases {
		unsafe[name] = true
	}

	for _, name := range a.names {
		c := a.classes[name]
		chain, err := a.chain(name)
		if err != nil {
			return nil, err
		}
		inUnsafe := false
		for _, anc := range chain {
			if anc.Name == opts.RefcountBase {
				c.refcounted = true
			}
			if unsafe[anc.Name] {
				inUnsafe = true
			}
		}
		if c.IsReference && !c.refcounted {
			return nil, errors.Wrapf(errors.ErrSchema,
				"class %s is marked reference-counted but does not inherit %s", name, opts.RefcountBase)
		}
		c.pointerSafe = c.refcounted || c.Singleton || !inUnsafe
	}

	return a, nil
}

// chain returns the class followed by its ancestors up to the root.
func (a *Api) chain(name string) ([]*Class, error) {
	var out []*Class
	seen := make(map[string]bool)
	for name != "" {
		if seen[name] {
			return nil, errors.Wrapf(errors.ErrSchema, "inheritance cycle through %s", name)
		}
		seen[name] = true
		c, ok := a.classes[name]
		if !ok {
			return nil, errors.UnknownClass(name, "inheritance chain")
		}
		out = append(out, c)
		name = c.BaseClass
	}
	return out, nil
}

// Class looks up a class by its public name.
func (a *Api) Class(name string) (*Class, bool) {
	c, ok := a.classes[name]
	return c, ok
}

// Classes returns every class sorted by name.
func (a *Api) Classes() []*Class {
	out := make([]*Class, len(a.names))
	for i, name := range a.names {
		out[i] = a.classes[name]
	}
	return out
}

// Names returns every class name, sorted.
func (a *Api) Names() []string {
	return append([]string(nil), a.names...)
}

// Len returns the number of classes.
func (a *Api) Len() int { return len(a.names) }

// Root returns the name of the class with no base.
func (a *Api) Root() string { return a.root }

// Ancestors returns the base chain of name, nearest first, excluding name itself.
func (a *Api) Ancestors(name string) []*Class {
	chain, err := a.chain(name)
	if err != nil || len(chain) == 0 {
		return nil
	}
	return chain[1:]
}

// IsAncestor reports whether ancestor is a strict ancestor of name.
func (a *Api) IsAncestor(ancestor, name string) bool {
	for _, c := range a.Ancestors(name) {
		if c.Name == ancestor {
			return true
		}
	}
	return false
}

// IsUnderscored reports whether the engine registers name with a leading underscore.
func (a *Api) IsUnderscored(name string) bool {
	return a.underscored[name]
}

// LookupName is the name used against the engine reflection API.
// It differs from the public name only for underscored classes.
func (a *Api) LookupName(name string) string {
	if a.underscored[name] {
		return "_" + name
	}
	return name
}

// MarkGenerated sets IsGenerated on every class according to include.
// It may run once per Api.
func (a *Api) MarkGenerated(include func(name string) bool) error {
	if a.marked {
		return errors.AssertionFailedf("generation set already marked")
	}
	a.marked = true
	for _, name := range a.names {
		a.classes[name].IsGenerated = include(name)
	}
	return nil
}

// Generated returns the classes marked by MarkGenerated, sorted by name.
func (a *Api) Generated() []*Class {
	var out []*Class
	for _, name := range a.names {
		if c := a.classes[name]; c.IsGenerated {
			out = append(out, c)
		}
	}
	return out
}
