package bindgen

import (
	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/bindgen/util"
	"github.com/teranos/enginebind/errors"
)

// handleMethods are promoted from bindrt.Handle onto every generated type.
var handleMethods = []string{"Ptr", "Access", "IsNull", "RawHandle"}

// Synthesizer builds one BindingUnit per class. Synthesize reads only
// immutable model data, so it may run concurrently for different classes.
type Synthesizer struct {
	api        *api.Api
	resolver   *Resolver
	foundation *Foundation
	table      TableNames
}

// NewSynthesizer creates a synthesizer for classes whose call sites read the
// given table. foundation may be nil.
func NewSynthesizer(a *api.Api, r *Resolver, foundation *Foundation, table TableNames) *Synthesizer {
	return &Synthesizer{api: a, resolver: r, foundation: foundation, table: table}
}

// TypeName is the target type identifier of an engine class.
func TypeName(class string) string {
	return util.ToPascalCase(class)
}

func (s *Synthesizer) ref(name string) ClassRef {
	return ClassRef{Name: name, TypeName: TypeName(name), Foundation: s.foundation.Contains(name)}
}

// Synthesize builds the unit for c.
func (s *Synthesizer) Synthesize(c *api.Class) (*BindingUnit, error) {
	self := s.ref(c.Name)
	u := &BindingUnit{
		Class:       c,
		Self:        self,
		LookupName:  s.api.LookupName(c.Name),
		PointerSafe: c.IsPointerSafe(),
		Downcast:    Downcast{Name: "CastTo" + self.TypeName},
		Table:       s.table,
		Refs:        make(map[string]ClassRef),
	}

	if c.IsRefcounted() {
		u.Memory = Counted
		u.Lifecycle = []Helper{{Name: "Clone", Kind: HelperClone}, {Name: "Release", Kind: HelperRelease}}
		// The manual base's Free would be promoted; shadow it once, at the
		// top of the counted hierarchy.
		if base, ok := s.api.Class(c.BaseClass); ok && !base.IsRefcounted() {
			u.Lifecycle = append(u.Lifecycle, Helper{Name: "Free", Kind: HelperFreeShare})
		}
	} else {
		u.Memory = Manual
		if !c.Singleton {
			u.Lifecycle = []Helper{{Name: "Free", Kind: HelperFree}}
		}
	}

	if !c.IsRoot() {
		if _, ok := s.api.Class(c.BaseClass); !ok {
			return nil, errors.UnknownClass(c.BaseClass, "base of "+c.Name)
		}
		base := s.ref(c.BaseClass)
		u.Base = &base
		u.Upcast = &Upcast{Name: "As" + base.TypeName, Target: base}
		u.Refs[base.Name] = base
	}

	if c.Instantiable {
		u.Constructor = &Constructor{Name: "New" + self.TypeName, Slot: ConstructorSlot(c.Name)}
	}

	if c.Singleton {
		u.Singleton = &SingletonAccessor{
			Name:       self.TypeName + "Singleton",
			Var:        util.ToCamelCase(self.TypeName) + "Singleton",
			EngineName: c.EngineSingletonName(),
		}
	}

	for _, m := range s.resolver.Methods(c) {
		sig, err := s.resolver.Resolve(c, m)
		if err != nil {
			return nil, err
		}
		for _, b := range sig.bindings() {
			if b.IsClass() {
				u.Refs[b.Type.Name] = s.ref(b.Type.Name)
			}
		}
		u.Methods = append(u.Methods, sig)
	}

	enumValues := make(map[string]bool)
	for _, e := range c.Enums {
		eu := EnumUnit{Name: self.TypeName + util.ToPascalCase(e.Name), Wire: e.Name}
		wires := make([]string, len(e.Values))
		for i, v := range e.Values {
			wires[i] = v.Name
		}
		prefix := util.CommonPrefix(wires)
		for _, v := range e.Values {
			enumValues[v.Name] = true
			eu.Values = append(eu.Values, ValueUnit{
				Name:  eu.Name + util.ToPascalCase(v.Name[len(prefix):]),
				Wire:  v.Name,
				Value: v.Value,
			})
		}
		u.Enums = append(u.Enums, eu)
	}

	for _, k := range c.Constants {
		if enumValues[k.Name] {
			continue
		}
		u.Constants = append(u.Constants, ConstantUnit{
			Name:  self.TypeName + util.ToPascalCase(k.Name),
			Wire:  k.Name,
			Value: k.Value,
		})
	}

	if err := checkCollisions(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (sig Signature) bindings() []Binding {
	out := make([]Binding, 0, len(sig.Params)+1)
	if sig.Return != nil {
		out = append(out, *sig.Return)
	}
	for _, p := range sig.Params {
		out = append(out, p.Binding)
	}
	return out
}

// namespace records which original produced each generated identifier.
type namespace struct {
	class  string
	owners map[string]string
}

func (n *namespace) claim(name, owner string) error {
	if prev, taken := n.owners[name]; taken {
		return errors.Wrapf(errors.ErrNameCollision, "%s: %s and %s both generate %s", n.class, prev, owner, name)
	}
	n.owners[name] = owner
	return nil
}

// checkCollisions verifies that method names and package-level identifiers
// of the unit are distinct after casing and escaping.
func checkCollisions(u *BindingUnit) error {
	methods := &namespace{class: u.Class.Name, owners: make(map[string]string)}
	for _, name := range handleMethods {
		if err := methods.claim(name, "handle method "+name); err != nil {
			return err
		}
	}
	if u.Base != nil {
		if err := methods.claim(u.Base.TypeName, "embedded base"); err != nil {
			return err
		}
		if err := methods.claim(u.Upcast.Name, "upcast"); err != nil {
			return err
		}
	} else if err := methods.claim("Handle", "embedded handle"); err != nil {
		return err
	}
	for _, h := range u.Lifecycle {
		if err := methods.claim(h.Name, "lifecycle helper"); err != nil {
			return err
		}
	}
	for _, sig := range u.Methods {
		if err := methods.claim(sig.Name, "method "+sig.Method.Name); err != nil {
			return err
		}
	}

	pkg := &namespace{class: u.Class.Name, owners: make(map[string]string)}
	claims := [][2]string{
		{u.Self.TypeName, "type"},
		{u.Self.TypeName + "FromHandle", "handle wrapper"},
		{u.Downcast.Name, "downcast"},
	}
	if u.Constructor != nil {
		claims = append(claims, [2]string{u.Constructor.Name, "constructor"})
	}
	if u.Singleton != nil {
		claims = append(claims, [2]string{u.Singleton.Name, "singleton accessor"}, [2]string{u.Singleton.Var, "singleton cell"})
	}
	for _, e := range u.Enums {
		claims = append(claims, [2]string{e.Name, "enum " + e.Wire})
		for _, v := range e.Values {
			claims = append(claims, [2]string{v.Name, "enum value " + v.Wire})
		}
	}
	for _, k := range u.Constants {
		claims = append(claims, [2]string{k.Name, "constant " + k.Wire})
	}
	for _, c := range claims {
		if err := pkg.claim(c[0], c[1]); err != nil {
			return err
		}
	}
	return nil
}
