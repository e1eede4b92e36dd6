package golang

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/teranos/enginebind/bindgen"
)

func (r *renderer) typeDecl(f *jen.File, u *bindgen.BindingUnit) {
	for _, line := range classDoc(u) {
		f.Comment(line)
	}
	var embedded jen.Code
	if u.Base == nil {
		embedded = jen.Qual(RuntimePath, "Handle")
	} else {
		embedded = r.classType(*u.Base)
	}
	f.Type().Id(u.Self.TypeName).Struct(embedded)
	f.Line()

	f.Commentf("%sFromHandle wraps h without changing its ownership.", u.Self.TypeName)
	var value jen.Code
	if u.Base == nil {
		value = jen.Id("h")
	} else {
		value = r.fromHandle(*u.Base).Call(jen.Id("h"))
	}
	f.Func().Id(u.Self.TypeName+"FromHandle").
		Params(jen.Id("h").Qual(RuntimePath, "Handle")).
		Id(u.Self.TypeName).
		Block(jen.Return(jen.Id(u.Self.TypeName).Values(value)))
	f.Line()
}

func classDoc(u *bindgen.BindingUnit) []string {
	c := u.Class
	lines := []string{fmt.Sprintf("%s wraps the engine class %s.", u.Self.TypeName, c.Name)}
	lines = append(lines, "")

	if u.Base != nil {
		lines = append(lines, fmt.Sprintf("Base class: %s.", u.Base.Name))
	} else {
		lines = append(lines, "Root of the class hierarchy.")
	}

	var traits []string
	if c.Singleton {
		traits = append(traits, "singleton")
	}
	if c.Instantiable {
		traits = append(traits, "instantiable")
	} else {
		traits = append(traits, "not instantiable")
	}
	lines = append(lines, "The class is "+strings.Join(traits, " and ")+".")

	switch {
	case u.Memory == bindgen.Counted:
		lines = append(lines, "Reference-counted: every share is dropped with Release.")
	case c.Singleton:
		lines = append(lines, "The engine owns the instance; never Free it.")
	default:
		lines = append(lines, "Manually managed: the owner calls Free exactly once.")
	}
	if !u.PointerSafe {
		lines = append(lines,
			"Not pointer-safe: the engine may free instances behind a Shared handle;",
			"only a Unique handle is known not to be aliased.")
	}
	return lines
}

func (r *renderer) enums(f *jen.File, u *bindgen.BindingUnit) {
	for _, e := range u.Enums {
		f.Commentf("%s is the engine enum %s::%s.", e.Name, u.Class.Name, e.Wire)
		f.Type().Id(e.Name).Int64()
		f.Line()
		if len(e.Values) == 0 {
			continue
		}
		defs := make([]jen.Code, len(e.Values))
		for i, v := range e.Values {
			defs[i] = jen.Id(v.Name).Id(e.Name).Op("=").Lit(int(v.Value))
		}
		f.Const().Defs(defs...)
		f.Line()
	}
}

func (r *renderer) constants(f *jen.File, u *bindgen.BindingUnit) {
	if len(u.Constants) == 0 {
		return
	}
	f.Commentf("Constants of %s.", u.Class.Name)
	defs := make([]jen.Code, len(u.Constants))
	for i, k := range u.Constants {
		defs[i] = jen.Id(k.Name).Op("=").Lit(int(k.Value))
	}
	f.Const().Defs(defs...)
	f.Line()
}

func (r *renderer) constructor(f *jen.File, u *bindgen.BindingUnit) {
	if u.Constructor == nil {
		return
	}
	ctor := jen.Id("tbl").Dot(u.Constructor.Slot)
	name := jen.Lit(u.Class.Name)

	var handle *jen.Statement
	if u.Memory == bindgen.Counted {
		f.Commentf("%s allocates a %s with a reference count of one.", u.Constructor.Name, u.Self.TypeName)
		handle = jen.Qual(RuntimePath, "ConstructRef").Call(r.engine(u), ctor, name)
	} else {
		f.Commentf("%s allocates a %s. The caller owns it and must call Free exactly once.", u.Constructor.Name, u.Self.TypeName)
		handle = jen.Qual(RuntimePath, "ConstructOwned").Call(ctor, name)
	}
	f.Func().Id(u.Constructor.Name).Params().Id(u.Self.TypeName).Block(
		r.tableRead(u),
		jen.Return(jen.Id(u.Self.TypeName+"FromHandle").Call(handle)),
	)
	f.Line()
}

func (r *renderer) upcast(f *jen.File, u *bindgen.BindingUnit) {
	if u.Upcast == nil {
		return
	}
	target := u.Upcast.Target
	f.Commentf("%s returns the %s view of o. Upcasts never fail.", u.Upcast.Name, target.TypeName)
	f.Func().Params(jen.Id("o").Id(u.Self.TypeName)).Id(u.Upcast.Name).Params().Add(r.classType(target)).Block(
		jen.Return(jen.Id("o").Dot(target.TypeName)),
	)
	f.Line()
}

func (r *renderer) method(f *jen.File, u *bindgen.BindingUnit, sig bindgen.Signature) error {
	params := make([]jen.Code, 0, len(sig.Params)+1)
	args := make([]jen.Code, 0, len(sig.Params))
	for _, p := range sig.Params {
		typ, err := r.goType(p.Type)
		if err != nil {
			return err
		}
		params = append(params, jen.Id(r.paramID(p)).Add(typ))
		args = append(args, r.argValue(p))
	}

	slot := jen.Id("tbl").Dot(sig.Slot)
	label := jen.Lit(u.Class.Name + "." + sig.Method.Name)
	callArgs := []jen.Code{slot, label, jen.Id("o").Dot("Ptr").Call()}
	if sig.Varargs {
		params = append(params, jen.Id("varargs").Op("...").Qual(RuntimePath, "Variant"))
		fixed := jen.Index().Qual(RuntimePath, "Variant").Values(args...)
		callArgs = append(callArgs, jen.Append(fixed, jen.Id("varargs").Op("...")).Op("..."))
	} else {
		callArgs = append(callArgs, args...)
	}
	call := jen.Qual(RuntimePath, "Call").Call(callArgs...)

	for _, line := range methodDoc(u, sig) {
		f.Comment(line)
	}
	decl := f.Func().Params(jen.Id("o").Id(u.Self.TypeName)).Id(sig.Name).Params(params...)

	if sig.Return == nil {
		decl.Block(r.tableRead(u), call)
		f.Line()
		return nil
	}
	typ, err := r.goType(sig.Return.Type)
	if err != nil {
		return err
	}
	decl.Add(typ).Block(
		r.tableRead(u),
		jen.Id("ret").Op(":=").Add(call),
		jen.Return(r.returnValue(u, *sig.Return, typ)),
	)
	f.Line()
	return nil
}

func methodDoc(u *bindgen.BindingUnit, sig bindgen.Signature) []string {
	lines := []string{fmt.Sprintf("%s calls %s.%s.", sig.Name, u.Class.Name, sig.Method.Name)}

	var defaults []string
	for _, p := range sig.Params {
		if p.HasDefault {
			defaults = append(defaults, fmt.Sprintf("%s = %s", p.Name, p.Default))
		}
	}
	if len(defaults) > 0 {
		sort.Strings(defaults)
		lines = append(lines, "Engine defaults: "+strings.Join(defaults, ", ")+".")
	}

	if b := sig.Return; b != nil && b.IsClass() {
		switch b.Ownership {
		case bindgen.Owned:
			lines = append(lines, "The caller owns the result and must Free it exactly once.")
		case bindgen.RefCounted:
			lines = append(lines, "The result holds its own share; Release it when done.")
		case bindgen.Borrowed:
			lines = append(lines, "The result is borrowed; do not keep it beyond the current call chain.")
		}
	}
	return lines
}
