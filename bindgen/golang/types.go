package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/bindgen"
	"github.com/teranos/enginebind/bindgen/util"
	"github.com/teranos/enginebind/errors"
)

// primitives map schema scalars to Go types. Engine ints and floats are 64-bit.
var primitives = map[string]func() *jen.Statement{
	"bool":   jen.Bool,
	"int":    jen.Int64,
	"float":  jen.Float64,
	"String": jen.String,
}

func (r *renderer) classType(ref bindgen.ClassRef) *jen.Statement {
	if ref.Foundation {
		return jen.Qual(r.set.Foundation.ImportPath, ref.TypeName)
	}
	return jen.Id(ref.TypeName)
}

func (r *renderer) fromHandle(ref bindgen.ClassRef) *jen.Statement {
	if ref.Foundation {
		return jen.Qual(r.set.Foundation.ImportPath, ref.TypeName+"FromHandle")
	}
	return jen.Id(ref.TypeName + "FromHandle")
}

func (r *renderer) ref(name string) bindgen.ClassRef {
	return bindgen.ClassRef{
		Name:       name,
		TypeName:   bindgen.TypeName(name),
		Foundation: r.set.Foundation.Contains(name),
	}
}

// goType is the Go type of a resolved binding.
func (r *renderer) goType(t api.TypeRef) (*jen.Statement, error) {
	switch t.Kind {
	case api.KindPrimitive:
		if fn, ok := primitives[t.Name]; ok {
			return fn(), nil
		}
	case api.KindBuiltin:
		return jen.Qual(RuntimePath, t.Name), nil
	case api.KindEnum:
		if t.Owner == "" {
			return jen.Int64(), nil
		}
		owner := r.ref(t.Owner)
		name := owner.TypeName + util.ToPascalCase(t.Name)
		if owner.Foundation {
			return jen.Qual(r.set.Foundation.ImportPath, name), nil
		}
		return jen.Id(name), nil
	case api.KindClass:
		return r.classType(r.ref(t.Name)), nil
	}
	return nil, errors.Newf("no Go type for %s %q", t.Kind, t.Raw)
}

// paramID keeps parameters from shadowing the foundation import inside bodies.
func (r *renderer) paramID(p bindgen.Param) string {
	if r.foundationAlias != "" && p.Name == r.foundationAlias {
		return util.EscapeMarker + p.Name
	}
	return p.Name
}

// argValue converts a parameter to its ABI form.
func (r *renderer) argValue(p bindgen.Param) *jen.Statement {
	id := jen.Id(r.paramID(p))
	switch {
	case p.IsClass():
		return id.Dot("Ptr").Call()
	case p.Type.Kind == api.KindEnum && p.Type.Owner != "":
		return jen.Int64().Call(id)
	default:
		return id
	}
}

// returnValue converts the ABI return value ret to the binding type.
func (r *renderer) returnValue(u *bindgen.BindingUnit, b bindgen.Binding, typ *jen.Statement) *jen.Statement {
	ret := jen.Id("ret")
	switch {
	case b.IsClass():
		ptr := jen.Qual(RuntimePath, "AsPtr").Call(ret)
		var handle *jen.Statement
		switch b.Ownership {
		case bindgen.Owned:
			handle = jen.Qual(RuntimePath, "Own").Call(ptr)
		case bindgen.RefCounted:
			if b.Transfers {
				handle = jen.Qual(RuntimePath, "Adopt").Call(ptr)
			} else {
				handle = jen.Qual(RuntimePath, "Acquire").Call(r.engine(u), ptr)
			}
		default:
			handle = jen.Qual(RuntimePath, "Borrow").Call(ptr)
		}
		return r.fromHandle(r.ref(b.Type.Name)).Call(handle)
	case b.Type.Kind == api.KindEnum && b.Type.Owner != "":
		return typ.Clone().Call(jen.Qual(RuntimePath, "As").Types(jen.Int64()).Call(ret))
	default:
		return jen.Qual(RuntimePath, "As").Types(typ.Clone()).Call(ret)
	}
}

// engine is the bound engine of the unit's table.
func (r *renderer) engine(u *bindgen.BindingUnit) *jen.Statement {
	return jen.Id(u.Table.Var).Dot("Engine").Call()
}

// table reads the populated method table.
func (r *renderer) tableRead(u *bindgen.BindingUnit) jen.Code {
	return jen.Id("tbl").Op(":=").Id(u.Table.Var).Dot("MustTable").Call()
}
