package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/teranos/enginebind/bindgen"
)

func (r *renderer) table(f *jen.File, t *bindgen.TableUnit) {
	n := t.Names

	fields := make([]jen.Code, 0, t.SlotCount())
	for _, c := range t.Classes {
		fields = append(fields, jen.Id(c.ConstructorSlot).Qual(RuntimePath, "Constructor"))
		for _, m := range c.Methods {
			fields = append(fields, jen.Id(m.Slot).Qual(RuntimePath, "MethodBind"))
		}
	}
	f.Commentf("%s holds one resolved engine function per class and method.", n.Type)
	f.Type().Id(n.Type).Struct(fields...)
	f.Line()

	f.Var().Id(n.Var).Qual(RuntimePath, "Gate").Types(jen.Id(n.Type))
	f.Line()

	body := []jen.Code{jen.Id("r").Op(":=").Qual(RuntimePath, "NewResolver").Call(jen.Id("e"))}
	for _, c := range t.Classes {
		body = append(body, jen.Id("t").Dot(c.ConstructorSlot).Op("=").
			Id("r").Dot("Constructor").Call(jen.Lit(c.LookupName), jen.Lit(c.Required)))
		for _, m := range c.Methods {
			body = append(body, jen.Id("t").Dot(m.Slot).Op("=").
				Id("r").Dot("Method").Call(jen.Lit(c.LookupName), jen.Lit(m.Wire)))
		}
	}
	body = append(body, jen.Return(jen.Id("r").Dot("Err").Call()))

	f.Commentf("%s resolves every slot of %s against e. Only the first call", n.Bind, n.Type)
	f.Comment("performs lookups; every call returns that call's result.")
	f.Func().Id(n.Bind).Params(jen.Id("e").Qual(RuntimePath, "Engine")).Error().Block(
		jen.Return(jen.Id(n.Var).Dot("Init").Call(
			jen.Id("e"),
			jen.Func().Params(
				jen.Id("e").Qual(RuntimePath, "Engine"),
				jen.Id("t").Op("*").Id(n.Type),
			).Error().Block(body...),
		)),
	)
}
