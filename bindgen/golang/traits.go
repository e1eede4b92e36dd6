package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/teranos/enginebind/bindgen"
)

func (r *renderer) downcast(f *jen.File, u *bindgen.BindingUnit) {
	self := u.Self.TypeName
	f.Commentf("%s returns from as a %s when its dynamic type is %s or a descendant.", u.Downcast.Name, self, u.Class.Name)
	f.Comment("A mismatch, including the null object, yields false. The result aliases from.")
	f.Func().Id(u.Downcast.Name).Params(jen.Id("from").Qual(RuntimePath, "Handler")).Params(jen.Id(self), jen.Bool()).Block(
		jen.List(jen.Id("h"), jen.Id("ok")).Op(":=").Qual(RuntimePath, "Cast").Call(r.engine(u), jen.Id("from"), jen.Lit(u.LookupName)),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Id(self).Values(), jen.False()),
		),
		jen.Return(jen.Id(self+"FromHandle").Call(jen.Id("h")), jen.True()),
	)
	f.Line()
}

func (r *renderer) lifecycle(f *jen.File, u *bindgen.BindingUnit) {
	self := u.Self.TypeName
	recv := jen.Id("o").Id(self)
	for _, h := range u.Lifecycle {
		switch h.Kind {
		case bindgen.HelperFree:
			f.Commentf("%s destroys the object. Call it exactly once per object; a second", h.Name)
			f.Comment("call is undefined in the engine and is not guarded against.")
			f.Func().Params(recv.Clone()).Id(h.Name).Params().Block(
				jen.Qual(RuntimePath, "Free").Call(r.engine(u), jen.Id("o")),
			)
		case bindgen.HelperClone:
			f.Commentf("%s takes another share of the object. Every share is released separately.", h.Name)
			f.Func().Params(recv.Clone()).Id(h.Name).Params().Id(self).Block(
				jen.Qual(RuntimePath, "Retain").Call(r.engine(u), jen.Id("o")),
				jen.Return(jen.Id("o")),
			)
		case bindgen.HelperRelease:
			f.Commentf("%s drops this share; the last one destroys the object.", h.Name)
			f.Func().Params(recv.Clone()).Id(h.Name).Params().Block(
				jen.Qual(RuntimePath, "ReleaseRef").Call(r.engine(u), jen.Id("o")),
			)
		case bindgen.HelperFreeShare:
			f.Commentf("%s is Release for reference-counted objects.", h.Name)
			f.Func().Params(recv.Clone()).Id(h.Name).Params().Block(
				jen.Id("o").Dot("Release").Call(),
			)
		}
		f.Line()
	}
}

func (r *renderer) singleton(f *jen.File, u *bindgen.BindingUnit) {
	s := u.Singleton
	if s == nil {
		return
	}
	self := u.Self.TypeName
	f.Var().Id(s.Var).Qual(RuntimePath, "Singleton").Types(jen.Id(self))
	f.Line()
	f.Commentf("%s returns the engine's %s instance. It is looked up once.", s.Name, s.EngineName)
	f.Func().Id(s.Name).Params().Id(self).Block(
		jen.Return(jen.Id(s.Var).Dot("Get").Call(
			jen.Func().Params().Id(self).Block(
				jen.Return(jen.Id(self+"FromHandle").Call(
					jen.Qual(RuntimePath, "Borrow").Call(
						r.engine(u).Dot("Singleton").Call(jen.Lit(s.EngineName)),
					),
				)),
			),
		)),
	)
	f.Line()
}
