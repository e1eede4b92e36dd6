// Package golang renders binding units as Go source using jennifer.
package golang

import (
	"io"
	"path"

	"github.com/dave/jennifer/jen"

	"github.com/teranos/enginebind/bindgen"
	"github.com/teranos/enginebind/errors"
)

// RuntimePath is the import path of the run-time support package.
const RuntimePath = "github.com/teranos/enginebind/bindrt"

// Header is the first line of every generated file.
const Header = "Code generated by enginebind. DO NOT EDIT."

// Backend implements bindgen.Backend for Go.
type Backend struct{}

// New creates a Go backend.
func New() *Backend {
	return &Backend{}
}

// Language returns "go".
func (b *Backend) Language() string {
	return "go"
}

// FileExtension returns "go".
func (b *Backend) FileExtension() string {
	return "go"
}

// renderer carries per-set state shared by the three streams.
type renderer struct {
	set             *bindgen.SetUnit
	foundationAlias string
}

func newRenderer(set *bindgen.SetUnit) *renderer {
	r := &renderer{set: set}
	if set.Foundation != nil {
		r.foundationAlias = path.Base(set.Foundation.ImportPath)
	}
	return r
}

func (r *renderer) newFile() *jen.File {
	f := jen.NewFile(r.set.Package)
	f.HeaderComment(Header)
	f.ImportName(RuntimePath, "bindrt")
	if r.set.Foundation != nil {
		f.ImportName(r.set.Foundation.ImportPath, r.foundationAlias)
	}
	return f
}

func write(w io.Writer, f *jen.File) error {
	return errors.Wrap(f.Render(w), "render go source")
}

// RenderTypes emits handle types, wrappers, upcasts, constructors, enums,
// constants and methods.
func (b *Backend) RenderTypes(w io.Writer, set *bindgen.SetUnit) error {
	r := newRenderer(set)
	f := r.newFile()
	for _, u := range set.Units {
		r.typeDecl(f, u)
		r.enums(f, u)
		r.constants(f, u)
		r.constructor(f, u)
		r.upcast(f, u)
		for _, sig := range u.Methods {
			if err := r.method(f, u, sig); err != nil {
				return errors.Wrapf(err, "%s.%s", u.Class.Name, sig.Method.Name)
			}
		}
	}
	return write(w, f)
}

// RenderTraits emits memory management, downcasts and singleton accessors.
func (b *Backend) RenderTraits(w io.Writer, set *bindgen.SetUnit) error {
	r := newRenderer(set)
	f := r.newFile()
	for _, u := range set.Units {
		r.downcast(f, u)
		r.lifecycle(f, u)
		r.singleton(f, u)
	}
	return write(w, f)
}

// RenderTable emits the method table type, its gate and the bind routine.
func (b *Backend) RenderTable(w io.Writer, set *bindgen.SetUnit) error {
	if set.Table == nil {
		return errors.New("set has no method table")
	}
	r := newRenderer(set)
	f := r.newFile()
	r.table(f, set.Table)
	return write(w, f)
}

var _ bindgen.Backend = (*Backend)(nil)
