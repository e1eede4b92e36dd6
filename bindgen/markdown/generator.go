// Package markdown renders a class reference for a generation set.
package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/teranos/enginebind/bindgen"
)

// Generator implements bindgen.DocRenderer.
type Generator struct{}

// NewGenerator creates a new Markdown generator
func NewGenerator() *Generator {
	return &Generator{}
}

// FileExtension returns "md"
func (g *Generator) FileExtension() string {
	return "md"
}

// Render writes one section per class plus the method table summary.
func (g *Generator) Render(w io.Writer, set *bindgen.SetUnit) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Package `%s`\n\n", set.Package))
	if set.Foundation != nil {
		sb.WriteString(fmt.Sprintf("Extends the foundation bindings in `%s`.\n\n", set.Foundation.ImportPath))
	}

	if len(set.Units) > 0 {
		sb.WriteString("| Class | Base | Memory | Instantiable | Singleton |\n")
		sb.WriteString("|-------|------|--------|--------------|-----------|\n")
		for _, u := range set.Units {
			base := "-"
			if u.Base != nil {
				base = u.Base.Name
			}
			sb.WriteString(fmt.Sprintf("| [%s](#%s) | %s | %s | %s | %s |\n",
				u.Class.Name, anchor(u.Class.Name), base, u.Memory, yesNo(u.Constructor != nil), yesNo(u.Singleton != nil)))
		}
		sb.WriteString("\n")
	}

	for _, u := range set.Units {
		GenerateClass(&sb, u)
	}

	if set.Table != nil {
		sb.WriteString(fmt.Sprintf("## Method table `%s`\n\n", set.Table.Names.Type))
		sb.WriteString(fmt.Sprintf("Bind with `%s(engine)` before using any class. %d slots.\n\n",
			set.Table.Names.Bind, set.Table.SlotCount()))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// GenerateClass writes the section of one class.
func GenerateClass(sb *strings.Builder, u *bindgen.BindingUnit) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", u.Class.Name))

	if u.Base != nil {
		sb.WriteString(fmt.Sprintf("Inherits [%s](#%s).", u.Base.Name, anchor(u.Base.Name)))
	} else {
		sb.WriteString("Root class.")
	}
	switch u.Memory {
	case bindgen.Counted:
		sb.WriteString(" Reference-counted: `Clone` takes a share, `Release` drops one.")
	default:
		sb.WriteString(" Manually managed: call `Free` exactly once.")
	}
	if !u.PointerSafe {
		sb.WriteString(" Not pointer-safe.")
	}
	sb.WriteString("\n\n")

	if u.Constructor != nil {
		sb.WriteString(fmt.Sprintf("- Constructor: `%s()`\n", u.Constructor.Name))
	}
	if u.Singleton != nil {
		sb.WriteString(fmt.Sprintf("- Singleton: `%s()`\n", u.Singleton.Name))
	}
	if u.Upcast != nil {
		sb.WriteString(fmt.Sprintf("- Upcast: `%s()`\n", u.Upcast.Name))
	}
	sb.WriteString(fmt.Sprintf("- Downcast: `%s(from)`\n\n", u.Downcast.Name))

	if len(u.Methods) > 0 {
		sb.WriteString("| Method | Engine name | Returns |\n")
		sb.WriteString("|--------|-------------|---------|\n")
		for _, sig := range u.Methods {
			sb.WriteString(fmt.Sprintf("| `%s` | `%s` | %s |\n", signature(sig), sig.Method.Name, returns(sig)))
		}
		sb.WriteString("\n")
	}

	for _, e := range u.Enums {
		sb.WriteString(fmt.Sprintf("### enum %s\n\n", e.Wire))
		for _, v := range e.Values {
			sb.WriteString(fmt.Sprintf("- `%s` = %d\n", v.Name, v.Value))
		}
		sb.WriteString("\n")
	}

	if len(u.Constants) > 0 {
		sb.WriteString("### Constants\n\n")
		for _, k := range u.Constants {
			sb.WriteString(fmt.Sprintf("- `%s` = %d\n", k.Name, k.Value))
		}
		sb.WriteString("\n")
	}
}

func signature(sig bindgen.Signature) string {
	params := make([]string, 0, len(sig.Params)+1)
	for _, p := range sig.Params {
		if p.HasDefault {
			params = append(params, fmt.Sprintf("%s = %s", p.Name, p.Default))
		} else {
			params = append(params, p.Name)
		}
	}
	if sig.Varargs {
		params = append(params, "...")
	}
	return fmt.Sprintf("%s(%s)", sig.Name, strings.Join(params, ", "))
}

func returns(sig bindgen.Signature) string {
	if sig.Return == nil {
		return "-"
	}
	b := sig.Return
	if b.IsClass() {
		return fmt.Sprintf("%s (%s)", b.Type.Name, b.Ownership)
	}
	return b.Type.Raw
}

// anchor matches the heading IDs GitHub derives.
func anchor(s string) string {
	return strings.ToLower(s)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var _ bindgen.DocRenderer = (*Generator)(nil)
