package bindgen

import (
	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/bindgen/util"
	"github.com/teranos/enginebind/errors"
)

// DefaultTableName names the foundation method table.
const DefaultTableName = "core_method_table"

// NewTableNames derives the table identifiers from its snake_case name.
func NewTableNames(wire string) (TableNames, error) {
	if wire == "" {
		return TableNames{}, errors.New("method table name is empty")
	}
	typ := util.ToPascalCase(wire)
	if typ == "" {
		return TableNames{}, errors.Newf("method table name %q has no identifier characters", wire)
	}
	return TableNames{
		Wire: wire,
		Type: typ,
		Var:  util.ToCamelCase(wire),
		Bind: "Bind" + typ,
	}, nil
}

// BuildTable lays out the method table for classes in the given order. Each
// class gets a constructor slot and one slot per non-excluded method; lookups
// use the engine-side name while slots keep the public one.
func BuildTable(names TableNames, a *api.Api, classes []*api.Class, r *Resolver) (*TableUnit, error) {
	t := &TableUnit{Names: names}
	slots := make(map[string]string)

	claim := func(slot, owner string) error {
		if prev, ok := slots[slot]; ok {
			return errors.Wrapf(errors.ErrNameCollision, "table %s: %s and %s share slot %s", names.Wire, prev, owner, slot)
		}
		slots[slot] = owner
		return nil
	}

	for _, c := range classes {
		if _, ok := a.Class(c.Name); !ok {
			return nil, errors.UnknownClass(c.Name, "method table "+names.Wire)
		}
		tc := TableClass{
			Name:            c.Name,
			LookupName:      a.LookupName(c.Name),
			ConstructorSlot: ConstructorSlot(c.Name),
			Required:        c.Instantiable,
		}
		if err := claim(tc.ConstructorSlot, c.Name+" constructor"); err != nil {
			return nil, err
		}
		for _, m := range r.Methods(c) {
			slot := TableSlot{Slot: SlotName(c.Name, m.Name), Wire: m.Name}
			if err := claim(slot.Slot, c.Name+"."+m.Name); err != nil {
				return nil, err
			}
			tc.Methods = append(tc.Methods, slot)
		}
		t.Classes = append(t.Classes, tc)
	}
	return t, nil
}
