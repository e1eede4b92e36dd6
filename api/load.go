package api

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/enginebind/errors"
)

// LoadOptions configures Load.
type LoadOptions struct {
	Options

	// VersionConstraint, when set, must be satisfied by the schema's version
	// (e.g. ">= 3.2, < 4.0").
	VersionConstraint string
}

type wireEnvelope struct {
	Version string      `json:"version"`
	Classes []wireClass `json:"classes"`
}

type wireClass struct {
	Name          string           `json:"name"`
	BaseClass     string           `json:"base_class"`
	APIType       string           `json:"api_type"`
	Singleton     bool             `json:"singleton"`
	SingletonName string           `json:"singleton_name"`
	Instanciable  bool             `json:"instanciable"`
	IsReference   bool             `json:"is_reference"`
	Constants     map[string]int64 `json:"constants"`
	Methods       []wireMethod     `json:"methods"`
	Enums         []wireEnum       `json:"enums"`
}

type wireMethod struct {
	Name         string         `json:"name"`
	ReturnType   string         `json:"return_type"`
	IsVirtual    bool           `json:"is_virtual"`
	HasVarargs   bool           `json:"has_varargs"`
	IsConst      bool           `json:"is_const"`
	ReturnsOwned *bool          `json:"returns_owned,omitempty"`
	Arguments    []wireArgument `json:"arguments"`
}

type wireArgument struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	HasDefaultValue bool   `json:"has_default_value"`
	DefaultValue    string `json:"default_value"`
}

type wireEnum struct {
	Name   string           `json:"name"`
	Values map[string]int64 `json:"values"`
}

// LoadFile reads a schema file from disk.
func LoadFile(path string, opts LoadOptions) (*Api, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open schema %s", path)
	}
	defer f.Close()

	a, err := Load(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}
	return a, nil
}

// Load decodes the engine's JSON class catalog. The document is either a bare
// array of classes or an envelope {"version": "...", "classes": [...]}.
// Class names with a leading underscore are exposed under the stripped name
// and remembered for engine lookups.
func Load(r io.Reader, opts LoadOptions) (*Api, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read schema")
	}

	var env wireEnvelope
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return nil, errors.Wrap(errors.ErrSchema, "empty schema document")
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &env.Classes); err != nil {
			return nil, errors.Wrap(err, "failed to decode class list")
		}
	default:
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, errors.Wrap(err, "failed to decode schema envelope")
		}
	}

	if err := checkVersion(env.Version, opts.VersionConstraint); err != nil {
		return nil, err
	}

	var underscored []string
	classes := make([]*Class, 0, len(env.Classes))
	for _, wc := range env.Classes {
		name := wc.Name
		if strings.HasPrefix(name, "_") {
			name = strings.TrimPrefix(name, "_")
			underscored = append(underscored, name)
		}
		classes = append(classes, convertClass(name, wc))
	}

	a, err := New(classes, underscored, opts.Options)
	if err != nil {
		return nil, err
	}
	a.Version = env.Version
	return a, nil
}

func checkVersion(version, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %q", constraint)
	}
	if version == "" {
		return errors.WithHint(
			errors.Wrapf(errors.ErrIncompatibleAPI, "schema has no version but %q is required", constraint),
			"use an enveloped schema with a version field or clear api.version_constraint",
		)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(errors.ErrIncompatibleAPI, "invalid schema version %q: %v", version, err)
	}
	if !c.Check(v) {
		return errors.Wrapf(errors.ErrIncompatibleAPI, "schema version %s does not satisfy %s", version, constraint)
	}
	return nil
}

func convertClass(name string, wc wireClass) *Class {
	c := &Class{
		Name:          name,
		BaseClass:     strings.TrimPrefix(wc.BaseClass, "_"),
		Singleton:     wc.Singleton,
		SingletonName: wc.SingletonName,
		Instantiable:  wc.Instanciable,
		IsReference:   wc.IsReference,
	}

	for _, wm := range wc.Methods {
		m := &Method{
			Name:         wm.Name,
			ReturnType:   wm.ReturnType,
			IsVirtual:    wm.IsVirtual,
			HasVarargs:   wm.HasVarargs,
			IsConst:      wm.IsConst,
			ReturnsOwned: wm.ReturnsOwned,
		}
		for _, wa := range wm.Arguments {
			m.Arguments = append(m.Arguments, Argument{
				Name:       wa.Name,
				Type:       wa.Type,
				HasDefault: wa.HasDefaultValue,
				Default:    wa.DefaultValue,
			})
		}
		c.Methods = append(c.Methods, m)
	}

	for _, we := range wc.Enums {
		e := Enum{Name: we.Name}
		for vname, v := range we.Values {
			e.Values = append(e.Values, EnumValue{Name: vname, Value: v})
		}
		sort.Slice(e.Values, func(i, j int) bool {
			if e.Values[i].Value != e.Values[j].Value {
				return e.Values[i].Value < e.Values[j].Value
			}
			return e.Values[i].Name < e.Values[j].Name
		})
		c.Enums = append(c.Enums, e)
	}
	sort.Slice(c.Enums, func(i, j int) bool { return c.Enums[i].Name < c.Enums[j].Name })

	for cname, v := range wc.Constants {
		c.Constants = append(c.Constants, Constant{Name: cname, Value: v})
	}
	sort.Slice(c.Constants, func(i, j int) bool { return c.Constants[i].Name < c.Constants[j].Name })

	return c
}
