package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/enginebind/errors"
)

const sampleSchema = `{
  "version": "3.2.3",
  "classes": [
    {"name": "Object", "base_class": "", "instanciable": true,
     "constants": {"NOTIFICATION_POSTINITIALIZE": 0, "CONNECT_DEFERRED": 1},
     "enums": [{"name": "ConnectFlags", "values": {"CONNECT_DEFERRED": 1, "CONNECT_PERSIST": 2}}],
     "methods": [
       {"name": "get_class", "return_type": "String", "arguments": []},
       {"name": "free", "return_type": "void", "arguments": []}
     ]},
    {"name": "Reference", "base_class": "Object", "instanciable": true, "is_reference": true, "methods": []},
    {"name": "Resource", "base_class": "Reference", "instanciable": true, "is_reference": true,
     "methods": [{"name": "duplicate", "return_type": "Resource",
                  "arguments": [{"name": "subresources", "type": "bool", "has_default_value": true, "default_value": "False"}]}]},
    {"name": "Node", "base_class": "Object", "instanciable": true,
     "enums": [{"name": "PauseMode", "values": {"PAUSE_MODE_INHERIT": 0, "PAUSE_MODE_STOP": 1}}],
     "methods": [{"name": "get_name", "return_type": "String", "arguments": []}]},
    {"name": "Node2D", "base_class": "Node", "instanciable": true,
     "methods": [{"name": "set_pause", "return_type": "void",
                  "arguments": [{"name": "mode", "type": "enum.Node2D::PauseMode"}]}]},
    {"name": "_Engine", "base_class": "Object", "singleton": true, "singleton_name": "Engine", "methods": []}
  ]
}`

func loadSample(t *testing.T, opts LoadOptions) *Api {
	t.Helper()
	if opts.UnsafeBases == nil {
		opts.UnsafeBases = []string{"Node"}
	}
	a, err := Load(strings.NewReader(sampleSchema), opts)
	require.NoError(t, err)
	return a
}

func TestLoad_Envelope(t *testing.T) {
	a := loadSample(t, LoadOptions{})

	assert.Equal(t, "3.2.3", a.Version)
	assert.Equal(t, "Object", a.Root())
	assert.Equal(t, []string{"Engine", "Node", "Node2D", "Object", "Reference", "Resource"}, a.Names())

	obj, ok := a.Class("Object")
	require.True(t, ok)
	assert.True(t, obj.IsRoot())
	assert.Equal(t, []Constant{{"CONNECT_DEFERRED", 1}, {"NOTIFICATION_POSTINITIALIZE", 0}}, obj.Constants)
	require.Len(t, obj.Enums, 1)
	assert.Equal(t, []EnumValue{{"CONNECT_DEFERRED", 1}, {"CONNECT_PERSIST", 2}}, obj.Enums[0].Values)

	res, _ := a.Class("Resource")
	dup, ok := res.Method("duplicate")
	require.True(t, ok)
	require.Len(t, dup.Arguments, 1)
	assert.True(t, dup.Arguments[0].HasDefault)
	assert.Equal(t, "False", dup.Arguments[0].Default)
}

func TestLoad_BareArray(t *testing.T) {
	a, err := Load(strings.NewReader(`[{"name": "Object", "base_class": ""}]`), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "", a.Version)
	assert.Equal(t, 1, a.Len())
}

func TestLoad_Underscored(t *testing.T) {
	a := loadSample(t, LoadOptions{})

	eng, ok := a.Class("Engine")
	require.True(t, ok)
	assert.True(t, a.IsUnderscored("Engine"))
	assert.False(t, a.IsUnderscored("Node"))
	assert.Equal(t, "_Engine", a.LookupName("Engine"))
	assert.Equal(t, "Node", a.LookupName("Node"))
	assert.Equal(t, "Engine", eng.EngineSingletonName())
}

func TestDerivedFlags(t *testing.T) {
	a := loadSample(t, LoadOptions{})

	tests := []struct {
		class       string
		refcounted  bool
		pointerSafe bool
	}{
		{"Object", false, true},
		{"Reference", true, true},
		{"Resource", true, true},
		{"Node", false, false},
		{"Node2D", false, false},
		{"Engine", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			c, ok := a.Class(tt.class)
			require.True(t, ok)
			assert.Equal(t, tt.refcounted, c.IsRefcounted(), "refcounted")
			assert.Equal(t, tt.pointerSafe, c.IsPointerSafe(), "pointer safe")
		})
	}
}

func TestAncestors(t *testing.T) {
	a := loadSample(t, LoadOptions{})

	var names []string
	for _, c := range a.Ancestors("Node2D") {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Node", "Object"}, names)
	assert.Empty(t, a.Ancestors("Object"))
	assert.True(t, a.IsAncestor("Object", "Resource"))
	assert.False(t, a.IsAncestor("Resource", "Object"))
	assert.False(t, a.IsAncestor("Node", "Node"))
}

func TestNew_ClosedWorld(t *testing.T) {
	tests := []struct {
		name     string
		classes  []*Class
		sentinel error
	}{
		{
			name:     "unknown base",
			classes:  []*Class{{Name: "Object"}, {Name: "Node", BaseClass: "Missing"}},
			sentinel: errors.ErrUnknownClass,
		},
		{
			name:     "two roots",
			classes:  []*Class{{Name: "Object"}, {Name: "Other"}},
			sentinel: errors.ErrSchema,
		},
		{
			name:     "duplicate",
			classes:  []*Class{{Name: "Object"}, {Name: "Object"}},
			sentinel: errors.ErrSchema,
		},
		{
			name:     "no root",
			classes:  []*Class{{Name: "A", BaseClass: "B"}, {Name: "B", BaseClass: "A"}},
			sentinel: errors.ErrSchema,
		},
		{
			name:     "cycle beside a root",
			classes:  []*Class{{Name: "Object"}, {Name: "A", BaseClass: "B"}, {Name: "B", BaseClass: "A"}},
			sentinel: errors.ErrSchema,
		},
		{
			name:     "reference flag without base",
			classes:  []*Class{{Name: "Object"}, {Name: "Fake", BaseClass: "Object", IsReference: true}},
			sentinel: errors.ErrSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.classes, nil, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.True(t, errors.IsSchemaError(err))
		})
	}
}

func TestLoad_VersionConstraint(t *testing.T) {
	_, err := Load(strings.NewReader(sampleSchema), LoadOptions{VersionConstraint: ">= 3.2, < 4.0"})
	assert.NoError(t, err)

	_, err = Load(strings.NewReader(sampleSchema), LoadOptions{VersionConstraint: ">= 4.0"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIncompatibleAPI))

	_, err = Load(strings.NewReader(`[{"name": "Object"}]`), LoadOptions{VersionConstraint: ">= 3.0"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIncompatibleAPI))

	_, err = Load(strings.NewReader(sampleSchema), LoadOptions{VersionConstraint: "not a constraint"})
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(strings.NewReader("   "), LoadOptions{})
	assert.True(t, errors.Is(err, errors.ErrSchema))

	_, err = Load(strings.NewReader(`{"classes": [`), LoadOptions{})
	assert.Error(t, err)
}

func TestParseType(t *testing.T) {
	a := loadSample(t, LoadOptions{})

	tests := []struct {
		raw       string
		kind      TypeKind
		name      string
		owner     string
		refsClass string
	}{
		{"void", KindVoid, "void", "", ""},
		{"", KindVoid, "", "", ""},
		{"int", KindPrimitive, "int", "", ""},
		{"String", KindPrimitive, "String", "", ""},
		{"Vector2", KindBuiltin, "Vector2", "", ""},
		{"Variant", KindBuiltin, "Variant", "", ""},
		{"enum.Error", KindEnum, "Error", "", ""},
		{"enum.Variant::Type", KindEnum, "Type", "", ""},
		{"enum.Node::PauseMode", KindEnum, "PauseMode", "Node", "Node"},
		{"enum.Node2D::PauseMode", KindEnum, "PauseMode", "Node", "Node"},
		{"Resource", KindClass, "Resource", "", "Resource"},
		{"_Engine", KindClass, "Engine", "", "Engine"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ref, err := a.ParseType(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ref.Kind)
			assert.Equal(t, tt.name, ref.Name)
			assert.Equal(t, tt.owner, ref.Owner)
			cls, ok := ref.ReferencedClass()
			assert.Equal(t, tt.refsClass != "", ok)
			assert.Equal(t, tt.refsClass, cls)
		})
	}
}

func TestParseType_Unknown(t *testing.T) {
	a := loadSample(t, LoadOptions{})

	_, err := a.ParseType("Texture")
	assert.True(t, errors.Is(err, errors.ErrUnknownClass))

	_, err = a.ParseType("enum.Texture::Flags")
	assert.True(t, errors.Is(err, errors.ErrUnknownClass))

	_, err = a.ParseType("enum.Node::Missing")
	assert.True(t, errors.Is(err, errors.ErrSchema))
}

func TestMarkGenerated_Once(t *testing.T) {
	a := loadSample(t, LoadOptions{})

	require.NoError(t, a.MarkGenerated(func(name string) bool { return name != "Engine" }))
	assert.Len(t, a.Generated(), a.Len()-1)

	eng, _ := a.Class("Engine")
	assert.False(t, eng.IsGenerated)

	assert.Error(t, a.MarkGenerated(func(string) bool { return true }))
	assert.False(t, eng.IsGenerated, "second mark must not mutate")
}
