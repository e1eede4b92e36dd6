package bindgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/errors"
	bindtest "github.com/teranos/enginebind/internal/testing"
)

var coreTable = TableNames{Wire: "core_method_table", Type: "CoreMethodTable", Var: "coreMethodTable", Bind: "BindCoreMethodTable"}

func synthesize(t *testing.T, a *api.Api, foundation *Foundation, class string) *BindingUnit {
	t.Helper()
	c, ok := a.Class(class)
	require.True(t, ok, class)
	s := NewSynthesizer(a, NewResolver(a, OwnershipRules{}, nil), foundation, coreTable)
	u, err := s.Synthesize(c)
	require.NoError(t, err)
	return u
}

func helperNames(u *BindingUnit) []string {
	var out []string
	for _, h := range u.Lifecycle {
		out = append(out, h.Name)
	}
	return out
}

func TestSynthesizeManualClass(t *testing.T) {
	a := bindtest.LoadEngine(t)
	u := synthesize(t, a, nil, "Node")

	assert.Equal(t, "Node", u.Self.TypeName)
	assert.Equal(t, Manual, u.Memory)
	assert.False(t, u.PointerSafe)

	require.NotNil(t, u.Constructor)
	assert.Equal(t, "NewNode", u.Constructor.Name)
	assert.Equal(t, "Node__class_constructor", u.Constructor.Slot)

	require.NotNil(t, u.Upcast)
	assert.Equal(t, "AsObject", u.Upcast.Name)
	assert.Equal(t, "Object", u.Upcast.Target.Name)
	assert.Equal(t, "CastToNode", u.Downcast.Name)
	assert.Equal(t, []string{"Free"}, helperNames(u))
	assert.Nil(t, u.Singleton)

	var methods []string
	for _, sig := range u.Methods {
		methods = append(methods, sig.Name)
	}
	assert.Equal(t, []string{"GetName", "AddChild", "GetChild", "SetPauseMode", "GetPauseMode", "Duplicate"}, methods)

	require.Len(t, u.Enums, 1)
	assert.Equal(t, "NodePauseMode", u.Enums[0].Name)
	assert.Equal(t, []ValueUnit{
		{Name: "NodePauseModeInherit", Wire: "PAUSE_MODE_INHERIT", Value: 0},
		{Name: "NodePauseModeStop", Wire: "PAUSE_MODE_STOP", Value: 1},
		{Name: "NodePauseModeProcess", Wire: "PAUSE_MODE_PROCESS", Value: 2},
	}, u.Enums[0].Values)

	assert.Equal(t, []ConstantUnit{{Name: "NodeNotificationReady", Wire: "NOTIFICATION_READY", Value: 13}}, u.Constants)
}

func TestSynthesizeRoot(t *testing.T) {
	a := bindtest.LoadEngine(t)
	u := synthesize(t, a, nil, "Object")

	assert.Nil(t, u.Base)
	assert.Nil(t, u.Upcast, "the root has no upcast")
	assert.True(t, u.PointerSafe)
	require.NotNil(t, u.Constructor)

	// Enum members listed again among constants are emitted once.
	var constants []string
	for _, k := range u.Constants {
		constants = append(constants, k.Name)
	}
	assert.Equal(t, []string{"ObjectNotificationPostinitialize"}, constants)
	require.Len(t, u.Enums, 1)
	assert.Equal(t, "ObjectConnectFlagsDeferred", u.Enums[0].Values[0].Name)
}

func TestSynthesizeRefcounted(t *testing.T) {
	a := bindtest.LoadEngine(t)

	ref := synthesize(t, a, nil, "Reference")
	assert.Equal(t, Counted, ref.Memory)
	assert.True(t, ref.PointerSafe)
	assert.Equal(t, []string{"Clone", "Release", "Free"}, helperNames(ref),
		"the top counted class shadows the manual base's Free")

	res := synthesize(t, a, nil, "Resource")
	assert.Equal(t, []string{"Clone", "Release"}, helperNames(res))

	tex := synthesize(t, a, nil, "Texture")
	assert.Nil(t, tex.Constructor, "non-instantiable classes get no constructor")
	require.Len(t, tex.Enums, 1)
	assert.Equal(t, "TextureFlags", tex.Enums[0].Name)
	assert.Equal(t, "TextureFlagsFlagMipmaps", tex.Enums[0].Values[0].Name)
	assert.Empty(t, tex.Constants)
}

func TestSynthesizeSingleton(t *testing.T) {
	a := bindtest.LoadEngine(t)
	u := synthesize(t, a, nil, "Engine")

	require.NotNil(t, u.Singleton)
	assert.Equal(t, "EngineSingleton", u.Singleton.Name)
	assert.Equal(t, "engineSingleton", u.Singleton.Var)
	assert.Equal(t, "Engine", u.Singleton.EngineName)
	assert.Equal(t, "_Engine", u.LookupName, "lookups use the underscore alias")
	assert.Equal(t, "Engine", u.Self.TypeName, "the public name never carries it")
	assert.Nil(t, u.Constructor)
	assert.Empty(t, u.Lifecycle, "the engine owns singletons")
}

func TestSynthesizeFoundationRefs(t *testing.T) {
	a := bindtest.LoadEngine(t)
	foundation := &Foundation{ImportPath: "example.com/game/core", Classes: map[string]bool{"Object": true, "Reference": true}}

	u := synthesize(t, a, foundation, "Sprite")
	assert.False(t, u.Base.Foundation)
	assert.False(t, u.Refs["Texture"].Foundation)

	node := synthesize(t, a, foundation, "Node")
	assert.True(t, node.Base.Foundation)
	assert.True(t, node.Upcast.Target.Foundation)
}

func TestSynthesizeCollisions(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		want   string
	}{
		{
			name: "two methods",
			schema: `[{"name": "Object", "base_class": "", "methods": [
			  {"name": "get_name", "return_type": "String"},
			  {"name": "getName", "return_type": "String"}]}]`,
			want: "GetName",
		},
		{
			name: "lifecycle helper",
			schema: `[{"name": "Object", "base_class": ""},
			  {"name": "Reference", "base_class": "Object", "methods": [{"name": "clone", "return_type": "void"}]}]`,
			want: "Clone",
		},
		{
			name: "upcast",
			schema: `[{"name": "Object", "base_class": ""},
			  {"name": "Node", "base_class": "Object", "methods": [{"name": "as_object", "return_type": "void"}]}]`,
			want: "AsObject",
		},
		{
			name: "embedded base",
			schema: `[{"name": "Object", "base_class": ""},
			  {"name": "Node", "base_class": "Object", "methods": [{"name": "object", "return_type": "void"}]}]`,
			want: "Object",
		},
		{
			name:   "handle method",
			schema: `[{"name": "Object", "base_class": "", "methods": [{"name": "ptr", "return_type": "int"}]}]`,
			want:   "Ptr",
		},
		{
			name: "enum values",
			schema: `[{"name": "Object", "base_class": "", "enums": [
			  {"name": "A", "values": {"X_ONE": 1, "X_TWO": 2}},
			  {"name": "A_", "values": {"Y_ONE": 1, "Y_TWO": 2}}]}]`,
			want: "ObjectA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := bindtest.Load(t, tt.schema)
			var class *api.Class
			for _, c := range a.Classes() {
				if len(c.Methods) > 0 || len(c.Enums) > 0 {
					class = c
				}
			}
			require.NotNil(t, class)

			s := NewSynthesizer(a, NewResolver(a, OwnershipRules{}, nil), nil, coreTable)
			_, err := s.Synthesize(class)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrNameCollision))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSynthesizeIsPure(t *testing.T) {
	a := bindtest.LoadEngine(t)
	first := synthesize(t, a, nil, "Sprite")
	second := synthesize(t, a, nil, "Sprite")
	assert.Equal(t, first, second)
}
