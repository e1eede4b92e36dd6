// Package testing holds schema fixtures shared by package tests.
package testing

import (
	"strings"
	"testing"

	"github.com/teranos/enginebind/api"
)

// EngineSchema is a small engine catalog shaped like the real one: a
// universal base that references the reference-counting base, a manually
// managed node hierarchy marked pointer-unsafe, resources, an underscored
// singleton and an internal class that needs a lookup alias.
const EngineSchema = `{
  "version": "3.2.3",
  "classes": [
    {"name": "Object", "base_class": "", "instanciable": true,
     "constants": {"CONNECT_DEFERRED": 1, "CONNECT_PERSIST": 2, "NOTIFICATION_POSTINITIALIZE": 0},
     "enums": [{"name": "ConnectFlags", "values": {"CONNECT_DEFERRED": 1, "CONNECT_PERSIST": 2}}],
     "methods": [
       {"name": "get_class", "return_type": "String", "is_const": true, "arguments": []},
       {"name": "is_class", "return_type": "bool", "is_const": true, "arguments": [{"name": "type", "type": "String"}]},
       {"name": "get_script", "return_type": "Reference", "is_const": true, "arguments": []},
       {"name": "set_script", "return_type": "void", "arguments": [{"name": "script", "type": "Reference"}]},
       {"name": "connect", "return_type": "enum.Error", "arguments": [
         {"name": "signal", "type": "String"},
         {"name": "target", "type": "Object"},
         {"name": "method", "type": "String"},
         {"name": "binds", "type": "Array", "has_default_value": true, "default_value": "[]"},
         {"name": "flags", "type": "int", "has_default_value": true, "default_value": "0"}]},
       {"name": "emit_signal", "return_type": "Variant", "has_varargs": true, "arguments": [{"name": "signal", "type": "String"}]},
       {"name": "_notification", "return_type": "void", "is_virtual": true, "arguments": [{"name": "what", "type": "int"}]},
       {"name": "free", "return_type": "void", "arguments": []}
     ]},
    {"name": "Reference", "base_class": "Object", "instanciable": true, "is_reference": true,
     "methods": [
       {"name": "init_ref", "return_type": "bool", "arguments": []},
       {"name": "reference", "return_type": "bool", "arguments": []},
       {"name": "unreference", "return_type": "bool", "arguments": []}
     ]},
    {"name": "Resource", "base_class": "Reference", "instanciable": true, "is_reference": true,
     "methods": [
       {"name": "duplicate", "return_type": "Resource", "is_const": true, "arguments": [
         {"name": "subresources", "type": "bool", "has_default_value": true, "default_value": "False"}]},
       {"name": "get_path", "return_type": "String", "is_const": true, "arguments": []}
     ]},
    {"name": "Texture", "base_class": "Resource", "instanciable": false, "is_reference": true,
     "enums": [{"name": "Flags", "values": {"FLAG_MIPMAPS": 1, "FLAG_REPEAT": 2, "FLAGS_DEFAULT": 7}}],
     "constants": {"FLAG_MIPMAPS": 1, "FLAG_REPEAT": 2, "FLAGS_DEFAULT": 7},
     "methods": [
       {"name": "get_size", "return_type": "Vector2", "is_const": true, "arguments": []},
       {"name": "set_flags", "return_type": "void", "arguments": [{"name": "flags", "type": "int"}]}
     ]},
    {"name": "Node", "base_class": "Object", "instanciable": true,
     "constants": {"NOTIFICATION_READY": 13},
     "enums": [{"name": "PauseMode", "values": {"PAUSE_MODE_INHERIT": 0, "PAUSE_MODE_STOP": 1, "PAUSE_MODE_PROCESS": 2}}],
     "methods": [
       {"name": "get_name", "return_type": "String", "is_const": true, "arguments": []},
       {"name": "add_child", "return_type": "void", "arguments": [
         {"name": "node", "type": "Node"},
         {"name": "legible_unique_name", "type": "bool", "has_default_value": true, "default_value": "False"}]},
       {"name": "get_child", "return_type": "Node", "is_const": true, "arguments": [{"name": "idx", "type": "int"}]},
       {"name": "set_pause_mode", "return_type": "void", "arguments": [{"name": "mode", "type": "enum.Node::PauseMode"}]},
       {"name": "get_pause_mode", "return_type": "enum.Node::PauseMode", "is_const": true, "arguments": []},
       {"name": "duplicate", "return_type": "Node", "is_const": true, "arguments": [
         {"name": "flags", "type": "int", "has_default_value": true, "default_value": "15"}]},
       {"name": "_ready", "return_type": "void", "is_virtual": true, "arguments": []}
     ]},
    {"name": "Node2D", "base_class": "Node", "instanciable": true,
     "methods": [
       {"name": "get_position", "return_type": "Vector2", "is_const": true, "arguments": []},
       {"name": "set_position", "return_type": "void", "arguments": [{"name": "position", "type": "Vector2"}]}
     ]},
    {"name": "Sprite", "base_class": "Node2D", "instanciable": true,
     "methods": [
       {"name": "set_texture", "return_type": "void", "arguments": [{"name": "texture", "type": "Texture"}]},
       {"name": "get_texture", "return_type": "Texture", "is_const": true, "arguments": []}
     ]},
    {"name": "_Engine", "base_class": "Object", "singleton": true, "singleton_name": "Engine", "instanciable": false,
     "methods": [
       {"name": "get_frames_drawn", "return_type": "int", "arguments": []},
       {"name": "get_main_loop", "return_type": "Object", "is_const": true, "arguments": []}
     ]}
  ]
}`

// LoadEngine loads EngineSchema with the default derived-flag options.
func LoadEngine(t testing.TB) *api.Api {
	t.Helper()
	return Load(t, EngineSchema)
}

// Load decodes schema with Node as the unsafe base.
func Load(t testing.TB, schema string) *api.Api {
	t.Helper()
	a, err := api.Load(strings.NewReader(schema), api.LoadOptions{
		Options: api.Options{UnsafeBases: []string{"Node"}},
	})
	if err != nil {
		t.Fatalf("failed to load schema fixture: %v", err)
	}
	return a
}

// TwoClassSchema is the minimal end-to-end catalog: a non-refcounted root and
// an instantiable node with one primitive-returning method.
const TwoClassSchema = `[
  {"name": "Root", "base_class": ""},
  {"name": "Node", "base_class": "Root", "instanciable": true,
   "methods": [{"name": "get_name", "return_type": "String", "arguments": []}]}
]`
