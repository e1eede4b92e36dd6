package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DefaultDirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), DefaultFilePermissions))
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Object", cfg.API.Root)
	assert.Equal(t, "Reference", cfg.API.RefcountBase)
	assert.Equal(t, []string{"free"}, cfg.API.ExcludedMethods)
	assert.Equal(t, "bindings", cfg.Output.Dir)
	assert.Equal(t, "core", cfg.Output.Package)
	assert.Equal(t, "core_method_table", cfg.Output.TableName)
	assert.Equal(t, 0, cfg.Generate.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	writeFile(t, path, `
[api]
schema = "engine/api.json"
version_constraint = ">= 3.2, < 4.0"

[ownership]
owned = ["Node.duplicate", "*.instance"]

[output]
dir = "ext"
package = "game"
foundation_package = "example.com/game/core"
table_name = "extension_method_table"

[generate]
workers = 4
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "engine/api.json", cfg.API.Schema)
	assert.Equal(t, "Object", cfg.API.Root, "unset keys keep defaults")
	assert.Equal(t, []string{"Node.duplicate", "*.instance"}, cfg.Ownership.Owned)
	assert.Equal(t, "game", cfg.Output.Package)
	assert.Equal(t, "example.com/game/core", cfg.Output.FoundationPackage)
	assert.Equal(t, 4, cfg.Generate.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadWithViperOverride(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("output.docs", true)
	v.Set("api.excluded_methods", []string{})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Output.Docs)
	assert.Empty(t, cfg.API.ExcludedMethods)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty schema", func(c *Config) { c.API.Schema = "" }, "api.schema"},
		{"empty root", func(c *Config) { c.API.Root = "" }, "api.root"},
		{"negative workers", func(c *Config) { c.Generate.Workers = -1 }, "generate.workers must be >= 0, got -1"},
		{"bad constraint", func(c *Config) { c.API.VersionConstraint = "three" }, "api.version_constraint"},
		{"empty package", func(c *Config) { c.Output.Package = "" }, "output.package"},
		{"empty table", func(c *Config) { c.Output.TableName = "" }, "output.table_name"},
		{"bad owned pattern", func(c *Config) { c.Ownership.Owned = []string{"duplicate"} }, "ownership.owned"},
		{"bad borrowed pattern", func(c *Config) { c.Ownership.Borrowed = []string{"No*de.get"} }, "ownership.borrowed"},
		{"both lists", func(c *Config) {
			c.Ownership.Owned = []string{"Node.get_parent"}
			c.Ownership.Borrowed = []string{"Node.get_parent"}
		}, "both owned and borrowed"},
		{"wildcard ok", func(c *Config) { c.Ownership.Borrowed = []string{"*.get_parent"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTripAndBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)

	cfg := Default()
	cfg.Output.Package = "first"
	require.NoError(t, cfg.Save(path))
	assert.NoFileExists(t, path+".back1")

	for _, pkg := range []string{"second", "third", "fourth", "fifth"} {
		cfg.Output.Package = pkg
		require.NoError(t, cfg.Save(path))
	}

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fifth", loaded.Output.Package)
	assert.Equal(t, cfg.API, loaded.API)

	for i, want := range map[string]string{".back1": "fourth", ".back2": "third", ".back3": "second"} {
		b, err := LoadFromFile(path + i)
		require.NoError(t, err, i)
		assert.Equal(t, want, b.Output.Package, i)
	}
	assert.NoFileExists(t, path+".back4")
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, DefaultDirPermissions))

	assert.Empty(t, FindProjectConfig(deep))

	writeFile(t, filepath.Join(root, "a", DefaultConfigFile), "")
	assert.Equal(t, filepath.Join(root, "a", DefaultConfigFile), FindProjectConfig(deep))
}

func TestMergeTracksSources(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	dir := t.TempDir()
	user := filepath.Join(dir, "user.toml")
	project := filepath.Join(dir, "project.toml")
	writeFile(t, user, "[output]\ndir = \"from-user\"\npackage = \"userpkg\"\n")
	writeFile(t, project, "[output]\ndir = \"from-project\"\n")

	v := viper.New()
	SetDefaults(v)
	mergeConfigFile(v, ConfigFile{Source: SourceUser, Path: user})
	mergeConfigFile(v, ConfigFile{Source: SourceProject, Path: project})
	mergeConfigFile(v, ConfigFile{Source: SourceSystem, Path: filepath.Join(dir, "missing.toml")})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "from-project", cfg.Output.Dir)
	assert.Equal(t, "userpkg", cfg.Output.Package)

	byKey := map[string]SettingInfo{}
	for _, s := range Introspect(v) {
		byKey[s.Key] = s
	}
	assert.Equal(t, SourceProject, byKey["output.dir"].Source)
	assert.Equal(t, project, byKey["output.dir"].SourcePath)
	assert.Equal(t, SourceUser, byKey["output.package"].Source)
	assert.Equal(t, SourceDefault, byKey["api.root"].Source)
}

func TestIntrospectEnvironment(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	t.Setenv("ENGINEBIND_GENERATE_WORKERS", "3")

	v := viper.New()
	SetDefaults(v)

	var found bool
	for _, s := range Introspect(v) {
		if s.Key == "generate.workers" {
			found = true
			assert.Equal(t, SourceEnvironment, s.Source)
			assert.Equal(t, "ENGINEBIND_GENERATE_WORKERS", s.SourcePath)
		}
	}
	assert.True(t, found)
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "methods.toml")
		writeFile(t, path, `
[[method]]
class = "Node"
name = "duplicate"
returns = "owned"

[[method]]
class = "Node"
name = "get_parent"
returns = "borrowed"
`)
		md, err := LoadMetadata(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"Node.duplicate": true, "Node.get_parent": false}, md)

		cfg := Default()
		cfg.Ownership.Metadata = path
		cfg.Ownership.Owned = []string{"*.instance"}
		rules, err := cfg.OwnershipRules()
		require.NoError(t, err)
		assert.Equal(t, md, rules.Metadata)
		assert.Equal(t, []string{"*.instance"}, rules.Owned)
	})

	errCases := map[string]string{
		"unknown key":  "[[method]]\nclass = \"Node\"\nname = \"x\"\nreturns = \"owned\"\nowned = true\n",
		"bad returns":  "[[method]]\nclass = \"Node\"\nname = \"x\"\nreturns = \"mine\"\n",
		"missing name": "[[method]]\nclass = \"Node\"\nreturns = \"owned\"\n",
		"duplicate":    "[[method]]\nclass = \"N\"\nname = \"x\"\nreturns = \"owned\"\n[[method]]\nclass = \"N\"\nname = \"x\"\nreturns = \"owned\"\n",
		"syntax":       "[[method]\n",
	}
	for name, content := range errCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			writeFile(t, path, content)
			_, err := LoadMetadata(path)
			assert.Error(t, err)
		})
	}
}
