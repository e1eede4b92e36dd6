package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Schema interpretation
	v.SetDefault("api.schema", "api.json")
	v.SetDefault("api.root", "Object")
	v.SetDefault("api.refcount_base", "Reference")
	v.SetDefault("api.unsafe_bases", []string{"Node"})
	v.SetDefault("api.excluded_methods", []string{"free"})
	v.SetDefault("api.version_constraint", "")

	// Ownership overrides
	v.SetDefault("ownership.owned", []string{})
	v.SetDefault("ownership.borrowed", []string{})
	v.SetDefault("ownership.metadata", "")

	// Output
	v.SetDefault("output.dir", "bindings")
	v.SetDefault("output.package", "core")
	v.SetDefault("output.foundation_package", "")
	v.SetDefault("output.table_name", "core_method_table")
	v.SetDefault("output.docs", false)

	// Generation
	v.SetDefault("generate.workers", 0)
}

// Default returns a Config holding only the built-in defaults
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode
		panic(err)
	}
	return cfg
}
