// Package am holds the generator configuration ("am" as in "what I am
// configured to do"), loaded by viper from enginebind.toml files and
// ENGINEBIND_* environment variables.
package am

// Config represents the enginebind configuration
type Config struct {
	API       APIConfig       `mapstructure:"api" toml:"api"`
	Ownership OwnershipConfig `mapstructure:"ownership" toml:"ownership"`
	Output    OutputConfig    `mapstructure:"output" toml:"output"`
	Generate  GenerateConfig  `mapstructure:"generate" toml:"generate"`
}

// APIConfig describes how the engine schema is interpreted
type APIConfig struct {
	Schema            string   `mapstructure:"schema" toml:"schema"`                         // Path to the engine's JSON class catalog
	Root              string   `mapstructure:"root" toml:"root"`                             // Universal object base (default: Object)
	RefcountBase      string   `mapstructure:"refcount_base" toml:"refcount_base"`           // Reference-counting base (default: Reference)
	UnsafeBases       []string `mapstructure:"unsafe_bases" toml:"unsafe_bases"`             // Classes whose descendants are not pointer-safe
	ExcludedMethods   []string `mapstructure:"excluded_methods" toml:"excluded_methods"`     // Never exposed (default: ["free"])
	VersionConstraint string   `mapstructure:"version_constraint" toml:"version_constraint"` // semver constraint on the schema version (empty = any)
}

// OwnershipConfig overrides whether class-typed returns are fresh allocations.
// Entries are "Class.method" or "*.method".
type OwnershipConfig struct {
	Owned    []string `mapstructure:"owned" toml:"owned"`
	Borrowed []string `mapstructure:"borrowed" toml:"borrowed"`
	Metadata string   `mapstructure:"metadata" toml:"metadata"` // Per-method metadata file (methods.toml)
}

// OutputConfig configures where and how bindings are written
type OutputConfig struct {
	Dir               string `mapstructure:"dir" toml:"dir"`                               // Output directory (default: bindings)
	Package           string `mapstructure:"package" toml:"package"`                       // Go package name (default: core)
	FoundationPackage string `mapstructure:"foundation_package" toml:"foundation_package"` // Import path of the core bindings (extension mode)
	TableName         string `mapstructure:"table_name" toml:"table_name"`                 // Method table name (default: core_method_table)
	Docs              bool   `mapstructure:"docs" toml:"docs"`                             // Also write a markdown class reference
}

// GenerateConfig tunes the generation run
type GenerateConfig struct {
	Workers int `mapstructure:"workers" toml:"workers"` // Parallel synthesis workers (0 = GOMAXPROCS)
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// DefaultConfigFile is the project config file name searched for upward from the working directory
const DefaultConfigFile = "enginebind.toml"

// EnvPrefix prefixes environment overrides (ENGINEBIND_OUTPUT_DIR)
const EnvPrefix = "ENGINEBIND"
