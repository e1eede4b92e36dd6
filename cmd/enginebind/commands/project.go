// Package commands implements the enginebind subcommands.
package commands

import (
	"bytes"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/teranos/enginebind/am"
	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/bindgen"
	"github.com/teranos/enginebind/bindgen/golang"
	"github.com/teranos/enginebind/bindgen/markdown"
	"github.com/teranos/enginebind/errors"
	"github.com/teranos/enginebind/graph"
	"github.com/teranos/enginebind/logger"
)

// ConfigPath is set by the root --config flag
var ConfigPath string

// Output file names inside output.dir
const (
	TypesFile  = "types.go"
	TraitsFile = "traits.go"
	TableFile  = "method_table.go"
	DocsFile   = "REFERENCE.md"
)

// loadConfig reads --config when given, else the merged cascade, and validates it
func loadConfig() (*am.Config, error) {
	var (
		cfg *am.Config
		err error
	)
	if ConfigPath != "" {
		cfg, err = am.LoadFromFile(ConfigPath)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// project is one loaded schema with its dependency graph and foundation set
type project struct {
	cfg        *am.Config
	api        *api.Api
	graph      *graph.Graph
	foundation graph.Set
	log        *zap.SugaredLogger
}

func openProject(cfg *am.Config) (*project, error) {
	log := logger.ComponentLogger("enginebind")

	a, err := api.LoadFile(cfg.API.Schema, api.LoadOptions{
		Options: api.Options{
			RefcountBase: cfg.API.RefcountBase,
			UnsafeBases:  cfg.API.UnsafeBases,
		},
		VersionConstraint: cfg.API.VersionConstraint,
	})
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(a)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dependency graph")
	}

	foundation, err := graph.Partition(g, cfg.API.Root, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to partition from %s", cfg.API.Root)
	}

	log.Debugw("Loaded schema",
		logger.FieldFile, cfg.API.Schema,
		logger.FieldVersion, a.Version,
		logger.FieldCount, a.Len(),
		logger.FieldRoot, cfg.API.Root,
		"foundation", len(foundation))

	return &project{cfg: cfg, api: a, graph: g, foundation: foundation, log: log}, nil
}

// extensionSet is every class reachable from roots that the foundation
// does not bind. With no roots it is the whole remainder of the schema.
func (p *project) extensionSet(roots []string) (graph.Set, error) {
	if len(roots) == 0 {
		return p.foundation.Complement(p.api), nil
	}
	set := graph.NewSet()
	for _, root := range roots {
		part, err := graph.Partition(p.graph, root, p.foundation)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to partition from %s", root)
		}
		for name := range part {
			set[name] = true
		}
	}
	return set, nil
}

func (p *project) options(setName string, extension bool) (bindgen.Options, error) {
	rules, err := p.cfg.OwnershipRules()
	if err != nil {
		return bindgen.Options{}, err
	}
	opts := bindgen.Options{
		Backend:         golang.New(),
		Package:         p.cfg.Output.Package,
		TableName:       p.cfg.Output.TableName,
		Ownership:       rules,
		ExcludedMethods: p.cfg.API.ExcludedMethods,
		Workers:         p.cfg.Generate.Workers,
		SetName:         setName,
	}
	if extension {
		opts.Foundation = p.foundation
		opts.FoundationImport = p.cfg.Output.FoundationPackage
	}
	if p.cfg.Output.Docs {
		opts.Docs = markdown.NewGenerator()
	}
	return opts, nil
}

// rendered holds every output file in memory until the whole set succeeds
type rendered struct {
	types, traits, table, docs bytes.Buffer
	docsEnabled                bool
}

func (r *rendered) streams() bindgen.Streams {
	s := bindgen.Streams{Types: &r.types, Traits: &r.traits, Table: &r.table}
	if r.docsEnabled {
		s.Docs = &r.docs
	}
	return s
}

// files maps output file names to their content
func (r *rendered) files() map[string][]byte {
	out := map[string][]byte{
		TypesFile:  r.types.Bytes(),
		TraitsFile: r.traits.Bytes(),
		TableFile:  r.table.Bytes(),
	}
	if r.docsEnabled {
		out[DocsFile] = r.docs.Bytes()
	}
	return out
}

// generateSet renders set and marks it on the model
func (p *project) generateSet(set graph.Set, setName string, extension bool) (*rendered, bindgen.Report, error) {
	opts, err := p.options(setName, extension)
	if err != nil {
		return nil, bindgen.Report{}, err
	}
	if err := p.api.MarkGenerated(set.Contains); err != nil {
		return nil, bindgen.Report{}, err
	}

	out := &rendered{docsEnabled: opts.Docs != nil}
	report, err := bindgen.GenerateSet(p.api, set, out.streams(), opts)
	if err != nil {
		return nil, bindgen.Report{}, err
	}
	return out, report, nil
}

func (p *project) generateClass(name string) (*rendered, bindgen.Report, error) {
	opts, err := p.options(name, true)
	if err != nil {
		return nil, bindgen.Report{}, err
	}
	out := &rendered{docsEnabled: opts.Docs != nil}
	report, err := bindgen.GenerateClass(p.api, name, opts.Foundation, out.streams(), opts)
	if err != nil {
		return nil, bindgen.Report{}, err
	}
	return out, report, nil
}

// writeFiles writes every rendered file into dir
func writeFiles(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, am.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", dir)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, am.DefaultFilePermissions); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		logger.Debugw("Wrote file", logger.FieldFile, path, "bytes", len(content))
	}
	return nil
}
