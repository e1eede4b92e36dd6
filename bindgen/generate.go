// Package bindgen turns the class model into binding units and hands them to
// a rendering backend.
//
// Pipeline for one generation set:
//
//	classes (sorted) --Synthesize, in parallel--> []*BindingUnit
//	                 --BuildTable--------------> *TableUnit
//	SetUnit --Backend--> types, traits and table streams
//
// Every stream is rendered to memory first; nothing is written unless the
// whole set succeeds.
package bindgen

import (
	"bytes"
	"io"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/enginebind/api"
	"github.com/teranos/enginebind/errors"
	"github.com/teranos/enginebind/graph"
	"github.com/teranos/enginebind/logger"
)

// Streams are the three outputs of a generation set.
type Streams struct {
	Types  io.Writer // type and method definitions
	Traits io.Writer // memory-management, cast and singleton behavior
	Table  io.Writer // method table declaration and its bind routine

	// Docs receives the class reference when Options.Docs is set.
	Docs io.Writer
}

// DocRenderer renders reference documentation for a set.
type DocRenderer interface {
	Render(w io.Writer, set *SetUnit) error
}

// Backend renders a synthesized set.
type Backend interface {
	Language() string
	RenderTypes(w io.Writer, set *SetUnit) error
	RenderTraits(w io.Writer, set *SetUnit) error
	RenderTable(w io.Writer, set *SetUnit) error
}

// Options configures a generation run.
type Options struct {
	Backend Backend
	Package string // target package name

	// TableName is the snake_case method table name; default DefaultTableName.
	TableName string

	// Foundation lists classes bound by another package, imported from FoundationImport.
	Foundation       graph.Set
	FoundationImport string

	Ownership       OwnershipRules
	ExcludedMethods []string // nil means DefaultExcludedMethods

	// Workers bounds parallel synthesis; 0 means GOMAXPROCS.
	Workers int

	// Docs renders Streams.Docs; nil skips documentation.
	Docs DocRenderer

	// SetName labels the run in logs and reports.
	SetName string

	Logger *zap.SugaredLogger
}

func (o Options) withDefaults() (Options, error) {
	if o.Backend == nil {
		return o, errors.New("no rendering backend configured")
	}
	if o.Package == "" {
		return o, errors.New("no target package name configured")
	}
	if o.TableName == "" {
		o.TableName = DefaultTableName
	}
	if o.Workers < 0 {
		return o, errors.Newf("workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if len(o.Foundation) > 0 && o.FoundationImport == "" {
		return o, errors.WithHint(
			errors.New("foundation classes given without an import path"),
			"set output.foundation_package to the import path of the core bindings",
		)
	}
	if o.SetName == "" {
		o.SetName = o.Package
	}
	if o.Logger == nil {
		o.Logger = logger.ComponentLogger("bindgen")
	}
	return o, nil
}

func (o Options) foundation() *Foundation {
	if len(o.Foundation) == 0 {
		return nil
	}
	return &Foundation{ImportPath: o.FoundationImport, Classes: o.Foundation}
}

// GenerateSet synthesizes and renders every class in set. Classes also in
// the foundation are reported as skipped.
func GenerateSet(a *api.Api, set graph.Set, streams Streams, opts Options) (Report, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return Report{}, err
	}
	start := time.Now()
	report := Report{Set: opts.SetName}

	var classes []*api.Class
	for _, name := range set.Sorted() {
		c, ok := a.Class(name)
		if !ok {
			return Report{}, errors.UnknownClass(name, "generation set "+opts.SetName)
		}
		if opts.Foundation.Contains(name) {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		classes = append(classes, c)
	}

	if err := generate(a, classes, streams, opts, &report); err != nil {
		return Report{}, err
	}
	report.Duration = time.Since(start)

	opts.Logger.Infow("Generated binding set",
		logger.FieldSet, opts.SetName,
		logger.FieldCount, report.Classes,
		logger.FieldSlots, report.Slots,
		logger.FieldSkipped, len(report.Skipped),
		logger.FieldDurationMS, report.Duration.Milliseconds())
	return report, nil
}

// GenerateClass generates one class on demand. A class already bound by
// foundation produces no output and is reported as skipped.
func GenerateClass(a *api.Api, name string, foundation graph.Set, streams Streams, opts Options) (Report, error) {
	c, ok := a.Class(name)
	if !ok {
		return Report{}, errors.UnknownClass(name, "class generation request")
	}
	if opts.SetName == "" {
		opts.SetName = name
	}
	if foundation.Contains(name) {
		if opts.Logger == nil {
			opts.Logger = logger.ComponentLogger("bindgen")
		}
		opts.Logger.Debugw("Class already bound by foundation", logger.FieldClass, name)
		return Report{Set: opts.SetName, Skipped: []string{name}}, nil
	}
	opts.Foundation = foundation

	opts, err := opts.withDefaults()
	if err != nil {
		return Report{}, err
	}
	start := time.Now()
	report := Report{Set: opts.SetName}
	if err := generate(a, []*api.Class{c}, streams, opts, &report); err != nil {
		return Report{}, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

// GenerateMethodTable renders only the method table for classes, in the
// given order.
func GenerateMethodTable(w io.Writer, tableName string, a *api.Api, classes []*api.Class, opts Options) error {
	opts.TableName = tableName
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	names, err := NewTableNames(opts.TableName)
	if err != nil {
		return err
	}
	r := NewResolver(a, opts.Ownership, opts.ExcludedMethods)
	table, err := BuildTable(names, a, classes, r)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	set := &SetUnit{Package: opts.Package, Foundation: opts.foundation(), Table: table}
	if err := opts.Backend.RenderTable(&buf, set); err != nil {
		return errors.Wrapf(err, "render table %s", tableName)
	}
	_, err = buf.WriteTo(w)
	return errors.Wrap(err, "write table stream")
}

func generate(a *api.Api, classes []*api.Class, streams Streams, opts Options, report *Report) error {
	names, err := NewTableNames(opts.TableName)
	if err != nil {
		return err
	}
	resolver := NewResolver(a, opts.Ownership, opts.ExcludedMethods)
	foundation := opts.foundation()
	synth := NewSynthesizer(a, resolver, foundation, names)

	units, err := synthesizeAll(synth, classes, opts)
	if err != nil {
		return err
	}
	table, err := BuildTable(names, a, classes, resolver)
	if err != nil {
		return err
	}

	set := &SetUnit{Package: opts.Package, Foundation: foundation, Units: units, Table: table}
	for _, u := range units {
		report.add(u)
	}
	report.Slots = table.SlotCount()

	return render(opts, set, streams)
}

// synthesizeAll runs Synthesize concurrently. Units come back in the order
// of classes regardless of completion order.
func synthesizeAll(s *Synthesizer, classes []*api.Class, opts Options) ([]*BindingUnit, error) {
	units := make([]*BindingUnit, len(classes))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, c := range classes {
		g.Go(func() error {
			u, err := s.Synthesize(c)
			if err != nil {
				return errors.Wrapf(err, "synthesize %s", c.Name)
			}
			opts.Logger.Debugw("Synthesized class",
				logger.FieldClass, c.Name,
				logger.FieldCount, len(u.Methods))
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

type stream struct {
	name string
	w    io.Writer
	fn   func(io.Writer, *SetUnit) error
}

func render(opts Options, set *SetUnit, streams Streams) error {
	b := opts.Backend
	outputs := []stream{
		{"types", streams.Types, b.RenderTypes},
		{"traits", streams.Traits, b.RenderTraits},
		{"table", streams.Table, b.RenderTable},
	}
	if opts.Docs != nil {
		outputs = append(outputs, stream{"docs", streams.Docs, opts.Docs.Render})
	}

	bufs := make([]bytes.Buffer, len(outputs))
	for i, out := range outputs {
		if out.w == nil {
			continue
		}
		if err := out.fn(&bufs[i], set); err != nil {
			return errors.Wrapf(err, "render %s stream (%s)", out.name, b.Language())
		}
	}
	for i, out := range outputs {
		if out.w == nil {
			continue
		}
		n, err := bufs[i].WriteTo(out.w)
		if err != nil {
			return errors.Wrapf(err, "write %s stream", out.name)
		}
		opts.Logger.Debugw("Wrote stream", logger.FieldStream, out.name, logger.FieldCount, n)
	}
	return nil
}
