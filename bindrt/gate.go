package bindrt

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/teranos/enginebind/errors"
)

// State is the lifecycle of a Gate.
type State int32

const (
	Uninitialized State = iota
	Initializing
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Gate guards a method table that is populated exactly once per process.
// The first Init performs the lookups; concurrent callers block until it
// finishes and all of them observe the same outcome. A failed population is
// remembered: later Init calls return the same error without retrying.
type Gate[T any] struct {
	once   sync.Once
	state  atomic.Int32
	engine Engine
	table  T
	err    error
}

// Init populates the table with bind on first use.
func (g *Gate[T]) Init(e Engine, bind func(Engine, *T) error) error {
	g.once.Do(func() {
		g.state.Store(int32(Initializing))
		if e == nil {
			g.fail(errors.Wrap(errors.ErrNotBound, "nil engine"))
			return
		}
		defer func() {
			if r := recover(); r != nil {
				g.fail(errors.Newf("binding method table panicked: %v", r))
			}
		}()

		var t T
		if err := bind(e, &t); err != nil {
			g.fail(err)
			return
		}
		g.table = t
		g.engine = e
		g.state.Store(int32(Ready))
	})
	return g.err
}

func (g *Gate[T]) fail(err error) {
	g.err = err
	g.state.Store(int32(Failed))
}

// State returns the current lifecycle state.
func (g *Gate[T]) State() State {
	return State(g.state.Load())
}

// Table returns the populated table, or ErrNotBound before a successful Init.
func (g *Gate[T]) Table() (*T, error) {
	if g.State() != Ready {
		return nil, errors.Wrapf(errors.ErrNotBound, "state %s", g.State())
	}
	return &g.table, nil
}

// MustTable is Table for generated call sites: using bindings before binding
// the table is a programming error.
func (g *Gate[T]) MustTable() *T {
	t, err := g.Table()
	if err != nil {
		panic(err)
	}
	return t
}

// Engine returns the engine the table was bound against.
func (g *Gate[T]) Engine() Engine {
	if g.State() != Ready {
		panic(errors.Wrapf(errors.ErrNotBound, "state %s", g.State()))
	}
	return g.engine
}

// Resolver performs the lookups of one table population and collects every
// missing slot, so a version mismatch is reported in full rather than one
// slot at a time.
type Resolver struct {
	e       Engine
	missing []error
}

// NewResolver starts a table population against e.
func NewResolver(e Engine) *Resolver {
	return &Resolver{e: e}
}

// Constructor resolves the constructor of class (a lookup name). Constructors
// are only required for instantiable classes.
func (r *Resolver) Constructor(class string, required bool) Constructor {
	ctor := r.e.ClassConstructor(class)
	if ctor == nil && required {
		r.missing = append(r.missing, unresolved(class, "class_constructor"))
	}
	return ctor
}

// Method resolves class.method by the method's wire name.
func (r *Resolver) Method(class, method string) MethodBind {
	mb := r.e.MethodBind(class, method)
	if mb == nil {
		r.missing = append(r.missing, unresolved(class, method))
	}
	return mb
}

// Err returns every unresolved slot as one error, or nil.
func (r *Resolver) Err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.Join(r.missing...),
		"the bindings were generated from a different engine version than the one running",
	)
}

func unresolved(class, what string) error {
	return errors.Wrapf(errors.ErrUnresolved, "%s.%s", class, what)
}
