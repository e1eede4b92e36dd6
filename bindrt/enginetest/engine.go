// Package enginetest provides an in-memory Engine for exercising generated
// bindings without a running engine.
package enginetest

import (
	"sync"
	"sync/atomic"

	"github.com/teranos/enginebind/bindrt"
)

// Class registers one class with the fake engine.
type Class struct {
	Name         string // lookup name
	Base         string
	Instantiable bool
	Methods      map[string]bindrt.MethodBindFunc
}

type object struct {
	class     string
	refs      atomic.Int64
	destroyed atomic.Bool
}

// Engine is a thread-safe fake of the engine reflection API. It counts
// lookups so tests can assert that table population happens once.
type Engine struct {
	mu         sync.RWMutex
	classes    map[string]Class
	objects    map[bindrt.Ptr]*object
	singletons map[string]bindrt.Ptr
	next       atomic.Uintptr

	ConstructorLookups atomic.Int64
	MethodLookups      atomic.Int64
	SingletonLookups   atomic.Int64
	Destroys           atomic.Int64
}

// New returns an engine with the given classes registered.
func New(classes ...Class) *Engine {
	e := &Engine{
		classes:    make(map[string]Class),
		objects:    make(map[bindrt.Ptr]*object),
		singletons: make(map[string]bindrt.Ptr),
	}
	for _, c := range classes {
		e.Register(c)
	}
	return e
}

// Register adds or replaces a class.
func (e *Engine) Register(c Class) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes[c.Name] = c
}

// RegisterSingleton makes name resolve to a fresh instance of class.
func (e *Engine) RegisterSingleton(name, class string) bindrt.Ptr {
	p := e.Instantiate(class)
	e.mu.Lock()
	e.singletons[name] = p
	e.mu.Unlock()
	return p
}

// Instantiate allocates an object of class regardless of whether the class is
// instantiable, the way engine internals do.
func (e *Engine) Instantiate(class string) bindrt.Ptr {
	p := bindrt.Ptr(e.next.Add(1))
	e.mu.Lock()
	e.objects[p] = &object{class: class}
	e.mu.Unlock()
	return p
}

func (e *Engine) object(p bindrt.Ptr) *object {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.objects[p]
}

// ClassConstructor implements bindrt.Engine.
func (e *Engine) ClassConstructor(class string) bindrt.Constructor {
	e.ConstructorLookups.Add(1)
	e.mu.RLock()
	c, ok := e.classes[class]
	e.mu.RUnlock()
	if !ok || !c.Instantiable {
		return nil
	}
	return func() bindrt.Ptr { return e.Instantiate(class) }
}

// MethodBind implements bindrt.Engine. Methods are inherited from bases.
func (e *Engine) MethodBind(class, method string) bindrt.MethodBind {
	e.MethodLookups.Add(1)
	e.mu.RLock()
	defer e.mu.RUnlock()
	for name := class; name != ""; {
		c, ok := e.classes[name]
		if !ok {
			return nil
		}
		if fn, ok := c.Methods[method]; ok {
			return fn
		}
		name = c.Base
	}
	return nil
}

// CastTo implements bindrt.Engine.
func (e *Engine) CastTo(obj bindrt.Ptr, class string) bool {
	o := e.object(obj)
	if o == nil || o.destroyed.Load() {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for name := o.class; name != ""; name = e.classes[name].Base {
		if name == class {
			return true
		}
		if _, ok := e.classes[name]; !ok {
			return false
		}
	}
	return false
}

// Destroy implements bindrt.Engine.
func (e *Engine) Destroy(obj bindrt.Ptr) {
	if o := e.object(obj); o != nil {
		o.destroyed.Store(true)
		e.Destroys.Add(1)
	}
}

// Singleton implements bindrt.Engine.
func (e *Engine) Singleton(name string) bindrt.Ptr {
	e.SingletonLookups.Add(1)
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.singletons[name]
}

// Reference implements bindrt.Engine.
func (e *Engine) Reference(obj bindrt.Ptr) {
	if o := e.object(obj); o != nil {
		o.refs.Add(1)
	}
}

// Unreference implements bindrt.Engine.
func (e *Engine) Unreference(obj bindrt.Ptr) bool {
	if o := e.object(obj); o != nil {
		return o.refs.Add(-1) == 0
	}
	return false
}

// RefCount returns obj's current reference count.
func (e *Engine) RefCount(obj bindrt.Ptr) int64 {
	if o := e.object(obj); o != nil {
		return o.refs.Load()
	}
	return 0
}

// Alive reports whether obj exists and has not been destroyed.
func (e *Engine) Alive(obj bindrt.Ptr) bool {
	o := e.object(obj)
	return o != nil && !o.destroyed.Load()
}

// ClassOf returns the dynamic class of obj.
func (e *Engine) ClassOf(obj bindrt.Ptr) string {
	if o := e.object(obj); o != nil {
		return o.class
	}
	return ""
}

var _ bindrt.Engine = (*Engine)(nil)
