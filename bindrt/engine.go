// Package bindrt is the run-time support library imported by generated
// bindings. It owns everything that must behave identically for every class:
// the engine reflection interface, object handles and their ownership
// discipline, the exactly-once method table gate, lazily created singletons
// and checked downcasts.
//
// Lifecycle of a binding package:
//
//	uninitialized --Bind<Table>(engine)--> initializing --> ready
//	                                                   \--> failed
//
// Every generated call site reads the table through its Gate, so no call can
// observe a partially populated table.
package bindrt

// Ptr is an opaque engine object identity.
type Ptr uintptr

// IsNull reports whether p is the engine's null object.
func (p Ptr) IsNull() bool { return p == 0 }

// Variant is any value crossing the engine ABI: primitives, engine value
// types and Ptr for objects.
type Variant = any

// MethodBind is a resolved native method.
type MethodBind interface {
	Call(self Ptr, args ...Variant) Variant
}

// MethodBindFunc adapts a function to MethodBind.
type MethodBindFunc func(self Ptr, args ...Variant) Variant

// Call implements MethodBind.
func (f MethodBindFunc) Call(self Ptr, args ...Variant) Variant { return f(self, args...) }

// Constructor allocates a fresh engine instance of one class.
type Constructor func() Ptr

// Engine is the live engine reflection API handed to Bind<Table>.
// Class names passed in are lookup names (underscored internal classes keep
// their underscore here and nowhere else).
type Engine interface {
	// ClassConstructor returns nil for classes the engine cannot instantiate.
	ClassConstructor(class string) Constructor
	// MethodBind returns nil when the engine does not expose the method.
	MethodBind(class, method string) MethodBind
	// CastTo reports whether obj's dynamic type is class or a descendant.
	CastTo(obj Ptr, class string) bool
	// Destroy releases the engine object. Calling it twice is undefined.
	Destroy(obj Ptr)
	// Singleton returns the engine-owned singleton registered under name.
	Singleton(name string) Ptr
	// Reference increments obj's reference count.
	Reference(obj Ptr)
	// Unreference decrements obj's reference count and reports whether it reached zero.
	Unreference(obj Ptr) bool
}
