package bindrt

// Access records whether a handle to a pointer-unsafe object is known not to
// be aliased. Only a unique handle may be used from more than one owner
// without external synchronisation with the engine's own lifetime management.
type Access uint8

const (
	// Shared handles may be aliased by the engine or other owners.
	Shared Access = iota
	// Unique handles were freshly allocated by this process and not yet shared.
	Unique
)

func (a Access) String() string {
	if a == Unique {
		return "unique"
	}
	return "shared"
}

// Handle wraps exactly one engine object identity. Generated root classes
// embed it, so every generated class exposes Ptr, Access, IsNull and RawHandle.
type Handle struct {
	ptr    Ptr
	access Access
}

// Handler is implemented by every generated class.
type Handler interface {
	RawHandle() Handle
}

// NewHandle wraps p.
func NewHandle(p Ptr, access Access) Handle {
	return Handle{ptr: p, access: access}
}

// Ptr returns the engine identity.
func (h Handle) Ptr() Ptr { return h.ptr }

// Access returns the aliasing state.
func (h Handle) Access() Access { return h.access }

// IsNull reports whether the handle refers to no object.
func (h Handle) IsNull() bool { return h.ptr.IsNull() }

// RawHandle implements Handler.
func (h Handle) RawHandle() Handle { return h }

// Own wraps a freshly allocated, manually managed object. The caller must
// release it exactly once.
func Own(p Ptr) Handle { return Handle{ptr: p, access: Unique} }

// Borrow wraps an object valid only for the duration of the current call chain.
func Borrow(p Ptr) Handle { return Handle{ptr: p, access: Shared} }

// Adopt wraps a reference-counted object whose count already includes this share.
func Adopt(p Ptr) Handle { return Handle{ptr: p, access: Shared} }

// Acquire wraps a reference-counted object returned without ownership and
// takes a share of it.
func Acquire(e Engine, p Ptr) Handle {
	if !p.IsNull() {
		e.Reference(p)
	}
	return Handle{ptr: p, access: Shared}
}

// PtrOf returns the identity of h; a nil Handler is the null object.
func PtrOf(h Handler) Ptr {
	if h == nil {
		return 0
	}
	return h.RawHandle().ptr
}
