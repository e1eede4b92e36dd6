package bindrt

// Retain takes one more share of a reference-counted object.
func Retain(e Engine, h Handler) {
	if p := PtrOf(h); !p.IsNull() {
		e.Reference(p)
	}
}

// ReleaseRef gives up one share of a reference-counted object and destroys
// it when the last share goes. It reports whether the object was destroyed.
func ReleaseRef(e Engine, h Handler) bool {
	p := PtrOf(h)
	if p.IsNull() {
		return false
	}
	if e.Unreference(p) {
		e.Destroy(p)
		return true
	}
	return false
}

// Free destroys a manually managed object. The caller must call it exactly
// once per object; a second call is undefined at the engine level.
func Free(e Engine, h Handler) {
	if p := PtrOf(h); !p.IsNull() {
		e.Destroy(p)
	}
}

// ConstructRef allocates a reference-counted instance and returns it with a
// count of one.
func ConstructRef(e Engine, ctor Constructor, class string) Handle {
	p := construct(ctor, class)
	e.Reference(p)
	return Adopt(p)
}

// ConstructOwned allocates a manually managed instance owned by the caller.
func ConstructOwned(ctor Constructor, class string) Handle {
	return Own(construct(ctor, class))
}

func construct(ctor Constructor, class string) Ptr {
	if ctor == nil {
		panic(unresolved(class, "class_constructor"))
	}
	p := ctor()
	if p.IsNull() {
		panic(unresolved(class, "class_constructor returned null"))
	}
	return p
}
