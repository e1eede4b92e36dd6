package bindrt

// Cast is the checked dynamic downcast: it returns from's handle when the
// object's dynamic type is class (a lookup name) or a descendant, and false
// otherwise, including for the null object. The result aliases from; for
// reference-counted objects no share is taken.
func Cast(e Engine, from Handler, class string) (Handle, bool) {
	if from == nil {
		return Handle{}, false
	}
	h := from.RawHandle()
	if h.IsNull() || !e.CastTo(h.ptr, class) {
		return Handle{}, false
	}
	return h, true
}
