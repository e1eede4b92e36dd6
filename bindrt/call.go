package bindrt

import "fmt"

// Call invokes a resolved method. A nil slot never reaches the engine: it
// panics with ErrUnresolved naming the slot.
func Call(mb MethodBind, slot string, self Ptr, args ...Variant) Variant {
	if mb == nil {
		panic(unresolved(slot, "<nil method bind>"))
	}
	return mb.Call(self, args...)
}

// As converts an ABI return value. A nil value yields the zero T; any other
// type mismatch means the bindings and the engine disagree about the ABI.
func As[T any](v Variant) T {
	if v == nil {
		var zero T
		return zero
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("bindrt: engine returned %T, bindings expect %T", v, zero))
	}
	return t
}

// AsPtr converts an object return value.
func AsPtr(v Variant) Ptr {
	return As[Ptr](v)
}
