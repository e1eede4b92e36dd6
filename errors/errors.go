// Package errors provides error handling for enginebind.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for the person running the generator
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := resolve(); err != nil {
//	    return errors.Wrapf(err, "class %s", name)
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnknownClass) {
//	    // schema is not self-consistent
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Join         = crdb.Join
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors shared by the generator and the runtime support package.
// Wrap these with errors.Wrapf() to add class/method context while preserving the type.
var (
	// ErrUnknownClass indicates a schema entry references a class the model does not contain
	ErrUnknownClass = New("unknown class")

	// ErrUnknownMethod indicates a schema entry references a method the class does not expose
	ErrUnknownMethod = New("unknown method")

	// ErrSchema indicates any other closed-world violation in the class catalog
	ErrSchema = New("inconsistent schema")

	// ErrNameCollision indicates two generated identifiers collide inside one unit
	ErrNameCollision = New("generated name collision")

	// ErrIncompatibleAPI indicates the schema version is outside the supported range
	ErrIncompatibleAPI = New("incompatible engine api version")

	// ErrUnresolved indicates the engine returned no function pointer for an expected slot
	ErrUnresolved = New("unresolved engine binding")

	// ErrNotBound indicates a method table was used before its initialisation succeeded
	ErrNotBound = New("method table not bound")
)

// IsSchemaError reports whether err is any of the schema-inconsistency errors.
// These are fatal for the whole generation run.
func IsSchemaError(err error) bool {
	return err != nil && IsAny(err, ErrUnknownClass, ErrUnknownMethod, ErrSchema)
}

// UnknownClass creates an ErrUnknownClass error naming the missing class and where it was referenced.
func UnknownClass(name, referencedBy string) error {
	return WithHint(
		Wrapf(ErrUnknownClass, "%q referenced by %s", name, referencedBy),
		"the schema must be self-consistent; regenerate it from the same engine build",
	)
}

// UnknownMethod creates an ErrUnknownMethod error naming the class and method.
func UnknownMethod(class, method string) error {
	return Wrapf(ErrUnknownMethod, "%s.%s", class, method)
}
