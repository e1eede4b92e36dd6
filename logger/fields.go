package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across enginebind.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Schema entities
	FieldClass  = "class"
	FieldMethod = "method"
	FieldBase   = "base"
	FieldRoot   = "root"

	// Generation
	FieldSet     = "set"     // name of the generation set (foundation, extension, class)
	FieldStream  = "stream"  // output stream (types, traits, table, docs)
	FieldTable   = "table"   // method table name
	FieldWorkers = "workers" // synthesis worker limit

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount   = "count"
	FieldSlots   = "slots"
	FieldSkipped = "skipped"

	// Files and paths
	FieldFile    = "file"
	FieldVersion = "version"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Generator struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewGenerator() *Generator {
//	    return &Generator{
//	        logger: logger.ComponentLogger("bindgen"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	classLogger := logger.ChildLogger(baseLogger, logger.FieldClass, class.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
