package bindgen

import (
	"time"

	"github.com/teranos/enginebind/api"
)

// Memory is the memory-management discipline of a class.
type Memory int

const (
	// Manual classes are released by an explicit Free the owner calls exactly once.
	Manual Memory = iota
	// Counted classes are shared through the engine's reference count.
	Counted
)

func (m Memory) String() string {
	if m == Counted {
		return "refcounted"
	}
	return "manual"
}

// ClassRef names a class as seen from the unit being generated. Foundation
// classes live in another package and must be qualified by the backend.
type ClassRef struct {
	Name       string // public engine name
	TypeName   string // target type identifier
	Foundation bool
}

// BindingUnit is everything synthesized for one class. It is
// backend-agnostic: a renderer decides the concrete syntax.
type BindingUnit struct {
	Class      *api.Class
	Self       ClassRef
	LookupName string // name used against the engine reflection API
	Memory     Memory

	// PointerSafe is false for classes whose handles carry an Access tag.
	PointerSafe bool

	Base        *ClassRef // nil for the root
	Constructor *Constructor
	Singleton   *SingletonAccessor
	Upcast      *Upcast // nil for the root
	Downcast    Downcast
	Lifecycle   []Helper // Free for manual classes, Clone and Release for counted ones

	Methods   []Signature
	Enums     []EnumUnit
	Constants []ConstantUnit

	// Table is the identifier of the gate variable call sites read.
	Table TableNames

	// Refs maps every class referenced by a signature to its ref.
	Refs map[string]ClassRef
}

// Constructor is emitted only for instantiable classes.
type Constructor struct {
	Name string // NewNode
	Slot string
}

// SingletonAccessor returns the process-wide instance, created on first use.
type SingletonAccessor struct {
	Name       string // accessor function
	Var        string // lazily initialised cell
	EngineName string // name registered with the engine
}

// Upcast converts to the direct base. It is total.
type Upcast struct {
	Name   string // AsObject
	Target ClassRef
}

// Downcast is the checked conversion from any handle.
type Downcast struct {
	Name string // CastToNode
}

// Helper is a generated memory-management method.
type Helper struct {
	Name string
	Kind HelperKind
}

// HelperKind selects the helper body.
type HelperKind int

const (
	HelperFree HelperKind = iota
	HelperClone
	HelperRelease
	// HelperFreeShare is Free on a counted class: it releases this share.
	HelperFreeShare
)

// EnumUnit is a class-scoped enum type.
type EnumUnit struct {
	Name   string
	Wire   string
	Values []ValueUnit
}

// ValueUnit is one enum member.
type ValueUnit struct {
	Name  string
	Wire  string
	Value int64
}

// ConstantUnit is a class-scoped constant not already emitted as an enum member.
type ConstantUnit struct {
	Name  string
	Wire  string
	Value int64
}

// TableNames are the identifiers derived from a method table name.
type TableNames struct {
	Wire string // core_method_table
	Type string // CoreMethodTable
	Var  string // coreMethodTable
	Bind string // BindCoreMethodTable
}

// TableUnit is the process-wide method table of one generation set.
type TableUnit struct {
	Names   TableNames
	Classes []TableClass
}

// TableClass is the slot group of one class.
type TableClass struct {
	Name       string
	LookupName string
	// Constructor slot, always present; required only for instantiable classes.
	ConstructorSlot string
	Required        bool
	Methods         []TableSlot
}

// TableSlot is one resolved native method.
type TableSlot struct {
	Slot string
	Wire string
}

// SlotCount returns the number of slots, constructors included.
func (t *TableUnit) SlotCount() int {
	n := 0
	for _, c := range t.Classes {
		n += 1 + len(c.Methods)
	}
	return n
}

// SetUnit is what a backend renders: every class unit of one generation set
// plus its method table.
type SetUnit struct {
	Package    string
	Foundation *Foundation // nil when generating the foundation itself
	Units      []*BindingUnit
	Table      *TableUnit
}

// Foundation describes the package that already binds the core classes.
type Foundation struct {
	ImportPath string
	Classes    map[string]bool
}

// Contains reports whether name is bound by the foundation.
func (f *Foundation) Contains(name string) bool {
	return f != nil && f.Classes[name]
}

// Report summarises one generation run.
type Report struct {
	Set      string
	Classes  int
	Methods  int
	Slots    int
	Enums    int
	Skipped  []string
	Duration time.Duration
}

func (r *Report) add(u *BindingUnit) {
	r.Classes++
	r.Methods += len(u.Methods)
	r.Enums += len(u.Enums)
}
