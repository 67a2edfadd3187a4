package metadata

import "strings"

// Identifiers of the elements stored in a model arena.
type (
	// TypeID identifies a structural type (entity or complex type).
	TypeID int
	// PropertyID identifies a property.
	PropertyID int
	// KeyID identifies a primary or alternate key.
	KeyID int
	// ForeignKeyID identifies a foreign key.
	ForeignKeyID int
	// IndexID identifies an index.
	IndexID int
)

// Sentinel identifiers returned when an element does not exist.
const (
	NoType       TypeID       = -1
	NoProperty   PropertyID   = -1
	NoKey        KeyID        = -1
	NoForeignKey ForeignKeyID = -1
	NoIndex      IndexID      = -1
)

// ConfigSource is the provenance of a configured value.
type ConfigSource uint8

const (
	// NoSource marks a value that was never configured.
	NoSource ConfigSource = iota
	// Convention marks a value assigned by a convention.
	Convention
	// DataAnnotation marks a value assigned from schema annotations.
	DataAnnotation
	// Explicit marks a value configured by the user.
	Explicit
)

// Overrides reports whether a value from s may replace a value from o.
func (s ConfigSource) Overrides(o ConfigSource) bool { return s >= o }

// String implements fmt.Stringer.
func (s ConfigSource) String() string {
	switch s {
	case NoSource:
		return "none"
	case Convention:
		return "convention"
	case DataAnnotation:
		return "data-annotation"
	case Explicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Setting is a configured name together with its source. A set Setting may
// hold an explicit null (Null is true), meaning "configured to nothing".
type Setting struct {
	Value  string
	Null   bool
	Source ConfigSource
}

// IsSet reports whether the setting was configured.
func (s Setting) IsSet() bool { return s.Source != NoSource }

// Get returns the configured, non-null value.
func (s Setting) Get() (string, bool) {
	if !s.IsSet() || s.Null {
		return "", false
	}
	return s.Value, true
}

func (s Setting) same(o Setting) bool {
	return s.IsSet() == o.IsSet() && s.Null == o.Null && s.Value == o.Value
}

// StoreObjectKind is the kind of database object a type maps to.
type StoreObjectKind uint8

const (
	// Table is a database table.
	Table StoreObjectKind = iota + 1
	// View is a database view.
	View
	// Function is a table-valued function.
	Function
	// SQLQuery is an ad-hoc defining query.
	SQLQuery
)

// StoreObjectKinds lists every store object kind in resolution order.
var StoreObjectKinds = []StoreObjectKind{Table, View, Function, SQLQuery}

// String implements fmt.Stringer.
func (k StoreObjectKind) String() string {
	switch k {
	case Table:
		return "table"
	case View:
		return "view"
	case Function:
		return "function"
	case SQLQuery:
		return "sql-query"
	default:
		return "unknown"
	}
}

// StoreObject identifies a table, view, function or query.
type StoreObject struct {
	Kind   StoreObjectKind
	Name   string
	Schema string
}

// String implements fmt.Stringer.
func (s StoreObject) String() string {
	if s.Schema != "" {
		return s.Kind.String() + ":" + s.Schema + "." + s.Name
	}
	return s.Kind.String() + ":" + s.Name
}

// MappingStrategy is the inheritance mapping strategy of a hierarchy.
type MappingStrategy string

// Inheritance mapping strategies.
const (
	TPH MappingStrategy = "TPH"
	TPT MappingStrategy = "TPT"
	TPC MappingStrategy = "TPC"
)

// ParseMappingStrategy parses "tph", "tpt" or "tpc" (case-insensitive).
func ParseMappingStrategy(s string) (MappingStrategy, bool) {
	switch MappingStrategy(strings.ToUpper(s)) {
	case TPH:
		return TPH, true
	case TPT:
		return TPT, true
	case TPC:
		return TPC, true
	}
	return "", false
}

// TypeKind distinguishes entity types from complex types.
type TypeKind uint8

const (
	// EntityKind is an entity type with its own identity.
	EntityKind TypeKind = iota + 1
	// ComplexKind is a complex type stored inside its container's table.
	ComplexKind
)

// Type annotation names carried by AnnotationChanged events.
const (
	AnnotationTableName           = "Relational:TableName"
	AnnotationSchema              = "Relational:Schema"
	AnnotationViewName            = "Relational:ViewName"
	AnnotationViewSchema          = "Relational:ViewSchema"
	AnnotationFunctionName        = "Relational:FunctionName"
	AnnotationSQLQuery            = "Relational:SqlQuery"
	AnnotationMappingStrategy     = "Relational:MappingStrategy"
	AnnotationContainerColumnName = "Relational:ContainerColumnName"
)
