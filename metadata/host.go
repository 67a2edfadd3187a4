package metadata

import (
	"fmt"
	"sort"

	"github.com/go-openapi/inflect"
)

// Names of the host conventions registered by DefaultConventions.
const (
	KeyDiscoveryName         = "key-discovery"
	TableNameFromContextName = "table-name-from-context"
	SharedTableName          = "shared-table"
)

// HostOption configures the host conventions.
type HostOption func(*TableNameFromContext)

// WithPluralizedTables makes types without a registered context set default
// to the plural of their short name, as if every type were exposed through a
// set.
func WithPluralizedTables() HostOption {
	return func(c *TableNameFromContext) { c.Pluralize = true }
}

// DefaultConventions returns a convention set holding the host conventions:
// key discovery, table names from context sets and shared-table column
// uniquification.
func DefaultConventions(opts ...HostOption) *ConventionSet {
	ctx := &TableNameFromContext{}
	for _, opt := range opts {
		opt(ctx)
	}
	return NewConventionSet().
		Add(PhaseDiscovery, KeyDiscoveryName, KeyDiscovery{}, KindPropertyAdded).
		Add(PhaseHost, TableNameFromContextName, ctx, KindEntityTypeAdded).
		Add(PhaseHost, SharedTableName, SharedTable{}, KindModelFinalizing)
}

// KeyDiscovery makes a property named Id or <Type>Id the primary key of a root
// entity type that has none.
type KeyDiscovery struct{ BaseHandler }

// OnPropertyAdded implements Handler.
func (KeyDiscovery) OnPropertyAdded(m *Model, e PropertyAdded) {
	p := m.prop(e.Property)
	t := m.typ(p.declaring)
	if t.kind != EntityKind || t.ownedDefinition || t.base != NoType || t.primaryKey != NoKey {
		return
	}
	if p.name == "Id" || p.name == t.shortName+"Id" {
		m.setPrimaryKey(t.id, []PropertyID{p.id}, Convention)
	}
}

// TableNameFromContext records the context set name of new entity types.
type TableNameFromContext struct {
	BaseHandler
	// Pluralize derives a set name for types without one.
	Pluralize bool
}

// OnEntityTypeAdded implements Handler.
func (c *TableNameFromContext) OnEntityTypeAdded(m *Model, e EntityTypeAdded) {
	t := m.typ(e.Type)
	if t.ownedDefinition {
		return
	}
	if set, ok := m.sets[t.name]; ok {
		t.contextTable = set
		return
	}
	if set, ok := m.sets[t.shortName]; ok {
		t.contextTable = set
		return
	}
	if c.Pluralize {
		t.contextTable = rules.Pluralize(t.shortName)
	}
}

// rules pluralizes type names. Inflection suffixes match case-sensitively, so
// the irregular nouns are repeated in title case for the last word of a type
// name.
var rules = func() *inflect.Ruleset {
	rs := inflect.NewDefaultRuleset()
	for _, w := range [][2]string{{"Person", "People"}, {"Man", "Men"}, {"Child", "Children"}} {
		rs.AddIrregular(w[0], w[1])
	}
	return rs
}()

// SharedTable gives clashing columns of types sharing a table distinct
// names, prefixed with the short name of the declaring type.
type SharedTable struct{ BaseHandler }

// OnModelFinalizing implements Handler.
func (SharedTable) OnModelFinalizing(m *Model, _ ModelFinalizing) {
	var order []StoreObject
	tables := make(map[StoreObject][]TypeID)
	for _, t := range m.EntityTypes() {
		so, ok := m.StoreObjectOf(t, Table)
		if !ok {
			continue
		}
		if _, seen := tables[so]; !seen {
			order = append(order, so)
		}
		tables[so] = append(tables[so], t)
	}
	for _, so := range order {
		if types := tables[so]; len(types) > 1 {
			uniquifyColumns(m, so, types)
		}
	}
}

func uniquifyColumns(m *Model, so StoreObject, types []TypeID) {
	// Principals first, so that table-split dependents yield their names.
	sort.SliceStable(types, func(i, j int) bool {
		return len(m.RowInternalForeignKeys(types[i], so)) == 0 && len(m.RowInternalForeignKeys(types[j], so)) > 0
	})
	columns := make(map[string]PropertyID)
	seen := make(map[PropertyID]bool)
	for _, t := range types {
		for _, p := range m.propertiesIn(t, so) {
			if seen[p] {
				continue
			}
			seen[p] = true
			col, ok := m.ColumnNameAt(p, so)
			if !ok {
				continue
			}
			other, clash := columns[col]
			if !clash {
				columns[col] = p
				continue
			}
			if m.sharedColumnRoot(p, so) == m.sharedColumnRoot(other, so) || m.columnSourceAt(p, so) == Explicit {
				continue
			}
			prefix := m.ShortName(m.EntityOf(m.prop(p).declaring))
			unique := prefix + "_" + col
			for n := 1; ; n++ {
				if _, taken := columns[unique]; !taken {
					break
				}
				unique = fmt.Sprintf("%s_%s%d", prefix, col, n)
			}
			m.SetColumnNameAt(p, so, unique, Convention)
			columns[unique] = p
		}
	}
}

// propertiesIn returns the properties t contributes to so: its declared and
// complex properties, and inherited ones whose declaring type maps elsewhere.
func (m *Model) propertiesIn(t TypeID, so StoreObject) []PropertyID {
	var out []PropertyID
	for _, owner := range m.lineage(t) {
		if owner != t && m.MapsTo(owner, so) {
			continue
		}
		out = append(out, m.structuralProperties(owner)...)
	}
	return out
}

// structuralProperties returns the declared properties of t followed by
// those of its complex types, depth first.
func (m *Model) structuralProperties(t TypeID) []PropertyID {
	out := m.DeclaredProperties(t)
	for _, c := range m.typ(t).complexTypes {
		out = append(out, m.structuralProperties(c)...)
	}
	return out
}

// StructuralProperties returns the properties declared on t and on its
// complex types.
func (m *Model) StructuralProperties(t TypeID) []PropertyID {
	return m.structuralProperties(t)
}

func (m *Model) columnSourceAt(p PropertyID, so StoreObject) ConfigSource {
	if src := m.ColumnNameSourceAt(p, so); src != NoSource {
		return src
	}
	return m.ColumnNameSource(p)
}
