// Package plan extracts the resolved database names of a finalized model into
// a serializable naming plan.
package plan

import (
	"slices"
	"strings"

	"github.com/syssam/naming/metadata"
)

// Plan lists the final names of every entity type of a model.
type Plan struct {
	Style   string `json:"style,omitempty" yaml:"style,omitempty" msgpack:"style,omitempty"`
	Culture string `json:"culture,omitempty" yaml:"culture,omitempty" msgpack:"culture,omitempty"`
	Types   []Type `json:"types" yaml:"types" msgpack:"types"`
}

// Type holds the names of one entity type.
type Type struct {
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Base      string `json:"base,omitempty" yaml:"base,omitempty" msgpack:"base,omitempty"`
	Owner     string `json:"owner,omitempty" yaml:"owner,omitempty" msgpack:"owner,omitempty"`
	Strategy  string `json:"strategy,omitempty" yaml:"strategy,omitempty" msgpack:"strategy,omitempty"`
	Table     string `json:"table,omitempty" yaml:"table,omitempty" msgpack:"table,omitempty"`
	Schema    string `json:"schema,omitempty" yaml:"schema,omitempty" msgpack:"schema,omitempty"`
	View      string `json:"view,omitempty" yaml:"view,omitempty" msgpack:"view,omitempty"`
	Container string `json:"container,omitempty" yaml:"container,omitempty" msgpack:"container,omitempty"`

	Columns     []Column     `json:"columns,omitempty" yaml:"columns,omitempty" msgpack:"columns,omitempty"`
	Keys        []Key        `json:"keys,omitempty" yaml:"keys,omitempty" msgpack:"keys,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty" msgpack:"foreign_keys,omitempty"`
	Indexes     []Index      `json:"indexes,omitempty" yaml:"indexes,omitempty" msgpack:"indexes,omitempty"`
}

// Column is the column of a property in one store object.
type Column struct {
	Property string `json:"property" yaml:"property" msgpack:"property"`
	Object   string `json:"object" yaml:"object" msgpack:"object"`
	Name     string `json:"name" yaml:"name" msgpack:"name"`
}

// Key is a primary or alternate key constraint.
type Key struct {
	Name       string   `json:"name" yaml:"name" msgpack:"name"`
	Primary    bool     `json:"primary,omitempty" yaml:"primary,omitempty" msgpack:"primary,omitempty"`
	Properties []string `json:"properties" yaml:"properties,flow" msgpack:"properties"`
}

// ForeignKey is a foreign key constraint.
type ForeignKey struct {
	Name       string   `json:"name" yaml:"name" msgpack:"name"`
	Principal  string   `json:"principal" yaml:"principal" msgpack:"principal"`
	Properties []string `json:"properties" yaml:"properties,flow" msgpack:"properties"`
}

// Index is a table index.
type Index struct {
	Name       string   `json:"name" yaml:"name" msgpack:"name"`
	Unique     bool     `json:"unique,omitempty" yaml:"unique,omitempty" msgpack:"unique,omitempty"`
	Properties []string `json:"properties" yaml:"properties,flow" msgpack:"properties"`
}

// FromModel collects the names of m. The model should be finalized so that
// every convention has run.
func FromModel(m *metadata.Model) *Plan {
	p := &Plan{Types: []Type{}}
	for _, t := range m.EntityTypes() {
		p.Types = append(p.Types, fromType(m, t))
	}
	return p
}

func fromType(m *metadata.Model, t metadata.TypeID) Type {
	out := Type{Name: m.TypeName(t)}
	if base, ok := m.BaseType(t); ok {
		out.Base = m.TypeName(base)
	} else if len(m.DirectDerivedTypes(t)) > 0 {
		out.Strategy = string(m.MappingStrategy(t))
	}
	if owner, ok := m.Owner(t); ok {
		out.Owner = m.TypeName(owner)
	}
	if m.IsMappedToJSON(t) {
		out.Container, _ = m.ContainerColumnName(t)
	}
	table, hasTable := m.StoreObjectOf(t, metadata.Table)
	if hasTable {
		out.Table = table.Name
		out.Schema = table.Schema
	}
	out.View, _ = m.ViewName(t)

	props := properties(m, t)
	for _, so := range m.StoreObjects(t) {
		for _, p := range props {
			if name, ok := m.ColumnNameAt(p, so); ok {
				out.Columns = append(out.Columns, Column{Property: propertyPath(m, p), Object: so.String(), Name: name})
			}
		}
	}
	if !hasTable {
		return out
	}
	for _, k := range m.Keys(t) {
		if name, ok := m.KeyNameAt(k, table); ok {
			out.Keys = append(out.Keys, Key{Name: name, Primary: m.IsPrimaryKey(k), Properties: names(m, m.KeyProperties(k))})
		}
	}
	for _, fk := range m.ForeignKeys(t) {
		if name, ok := m.ConstraintNameAt(fk, table); ok {
			out.ForeignKeys = append(out.ForeignKeys, ForeignKey{
				Name:       name,
				Principal:  m.TypeName(m.Principal(fk)),
				Properties: names(m, m.ForeignKeyProperties(fk)),
			})
		}
	}
	for _, i := range m.Indexes(t) {
		if name, ok := m.IndexNameAt(i, table); ok {
			out.Indexes = append(out.Indexes, Index{Name: name, Unique: m.IsUniqueIndex(i), Properties: names(m, m.IndexProperties(i))})
		}
	}
	return out
}

// properties returns the properties of t, inherited ones first, followed by
// those of complex types.
func properties(m *metadata.Model, t metadata.TypeID) []metadata.PropertyID {
	props := m.Properties(t)
	lineage := append([]metadata.TypeID{t}, m.Ancestors(t)...)
	slices.Reverse(lineage)
	for _, owner := range lineage {
		props = append(props, complexProperties(m, owner)...)
	}
	return props
}

func complexProperties(m *metadata.Model, t metadata.TypeID) []metadata.PropertyID {
	var out []metadata.PropertyID
	for _, c := range m.ComplexTypes(t) {
		out = append(out, m.DeclaredProperties(c)...)
		out = append(out, complexProperties(m, c)...)
	}
	return out
}

// propertyPath returns the name of p qualified with the complex properties
// leading to it, e.g. Location.Latitude.
func propertyPath(m *metadata.Model, p metadata.PropertyID) string {
	parts := []string{m.PropertyName(p)}
	for t := m.DeclaringType(p); m.Kind(t) == metadata.ComplexKind; {
		parts = append(parts, m.ComplexPropertyName(t))
		c, ok := m.Container(t)
		if !ok {
			break
		}
		t = c
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

func names(m *metadata.Model, props []metadata.PropertyID) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = propertyPath(m, p)
	}
	return out
}

// Lookup returns the type named name.
func (p *Plan) Lookup(name string) (*Type, bool) {
	for i := range p.Types {
		if p.Types[i].Name == name {
			return &p.Types[i], true
		}
	}
	return nil, false
}

// Column returns the column of property in the given store object, as
// formatted by metadata.StoreObject.String. An empty object selects the
// type's table.
func (t *Type) Column(property, object string) (string, bool) {
	if object == "" {
		object = t.TableObject()
	}
	for _, c := range t.Columns {
		if c.Property == property && c.Object == object {
			return c.Name, true
		}
	}
	return "", false
}

// TableObject returns the type's table formatted as a column object.
func (t *Type) TableObject() string {
	return metadata.StoreObject{Kind: metadata.Table, Name: t.Table, Schema: t.Schema}.String()
}

// PrimaryKey returns the primary key constraint of the type's table.
func (t *Type) PrimaryKey() (Key, bool) {
	for _, k := range t.Keys {
		if k.Primary {
			return k, true
		}
	}
	return Key{}, false
}
