package schema

import (
	"fmt"

	"github.com/syssam/naming/metadata"
)

// Validate checks that doc is self-consistent: type names are unique,
// strategies are known and every referenced type is declared.
func (doc *Document) Validate() error {
	declared := make(map[string]bool, len(doc.Entities))
	for i, e := range doc.Entities {
		if e.Name == "" {
			return NewSchemaError("", "", fmt.Sprintf("entity #%d has no name", i), nil)
		}
		if declared[e.Name] {
			return NewSchemaError(e.Name, "", "declared twice", nil)
		}
		declared[e.Name] = true
	}
	for set, typ := range doc.Sets {
		if !declared[typ] {
			return NewSchemaError(typ, "", "set "+set+" exposes an undeclared type", nil)
		}
	}
	for _, e := range doc.Entities {
		if e.Base != "" && !declared[e.Base] {
			return NewSchemaError(e.Name, "", "unknown base type "+e.Base, nil)
		}
		if e.Strategy != "" {
			if _, ok := metadata.ParseMappingStrategy(e.Strategy); !ok {
				return NewSchemaError(e.Name, "", "unknown mapping strategy "+e.Strategy, nil)
			}
		}
		for _, fk := range e.ForeignKeys {
			if !declared[fk.Principal] {
				return NewSchemaError(e.Name, fk.Principal, "unknown principal type", nil)
			}
			if len(fk.Properties) == 0 {
				return NewSchemaError(e.Name, fk.Principal, "foreign key has no properties", nil)
			}
		}
		for _, idx := range e.Indexes {
			if len(idx.Properties) == 0 {
				return NewSchemaError(e.Name, idx.Name, "index has no properties", nil)
			}
		}
		if err := validateOwned(e.Name, e.Owns); err != nil {
			return err
		}
		if err := validateComplex(e.Name, e.Complex); err != nil {
			return err
		}
	}
	return nil
}

func validateOwned(owner string, owns []Owned) error {
	for _, o := range owns {
		if o.Navigation == "" || o.Type == "" {
			return NewSchemaError(owner, o.Navigation, "owned types need a navigation and a type", nil)
		}
		if o.JSON && o.JSONColumn != "" {
			return NewSchemaError(owner, o.Navigation, "json and json_column are exclusive", nil)
		}
		if err := validateOwned(owner+"."+o.Navigation, o.Owns); err != nil {
			return err
		}
	}
	return nil
}

func validateComplex(owner string, list []Complex) error {
	for _, c := range list {
		if c.Name == "" || c.Type == "" {
			return NewSchemaError(owner, c.Name, "complex properties need a name and a type", nil)
		}
		if err := validateComplex(owner+"."+c.Name, c.Complex); err != nil {
			return err
		}
	}
	return nil
}

// Build declares the types of doc on m. Types are declared before they are
// related so that entities may reference each other in any order. Model
// errors are returned as recorded by m.
func Build(doc *Document, m *metadata.Model) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	// Sets name the default tables and must precede the types.
	for set, typ := range doc.Sets {
		m.RegisterSet(set, typ)
	}
	builders := make(map[string]*metadata.EntityBuilder, len(doc.Entities))
	for _, e := range doc.Entities {
		if e.Abstract {
			builders[e.Name] = m.AbstractEntity(e.Name)
		} else {
			builders[e.Name] = m.Entity(e.Name)
		}
		properties(builders[e.Name], e.Properties)
	}
	for _, e := range doc.Entities {
		if e.Base != "" {
			builders[e.Name].HasBase(e.Base)
		}
	}
	for _, e := range doc.Entities {
		if len(e.Key) > 0 {
			builders[e.Name].HasKey(e.Key...)
		}
	}
	for _, e := range doc.Entities {
		b := builders[e.Name]
		if e.Strategy != "" {
			s, _ := metadata.ParseMappingStrategy(e.Strategy)
			b.UseMappingStrategy(s)
		}
		mapping(b, e)
		for _, ak := range e.AlternateKeys {
			b.HasAlternateKey(ak...)
		}
		indexes(b, e.Indexes)
		for _, o := range e.Owns {
			owned(b, o)
		}
		for _, c := range e.Complex {
			complexProperty(b, c)
		}
	}
	for _, e := range doc.Entities {
		b := builders[e.Name]
		for _, fk := range e.ForeignKeys {
			var fb *metadata.ForeignKeyBuilder
			if fk.Unique {
				fb = b.HasUniqueForeignKey(fk.Principal, fk.Properties...)
			} else {
				fb = b.HasForeignKey(fk.Principal, fk.Properties...)
			}
			if fk.Name != "" {
				fb.HasConstraintName(fk.Name)
			}
		}
	}
	if err := m.Err(); err != nil {
		return NewSchemaError("", "", "build model", err)
	}
	return nil
}

func properties(b *metadata.EntityBuilder, props []Property) {
	for _, p := range props {
		pb := b.Property(p.Name)
		if p.Column != "" {
			pb.HasColumnName(p.Column)
		}
	}
}

func mapping(b *metadata.EntityBuilder, e Entity) {
	switch {
	case e.Table != "" && e.Schema != "":
		b.ToTableInSchema(e.Table, e.Schema)
	case e.Table != "":
		b.ToTable(e.Table)
	}
	switch {
	case e.View != "" && e.ViewSchema != "":
		b.ToViewInSchema(e.View, e.ViewSchema)
	case e.View != "":
		b.ToView(e.View)
	}
	if e.Function != "" {
		b.ToFunction(e.Function)
	}
	if e.Query != "" {
		b.ToSQLQuery(e.Query)
	}
}

func indexes(b *metadata.EntityBuilder, list []Index) {
	for _, idx := range list {
		ib := b.HasIndex(idx.Properties...)
		if idx.Unique {
			ib.IsUnique()
		}
		if idx.Name != "" {
			ib.HasName(idx.Name)
		}
	}
}

func owned(owner *metadata.EntityBuilder, o Owned) {
	var b *metadata.EntityBuilder
	if o.Many {
		b = owner.OwnsMany(o.Navigation, o.Type)
	} else {
		b = owner.OwnsOne(o.Navigation, o.Type)
	}
	properties(b, o.Properties)
	switch {
	case o.JSON:
		b.ToJSON()
	case o.JSONColumn != "":
		b.ToJSONColumn(o.JSONColumn)
	case o.Table != "":
		b.ToTable(o.Table)
	}
	for _, nested := range o.Owns {
		owned(b, nested)
	}
}

func complexProperty(owner *metadata.EntityBuilder, c Complex) {
	b := owner.ComplexProperty(c.Name, c.Type)
	properties(b, c.Properties)
	for _, nested := range c.Complex {
		complexProperty(b, nested)
	}
}
