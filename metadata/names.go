package metadata

import (
	"slices"
	"sort"
	"strings"
)

// Annotation returns the type-level annotation stored under name.
func (m *Model) Annotation(t TypeID, name string) Setting {
	return m.typ(t).annotations[name]
}

// AnnotationSource returns the source of the type-level annotation name.
func (m *Model) AnnotationSource(t TypeID, name string) ConfigSource {
	return m.Annotation(t, name).Source
}

// TableName returns the table t maps to. Types mapped to a view, function or
// query without an explicit table map to no table.
func (m *Model) TableName(t TypeID) (string, bool) {
	t = m.EntityOf(t)
	if s := m.Annotation(t, AnnotationTableName); s.IsSet() {
		return s.Get()
	}
	if m.hasNonTableMapping(t) {
		return "", false
	}
	return m.DefaultTableName(t)
}

func (m *Model) hasNonTableMapping(t TypeID) bool {
	a := m.typ(t).annotations
	return a[AnnotationViewName].IsSet() || a[AnnotationFunctionName].IsSet() || a[AnnotationSQLQuery].IsSet()
}

// DefaultTableName returns the table name t maps to when none is configured.
func (m *Model) DefaultTableName(t TypeID) (string, bool) {
	t = m.EntityOf(t)
	st := m.typ(t)
	strategy := m.MappingStrategy(t)
	if strategy == TPC && st.abstract {
		return "", false
	}
	if fk, ok := m.Ownership(t); ok && (m.fk(fk).unique || m.IsMappedToJSON(t)) {
		return m.TableName(m.fk(fk).principal)
	}
	if st.base != NoType && strategy == TPH {
		return m.TableName(m.RootType(t))
	}
	if st.contextTable != "" {
		return st.contextTable, true
	}
	return st.shortName, true
}

// InheritsTableName reports whether the default table of t is the table of
// another type: its hierarchy root under TPH, or its owner when table-split or
// JSON-mapped.
func (m *Model) InheritsTableName(t TypeID) bool {
	t = m.EntityOf(t)
	if fk, ok := m.Ownership(t); ok && (m.fk(fk).unique || m.IsMappedToJSON(t)) {
		return true
	}
	return m.typ(t).base != NoType && m.MappingStrategy(t) == TPH
}

// Schema returns the table schema of t, or "" for the default schema.
func (m *Model) Schema(t TypeID) string {
	t = m.EntityOf(t)
	if v, ok := m.Annotation(t, AnnotationSchema).Get(); ok {
		return v
	}
	if m.Annotation(t, AnnotationTableName).IsSet() || !m.InheritsTableName(t) {
		return ""
	}
	if owner, ok := m.Owner(t); ok {
		return m.Schema(owner)
	}
	return m.Schema(m.RootType(t))
}

// ViewName returns the view t maps to.
func (m *Model) ViewName(t TypeID) (string, bool) {
	return m.inheritedAnnotation(m.EntityOf(t), AnnotationViewName)
}

// ViewSchema returns the schema of the view t maps to.
func (m *Model) ViewSchema(t TypeID) string {
	v, _ := m.inheritedAnnotation(m.EntityOf(t), AnnotationViewSchema)
	return v
}

// FunctionName returns the function t maps to.
func (m *Model) FunctionName(t TypeID) (string, bool) {
	return m.inheritedAnnotation(m.EntityOf(t), AnnotationFunctionName)
}

// SQLQuery returns the defining query of t.
func (m *Model) SQLQuery(t TypeID) (string, bool) {
	return m.inheritedAnnotation(m.EntityOf(t), AnnotationSQLQuery)
}

// inheritedAnnotation resolves an annotation on t, falling back to the type
// whose table t shares.
func (m *Model) inheritedAnnotation(t TypeID, name string) (string, bool) {
	for depth := 0; depth < 64; depth++ {
		if s := m.Annotation(t, name); s.IsSet() {
			return s.Get()
		}
		if !m.InheritsTableName(t) {
			return "", false
		}
		if owner, ok := m.Owner(t); ok {
			t = owner
		} else {
			t = m.RootType(t)
		}
	}
	return "", false
}

// StoreObjectOf returns the store object of the given kind t maps to.
func (m *Model) StoreObjectOf(t TypeID, kind StoreObjectKind) (StoreObject, bool) {
	t = m.EntityOf(t)
	switch kind {
	case Table:
		if name, ok := m.TableName(t); ok {
			return StoreObject{Kind: Table, Name: name, Schema: m.Schema(t)}, true
		}
	case View:
		if name, ok := m.ViewName(t); ok {
			return StoreObject{Kind: View, Name: name, Schema: m.ViewSchema(t)}, true
		}
	case Function:
		if name, ok := m.FunctionName(t); ok {
			return StoreObject{Kind: Function, Name: name}, true
		}
	case SQLQuery:
		if _, ok := m.SQLQuery(t); ok {
			return StoreObject{Kind: SQLQuery, Name: m.ShortName(m.RootType(t))}, true
		}
	}
	return StoreObject{}, false
}

// StoreObjects returns every store object t maps to.
func (m *Model) StoreObjects(t TypeID) []StoreObject {
	var out []StoreObject
	for _, kind := range StoreObjectKinds {
		if so, ok := m.StoreObjectOf(t, kind); ok {
			out = append(out, so)
		}
	}
	return out
}

// MapsTo reports whether t maps to so.
func (m *Model) MapsTo(t TypeID, so StoreObject) bool {
	got, ok := m.StoreObjectOf(t, so.Kind)
	return ok && got == so
}

// hierarchyMapsTo reports whether t or one of its derived types maps to so.
func (m *Model) hierarchyMapsTo(t TypeID, so StoreObject) bool {
	t = m.EntityOf(t)
	return slices.ContainsFunc(m.DerivedTypesInclusive(t), func(d TypeID) bool { return m.MapsTo(d, so) })
}

// propertyMapsTo reports whether p is stored in so.
func (m *Model) propertyMapsTo(p PropertyID, so StoreObject) bool {
	decl := m.EntityOf(m.prop(p).declaring)
	if (so.Kind == Table || so.Kind == View) && m.IsMappedToJSON(decl) {
		return false
	}
	if m.MappingStrategy(decl) == TPT && !m.IsPrimaryKeyProperty(p) {
		return m.MapsTo(decl, so)
	}
	return m.hierarchyMapsTo(decl, so)
}

// ContainerColumnName returns the JSON container column of t.
func (m *Model) ContainerColumnName(t TypeID) (string, bool) {
	return m.Annotation(t, AnnotationContainerColumnName).Get()
}

// DefaultContainerColumnName returns the ownership navigation name of t.
func (m *Model) DefaultContainerColumnName(t TypeID) (string, bool) {
	fk, ok := m.Ownership(t)
	if !ok {
		return "", false
	}
	return m.fk(fk).toDependent, true
}

// ColumnName returns the base column name of p.
func (m *Model) ColumnName(p PropertyID) (string, bool) {
	pr := m.prop(p)
	if m.IsMappedToJSON(pr.declaring) {
		return "", false
	}
	if pr.column.IsSet() {
		return pr.column.Get()
	}
	return m.DefaultColumnName(p)
}

// ColumnNameSource returns the source of the base column name of p.
func (m *Model) ColumnNameSource(p PropertyID) ConfigSource { return m.prop(p).column.Source }

// DefaultColumnName returns the base column name of p when none is
// configured. It is computed against the table of the declaring type when
// there is one.
func (m *Model) DefaultColumnName(p PropertyID) (string, bool) {
	pr := m.prop(p)
	if table, ok := m.StoreObjectOf(pr.declaring, Table); ok {
		return m.DefaultColumnNameAt(p, table)
	}
	parts := []string{pr.name}
	for t := pr.declaring; m.typ(t).kind == ComplexKind; t = m.typ(t).container {
		parts = append(parts, m.typ(t).complexProperty)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "_"), true
}

// ColumnNameAt returns the column p maps to in so.
func (m *Model) ColumnNameAt(p PropertyID, so StoreObject) (string, bool) {
	pr := m.prop(p)
	if s := pr.overrides[so]; s.IsSet() {
		return s.Get()
	}
	if !m.propertyMapsTo(p, so) {
		return "", false
	}
	if pr.column.IsSet() {
		return pr.column.Get()
	}
	return m.DefaultColumnNameAt(p, so)
}

// ColumnNameSourceAt returns the source of the column override of p in so.
func (m *Model) ColumnNameSourceAt(p PropertyID, so StoreObject) ConfigSource {
	return m.prop(p).overrides[so].Source
}

// ColumnOverrides returns the store objects with a column override for p.
func (m *Model) ColumnOverrides(p PropertyID) []StoreObject {
	var out []StoreObject
	for so, s := range m.prop(p).overrides {
		if s.IsSet() {
			out = append(out, so)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// DefaultColumnNameAt returns the column name of p in so when none is
// configured. Primary key properties of a table-split dependent share the
// principal's column; properties of owned and complex types are prefixed with
// the navigation names leading to them.
func (m *Model) DefaultColumnNameAt(p PropertyID, so StoreObject) (string, bool) {
	if root := m.sharedColumnRoot(p, so); root != p {
		return m.ColumnNameAt(root, so)
	}
	pr := m.prop(p)
	parts := []string{pr.name}
	t := pr.declaring
	for m.typ(t).kind == ComplexKind {
		parts = append(parts, m.typ(t).complexProperty)
		t = m.typ(t).container
	}
	for depth := 0; depth < 64; depth++ {
		fk, ok := m.Ownership(t)
		if !ok {
			break
		}
		owner := m.fk(fk).principal
		if !m.MapsTo(t, so) || !m.MapsTo(owner, so) {
			break
		}
		parts = append(parts, m.fk(fk).toDependent)
		t = owner
	}
	slices.Reverse(parts)
	return strings.Join(parts, "_"), true
}

// SharesColumn reports whether the primary key property p takes its column in
// the table so from a principal stored in the same row.
func (m *Model) SharesColumn(p PropertyID, so StoreObject) bool {
	return m.sharedColumnRoot(p, so) != p
}

// sharedColumnRoot follows row-internal foreign keys from the primary key
// property p to the principal property whose column it shares in so.
func (m *Model) sharedColumnRoot(p PropertyID, so StoreObject) PropertyID {
	seen := map[PropertyID]bool{p: true}
	for {
		next, ok := m.sharedColumnSource(p, so)
		if !ok || seen[next] {
			return p
		}
		seen[next] = true
		p = next
	}
}

func (m *Model) sharedColumnSource(p PropertyID, so StoreObject) (PropertyID, bool) {
	if so.Kind != Table || !m.IsPrimaryKeyProperty(p) {
		return NoProperty, false
	}
	decl := m.EntityOf(m.prop(p).declaring)
	for _, fk := range m.RowInternalForeignKeys(decl, so) {
		f := m.fk(fk)
		if i := slices.Index(f.properties, p); i >= 0 {
			return m.key(f.principalKey).properties[i], true
		}
	}
	return NoProperty, false
}

// rowInternalShape reports whether f links the primary keys of two distinct
// hierarchies one-to-one.
func (m *Model) rowInternalShape(f *foreignKey) bool {
	if f.removed || !f.unique {
		return false
	}
	pk, ok := m.PrimaryKey(f.declaring)
	if !ok || !samePropertySet(f.properties, m.key(pk).properties) {
		return false
	}
	ppk, ok := m.PrimaryKey(f.principal)
	if !ok || ppk != f.principalKey {
		return false
	}
	return m.RootType(f.declaring) != m.RootType(f.principal)
}

// IsRowInternal reports whether fk links two types stored in the same row
// of so: table splitting or table-split ownership.
func (m *Model) IsRowInternal(fk ForeignKeyID, so StoreObject) bool {
	f := m.fk(fk)
	return m.rowInternalShape(f) && m.MapsTo(f.declaring, so) && m.MapsTo(f.principal, so)
}

// RowInternalForeignKeys returns the foreign keys of t that link it to
// another type stored in the same row of so.
func (m *Model) RowInternalForeignKeys(t TypeID, so StoreObject) []ForeignKeyID {
	if !m.MapsTo(t, so) {
		return nil
	}
	var out []ForeignKeyID
	for _, fk := range m.ForeignKeys(t) {
		f := m.fk(fk)
		if m.rowInternalShape(f) && m.MapsTo(f.principal, so) {
			out = append(out, fk)
		}
	}
	return out
}

func samePropertySet(a, b []PropertyID) bool {
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		if !slices.Contains(b, p) {
			return false
		}
	}
	return true
}

// columnsAt returns the column names of props in so, falling back to the
// property names.
func (m *Model) columnsAt(props []PropertyID, so StoreObject) string {
	cols := make([]string, len(props))
	for i, p := range props {
		if c, ok := m.ColumnNameAt(p, so); ok {
			cols[i] = c
		} else {
			cols[i] = m.prop(p).name
		}
	}
	return strings.Join(cols, "_")
}

// KeyName returns the constraint name of k in the table of its declaring type.
func (m *Model) KeyName(k KeyID) (string, bool) {
	table, ok := m.StoreObjectOf(m.key(k).declaring, Table)
	if !ok {
		return "", false
	}
	return m.KeyNameAt(k, table)
}

// KeyNameSource returns the source of the configured name of k.
func (m *Model) KeyNameSource(k KeyID) ConfigSource { return m.key(k).name.Source }

// KeyNameAt returns the constraint name of k in the table so.
func (m *Model) KeyNameAt(k KeyID, so StoreObject) (string, bool) {
	kk := m.key(k)
	if so.Kind != Table || kk.removed || m.IsMappedToJSON(kk.declaring) || !m.hierarchyMapsTo(kk.declaring, so) {
		return "", false
	}
	if kk.name.IsSet() {
		return kk.name.Get()
	}
	return m.DefaultKeyNameAt(k, so)
}

// DefaultKeyName returns the default constraint name of k in the table of its
// declaring type.
func (m *Model) DefaultKeyName(k KeyID) (string, bool) {
	table, ok := m.StoreObjectOf(m.key(k).declaring, Table)
	if !ok {
		return "", false
	}
	return m.DefaultKeyNameAt(k, table)
}

// DefaultKeyNameAt returns PK_<table> for primary keys and
// AK_<table>_<columns> for alternate keys. A table-split dependent reuses the
// name of the principal's primary key.
func (m *Model) DefaultKeyNameAt(k KeyID, so StoreObject) (string, bool) {
	kk := m.key(k)
	if so.Kind != Table {
		return "", false
	}
	if kk.primary {
		if root := m.sharedRootKey(k, so); root != k {
			return m.KeyNameAt(root, so)
		}
		return "PK_" + so.Name, true
	}
	return "AK_" + so.Name + "_" + m.columnsAt(kk.properties, so), true
}

func (m *Model) sharedRootKey(k KeyID, so StoreObject) KeyID {
	seen := map[KeyID]bool{k: true}
	for {
		var next KeyID = NoKey
		for _, fk := range m.RowInternalForeignKeys(m.key(k).declaring, so) {
			next = m.fk(fk).principalKey
			break
		}
		if next == NoKey || seen[next] {
			return k
		}
		seen[next] = true
		k = next
	}
}

// ConstraintName returns the constraint name of fk in the table of its
// dependent. Foreign keys without a constraint, such as row-internal ones or
// those touching a type without a table, have no name.
func (m *Model) ConstraintName(fk ForeignKeyID) (string, bool) {
	table, ok := m.StoreObjectOf(m.fk(fk).declaring, Table)
	if !ok {
		return "", false
	}
	return m.ConstraintNameAt(fk, table)
}

// ConstraintNameSource returns the source of the configured name of fk.
func (m *Model) ConstraintNameSource(fk ForeignKeyID) ConfigSource { return m.fk(fk).name.Source }

// ConstraintNameAt returns the constraint name of fk in the table so.
func (m *Model) ConstraintNameAt(fk ForeignKeyID, so StoreObject) (string, bool) {
	f := m.fk(fk)
	if _, ok := m.constraintTables(f, so); !ok {
		return "", false
	}
	if f.name.IsSet() {
		return f.name.Get()
	}
	return m.DefaultConstraintNameAt(fk, so)
}

// DefaultConstraintName returns the default constraint name of fk in the
// table of its dependent.
func (m *Model) DefaultConstraintName(fk ForeignKeyID) (string, bool) {
	table, ok := m.StoreObjectOf(m.fk(fk).declaring, Table)
	if !ok {
		return "", false
	}
	return m.DefaultConstraintNameAt(fk, table)
}

// DefaultConstraintNameAt returns FK_<table>_<principal table>_<columns>.
func (m *Model) DefaultConstraintNameAt(fk ForeignKeyID, so StoreObject) (string, bool) {
	f := m.fk(fk)
	principal, ok := m.constraintTables(f, so)
	if !ok {
		return "", false
	}
	return "FK_" + so.Name + "_" + principal.Name + "_" + m.columnsAt(f.properties, so), true
}

// constraintTables returns the principal table of f when f is a real
// constraint of the dependent table so.
func (m *Model) constraintTables(f *foreignKey, so StoreObject) (StoreObject, bool) {
	if so.Kind != Table || f.removed || m.IsMappedToJSON(f.declaring) || !m.hierarchyMapsTo(f.declaring, so) {
		return StoreObject{}, false
	}
	principal, ok := m.StoreObjectOf(f.principal, Table)
	if !ok {
		return StoreObject{}, false
	}
	if principal == so && m.rowInternalShape(f) {
		return StoreObject{}, false
	}
	return principal, true
}

// IndexName returns the database name of i in the table of its declaring type.
func (m *Model) IndexName(i IndexID) (string, bool) {
	table, ok := m.StoreObjectOf(m.idx(i).declaring, Table)
	if !ok {
		return "", false
	}
	return m.IndexNameAt(i, table)
}

// IndexNameSource returns the source of the configured name of i.
func (m *Model) IndexNameSource(i IndexID) ConfigSource { return m.idx(i).name.Source }

// IndexNameAt returns the database name of i in the table so.
func (m *Model) IndexNameAt(i IndexID, so StoreObject) (string, bool) {
	ix := m.idx(i)
	if so.Kind != Table || m.IsMappedToJSON(ix.declaring) || !m.hierarchyMapsTo(ix.declaring, so) {
		return "", false
	}
	if ix.name.IsSet() {
		return ix.name.Get()
	}
	return m.DefaultIndexNameAt(i, so)
}

// DefaultIndexName returns the default name of i in the table of its
// declaring type.
func (m *Model) DefaultIndexName(i IndexID) (string, bool) {
	table, ok := m.StoreObjectOf(m.idx(i).declaring, Table)
	if !ok {
		return "", false
	}
	return m.DefaultIndexNameAt(i, table)
}

// DefaultIndexNameAt returns IX_<table>_<columns>.
func (m *Model) DefaultIndexNameAt(i IndexID, so StoreObject) (string, bool) {
	if so.Kind != Table {
		return "", false
	}
	return "IX_" + so.Name + "_" + m.columnsAt(m.idx(i).properties, so), true
}
