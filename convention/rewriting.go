// Package convention implements the name rewriting convention: an event
// handler that keeps every table, column, key, foreign key and index name of a
// metadata.Model in the form produced by a rewrite.Rewriter.
//
// Names are always recomputed from the model's unrewritten defaults, never
// from the current (possibly already rewritten) value, so handling an event
// twice is harmless. Names configured explicitly are never touched.
package convention

import (
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/naming/metadata"
	"github.com/syssam/naming/rewrite"
)

// Name is the name NameRewriting is registered under.
const Name = "name-rewriting"

// NameRewriting rewrites database object names as the model is built.
type NameRewriting struct {
	rewriter rewrite.Rewriter
	log      *zap.Logger
}

var _ metadata.Handler = (*NameRewriting)(nil)

// Option configures a NameRewriting convention.
type Option func(*NameRewriting)

// WithLogger sets the logger receiving a debug entry per rewritten name.
func WithLogger(l *zap.Logger) Option {
	return func(c *NameRewriting) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a convention rewriting names with r.
func New(r rewrite.Rewriter, opts ...Option) *NameRewriting {
	if r == nil {
		r = rewrite.Identity
	}
	c := &NameRewriting{rewriter: r, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kinds returns the event kinds NameRewriting subscribes to.
func Kinds() []metadata.EventKind {
	return []metadata.EventKind{
		metadata.KindEntityTypeAdded,
		metadata.KindBaseTypeChanged,
		metadata.KindAnnotationChanged,
		metadata.KindPropertyAdded,
		metadata.KindOwnershipChanged,
		metadata.KindForeignKeyAdded,
		metadata.KindForeignKeyPropertiesChanged,
		metadata.KindKeyAdded,
		metadata.KindIndexAdded,
		metadata.KindModelFinalizing,
	}
}

// Register adds c to set at metadata.PhaseRewrite.
func (c *NameRewriting) Register(set *metadata.ConventionSet) *metadata.ConventionSet {
	return set.Add(metadata.PhaseRewrite, Name, c, Kinds()...)
}

func (c *NameRewriting) rewrite(kind, from string) string {
	to := c.rewriter.Rewrite(from)
	if ce := c.log.Check(zap.DebugLevel, "rewrite name"); ce != nil {
		ce.Write(zap.String("kind", kind), zap.String("from", from), zap.String("to", to))
	}
	return to
}

// OnEntityTypeAdded implements metadata.Handler.
func (c *NameRewriting) OnEntityTypeAdded(m *metadata.Model, e metadata.EntityTypeAdded) {
	c.hierarchyChanged(m, e.Type)
}

// OnBaseTypeChanged implements metadata.Handler.
func (c *NameRewriting) OnBaseTypeChanged(m *metadata.Model, e metadata.BaseTypeChanged) {
	c.hierarchyChanged(m, e.Type)
}

// hierarchyChanged recomputes the table and view names of t and the types
// deriving from it.
func (c *NameRewriting) hierarchyChanged(m *metadata.Model, t metadata.TypeID) {
	if m.Kind(t) != metadata.EntityKind {
		return
	}
	root := m.RootType(t)
	strategy := m.MappingStrategy(root)
	if strategy == metadata.TPC && len(m.DerivedTypes(root)) > 0 {
		c.clearParentConstraintNames(m, root)
	}
	for _, typ := range m.DerivedTypesInclusive(t) {
		m.ClearTableName(typ, metadata.Convention)
		m.ClearSchema(typ, metadata.Convention)
		if strategy == metadata.TPC && m.IsAbstract(typ) || m.InheritsTableName(typ) {
			continue
		}
		if name, ok := m.TableName(typ); ok {
			m.SetTableName(typ, c.rewrite("table", name), metadata.Convention)
		}
		if m.AnnotationSource(typ, metadata.AnnotationViewName) == metadata.Convention {
			if view, ok := m.ViewName(typ); ok {
				m.SetViewName(typ, c.rewrite("view", view), metadata.Convention)
			}
		}
	}
}

// clearParentConstraintNames drops the index and foreign key names declared on
// the non-leaf types of a TPC hierarchy: those objects exist once per concrete
// table and take their default name there.
func (c *NameRewriting) clearParentConstraintNames(m *metadata.Model, root metadata.TypeID) {
	for _, t := range m.DerivedTypesInclusive(root) {
		if !isTPCParent(m, t) {
			continue
		}
		for _, i := range m.DeclaredIndexes(t) {
			m.ClearIndexName(i, metadata.Convention)
		}
		for _, fk := range m.DeclaredForeignKeys(t) {
			m.ClearConstraintName(fk, metadata.Convention)
		}
	}
}

func isTPCParent(m *metadata.Model, t metadata.TypeID) bool {
	return m.MappingStrategy(t) == metadata.TPC && len(m.DirectDerivedTypes(t)) > 0
}

// hasSeparateDerivedTables reports whether some type derived from the root of
// t's hierarchy maps to a table other than the root's, as under TPT and TPC.
func hasSeparateDerivedTables(m *metadata.Model, t metadata.TypeID) bool {
	root := m.RootType(t)
	rootTable, rootOK := m.StoreObjectOf(root, metadata.Table)
	for _, d := range m.DerivedTypes(root) {
		if table, ok := m.StoreObjectOf(d, metadata.Table); ok && (!rootOK || table != rootTable) {
			return true
		}
	}
	return false
}

// OnAnnotationChanged implements metadata.Handler.
func (c *NameRewriting) OnAnnotationChanged(m *metadata.Model, e metadata.AnnotationChanged) {
	switch e.Name {
	case metadata.AnnotationMappingStrategy:
		c.hierarchyChanged(m, e.Type)
	case metadata.AnnotationContainerColumnName:
		if fk, ok := m.Ownership(e.Type); ok {
			c.ownershipChanged(m, fk)
		}
	case metadata.AnnotationViewName, metadata.AnnotationSQLQuery, metadata.AnnotationFunctionName:
		// A type redirected to a view, query or function keeps a table only
		// when one was configured explicitly.
		if v, ok := e.New.Get(); ok && v != "" && m.AnnotationSource(e.Type, metadata.AnnotationTableName) == metadata.Convention {
			m.ClearTableName(e.Type, metadata.Convention)
		}
	case metadata.AnnotationTableName:
		c.tableChanged(m, e)
	}
}

// tableChanged recomputes the key, foreign key and index names that embed the
// table name of e.Type.
func (c *NameRewriting) tableChanged(m *metadata.Model, e metadata.AnnotationChanged) {
	t := e.Type
	table, ok := m.StoreObjectOf(t, metadata.Table)
	if !ok {
		return
	}
	if pk, ok := m.PrimaryKey(t); ok {
		if len(m.RowInternalForeignKeys(t, table)) == 0 && !hasSeparateDerivedTables(m, t) {
			c.rewriteKeyName(m, pk)
		} else {
			// The key is shared by several tables; every table uses its default.
			m.ClearKeyName(pk, metadata.Convention)
		}
	}
	for _, k := range m.Keys(t) {
		if !m.IsPrimaryKey(k) && m.KeyDeclaringType(k) == t {
			c.rewriteKeyName(m, k)
		}
	}
	for _, fk := range m.ForeignKeys(t) {
		decl := m.ForeignKeyDeclaringType(fk)
		switch {
		case isTPCParent(m, decl):
			m.ClearConstraintName(fk, metadata.Convention)
		case decl == t:
			c.rewriteConstraintName(m, fk)
		}
	}
	for _, fk := range m.ReferencingForeignKeys(t) {
		dep := m.ForeignKeyDeclaringType(fk)
		switch {
		case m.IsRowInternal(fk, table):
			// A dependent that just joined this table shares its key name.
			if pk, ok := m.PrimaryKey(dep); ok {
				m.ClearKeyName(pk, metadata.Convention)
			}
		case !isTPCParent(m, dep):
			c.rewriteConstraintName(m, fk)
		}
	}
	for _, i := range m.Indexes(t) {
		decl := m.IndexDeclaringType(i)
		switch {
		case isTPCParent(m, decl):
			m.ClearIndexName(i, metadata.Convention)
		case decl == t:
			c.rewriteIndexName(m, i)
		}
	}

	// An owned type moved out of its owner's table gets back the names of a
	// standalone type.
	v, ok := e.New.Get()
	if !ok {
		return
	}
	owner, owned := m.Owner(t)
	if !owned {
		return
	}
	if ownerTable, ok := m.TableName(owner); ok && ownerTable == v {
		return
	}
	for _, p := range m.StructuralProperties(t) {
		c.rewriteColumnName(m, p)
	}
	if pk, ok := m.PrimaryKey(t); ok {
		c.rewriteKeyName(m, pk)
	}
}

// OnOwnershipChanged implements metadata.Handler.
func (c *NameRewriting) OnOwnershipChanged(m *metadata.Model, e metadata.OwnershipChanged) {
	c.ownershipChanged(m, e.ForeignKey)
}

func (c *NameRewriting) ownershipChanged(m *metadata.Model, fk metadata.ForeignKeyID) {
	if m.IsRemoved(fk) || !m.IsOwnership(fk) {
		return
	}
	owned := m.ForeignKeyDeclaringType(fk)
	switch {
	case m.IsMappedToJSON(owned):
		m.ClearTableName(owned, metadata.Convention)
		m.ClearSchema(owned, metadata.Convention)
		if pk, ok := m.PrimaryKey(owned); ok {
			m.ClearKeyName(pk, metadata.Convention)
		}
		if m.Annotation(owned, metadata.AnnotationContainerColumnName).IsSet() {
			if name, ok := m.DefaultContainerColumnName(owned); ok {
				m.SetContainerColumnName(owned, c.rewrite("container column", name), metadata.Convention)
			}
		}
		for _, p := range m.StructuralProperties(owned) {
			m.ClearColumnName(p, metadata.Convention)
		}
	case m.IsUnique(fk):
		m.ClearTableName(owned, metadata.Convention)
		m.ClearSchema(owned, metadata.Convention)
		if pk, ok := m.PrimaryKey(owned); ok {
			m.ClearKeyName(pk, metadata.Convention)
		}
		for _, p := range m.StructuralProperties(owned) {
			c.rewriteColumnName(m, p)
		}
	}
}

// OnPropertyAdded implements metadata.Handler.
func (c *NameRewriting) OnPropertyAdded(m *metadata.Model, e metadata.PropertyAdded) {
	if m.IsMappedToJSON(m.DeclaringType(e.Property)) {
		return
	}
	c.rewriteColumnName(m, e.Property)
}

// OnForeignKeyAdded implements metadata.Handler.
func (c *NameRewriting) OnForeignKeyAdded(m *metadata.Model, e metadata.ForeignKeyAdded) {
	c.foreignKeyChanged(m, e.ForeignKey)
}

// OnForeignKeyPropertiesChanged implements metadata.Handler.
func (c *NameRewriting) OnForeignKeyPropertiesChanged(m *metadata.Model, e metadata.ForeignKeyPropertiesChanged) {
	c.foreignKeyChanged(m, e.ForeignKey)
}

func (c *NameRewriting) foreignKeyChanged(m *metadata.Model, fk metadata.ForeignKeyID) {
	if m.IsRemoved(fk) || isTPCParent(m, m.ForeignKeyDeclaringType(fk)) {
		return
	}
	c.rewriteConstraintName(m, fk)
}

// OnKeyAdded implements metadata.Handler.
func (c *NameRewriting) OnKeyAdded(m *metadata.Model, e metadata.KeyAdded) {
	k := e.Key
	t := m.KeyDeclaringType(k)
	if m.IsKeyRemoved(k) || m.IsOwned(t) {
		return
	}
	if m.IsPrimaryKey(k) {
		if hasSeparateDerivedTables(m, t) {
			return
		}
		if table, ok := m.StoreObjectOf(t, metadata.Table); ok && len(m.RowInternalForeignKeys(t, table)) > 0 {
			return
		}
	}
	c.rewriteKeyName(m, k)
}

// OnIndexAdded implements metadata.Handler.
func (c *NameRewriting) OnIndexAdded(m *metadata.Model, e metadata.IndexAdded) {
	if isTPCParent(m, m.IndexDeclaringType(e.Index)) {
		return
	}
	c.rewriteIndexName(m, e.Index)
}

// OnModelFinalizing implements metadata.Handler. Columns that the host
// prefixed with a type's short name to keep shared tables unambiguous get the
// rewritten short name instead.
func (c *NameRewriting) OnModelFinalizing(m *metadata.Model, _ metadata.ModelFinalizing) {
	for _, t := range m.EntityTypes() {
		short := m.ShortName(t)
		prefix := short + "_"
		var rewritten string
		replace := func(col string) (string, bool) {
			if !strings.HasPrefix(col, prefix) {
				return "", false
			}
			if rewritten == "" {
				rewritten = c.rewrite("type prefix", short)
			}
			return rewritten + col[len(short):], true
		}
		table, hasTable := m.StoreObjectOf(t, metadata.Table)
		for _, p := range m.StructuralProperties(t) {
			if col, ok := m.ColumnName(p); ok {
				if to, ok := replace(col); ok {
					m.SetColumnName(p, to, metadata.Convention)
				}
			}
			if !hasTable {
				continue
			}
			if col, ok := m.ColumnNameAt(p, table); ok {
				if to, ok := replace(col); ok {
					m.SetColumnNameAt(p, table, to, metadata.Convention)
				}
			}
		}
	}
}

// rewriteColumnName recomputes the base column name of p and every
// convention-sourced per-store-object override from their defaults. A key
// column shared with a principal in the same table is left to the host, which
// already resolves it to the principal's rewritten column.
func (c *NameRewriting) rewriteColumnName(m *metadata.Model, p metadata.PropertyID) {
	m.ClearColumnName(p, metadata.Convention)
	decl := m.DeclaringType(p)
	table, ok := m.StoreObjectOf(decl, metadata.Table)
	shared := ok && m.SharesColumn(p, table)
	if shared {
		m.ClearColumnNameAt(p, table, metadata.Convention)
	} else if name, ok := m.DefaultColumnName(p); ok {
		m.SetColumnName(p, c.rewrite("column", name), metadata.Convention)
	}
	for _, kind := range metadata.StoreObjectKinds {
		so, ok := m.StoreObjectOf(decl, kind)
		if !ok || shared && so == table {
			continue
		}
		// Without a base column the other store objects need their own.
		if src := m.ColumnNameSourceAt(p, so); src != metadata.Convention && !(shared && src == metadata.NoSource) {
			continue
		}
		if name, ok := m.DefaultColumnNameAt(p, so); ok {
			m.SetColumnNameAt(p, so, c.rewrite("column", name), metadata.Convention)
		}
	}
}

func (c *NameRewriting) rewriteKeyName(m *metadata.Model, k metadata.KeyID) {
	if name, ok := m.DefaultKeyName(k); ok {
		m.SetKeyName(k, c.rewrite("key", name), metadata.Convention)
	}
}

func (c *NameRewriting) rewriteConstraintName(m *metadata.Model, fk metadata.ForeignKeyID) {
	if name, ok := m.DefaultConstraintName(fk); ok {
		m.SetConstraintName(fk, c.rewrite("foreign key", name), metadata.Convention)
	}
}

func (c *NameRewriting) rewriteIndexName(m *metadata.Model, i metadata.IndexID) {
	if name, ok := m.DefaultIndexName(i); ok {
		m.SetIndexName(i, c.rewrite("index", name), metadata.Convention)
	}
}
