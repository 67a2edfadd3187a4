package metadata

import (
	"errors"
	"slices"

	"go.uber.org/zap"
)

type structuralType struct {
	id        TypeID
	name      string
	shortName string
	kind      TypeKind
	abstract  bool
	base      TypeID
	derived   []TypeID
	// container and complexProperty locate a complex type inside its
	// containing structural type.
	container       TypeID
	complexProperty string
	complexTypes    []TypeID
	// ownedDefinition marks types created through OwnsOne/OwnsMany; their
	// keys are configured by the builder, not by key discovery.
	ownedDefinition bool
	contextTable    string
	properties      []PropertyID
	keys            []KeyID
	primaryKey      KeyID
	foreignKeys     []ForeignKeyID
	indexes         []IndexID
	annotations     map[string]Setting
}

type property struct {
	id        PropertyID
	name      string
	declaring TypeID
	shadow    bool
	column    Setting
	overrides map[StoreObject]Setting
}

type key struct {
	id         KeyID
	declaring  TypeID
	properties []PropertyID
	primary    bool
	source     ConfigSource
	name       Setting
	removed    bool
}

type foreignKey struct {
	id           ForeignKeyID
	declaring    TypeID
	properties   []PropertyID
	principal    TypeID
	principalKey KeyID
	unique       bool
	ownership    bool
	toPrincipal  string
	toDependent  string
	name         Setting
	removed      bool
}

type index struct {
	id         IndexID
	declaring  TypeID
	properties []PropertyID
	unique     bool
	name       Setting
}

// Model is a mutable relational model. A Model is not safe for concurrent use.
type Model struct {
	conventions *ConventionSet
	log         *zap.Logger
	maxEvents   int

	types       []*structuralType
	properties  []*property
	keys        []*key
	foreignKeys []*foreignKey
	indexes     []*index
	byName      map[string]TypeID
	sets        map[string]string

	queue       []Event
	dispatching bool
	finalized   bool
	errs        []error
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used to trace event dispatch.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMaxEvents bounds the number of events delivered for a single builder
// operation. The default is 1<<16.
func WithMaxEvents(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxEvents = n
		}
	}
}

// New returns an empty model whose events are delivered to set.
// A nil set delivers events to nobody.
func New(set *ConventionSet, opts ...Option) *Model {
	if set == nil {
		set = NewConventionSet()
	}
	m := &Model{
		conventions: set,
		log:         zap.NewNop(),
		maxEvents:   1 << 16,
		byName:      make(map[string]TypeID),
		sets:        make(map[string]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Conventions returns the convention set of the model.
func (m *Model) Conventions() *ConventionSet { return m.conventions }

// raise delivers e, or queues it when a handler is already running.
func (m *Model) raise(e Event) {
	m.queue = append(m.queue, e)
	if m.dispatching {
		return
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()
	for n := 0; len(m.queue) > 0; n++ {
		if n == m.maxEvents {
			m.queue = nil
			m.fail(ErrNotConverged)
			return
		}
		next := m.queue[0]
		m.queue = m.queue[1:]
		m.log.Debug("dispatch", zap.Stringer("event", next.Kind()))
		m.conventions.dispatch(m, next)
	}
}

// Raise delivers e to the model's conventions. It is intended for hosts that
// need to re-trigger a convention, e.g. after bulk edits.
func (m *Model) Raise(e Event) { m.raise(e) }

func (m *Model) fail(err error) {
	m.errs = append(m.errs, err)
}

// Err returns the errors recorded while building the model, if any.
func (m *Model) Err() error {
	return errors.Join(m.errs...)
}

// Finalize raises ModelFinalizing once and returns the recorded build errors.
// Later calls only return the errors.
func (m *Model) Finalize() error {
	if !m.finalized {
		m.finalized = true
		m.raise(ModelFinalizing{})
	}
	return m.Err()
}

// IsFinalized reports whether Finalize was called.
func (m *Model) IsFinalized() bool { return m.finalized }

func (m *Model) typ(id TypeID) *structuralType {
	if id < 0 || int(id) >= len(m.types) {
		return nil
	}
	return m.types[id]
}

func (m *Model) prop(id PropertyID) *property {
	if id < 0 || int(id) >= len(m.properties) {
		return nil
	}
	return m.properties[id]
}

func (m *Model) key(id KeyID) *key {
	if id < 0 || int(id) >= len(m.keys) {
		return nil
	}
	return m.keys[id]
}

func (m *Model) fk(id ForeignKeyID) *foreignKey {
	if id < 0 || int(id) >= len(m.foreignKeys) {
		return nil
	}
	return m.foreignKeys[id]
}

func (m *Model) idx(id IndexID) *index {
	if id < 0 || int(id) >= len(m.indexes) {
		return nil
	}
	return m.indexes[id]
}

// Lookup returns the type registered under name.
func (m *Model) Lookup(name string) (TypeID, bool) {
	id, ok := m.byName[name]
	return id, ok
}

// EntityTypes returns all entity types in declaration order.
func (m *Model) EntityTypes() []TypeID {
	ids := make([]TypeID, 0, len(m.types))
	for _, t := range m.types {
		if t.kind == EntityKind {
			ids = append(ids, t.id)
		}
	}
	return ids
}

// TypeName returns the full name of a type.
func (m *Model) TypeName(t TypeID) string { return m.typ(t).name }

// ShortName returns the unqualified name of a type.
func (m *Model) ShortName(t TypeID) string { return m.typ(t).shortName }

// Kind returns whether t is an entity or a complex type.
func (m *Model) Kind(t TypeID) TypeKind { return m.typ(t).kind }

// IsAbstract reports whether t is abstract.
func (m *Model) IsAbstract(t TypeID) bool { return m.typ(t).abstract }

// ContextTableName returns the context set name registered for t.
func (m *Model) ContextTableName(t TypeID) string { return m.typ(t).contextTable }

// SetContextTableName records the context set name of t. It is the default
// table name of root and TPT/TPC types.
func (m *Model) SetContextTableName(t TypeID, name string) {
	m.typ(t).contextTable = name
}

// ContextSet returns the set name registered for the type name.
func (m *Model) ContextSet(typeName string) (string, bool) {
	s, ok := m.sets[typeName]
	return s, ok
}

// Container returns the structural type holding the complex type t.
func (m *Model) Container(t TypeID) (TypeID, bool) {
	st := m.typ(t)
	if st.kind != ComplexKind {
		return NoType, false
	}
	return st.container, true
}

// ComplexPropertyName returns the name of the complex property holding t.
func (m *Model) ComplexPropertyName(t TypeID) string { return m.typ(t).complexProperty }

// ComplexTypes returns the complex types declared directly on t.
func (m *Model) ComplexTypes(t TypeID) []TypeID { return slices.Clone(m.typ(t).complexTypes) }

// EntityOf returns t, or the entity type that transitively contains the
// complex type t.
func (m *Model) EntityOf(t TypeID) TypeID {
	for m.typ(t).kind == ComplexKind {
		t = m.typ(t).container
	}
	return t
}

// BaseType returns the direct base type of t.
func (m *Model) BaseType(t TypeID) (TypeID, bool) {
	b := m.typ(t).base
	return b, b != NoType
}

// RootType returns the root of t's hierarchy.
func (m *Model) RootType(t TypeID) TypeID {
	for m.typ(t).base != NoType {
		t = m.typ(t).base
	}
	return t
}

// DirectDerivedTypes returns the types deriving directly from t.
func (m *Model) DirectDerivedTypes(t TypeID) []TypeID {
	return slices.Clone(m.typ(t).derived)
}

// DerivedTypes returns every type deriving from t, breadth first.
func (m *Model) DerivedTypes(t TypeID) []TypeID {
	var out []TypeID
	queue := slices.Clone(m.typ(t).derived)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		out = append(out, next)
		queue = append(queue, m.typ(next).derived...)
	}
	return out
}

// DerivedTypesInclusive returns t followed by DerivedTypes(t).
func (m *Model) DerivedTypesInclusive(t TypeID) []TypeID {
	return append([]TypeID{t}, m.DerivedTypes(t)...)
}

// Ancestors returns the base types of t, nearest first.
func (m *Model) Ancestors(t TypeID) []TypeID {
	var out []TypeID
	for b := m.typ(t).base; b != NoType; b = m.typ(b).base {
		out = append(out, b)
	}
	return out
}

// MappingStrategy returns the inheritance strategy of t's hierarchy.
func (m *Model) MappingStrategy(t TypeID) MappingStrategy {
	root := m.typ(m.RootType(m.EntityOf(t)))
	if v, ok := root.annotations[AnnotationMappingStrategy].Get(); ok {
		return MappingStrategy(v)
	}
	return TPH
}

// Ownership returns the ownership foreign key of the owned type t.
func (m *Model) Ownership(t TypeID) (ForeignKeyID, bool) {
	for _, id := range m.typ(t).foreignKeys {
		if f := m.fk(id); !f.removed && f.ownership {
			return id, true
		}
	}
	return NoForeignKey, false
}

// IsOwned reports whether t is an owned type.
func (m *Model) IsOwned(t TypeID) bool {
	_, ok := m.Ownership(t)
	return ok
}

// Owner returns the owner of the owned type t.
func (m *Model) Owner(t TypeID) (TypeID, bool) {
	fk, ok := m.Ownership(t)
	if !ok {
		return NoType, false
	}
	return m.fk(fk).principal, true
}

// IsMappedToJSON reports whether t is stored in a JSON container column,
// directly or through its owner.
func (m *Model) IsMappedToJSON(t TypeID) bool {
	t = m.EntityOf(t)
	for depth := 0; depth < 64; depth++ {
		owner, ok := m.Owner(t)
		if !ok {
			return false
		}
		if m.typ(t).annotations[AnnotationContainerColumnName].IsSet() {
			return true
		}
		t = owner
	}
	return false
}

// Properties returns the properties of t including inherited ones, base
// types first.
func (m *Model) Properties(t TypeID) []PropertyID {
	var out []PropertyID
	for _, owner := range m.lineage(t) {
		out = append(out, m.typ(owner).properties...)
	}
	return out
}

// lineage returns the root of t's hierarchy down to t.
func (m *Model) lineage(t TypeID) []TypeID {
	chain := m.Ancestors(t)
	slices.Reverse(chain)
	return append(chain, t)
}

// DeclaredProperties returns the properties declared on t.
func (m *Model) DeclaredProperties(t TypeID) []PropertyID {
	return slices.Clone(m.typ(t).properties)
}

// FindProperty finds a declared or inherited property by name.
func (m *Model) FindProperty(t TypeID, name string) (PropertyID, bool) {
	for _, id := range m.Properties(t) {
		if m.prop(id).name == name {
			return id, true
		}
	}
	return NoProperty, false
}

// PropertyName returns the name of p.
func (m *Model) PropertyName(p PropertyID) string { return m.prop(p).name }

// IsShadow reports whether p was created by the model rather than declared.
func (m *Model) IsShadow(p PropertyID) bool { return m.prop(p).shadow }

// DeclaringType returns the type declaring p.
func (m *Model) DeclaringType(p PropertyID) TypeID { return m.prop(p).declaring }

// PrimaryKey returns the primary key of t, which lives on its root type.
func (m *Model) PrimaryKey(t TypeID) (KeyID, bool) {
	k := m.typ(m.RootType(m.EntityOf(t))).primaryKey
	return k, k != NoKey
}

// IsPrimaryKeyProperty reports whether p is part of its type's primary key.
func (m *Model) IsPrimaryKeyProperty(p PropertyID) bool {
	k, ok := m.PrimaryKey(m.prop(p).declaring)
	return ok && slices.Contains(m.key(k).properties, p)
}

// Keys returns the live keys of t and its base types.
func (m *Model) Keys(t TypeID) []KeyID {
	var out []KeyID
	for _, owner := range m.lineage(t) {
		for _, id := range m.typ(owner).keys {
			if !m.key(id).removed {
				out = append(out, id)
			}
		}
	}
	return out
}

// KeyProperties returns the properties of k.
func (m *Model) KeyProperties(k KeyID) []PropertyID { return slices.Clone(m.key(k).properties) }

// IsPrimaryKey reports whether k is a primary key.
func (m *Model) IsPrimaryKey(k KeyID) bool { return m.key(k).primary }

// IsKeyRemoved reports whether k was replaced or removed.
func (m *Model) IsKeyRemoved(k KeyID) bool { return m.key(k).removed }

// KeyDeclaringType returns the type declaring k.
func (m *Model) KeyDeclaringType(k KeyID) TypeID { return m.key(k).declaring }

// ForeignKeys returns the live foreign keys of t and its base types, with t
// as the dependent.
func (m *Model) ForeignKeys(t TypeID) []ForeignKeyID {
	var out []ForeignKeyID
	for _, owner := range m.lineage(t) {
		for _, id := range m.typ(owner).foreignKeys {
			if !m.fk(id).removed {
				out = append(out, id)
			}
		}
	}
	return out
}

// DeclaredForeignKeys returns the live foreign keys declared on t.
func (m *Model) DeclaredForeignKeys(t TypeID) []ForeignKeyID {
	var out []ForeignKeyID
	for _, id := range m.typ(t).foreignKeys {
		if !m.fk(id).removed {
			out = append(out, id)
		}
	}
	return out
}

// ReferencingForeignKeys returns the live foreign keys whose principal is t or
// one of its base types.
func (m *Model) ReferencingForeignKeys(t TypeID) []ForeignKeyID {
	principals := append(m.Ancestors(t), t)
	var out []ForeignKeyID
	for _, f := range m.foreignKeys {
		if !f.removed && slices.Contains(principals, f.principal) {
			out = append(out, f.id)
		}
	}
	return out
}

// ForeignKeyProperties returns the dependent properties of fk.
func (m *Model) ForeignKeyProperties(fk ForeignKeyID) []PropertyID {
	return slices.Clone(m.fk(fk).properties)
}

// ForeignKeyDeclaringType returns the dependent type of fk.
func (m *Model) ForeignKeyDeclaringType(fk ForeignKeyID) TypeID { return m.fk(fk).declaring }

// Principal returns the principal type of fk.
func (m *Model) Principal(fk ForeignKeyID) TypeID { return m.fk(fk).principal }

// PrincipalKey returns the principal key of fk.
func (m *Model) PrincipalKey(fk ForeignKeyID) KeyID { return m.fk(fk).principalKey }

// IsUnique reports whether fk is one-to-one.
func (m *Model) IsUnique(fk ForeignKeyID) bool { return m.fk(fk).unique }

// IsOwnership reports whether fk is an ownership.
func (m *Model) IsOwnership(fk ForeignKeyID) bool { return m.fk(fk).ownership }

// IsRemoved reports whether fk was removed from the model.
func (m *Model) IsRemoved(fk ForeignKeyID) bool { return m.fk(fk).removed }

// DependentNavigation returns the navigation from the principal to the
// dependent of fk; for ownerships this is the owned navigation name.
func (m *Model) DependentNavigation(fk ForeignKeyID) string { return m.fk(fk).toDependent }

// Indexes returns the indexes of t and its base types.
func (m *Model) Indexes(t TypeID) []IndexID {
	var out []IndexID
	for _, owner := range m.lineage(t) {
		out = append(out, m.typ(owner).indexes...)
	}
	return out
}

// DeclaredIndexes returns the indexes declared on t.
func (m *Model) DeclaredIndexes(t TypeID) []IndexID { return slices.Clone(m.typ(t).indexes) }

// IndexProperties returns the properties of i.
func (m *Model) IndexProperties(i IndexID) []PropertyID { return slices.Clone(m.idx(i).properties) }

// IndexDeclaringType returns the type declaring i.
func (m *Model) IndexDeclaringType(i IndexID) TypeID { return m.idx(i).declaring }

// IsUniqueIndex reports whether i is unique.
func (m *Model) IsUniqueIndex(i IndexID) bool { return m.idx(i).unique }
