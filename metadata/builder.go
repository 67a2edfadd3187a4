package metadata

import (
	"slices"
	"strings"
)

// EntityBuilder configures an entity, owned or complex type. Builder errors are
// recorded on the model and returned by Model.Finalize; a builder for a type
// that could not be created ignores every call.
type EntityBuilder struct {
	m  *Model
	id TypeID
}

// PropertyBuilder configures a property.
type PropertyBuilder struct {
	m  *Model
	id PropertyID
}

// KeyBuilder configures a primary or alternate key.
type KeyBuilder struct {
	m  *Model
	id KeyID
}

// ForeignKeyBuilder configures a foreign key.
type ForeignKeyBuilder struct {
	m  *Model
	id ForeignKeyID
}

// IndexBuilder configures an index.
type IndexBuilder struct {
	m  *Model
	id IndexID
}

// shortName strips namespaces and nesting from a type name.
func shortName(name string) string {
	if i := strings.LastIndexAny(name, ".+"); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}

// RegisterSet declares the context set exposing typeName. Register sets before
// declaring the type: the set name becomes the default table name.
func (m *Model) RegisterSet(set, typeName string) *Model {
	m.sets[typeName] = set
	return m
}

// Entity returns the builder of the named entity type, declaring it first if
// needed.
func (m *Model) Entity(name string) *EntityBuilder {
	return m.entity(name, false)
}

// AbstractEntity is like Entity but marks the type abstract.
func (m *Model) AbstractEntity(name string) *EntityBuilder {
	return m.entity(name, true)
}

func (m *Model) entity(name string, abstract bool) *EntityBuilder {
	if id, ok := m.byName[name]; ok {
		if m.typ(id).kind != EntityKind {
			m.fail(NewModelError(name, "", "declared as a complex type", ErrDuplicateType))
			return &EntityBuilder{m: m, id: NoType}
		}
		if abstract {
			m.typ(id).abstract = true
		}
		return &EntityBuilder{m: m, id: id}
	}
	if !m.mutable(name) {
		return &EntityBuilder{m: m, id: NoType}
	}
	id := m.addType(name, shortName(name), EntityKind)
	m.typ(id).abstract = abstract
	m.raise(EntityTypeAdded{Type: id})
	return &EntityBuilder{m: m, id: id}
}

func (m *Model) mutable(name string) bool {
	if m.finalized {
		m.fail(NewModelError(name, "", "cannot change a finalized model", ErrFinalized))
		return false
	}
	return true
}

func (m *Model) addType(name, short string, kind TypeKind) TypeID {
	id := TypeID(len(m.types))
	m.types = append(m.types, &structuralType{
		id:         id,
		name:       name,
		shortName:  short,
		kind:       kind,
		base:       NoType,
		container:  NoType,
		primaryKey: NoKey,
	})
	m.byName[name] = id
	return id
}

func (m *Model) addProperty(t TypeID, name string, shadow bool) PropertyID {
	id := PropertyID(len(m.properties))
	m.properties = append(m.properties, &property{id: id, name: name, declaring: t, shadow: shadow})
	st := m.typ(t)
	st.properties = append(st.properties, id)
	m.raise(PropertyAdded{Property: id})
	return id
}

func (m *Model) setPrimaryKey(t TypeID, props []PropertyID, src ConfigSource) KeyID {
	st := m.typ(t)
	var old *key
	if cur := m.key(st.primaryKey); cur != nil {
		if slices.Equal(cur.properties, props) {
			cur.source = max(cur.source, src)
			return cur.id
		}
		if !src.Overrides(cur.source) {
			return cur.id
		}
		cur.removed = true
		old = cur
	}
	id := KeyID(len(m.keys))
	m.keys = append(m.keys, &key{id: id, declaring: t, properties: slices.Clone(props), primary: true, source: src})
	st.keys = append(st.keys, id)
	st.primaryKey = id
	if old != nil {
		for _, f := range m.foreignKeys {
			if f.principalKey == old.id {
				f.principalKey = id
			}
		}
	}
	m.raise(KeyAdded{Key: id})
	return id
}

func (m *Model) addAlternateKey(t TypeID, props []PropertyID) KeyID {
	for _, k := range m.Keys(t) {
		if kk := m.key(k); !kk.primary && slices.Equal(kk.properties, props) {
			return k
		}
	}
	id := KeyID(len(m.keys))
	m.keys = append(m.keys, &key{id: id, declaring: t, properties: slices.Clone(props), source: Explicit})
	st := m.typ(t)
	st.keys = append(st.keys, id)
	m.raise(KeyAdded{Key: id})
	return id
}

func (m *Model) addForeignKey(dependent, principal TypeID, props []PropertyID, unique, ownership bool, navigation string) ForeignKeyID {
	pk, _ := m.PrimaryKey(principal)
	id := ForeignKeyID(len(m.foreignKeys))
	m.foreignKeys = append(m.foreignKeys, &foreignKey{
		id:           id,
		declaring:    dependent,
		properties:   slices.Clone(props),
		principal:    principal,
		principalKey: pk,
		unique:       unique,
		ownership:    ownership,
		toPrincipal:  m.typ(principal).shortName,
		toDependent:  navigation,
	})
	st := m.typ(dependent)
	st.foreignKeys = append(st.foreignKeys, id)
	m.raise(ForeignKeyAdded{ForeignKey: id})
	if ownership {
		m.raise(OwnershipChanged{ForeignKey: id})
	}
	return id
}

// ID returns the type identifier, or NoType if the type could not be created.
func (b *EntityBuilder) ID() TypeID { return b.id }

// Model returns the model being built.
func (b *EntityBuilder) Model() *Model { return b.m }

func (b *EntityBuilder) ok() bool {
	return b.id != NoType && b.m.mutable(b.m.typ(b.id).name)
}

func (b *EntityBuilder) fail(member, message string, cause error) {
	b.m.fail(NewModelError(b.m.typ(b.id).name, member, message, cause))
}

// HasBase makes the named entity type the base type of b, declaring it if
// needed. Keys discovered on b by convention are dropped: a derived type uses
// the key of its root.
func (b *EntityBuilder) HasBase(name string) *EntityBuilder {
	if !b.ok() {
		return b
	}
	m := b.m
	st := m.typ(b.id)
	if st.ownedDefinition || st.kind != EntityKind {
		b.fail("", "owned and complex types cannot derive", ErrInvalidMapping)
		return b
	}
	base := m.Entity(name).id
	if base == NoType {
		return b
	}
	if base == b.id || slices.Contains(m.Ancestors(base), b.id) {
		b.fail("", "inheritance cycle through "+name, ErrInvalidMapping)
		return b
	}
	if st.base == base {
		return b
	}
	if cur := m.key(st.primaryKey); cur != nil {
		if cur.source > Convention {
			b.fail("", "a derived type cannot declare a primary key", ErrInvalidMapping)
			return b
		}
		cur.removed = true
		st.primaryKey = NoKey
	}
	old := st.base
	if old != NoType {
		ot := m.typ(old)
		ot.derived = slices.DeleteFunc(ot.derived, func(d TypeID) bool { return d == b.id })
	}
	st.base = base
	m.typ(base).derived = append(m.typ(base).derived, b.id)
	m.raise(BaseTypeChanged{Type: b.id, Old: old, New: base})
	return b
}

// Property returns the builder of the named property, declaring it on b if
// no declared or inherited property has that name.
func (b *EntityBuilder) Property(name string) *PropertyBuilder {
	if b.id == NoType {
		return &PropertyBuilder{m: b.m, id: NoProperty}
	}
	if p, ok := b.m.FindProperty(b.id, name); ok {
		return &PropertyBuilder{m: b.m, id: p}
	}
	if !b.ok() {
		return &PropertyBuilder{m: b.m, id: NoProperty}
	}
	return &PropertyBuilder{m: b.m, id: b.m.addProperty(b.id, name, false)}
}

// Properties declares several properties at once.
func (b *EntityBuilder) Properties(names ...string) *EntityBuilder {
	for _, name := range names {
		b.Property(name)
	}
	return b
}

func (b *EntityBuilder) resolve(names []string, create bool) ([]PropertyID, bool) {
	if len(names) == 0 {
		b.fail("", "no properties given", ErrUnknownProperty)
		return nil, false
	}
	props := make([]PropertyID, 0, len(names))
	for _, name := range names {
		p, ok := b.m.FindProperty(b.id, name)
		switch {
		case ok:
		case create:
			p = b.m.addProperty(b.id, name, true)
		default:
			b.fail(name, "unknown property", ErrUnknownProperty)
			return nil, false
		}
		props = append(props, p)
	}
	return props, true
}

// HasKey configures the primary key of b.
func (b *EntityBuilder) HasKey(names ...string) *KeyBuilder {
	if !b.ok() {
		return &KeyBuilder{m: b.m, id: NoKey}
	}
	if b.m.typ(b.id).base != NoType {
		b.fail("", "a derived type cannot declare a primary key", ErrInvalidMapping)
		return &KeyBuilder{m: b.m, id: NoKey}
	}
	props, ok := b.resolve(names, false)
	if !ok {
		return &KeyBuilder{m: b.m, id: NoKey}
	}
	return &KeyBuilder{m: b.m, id: b.m.setPrimaryKey(b.id, props, Explicit)}
}

// HasAlternateKey declares an alternate key on b.
func (b *EntityBuilder) HasAlternateKey(names ...string) *KeyBuilder {
	if !b.ok() {
		return &KeyBuilder{m: b.m, id: NoKey}
	}
	props, ok := b.resolve(names, false)
	if !ok {
		return &KeyBuilder{m: b.m, id: NoKey}
	}
	return &KeyBuilder{m: b.m, id: b.m.addAlternateKey(b.id, props)}
}

// HasIndex declares an index on b.
func (b *EntityBuilder) HasIndex(names ...string) *IndexBuilder {
	if !b.ok() {
		return &IndexBuilder{m: b.m, id: NoIndex}
	}
	props, ok := b.resolve(names, false)
	if !ok {
		return &IndexBuilder{m: b.m, id: NoIndex}
	}
	m := b.m
	id := IndexID(len(m.indexes))
	m.indexes = append(m.indexes, &index{id: id, declaring: b.id, properties: props})
	st := m.typ(b.id)
	st.indexes = append(st.indexes, id)
	m.raise(IndexAdded{Index: id})
	return &IndexBuilder{m: m, id: id}
}

// HasForeignKey declares a many-to-one relationship from b to the primary key
// of principal. Missing dependent properties are created as shadow properties.
func (b *EntityBuilder) HasForeignKey(principal string, names ...string) *ForeignKeyBuilder {
	return b.relationship(principal, names, false)
}

// HasUniqueForeignKey declares a one-to-one relationship from b to the primary
// key of principal.
func (b *EntityBuilder) HasUniqueForeignKey(principal string, names ...string) *ForeignKeyBuilder {
	return b.relationship(principal, names, true)
}

func (b *EntityBuilder) relationship(principal string, names []string, unique bool) *ForeignKeyBuilder {
	none := &ForeignKeyBuilder{m: b.m, id: NoForeignKey}
	if !b.ok() {
		return none
	}
	m := b.m
	pt, ok := m.Lookup(principal)
	if !ok {
		b.fail(principal, "unknown principal type", ErrUnknownType)
		return none
	}
	pk, ok := m.PrimaryKey(pt)
	if !ok {
		b.fail(principal, "principal type has no primary key", ErrInvalidMapping)
		return none
	}
	if len(names) != len(m.key(pk).properties) {
		b.fail(principal, "foreign key does not match the principal key", ErrInvalidMapping)
		return none
	}
	props, ok := b.resolve(names, true)
	if !ok {
		return none
	}
	return &ForeignKeyBuilder{m: m, id: m.addForeignKey(b.id, pt, props, unique, false, m.typ(b.id).shortName)}
}

// OwnsOne declares a table-split owned type reachable through navigation and
// returns its builder. The owned type's key mirrors the owner's primary key.
func (b *EntityBuilder) OwnsOne(navigation, typeName string) *EntityBuilder {
	return b.owns(navigation, typeName, false)
}

// OwnsMany declares an owned collection stored in its own table.
func (b *EntityBuilder) OwnsMany(navigation, typeName string) *EntityBuilder {
	return b.owns(navigation, typeName, true)
}

func (b *EntityBuilder) owns(navigation, typeName string, many bool) *EntityBuilder {
	if !b.ok() {
		return &EntityBuilder{m: b.m, id: NoType}
	}
	m := b.m
	owner := m.typ(b.id)
	name := owner.name + "." + navigation + "#" + typeName
	if id, ok := m.byName[name]; ok {
		return &EntityBuilder{m: m, id: id}
	}
	pk, ok := m.PrimaryKey(b.id)
	if !ok {
		b.fail(navigation, "owner has no primary key", ErrInvalidMapping)
		return &EntityBuilder{m: m, id: NoType}
	}
	id := m.addType(name, typeName, EntityKind)
	m.typ(id).ownedDefinition = true
	m.raise(EntityTypeAdded{Type: id})

	var fkProps []PropertyID
	for _, pp := range m.key(pk).properties {
		pn := m.prop(pp).name
		if !strings.HasPrefix(pn, owner.shortName) {
			pn = owner.shortName + pn
		}
		fkProps = append(fkProps, m.addProperty(id, pn, true))
	}
	keyProps := slices.Clone(fkProps)
	if many {
		keyProps = append(keyProps, m.addProperty(id, "Id", true))
	}
	m.setPrimaryKey(id, keyProps, Convention)
	m.addForeignKey(id, b.id, fkProps, !many, true, navigation)
	return &EntityBuilder{m: m, id: id}
}

// ToJSON stores the owned type b in a JSON container column named after its
// navigation.
func (b *EntityBuilder) ToJSON() *EntityBuilder {
	if !b.ok() {
		return b
	}
	nav, ok := b.m.DefaultContainerColumnName(b.id)
	if !ok {
		b.fail("", "only owned types can be mapped to JSON", ErrInvalidMapping)
		return b
	}
	b.m.SetContainerColumnName(b.id, nav, Convention)
	return b
}

// ToJSONColumn stores the owned type b in the named JSON container column.
func (b *EntityBuilder) ToJSONColumn(column string) *EntityBuilder {
	if !b.ok() {
		return b
	}
	if !b.m.IsOwned(b.id) {
		b.fail("", "only owned types can be mapped to JSON", ErrInvalidMapping)
		return b
	}
	b.m.SetContainerColumnName(b.id, column, Explicit)
	return b
}

// ComplexProperty declares a complex property on b and returns the builder of
// its complex type. Complex properties are stored in b's table.
func (b *EntityBuilder) ComplexProperty(name, typeName string) *EntityBuilder {
	if !b.ok() {
		return &EntityBuilder{m: b.m, id: NoType}
	}
	m := b.m
	full := m.typ(b.id).name + "." + name + "#" + typeName
	if id, ok := m.byName[full]; ok {
		return &EntityBuilder{m: m, id: id}
	}
	id := m.addType(full, typeName, ComplexKind)
	ct := m.typ(id)
	ct.container = b.id
	ct.complexProperty = name
	st := m.typ(b.id)
	st.complexTypes = append(st.complexTypes, id)
	return &EntityBuilder{m: m, id: id}
}

func (b *EntityBuilder) entityOnly(what string) bool {
	if !b.ok() {
		return false
	}
	if b.m.typ(b.id).kind != EntityKind {
		b.fail("", "complex types cannot be mapped to a "+what, ErrInvalidMapping)
		return false
	}
	return true
}

// ToTable maps b to the named table.
func (b *EntityBuilder) ToTable(name string) *EntityBuilder {
	if b.entityOnly("table") {
		b.m.SetTableName(b.id, name, Explicit)
	}
	return b
}

// ToTableInSchema maps b to the named table in schema.
func (b *EntityBuilder) ToTableInSchema(name, schema string) *EntityBuilder {
	if b.entityOnly("table") {
		b.m.SetTableName(b.id, name, Explicit)
		b.m.SetSchema(b.id, schema, Explicit)
	}
	return b
}

// ToView maps b to the named view.
func (b *EntityBuilder) ToView(name string) *EntityBuilder {
	if b.entityOnly("view") {
		b.m.SetViewName(b.id, name, Explicit)
	}
	return b
}

// ToViewInSchema maps b to the named view in schema.
func (b *EntityBuilder) ToViewInSchema(name, schema string) *EntityBuilder {
	if b.entityOnly("view") {
		b.m.SetViewName(b.id, name, Explicit)
		b.m.SetAnnotation(b.id, AnnotationViewSchema, Setting{Value: schema, Source: Explicit})
	}
	return b
}

// ToFunction maps b to the named table-valued function.
func (b *EntityBuilder) ToFunction(name string) *EntityBuilder {
	if b.entityOnly("function") {
		b.m.SetAnnotation(b.id, AnnotationFunctionName, Setting{Value: name, Source: Explicit})
	}
	return b
}

// ToSQLQuery maps b to a defining query.
func (b *EntityBuilder) ToSQLQuery(query string) *EntityBuilder {
	if b.entityOnly("query") {
		b.m.SetAnnotation(b.id, AnnotationSQLQuery, Setting{Value: query, Source: Explicit})
	}
	return b
}

// UseTPH maps the hierarchy rooted at b to a single table.
func (b *EntityBuilder) UseTPH() *EntityBuilder { return b.UseMappingStrategy(TPH) }

// UseTPT maps every type of the hierarchy rooted at b to its own table
// holding only its declared properties.
func (b *EntityBuilder) UseTPT() *EntityBuilder { return b.UseMappingStrategy(TPT) }

// UseTPC maps every concrete type of the hierarchy rooted at b to its own
// table holding all of its properties.
func (b *EntityBuilder) UseTPC() *EntityBuilder { return b.UseMappingStrategy(TPC) }

// UseMappingStrategy sets the inheritance strategy of the hierarchy rooted at b.
func (b *EntityBuilder) UseMappingStrategy(s MappingStrategy) *EntityBuilder {
	if !b.entityOnly("hierarchy") {
		return b
	}
	if b.m.typ(b.id).base != NoType {
		b.fail("", "the mapping strategy must be set on the root type", ErrInvalidMapping)
		return b
	}
	b.m.SetAnnotation(b.id, AnnotationMappingStrategy, Setting{Value: string(s), Source: Explicit})
	return b
}

// ID returns the property identifier, or NoProperty.
func (b *PropertyBuilder) ID() PropertyID { return b.id }

// HasColumnName sets the column name of the property.
func (b *PropertyBuilder) HasColumnName(name string) *PropertyBuilder {
	if b.id != NoProperty && b.m.mutable(b.m.prop(b.id).name) {
		b.m.SetColumnName(b.id, name, Explicit)
	}
	return b
}

// HasColumnNameAt sets the column name of the property in so only.
func (b *PropertyBuilder) HasColumnNameAt(so StoreObject, name string) *PropertyBuilder {
	if b.id != NoProperty && b.m.mutable(b.m.prop(b.id).name) {
		b.m.SetColumnNameAt(b.id, so, name, Explicit)
	}
	return b
}

// ID returns the key identifier, or NoKey.
func (b *KeyBuilder) ID() KeyID { return b.id }

// HasName sets the constraint name of the key.
func (b *KeyBuilder) HasName(name string) *KeyBuilder {
	if b.id != NoKey {
		b.m.SetKeyName(b.id, name, Explicit)
	}
	return b
}

// ID returns the index identifier, or NoIndex.
func (b *IndexBuilder) ID() IndexID { return b.id }

// HasName sets the database name of the index.
func (b *IndexBuilder) HasName(name string) *IndexBuilder {
	if b.id != NoIndex {
		b.m.SetIndexName(b.id, name, Explicit)
	}
	return b
}

// IsUnique marks the index unique.
func (b *IndexBuilder) IsUnique() *IndexBuilder {
	if b.id != NoIndex {
		b.m.idx(b.id).unique = true
	}
	return b
}

// ID returns the foreign key identifier, or NoForeignKey.
func (b *ForeignKeyBuilder) ID() ForeignKeyID { return b.id }

// HasConstraintName sets the constraint name of the foreign key.
func (b *ForeignKeyBuilder) HasConstraintName(name string) *ForeignKeyBuilder {
	if b.id != NoForeignKey {
		b.m.SetConstraintName(b.id, name, Explicit)
	}
	return b
}

// HasProperties replaces the dependent properties of the foreign key.
func (b *ForeignKeyBuilder) HasProperties(names ...string) *ForeignKeyBuilder {
	if b.id == NoForeignKey {
		return b
	}
	m := b.m
	f := m.fk(b.id)
	eb := &EntityBuilder{m: m, id: f.declaring}
	if !eb.ok() {
		return b
	}
	if len(names) != len(m.key(f.principalKey).properties) {
		eb.fail(m.typ(f.principal).name, "foreign key does not match the principal key", ErrInvalidMapping)
		return b
	}
	props, ok := eb.resolve(names, true)
	if !ok || slices.Equal(props, f.properties) {
		return b
	}
	old := f.properties
	f.properties = props
	m.raise(ForeignKeyPropertiesChanged{ForeignKey: b.id, Old: old})
	return b
}

// Remove detaches the foreign key from the model.
func (b *ForeignKeyBuilder) Remove() {
	if b.id != NoForeignKey {
		b.m.fk(b.id).removed = true
	}
}
