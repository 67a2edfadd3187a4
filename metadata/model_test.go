package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/naming/metadata"
)

func name(v string, ok bool) string {
	if !ok {
		return "<none>"
	}
	return v
}

func TestDefaultNames(t *testing.T) {
	require := require.New(t)
	m := metadata.New(metadata.DefaultConventions())
	blog := m.Entity("Blog")
	blog.Properties("Id", "Title")
	ix := blog.HasIndex("Title").ID()
	ak := blog.HasAlternateKey("Title").ID()
	post := m.Entity("Post")
	post.Properties("Id", "BlogId")
	fk := post.HasForeignKey("Blog", "BlogId").ID()
	require.NoError(m.Finalize())

	pk, ok := m.PrimaryKey(blog.ID())
	require.True(ok)
	title, ok := m.FindProperty(blog.ID(), "Title")
	require.True(ok)

	require.Equal("Blog", name(m.TableName(blog.ID())))
	require.Equal("Title", name(m.ColumnName(title)))
	require.Equal("PK_Blog", name(m.KeyName(pk)))
	require.Equal("AK_Blog_Title", name(m.KeyName(ak)))
	require.Equal("IX_Blog_Title", name(m.IndexName(ix)))
	require.Equal("FK_Post_Blog_BlogId", name(m.ConstraintName(fk)))
	require.Equal(metadata.NoSource, m.KeyNameSource(pk))
}

func TestKeyDiscovery(t *testing.T) {
	m := metadata.New(metadata.DefaultConventions())
	m.Entity("Blog").Properties("Title", "BlogId")
	m.Entity("Post").Properties("Title", "Id")
	m.Entity("Tag").Property("Name")
	m.Entity("Special").HasBase("Blog").Property("Id")
	require.NoError(t, m.Finalize())

	tests := []struct {
		typ  string
		keys []string
	}{
		{"Blog", []string{"BlogId"}},
		{"Post", []string{"Id"}},
		{"Special", []string{"BlogId"}},
		{"Tag", nil},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			id, ok := m.Lookup(tt.typ)
			require.True(t, ok)
			pk, ok := m.PrimaryKey(id)
			if tt.keys == nil {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			var names []string
			for _, p := range m.KeyProperties(pk) {
				names = append(names, m.PropertyName(p))
			}
			assert.Equal(t, tt.keys, names)
		})
	}
}

func TestHierarchy(t *testing.T) {
	require := require.New(t)
	m := metadata.New(nil)
	m.Entity("Parent").Property("Id")
	m.Entity("Child").HasBase("Parent")
	m.Entity("GrandChild").HasBase("Child").Property("Extra")
	require.NoError(m.Finalize())

	parent, _ := m.Lookup("Parent")
	child, _ := m.Lookup("Child")
	grand, _ := m.Lookup("GrandChild")
	require.Equal(parent, m.RootType(grand))
	require.Equal([]metadata.TypeID{child, parent}, m.Ancestors(grand))
	require.Equal([]metadata.TypeID{child, grand}, m.DerivedTypes(parent))
	require.Equal([]metadata.TypeID{child}, m.DirectDerivedTypes(parent))
	require.Len(m.Properties(grand), 2)
	require.Len(m.DeclaredProperties(grand), 1)
	require.Equal(metadata.TPH, m.MappingStrategy(grand))
	require.Equal("Parent", name(m.TableName(grand)))
	require.True(m.InheritsTableName(grand))
}

func TestMappingStrategyTables(t *testing.T) {
	tests := []struct {
		strategy metadata.MappingStrategy
		abstract bool
		parent   string
		child    string
	}{
		{strategy: metadata.TPH, parent: "Parent", child: "Parent"},
		{strategy: metadata.TPT, parent: "Parent", child: "Child"},
		{strategy: metadata.TPC, parent: "Parent", child: "Child"},
		{strategy: metadata.TPC, abstract: true, parent: "<none>", child: "Child"},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			m := metadata.New(nil)
			var parent *metadata.EntityBuilder
			if tt.abstract {
				parent = m.AbstractEntity("Parent")
			} else {
				parent = m.Entity("Parent")
			}
			parent.UseMappingStrategy(tt.strategy)
			child := m.Entity("Child").HasBase("Parent")
			require.NoError(t, m.Finalize())
			assert.Equal(t, tt.parent, name(m.TableName(parent.ID())))
			assert.Equal(t, tt.child, name(m.TableName(child.ID())))
		})
	}
}

func TestParseMappingStrategy(t *testing.T) {
	s, ok := metadata.ParseMappingStrategy("tpt")
	require.True(t, ok)
	require.Equal(t, metadata.TPT, s)
	_, ok = metadata.ParseMappingStrategy("table-per-nothing")
	require.False(t, ok)
}

func TestSettingSources(t *testing.T) {
	require := require.New(t)
	m := metadata.New(nil)
	blog := m.Entity("Blog").ID()

	require.True(m.SetTableName(blog, "blogs", metadata.Convention))
	require.Equal(metadata.Convention, m.AnnotationSource(blog, metadata.AnnotationTableName))
	require.True(m.SetTableName(blog, "Blogs", metadata.Explicit))
	require.False(m.SetTableName(blog, "other", metadata.Convention))
	require.False(m.ClearTableName(blog, metadata.Convention))
	require.Equal("Blogs", name(m.TableName(blog)))
	require.True(m.ClearTableName(blog, metadata.Explicit))
	require.Equal("Blog", name(m.TableName(blog)))

	require.True(m.SetAnnotation(blog, metadata.AnnotationTableName, metadata.Setting{Null: true, Source: metadata.Explicit}))
	require.Equal("<none>", name(m.TableName(blog)))
	require.True(metadata.Explicit.Overrides(metadata.Convention))
	require.False(metadata.Convention.Overrides(metadata.DataAnnotation))
	require.Equal("data-annotation", metadata.DataAnnotation.String())
}

func TestNonTableMappings(t *testing.T) {
	m := metadata.New(nil)
	view := m.Entity("ViewOnly").ToView("v_blogs")
	query := m.Entity("Query").ToSQLQuery("SELECT 1")
	both := m.Entity("Both").ToTable("Both").ToViewInSchema("v_both", "reporting")
	require.NoError(t, m.Finalize())

	assert.Equal(t, "<none>", name(m.TableName(view.ID())))
	assert.Equal(t, "<none>", name(m.TableName(query.ID())))
	so, ok := m.StoreObjectOf(query.ID(), metadata.SQLQuery)
	require.True(t, ok)
	assert.Equal(t, "Query", so.Name)
	assert.Equal(t, []metadata.StoreObject{
		{Kind: metadata.Table, Name: "Both"},
		{Kind: metadata.View, Name: "v_both", Schema: "reporting"},
	}, m.StoreObjects(both.ID()))
}

func TestOwnedTypes(t *testing.T) {
	require := require.New(t)
	m := metadata.New(metadata.DefaultConventions())
	owner := m.Entity("Order")
	owner.Property("Id")
	addr := owner.OwnsOne("ShippingAddress", "Address")
	addr.Property("Street")
	lines := owner.OwnsMany("Lines", "OrderLine")
	lines.Property("Quantity")
	require.NoError(m.Finalize())

	require.True(m.IsOwned(addr.ID()))
	o, ok := m.Owner(addr.ID())
	require.True(ok)
	require.Equal(owner.ID(), o)
	require.Equal("Order", name(m.TableName(addr.ID())))
	require.Equal("OrderLine", name(m.TableName(lines.ID())))

	street, _ := m.FindProperty(addr.ID(), "Street")
	so, _ := m.StoreObjectOf(owner.ID(), metadata.Table)
	require.Equal("ShippingAddress_Street", name(m.ColumnNameAt(street, so)))

	ownerKey, _ := m.FindProperty(addr.ID(), "OrderId")
	require.True(m.IsShadow(ownerKey))
	require.Equal("Id", name(m.ColumnNameAt(ownerKey, so)))

	pk, _ := m.PrimaryKey(lines.ID())
	require.Len(m.KeyProperties(pk), 2)
	require.Equal("PK_OrderLine", name(m.KeyName(pk)))
	fk, _ := m.Ownership(lines.ID())
	require.Equal("FK_OrderLine_Order_OrderId", name(m.ConstraintName(fk)))
	require.Equal("Lines", name(m.DefaultContainerColumnName(lines.ID())))
}

func TestComplexTypes(t *testing.T) {
	m := metadata.New(nil)
	w := m.Entity("Waypoint")
	w.Property("Id")
	loc := w.ComplexProperty("Location", "GeoPoint")
	lat := loc.Property("Latitude").ID()
	require.NoError(t, m.Finalize())

	require.Equal(t, metadata.ComplexKind, m.Kind(loc.ID()))
	require.Equal(t, w.ID(), m.EntityOf(loc.ID()))
	require.Equal(t, "Location_Latitude", name(m.ColumnName(lat)))
	require.Equal(t, "Waypoint", name(m.TableName(loc.ID())))
	require.Len(t, m.StructuralProperties(w.ID()), 2)
}

func TestSharedTableColumns(t *testing.T) {
	require := require.New(t)
	m := metadata.New(metadata.DefaultConventions())
	a := m.Entity("Alpha").Properties("Id", "Name").ToTable("shared")
	b := m.Entity("Beta").Properties("Id", "Name", "Code").ToTable("shared")
	b.Property("Label").HasColumnName("Code")
	require.NoError(m.Finalize())

	so, _ := m.StoreObjectOf(a.ID(), metadata.Table)
	col := func(typ metadata.TypeID, prop string) string {
		p, ok := m.FindProperty(typ, prop)
		require.True(ok)
		return name(m.ColumnNameAt(p, so))
	}
	require.Equal("Name", col(a.ID(), "Name"))
	require.Equal("Beta_Name", col(b.ID(), "Name"))
	require.Equal("Beta_Id", col(b.ID(), "Id"))
	require.Equal("Code", col(b.ID(), "Code"))
	require.Equal("Code", col(b.ID(), "Label"), "explicit columns are never renamed")
}

func TestTableSplittingShares(t *testing.T) {
	require := require.New(t)
	m := metadata.New(metadata.DefaultConventions())
	s1 := m.Entity("Split1").Properties("Id", "Common").ToTable("split")
	s2 := m.Entity("Split2").Properties("Id", "Common").ToTable("split")
	fk := s2.HasUniqueForeignKey("Split1", "Id").ID()
	require.NoError(m.Finalize())

	so, _ := m.StoreObjectOf(s1.ID(), metadata.Table)
	require.True(m.IsRowInternal(fk, so))
	require.Equal([]metadata.ForeignKeyID{fk}, m.RowInternalForeignKeys(s2.ID(), so))
	id2, _ := m.FindProperty(s2.ID(), "Id")
	common2, _ := m.FindProperty(s2.ID(), "Common")
	require.Equal("Id", name(m.ColumnNameAt(id2, so)))
	require.Equal("Split2_Common", name(m.ColumnNameAt(common2, so)))
	pk2, _ := m.PrimaryKey(s2.ID())
	require.Equal("PK_split", name(m.KeyName(pk2)))
	require.Equal("<none>", name(m.ConstraintName(fk)))
}

func TestContextSets(t *testing.T) {
	m := metadata.New(metadata.DefaultConventions())
	m.RegisterSet("Blogs", "Blog")
	blog := m.Entity("Blog")
	post := m.Entity("My.Namespace.Post")
	require.NoError(t, m.Finalize())
	assert.Equal(t, "Blogs", name(m.TableName(blog.ID())))
	assert.Equal(t, "Post", name(m.TableName(post.ID())))
	assert.Equal(t, "Post", m.ShortName(post.ID()))
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(m *metadata.Model)
		wantErr error
	}{
		{
			name: "KeyOnDerivedType",
			build: func(m *metadata.Model) {
				m.Entity("Parent").Property("Id")
				m.Entity("Child").HasBase("Parent").Properties("Code").HasKey("Code")
			},
			wantErr: metadata.ErrInvalidMapping,
		},
		{
			name: "InheritanceCycle",
			build: func(m *metadata.Model) {
				m.Entity("A").HasBase("B")
				m.Entity("B").HasBase("A")
			},
			wantErr: metadata.ErrInvalidMapping,
		},
		{
			name: "UnknownPrincipal",
			build: func(m *metadata.Model) {
				m.Entity("Post").HasForeignKey("Blog", "BlogId")
			},
			wantErr: metadata.ErrUnknownType,
		},
		{
			name: "UnknownIndexProperty",
			build: func(m *metadata.Model) {
				m.Entity("Blog").HasIndex("Missing")
			},
			wantErr: metadata.ErrUnknownProperty,
		},
		{
			name: "OwnerWithoutKey",
			build: func(m *metadata.Model) {
				m.Entity("Owner").OwnsOne("Owned", "Owned")
			},
			wantErr: metadata.ErrInvalidMapping,
		},
		{
			name: "JSONOnEntity",
			build: func(m *metadata.Model) {
				m.Entity("Blog").ToJSON()
			},
			wantErr: metadata.ErrInvalidMapping,
		},
		{
			name: "StrategyOnDerivedType",
			build: func(m *metadata.Model) {
				m.Entity("Child").HasBase("Parent").UseTPT()
			},
			wantErr: metadata.ErrInvalidMapping,
		},
		{
			name: "ComplexTypeTable",
			build: func(m *metadata.Model) {
				m.Entity("Blog").ComplexProperty("Address", "Address").ToTable("addresses")
			},
			wantErr: metadata.ErrInvalidMapping,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metadata.New(metadata.DefaultConventions())
			tt.build(m)
			err := m.Finalize()
			require.ErrorIs(t, err, tt.wantErr)
			require.True(t, metadata.IsModelError(err))
		})
	}
}

func TestFinalizedModel(t *testing.T) {
	require := require.New(t)
	m := metadata.New(metadata.DefaultConventions())
	m.Entity("Blog").Property("Id")
	require.NoError(m.Finalize())
	require.True(m.IsFinalized())

	m.Entity("Late")
	err := m.Finalize()
	require.ErrorIs(err, metadata.ErrFinalized)
	_, ok := m.Lookup("Late")
	require.False(ok)
}

func TestModelError(t *testing.T) {
	err := metadata.NewModelError("Blog", "Title", "unknown property", metadata.ErrUnknownProperty)
	assert.Equal(t, "metadata: Blog.Title: unknown property", err.Error())
	assert.ErrorIs(t, err, metadata.ErrUnknownProperty)
	assert.Equal(t, "metadata: Blog: bad", metadata.NewModelError("Blog", "", "bad", nil).Error())
}
