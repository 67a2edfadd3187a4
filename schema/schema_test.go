package schema_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/naming"
	"github.com/syssam/naming/metadata"
	"github.com/syssam/naming/plan"
	"github.com/syssam/naming/schema"
)

const blogSchema = `
sets:
  Blogs: Blog
entities:
  - name: Blog
    properties:
      - Id
      - FullName
      - name: Code
        column: BlogCode
    indexes:
      - properties: FullName
        unique: true
    owns:
      - navigation: Owner
        type: Person
        properties: [DisplayName]
      - navigation: Tags
        type: Tag
        many: true
        properties: [Label]
      - navigation: Settings
        type: Settings
        json: true
        properties: [Theme]
    complex:
      - name: Location
        type: GeoPoint
        properties: [Latitude]
  - name: Post
    strategy: tpt
    properties: [Id, BlogId, Title]
    foreign_keys:
      - principal: Blog
        properties: BlogId
  - name: FeaturedPost
    base: Post
    properties: [Rank]
`

func load(t *testing.T, src string) *schema.Document {
	t.Helper()
	doc, err := schema.Load(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func build(t *testing.T, doc *schema.Document) *plan.Plan {
	t.Helper()
	set := metadata.DefaultConventions()
	require.NoError(t, naming.Register(set, naming.WithStyle(naming.SnakeCase)))
	m := metadata.New(set)
	require.NoError(t, schema.Build(doc, m))
	require.NoError(t, m.Finalize())
	return plan.FromModel(m)
}

func TestLoad(t *testing.T) {
	doc := load(t, blogSchema)
	require.Len(t, doc.Entities, 3)
	assert.Equal(t, map[string]string{"Blogs": "Blog"}, doc.Sets)

	blog := doc.Entities[0]
	assert.Equal(t, []schema.Property{{Name: "Id"}, {Name: "FullName"}, {Name: "Code", Column: "BlogCode"}}, blog.Properties)
	assert.Equal(t, schema.StringList{"FullName"}, blog.Indexes[0].Properties)
	require.Len(t, blog.Owns, 3)
	assert.True(t, blog.Owns[1].Many)
	assert.True(t, blog.Owns[2].JSON)
	assert.Equal(t, schema.StringList{"BlogId"}, doc.Entities[1].ForeignKeys[0].Properties)
	assert.Equal(t, "Post", doc.Entities[2].Base)
}

func TestLoadEmpty(t *testing.T) {
	doc, err := schema.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Entities)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown field", src: "entities:\n  - name: Blog\n    colour: red\n"},
		{name: "bad property", src: "entities:\n  - name: Blog\n    properties: [[Id]]\n"},
		{name: "bad list", src: "entities:\n  - name: Blog\n    key: {a: b}\n"},
		{name: "no name", src: "entities:\n  - properties: [Id]\n"},
		{name: "duplicate", src: "entities:\n  - name: Blog\n  - name: Blog\n"},
		{name: "unknown base", src: "entities:\n  - name: Post\n    base: Blog\n"},
		{name: "unknown strategy", src: "entities:\n  - name: Post\n    strategy: tpx\n"},
		{name: "unknown principal", src: "entities:\n  - name: Post\n    foreign_keys:\n      - principal: Blog\n        properties: BlogId\n"},
		{name: "unknown set type", src: "sets:\n  Blogs: Blog\nentities: []\n"},
		{name: "empty index", src: "entities:\n  - name: Blog\n    indexes:\n      - name: IX\n"},
		{name: "json twice", src: "entities:\n  - name: Blog\n    owns:\n      - navigation: A\n        type: A\n        json: true\n        json_column: a\n"},
		{name: "complex without type", src: "entities:\n  - name: Blog\n    complex:\n      - name: Location\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Load(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidSchema)
			var se *schema.SchemaError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestBuild(t *testing.T) {
	require := require.New(t)
	p := build(t, load(t, blogSchema))

	blog, ok := p.Lookup("Blog")
	require.True(ok)
	require.Equal("blogs", blog.Table)
	col, _ := blog.Column("FullName", "")
	require.Equal("full_name", col)
	col, _ = blog.Column("Code", "")
	require.Equal("BlogCode", col)
	col, _ = blog.Column("Location.Latitude", "")
	require.Equal("location_latitude", col)
	require.Equal([]plan.Index{{Name: "ix_blogs_full_name", Unique: true, Properties: []string{"FullName"}}}, blog.Indexes)
	pk, ok := blog.PrimaryKey()
	require.True(ok)
	require.Equal("pk_blogs", pk.Name)

	owner, ok := p.Lookup("Blog.Owner#Person")
	require.True(ok)
	col, _ = owner.Column("DisplayName", "table:blogs")
	require.Equal("owner_display_name", col)

	tags, ok := p.Lookup("Blog.Tags#Tag")
	require.True(ok)
	require.Equal("tag", tags.Table)
	col, _ = tags.Column("Label", "")
	require.Equal("label", col)

	settings, ok := p.Lookup("Blog.Settings#Settings")
	require.True(ok)
	require.Equal("settings", settings.Container)

	post, ok := p.Lookup("Post")
	require.True(ok)
	require.Equal("TPT", post.Strategy)
	require.Equal("post", post.Table)
	require.Equal([]plan.ForeignKey{{Name: "fk_post_blogs_blog_id", Principal: "Blog", Properties: []string{"BlogId"}}}, post.ForeignKeys)

	featured, ok := p.Lookup("FeaturedPost")
	require.True(ok)
	require.Equal("featured_post", featured.Table)
	col, _ = featured.Column("Rank", "")
	require.Equal("rank", col)
}

func TestBuildExplicitNames(t *testing.T) {
	doc := load(t, `
entities:
  - name: Blog
    table: Blogs
    schema: content
    properties: [BlogKey, Slug]
    key: BlogKey
    alternate_keys: [Slug]
    indexes:
      - properties: [Slug]
        name: IX_Slug
  - name: Post
    properties: [Id, BlogKey]
    foreign_keys:
      - principal: Blog
        properties: BlogKey
        name: FK_Custom
`)
	p := build(t, doc)
	blog, ok := p.Lookup("Blog")
	require.True(t, ok)
	assert.Equal(t, "Blogs", blog.Table)
	assert.Equal(t, "content", blog.Schema)
	assert.Contains(t, blog.Keys, plan.Key{Name: "pk_blogs", Primary: true, Properties: []string{"BlogKey"}})
	assert.Contains(t, blog.Keys, plan.Key{Name: "ak_blogs_slug", Properties: []string{"Slug"}})
	assert.Equal(t, "IX_Slug", blog.Indexes[0].Name)

	post, ok := p.Lookup("Post")
	require.True(t, ok)
	assert.Equal(t, "FK_Custom", post.ForeignKeys[0].Name)
}

func TestBuildModelError(t *testing.T) {
	doc := load(t, "entities:\n  - name: Blog\n    properties: [Id]\n    key: Missing\n")
	m := metadata.New(metadata.DefaultConventions())
	err := schema.Build(doc, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidSchema)
	assert.ErrorIs(t, err, metadata.ErrUnknownProperty)
}

func TestEncode(t *testing.T) {
	doc := load(t, blogSchema)
	var buf bytes.Buffer
	require.NoError(t, schema.Encode(&buf, doc))
	out := buf.String()
	assert.Contains(t, out, "- FullName")
	assert.Contains(t, out, "column: BlogCode")
	assert.Contains(t, out, "properties: BlogId")

	again, err := schema.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(blogSchema), 0o644))
	doc, err := schema.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Entities, 3)

	_, err = schema.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
