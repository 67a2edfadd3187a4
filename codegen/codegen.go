// Package codegen renders a naming plan as Go constants, so that hand-written
// SQL can refer to the resolved table, column and constraint names.
package codegen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/naming/plan"
)

// Header is the comment written at the top of generated files.
const Header = "Code generated by namingc. DO NOT EDIT."

// Generate returns a file of package pkg declaring one constant group per
// type of p.
func Generate(p *plan.Plan, pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(Header)
	if p.Style != "" {
		f.PackageComment(fmt.Sprintf("Package %s holds database names resolved with the %s style.", pkg, p.Style))
	}
	seen := make(map[string]bool)
	tables := jen.Dict{}
	for i := range p.Types {
		t := &p.Types[i]
		defs := typeDefs(t, seen)
		if len(defs) == 0 {
			continue
		}
		f.Comment(t.Name + " names.")
		f.Const().Defs(defs...)
		f.Line()
		if t.Table != "" && t.Owner == "" {
			tables[jen.Lit(t.Name)] = jen.Lit(t.Table)
		}
	}
	f.Comment("Tables maps entity types to their tables.")
	f.Var().Id("Tables").Op("=").Map(jen.String()).String().Values(tables)
	return f
}

func typeDefs(t *plan.Type, seen map[string]bool) []jen.Code {
	var (
		prefix = ident(t.Name)
		defs   []jen.Code
	)
	add := func(name, value string) {
		name = unique(prefix+name, seen)
		defs = append(defs, jen.Id(name).Op("=").Lit(value))
	}
	if t.Table != "" {
		add("Table", t.Table)
	}
	if t.View != "" {
		add("View", t.View)
	}
	if t.Container != "" {
		add("Container", t.Container)
	}
	object := columnObject(t)
	for _, c := range t.Columns {
		if c.Object == object {
			add(ident(c.Property)+"Column", c.Name)
		}
	}
	for _, k := range t.Keys {
		if k.Primary {
			add("PrimaryKey", k.Name)
		} else {
			add(joined(k.Properties)+"Key", k.Name)
		}
	}
	for _, fk := range t.ForeignKeys {
		add(joined(fk.Properties)+"ForeignKey", fk.Name)
	}
	for _, i := range t.Indexes {
		add(joined(i.Properties)+"Index", i.Name)
	}
	return defs
}

// columnObject selects the store object whose columns are emitted: the
// type's table, or the first object the type maps to.
func columnObject(t *plan.Type) string {
	if t.Table != "" {
		return t.TableObject()
	}
	if len(t.Columns) > 0 {
		return t.Columns[0].Object
	}
	return ""
}

func joined(props []string) string {
	var b strings.Builder
	for _, p := range props {
		b.WriteString(ident(p))
	}
	return b.String()
}

// ident turns a type or property path into an exported Go identifier:
// Blog.Owner#Person becomes BlogOwnerPerson.
func ident(s string) string {
	var (
		b     strings.Builder
		upper = true
	)
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		default:
			upper = true
		}
	}
	out := b.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "N" + out
	}
	return out
}

func unique(name string, seen map[string]bool) string {
	out := name
	for i := 2; seen[out]; i++ {
		out = fmt.Sprintf("%s%d", name, i)
	}
	seen[out] = true
	return out
}

// Render writes the generated file to w.
func Render(w io.Writer, p *plan.Plan, pkg string) error {
	if err := Generate(p, pkg).Render(w); err != nil {
		return fmt.Errorf("codegen: render %s: %w", pkg, err)
	}
	return nil
}

// WriteFile renders the generated file to path, creating its directory. The
// output goes through goimports; when that fails the unformatted source is
// left next to path with an .error suffix.
func WriteFile(path string, p *plan.Plan, pkg string) error {
	var buf bytes.Buffer
	if err := Render(&buf, p, pkg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("codegen: create directory: %w", err)
	}
	formatted, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		debugPath := path + ".error"
		_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
		return fmt.Errorf("codegen: format %s: %w (unformatted written to %s)", path, err, debugPath)
	}
	if err := os.WriteFile(path, formatted, 0o644); err != nil {
		return fmt.Errorf("codegen: write %s: %w", path, err)
	}
	return nil
}
