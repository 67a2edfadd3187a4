// Package schema reads relational model descriptions written in YAML and
// replays them on a metadata model.
//
// A description lists context sets and entity types:
//
//	sets:
//	  Blogs: Blog
//	entities:
//	  - name: Blog
//	    properties: [Id, FullName]
//	    indexes:
//	      - properties: FullName
//	    owns:
//	      - navigation: Owner
//	        type: Person
//	        properties: [DisplayName]
//	  - name: Post
//	    properties: [Id, BlogId]
//	    foreign_keys:
//	      - principal: Blog
//	        properties: BlogId
package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a model description.
type Document struct {
	// Sets maps context set names to the type they expose.
	Sets     map[string]string `yaml:"sets,omitempty"`
	Entities []Entity          `yaml:"entities"`
}

// Entity describes an entity type.
type Entity struct {
	Name     string `yaml:"name"`
	Abstract bool   `yaml:"abstract,omitempty"`
	Base     string `yaml:"base,omitempty"`
	// Strategy is the inheritance mapping strategy: tph, tpt or tpc.
	Strategy   string `yaml:"strategy,omitempty"`
	Table      string `yaml:"table,omitempty"`
	Schema     string `yaml:"schema,omitempty"`
	View       string `yaml:"view,omitempty"`
	ViewSchema string `yaml:"view_schema,omitempty"`
	Function   string `yaml:"function,omitempty"`
	Query      string `yaml:"query,omitempty"`

	Properties    []Property   `yaml:"properties,omitempty"`
	Key           StringList   `yaml:"key,omitempty"`
	AlternateKeys []StringList `yaml:"alternate_keys,omitempty"`
	Indexes       []Index      `yaml:"indexes,omitempty"`
	ForeignKeys   []ForeignKey `yaml:"foreign_keys,omitempty"`
	Owns          []Owned      `yaml:"owns,omitempty"`
	Complex       []Complex    `yaml:"complex,omitempty"`
}

// Property describes a property. A bare string is a property without
// configuration.
type Property struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler for Property.
func (p *Property) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = Property{Name: node.Value}
		return nil
	case yaml.MappingNode:
		type plain Property
		var v plain
		if err := node.Decode(&v); err != nil {
			return err
		}
		*p = Property(v)
		return nil
	default:
		return fmt.Errorf("line %d: property must be a name or a mapping", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler for Property.
func (p Property) MarshalYAML() (any, error) {
	if p.Column == "" {
		return p.Name, nil
	}
	type plain Property
	return plain(p), nil
}

// Index describes an index.
type Index struct {
	Properties StringList `yaml:"properties"`
	Name       string     `yaml:"name,omitempty"`
	Unique     bool       `yaml:"unique,omitempty"`
}

// ForeignKey describes a relationship to the primary key of Principal.
type ForeignKey struct {
	Principal  string     `yaml:"principal"`
	Properties StringList `yaml:"properties"`
	Unique     bool       `yaml:"unique,omitempty"`
	Name       string     `yaml:"name,omitempty"`
}

// Owned describes an owned type reached through Navigation.
type Owned struct {
	Navigation string `yaml:"navigation"`
	Type       string `yaml:"type"`
	// Many declares an owned collection.
	Many bool `yaml:"many,omitempty"`
	// JSON stores the owned type in a JSON column named after the navigation.
	JSON bool `yaml:"json,omitempty"`
	// JSONColumn stores the owned type in the named JSON column.
	JSONColumn string     `yaml:"json_column,omitempty"`
	Table      string     `yaml:"table,omitempty"`
	Properties []Property `yaml:"properties,omitempty"`
	Owns       []Owned    `yaml:"owns,omitempty"`
}

// Complex describes a complex property.
type Complex struct {
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type"`
	Properties []Property `yaml:"properties,omitempty"`
	Complex    []Complex  `yaml:"complex,omitempty"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Load reads and validates a description. Unknown fields are rejected.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, NewSchemaError("", "", "parse description", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads the description stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return enc.Close()
}
