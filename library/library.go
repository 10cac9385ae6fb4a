// Package library loads reusable methods and named templates from YAML.
//
// A library document looks like:
//
//	methods:
//	  - name: word
//	    pattern: '\w+'
//	templates:
//	  - name: fullName
//	    pattern: '(?<first>`word`) (?<last>`word`)'
//	    flags: g
//
// Methods keep their document order, which is the order of substitution
// passes when a template is compiled.
package library

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "github.com/goccy/go-yaml"

	"github.com/coregx/irregular"
)

var (
	// ErrInvalidLibrary is wrapped by every validation error.
	ErrInvalidLibrary = errors.New("invalid library")

	// ErrUnknownTemplate is returned by Template for names the library
	// does not define.
	ErrUnknownTemplate = errors.New("unknown template")
)

// MethodDef is a method whose substitution is a fixed pattern fragment.
type MethodDef struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// TemplateDef is a named template.
type TemplateDef struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Flags   string `yaml:"flags,omitempty"`
}

// Library is a validated set of methods and templates.
type Library struct {
	MethodDefs   []MethodDef   `yaml:"methods,omitempty"`
	TemplateDefs []TemplateDef `yaml:"templates,omitempty"`

	methods   *irregular.MethodTable
	templates map[string]TemplateDef
}

// Parse decodes and validates a library document. Unknown fields are
// rejected.
func Parse(data []byte) (*Library, error) {
	lib := &Library{}

	if err := yaml.UnmarshalWithOptions(data, lib, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("cannot parse library: %s", yaml.FormatError(err, false, false))
	}

	if err := lib.validate(); err != nil {
		return nil, err
	}

	return lib, nil
}

// Load reads a library document from r.
func Load(r io.Reader) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading library: %w", err)
	}

	return Parse(data)
}

// LoadFile reads the library document at path.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library %s: %w", path, err)
	}

	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return lib, nil
}

func (l *Library) validate() error {
	l.methods = irregular.NewMethodTable()

	for i, m := range l.MethodDefs {
		if !isIdentifier(m.Name) {
			return fmt.Errorf("%w: method #%d: name %q must be made of letters, digits and '_'", ErrInvalidLibrary, i, m.Name)
		}

		if _, dup := l.methods.Resolve(m.Name); dup {
			return fmt.Errorf("%w: method %q is defined twice", ErrInvalidLibrary, m.Name)
		}

		l.methods.SetString(m.Name, m.Pattern)
	}

	l.templates = make(map[string]TemplateDef, len(l.TemplateDefs))

	for i, t := range l.TemplateDefs {
		if t.Name == "" {
			return fmt.Errorf("%w: template #%d has no name", ErrInvalidLibrary, i)
		}

		if t.Pattern == "" {
			return fmt.Errorf("%w: template %q has no pattern", ErrInvalidLibrary, t.Name)
		}

		if _, dup := l.templates[t.Name]; dup {
			return fmt.Errorf("%w: template %q is defined twice", ErrInvalidLibrary, t.Name)
		}

		l.templates[t.Name] = t
	}

	return nil
}

// Methods returns the library's methods in document order.
func (l *Library) Methods() *irregular.MethodTable {
	return l.methods
}

// Template returns the named template bound to the library's methods.
func (l *Library) Template(name string) (*irregular.Template, error) {
	t, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTemplate, name)
	}

	return irregular.FromSource(t.Pattern,
		irregular.WithFlags(t.Flags),
		irregular.WithMethods(l.methods)), nil
}

// TemplateNames returns the template names in document order.
func (l *Library) TemplateNames() []string {
	names := make([]string, len(l.TemplateDefs))
	for i, t := range l.TemplateDefs {
		names[i] = t.Name
	}

	return names
}

// isIdentifier reports whether s can appear inside a backtick token.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}

	return true
}
