package irregular

import (
	"sort"
	"sync"

	"github.com/coregx/ahocorasick"
)

// Methods provides the substitutions for backtick tokens.
//
// Names returns the table's names in iteration order. Compile runs one
// substitution pass per name, in that order. Resolve returns the
// substitution for name, or false when the table has no such entry. Only
// names listed by Names may resolve.
type Methods interface {
	Names() []string
	Resolve(name string) (string, bool)
}

// MethodFunc produces the text spliced in place of a token. It is called
// once per token occurrence.
type MethodFunc func() string

type namedMethod struct {
	name string
	fn   MethodFunc
}

// MethodTable is a Methods implementation that keeps insertion order.
// The zero value is an empty table ready to use. A nil *MethodTable
// behaves as an empty table.
//
// A MethodTable must not be modified while templates using it are being
// compiled. Compiling concurrently with the same table is safe.
type MethodTable struct {
	entries []namedMethod
	index   map[string]int

	// filter finds any `name` token of the table; built on first use and
	// dropped by Set.
	mu     sync.Mutex
	filter *ahocorasick.Automaton
}

// NewMethodTable returns an empty table.
func NewMethodTable() *MethodTable {
	return &MethodTable{}
}

// Set adds fn under name. Replacing an existing name keeps its position.
// Set returns t so calls can be chained.
func (t *MethodTable) Set(name string, fn MethodFunc) *MethodTable {
	t.mu.Lock()
	t.filter = nil
	t.mu.Unlock()

	if i, ok := t.index[name]; ok {
		t.entries[i].fn = fn
		return t
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[name] = len(t.entries)
	t.entries = append(t.entries, namedMethod{name: name, fn: fn})
	return t
}

// SetString adds a method that always returns s.
func (t *MethodTable) SetString(name, s string) *MethodTable {
	return t.Set(name, func() string { return s })
}

// Len returns the number of methods in t.
func (t *MethodTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Names returns the method names in insertion order.
func (t *MethodTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.name
	}
	return names
}

// Resolve implements Methods.
func (t *MethodTable) Resolve(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.index[name]
	if !ok || t.entries[i].fn == nil {
		return "", false
	}
	return t.entries[i].fn(), true
}

// MethodMap is a Methods implementation backed by a map. Go maps carry no
// insertion order, so names are iterated in sorted order; use MethodTable
// when the order of substitution passes matters.
type MethodMap map[string]MethodFunc

// Names returns the map keys in sorted order.
func (m MethodMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements Methods.
func (m MethodMap) Resolve(name string) (string, bool) {
	fn, ok := m[name]
	if !ok || fn == nil {
		return "", false
	}
	return fn(), true
}

// emptyMethods is used when neither Compile nor the template supplies a table.
type emptyMethods struct{}

func (emptyMethods) Names() []string { return nil }

func (emptyMethods) Resolve(string) (string, bool) { return "", false }

// tokenFilter returns the table's token automaton, building it if needed.
// It returns nil when the table is empty or the automaton cannot be built.
func (t *MethodTable) tokenFilter() *ahocorasick.Automaton {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.filter == nil {
		t.filter = buildTokenFilter(t.Names())
	}
	return t.filter
}

// filtered is implemented by providers that keep a token automaton across
// compilations.
type filtered interface {
	tokenFilter() *ahocorasick.Automaton
}

// substitute expands the tokens of source. It runs one pass per name of m,
// in m's order, over the accumulated text. A pass replaces every token that
// resolves, so a substitution introducing a token is expanded only if a
// later pass remains.
func substitute(source string, m Methods) string {
	names := m.Names()
	if len(names) == 0 {
		return source
	}
	if f, ok := m.(filtered); ok {
		if auto := f.tokenFilter(); auto != nil && !auto.IsMatch([]byte(source)) {
			return source
		}
	}
	for range names {
		source = substitutePass(source, m)
	}
	return source
}

// buildTokenFilter builds an automaton matching any `name` literal. When
// none occurs in a source, no pass can change it. A nil result means the
// passes run unfiltered.
func buildTokenFilter(names []string) *ahocorasick.Automaton {
	if len(names) == 0 {
		return nil
	}
	builder := ahocorasick.NewBuilder()
	for _, name := range names {
		builder.AddPattern([]byte("`" + name + "`"))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return auto
}
