// Package irregular composes regular expressions from named, reusable
// methods and reports captures by group name.
//
// A Template holds a pattern source, a flag string and an optional method
// table. Compiling a template:
//   - replaces backtick tokens such as `word` with the text returned by the
//     method of that name (unknown tokens are left as they are)
//   - rewrites named groups written (?<name>...) or (?'name'...) into plain
//     capture groups
//   - compiles the result with the coregex engine
//
// Matching a template folds the captures of every execution into a Result
// keyed by group name, or by 1-based position for unnamed groups. Groups
// sharing a name accumulate into one sequence, as do the successive
// executions of a global (g flag) pattern.
//
// Basic usage:
//
//	methods := irregular.NewMethodTable().
//	    SetString("word", `\w+`)
//
//	t := irregular.FromSource("(?<first>`word`) (?<last>`word`)",
//	    irregular.WithMethods(methods))
//
//	res, err := t.Match("John Smith")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Named("first")[0].Text) // "John"
//
// Flags:
//   - g: global, match repeatedly across the input
//   - i: case-insensitive
//   - m: ^ and $ match at line boundaries
//   - s: . matches \n
//   - u: unicode (always on in the engine)
//   - y: sticky, a match must start at the current position
//
// Limitations:
//   - Groups are found by a textual scan: a group ends at the first
//     unescaped ')', so nested groups are not understood
//   - Groups introduced by method substitutions are not keyed in a Result
package irregular

// Template is an uncompiled pattern with its flags and method table.
//
// Templates are created with New, FromSource or FromPattern and are never
// modified afterwards, so Compile and Match may be called concurrently.
// A zero Template was not constructed and every operation on it returns
// ErrInvalidUse.
type Template struct {
	source    string
	hasSource bool
	flags     string
	methods   Methods
	built     bool
}

// Option configures a Template under construction.
type Option func(*Template)

// WithFlags sets the flag string, overriding flags derived from a Pattern.
// An empty string leaves the current flags unchanged.
func WithFlags(flags string) Option {
	return func(t *Template) {
		if flags != "" {
			t.flags = flags
		}
	}
}

// WithMethods sets the method table. When given more than once, the last
// table wins. A nil table is ignored.
func WithMethods(m Methods) Option {
	return func(t *Template) {
		if m != nil {
			t.methods = m
		}
	}
}

// New returns a Template without a source. It can carry flags and methods
// but cannot be compiled.
func New(opts ...Option) *Template {
	return build("", "", opts)
}

// FromSource returns a Template for the raw pattern source. An empty source
// leaves the template without one.
func FromSource(source string, opts ...Option) *Template {
	return build(source, "", opts)
}

// FromPattern returns a Template taking its source from p.Source() and its
// flags from ExtractFlags(p).
func FromPattern(p Pattern, opts ...Option) *Template {
	if p == nil {
		return build("", "", opts)
	}
	return build(p.Source(), ExtractFlags(p), opts)
}

func build(source, flags string, opts []Option) *Template {
	t := &Template{
		source:    source,
		hasSource: source != "",
		flags:     flags,
		built:     true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Template) valid() bool {
	return t != nil && t.built
}

// Source returns the raw source and whether one was given.
func (t *Template) Source() (string, bool) {
	if !t.valid() {
		return "", false
	}
	return t.source, t.hasSource
}

// Flags returns the flag string, "" when none was given.
func (t *Template) Flags() string {
	if !t.valid() {
		return ""
	}
	return t.flags
}

// Methods returns the method table given at construction, or nil.
func (t *Template) Methods() Methods {
	if !t.valid() {
		return nil
	}
	return t.methods
}

// Groups returns the keys of the capture groups found in the source, in
// order of first appearance. A name used by several groups is listed once.
func (t *Template) Groups() ([]Key, error) {
	if !t.valid() {
		return nil, ErrInvalidUse
	}
	if !t.hasSource {
		return nil, ErrMissingSource
	}
	keys := groupKeys(t.source)
	seen := make(map[Key]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

// Compile expands method tokens, strips group names and compiles the
// result. methods takes precedence over the template's own table; when
// both are nil no token is expanded.
//
// Each call returns a new Regexp; the template is not modified.
func (t *Template) Compile(methods Methods) (*Regexp, error) {
	if !t.valid() {
		return nil, ErrInvalidUse
	}
	if !t.hasSource {
		return nil, ErrMissingSource
	}

	if methods == nil {
		methods = t.methods
	}
	if methods == nil {
		methods = emptyMethods{}
	}

	source := substitute(t.source, methods)
	source = stripGroupNames(source)

	return compileNative(source, t.flags)
}
