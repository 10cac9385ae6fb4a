package irregular

import (
	"errors"
	"reflect"
	"testing"
)

var testMethods = NewMethodTable().
	SetString("test1", "result1").
	SetString("test2", "result2")

// TestConstruct tests the construction paths and how options override
// derived values.
func TestConstruct(t *testing.T) {
	tests := []struct {
		name        string
		tmpl        *Template
		wantSource  string
		wantHas     bool
		wantFlags   string
		wantMethods Methods
	}{
		{"no arguments", New(), "", false, "", nil},
		{"pattern", FromPattern(MustCompile("test", "gi", nil)), "test", true, "gi", nil},
		{"pattern and flags", FromPattern(MustCompile("test", "g", nil), WithFlags("gim")), "test", true, "gim", nil},
		{"pattern and methods", FromPattern(MustCompile("test", "gi", nil), WithMethods(testMethods)), "test", true, "gi", testMethods},
		{"pattern, flags and methods", FromPattern(MustCompile("test", "g", nil), WithFlags("gim"), WithMethods(testMethods)), "test", true, "gim", testMethods},
		{"source", FromSource("test"), "test", true, "", nil},
		{"source and flags", FromSource("test", WithFlags("gim")), "test", true, "gim", nil},
		{"source and methods", FromSource("test", WithMethods(testMethods)), "test", true, "", testMethods},
		{"empty source", FromSource(""), "", false, "", nil},
		{"empty flags keep derived", FromPattern(MustCompile("test", "i", nil), WithFlags("")), "test", true, "i", nil},
		{"nil pattern", FromPattern(nil, WithFlags("g")), "", false, "g", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, has := tt.tmpl.Source()
			if source != tt.wantSource || has != tt.wantHas {
				t.Errorf("Source() = (%q, %v), want (%q, %v)", source, has, tt.wantSource, tt.wantHas)
			}
			if got := tt.tmpl.Flags(); got != tt.wantFlags {
				t.Errorf("Flags() = %q, want %q", got, tt.wantFlags)
			}
			if got := tt.tmpl.Methods(); got != tt.wantMethods {
				t.Errorf("Methods() = %v, want %v", got, tt.wantMethods)
			}
		})
	}
}

// TestLastMethodsWin tests that a later WithMethods replaces an earlier one.
func TestLastMethodsWin(t *testing.T) {
	other := NewMethodTable().SetString("test1", "other")
	tmpl := FromSource("`test1`", WithMethods(testMethods), WithMethods(other))

	re, err := tmpl.Compile(nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if re.Source() != "other" {
		t.Errorf("Source() = %q, want %q", re.Source(), "other")
	}
}

// TestZeroTemplate tests that a Template not built by a constructor is
// rejected before anything else is looked at.
func TestZeroTemplate(t *testing.T) {
	var zero Template
	var nilTmpl *Template

	for name, tmpl := range map[string]*Template{"zero": &zero, "nil": nilTmpl} {
		t.Run(name, func(t *testing.T) {
			if _, err := tmpl.Compile(testMethods); !errors.Is(err, ErrInvalidUse) {
				t.Errorf("Compile() error = %v, want ErrInvalidUse", err)
			}
			if _, err := tmpl.Match("x"); !errors.Is(err, ErrInvalidUse) {
				t.Errorf("Match() error = %v, want ErrInvalidUse", err)
			}
			if _, err := tmpl.Groups(); !errors.Is(err, ErrInvalidUse) {
				t.Errorf("Groups() error = %v, want ErrInvalidUse", err)
			}
			if _, has := tmpl.Source(); has {
				t.Error("Source() reported a source")
			}
		})
	}
}

// TestMissingSource tests that a template without source cannot compile.
func TestMissingSource(t *testing.T) {
	tmpl := New(WithFlags("g"), WithMethods(testMethods))

	if _, err := tmpl.Compile(nil); !errors.Is(err, ErrMissingSource) {
		t.Errorf("Compile() error = %v, want ErrMissingSource", err)
	}
	if _, err := tmpl.Match("anything"); !errors.Is(err, ErrMissingSource) {
		t.Errorf("Match() error = %v, want ErrMissingSource", err)
	}
}

// fakePattern exposes only boolean flag capabilities.
type fakePattern struct {
	global, ignoreCase, multiline, unicode, sticky bool
}

func (fakePattern) Source() string     { return "bla" }
func (p fakePattern) Global() bool     { return p.global }
func (p fakePattern) IgnoreCase() bool { return p.ignoreCase }
func (p fakePattern) Multiline() bool  { return p.multiline }
func (p fakePattern) Unicode() bool    { return p.unicode }
func (p fakePattern) Sticky() bool     { return p.sticky }

// sourceOnly has no flag capability at all.
type sourceOnly string

func (s sourceOnly) Source() string { return string(s) }

// TestExtractFlags tests flag derivation from capabilities.
func TestExtractFlags(t *testing.T) {
	tests := []struct {
		name string
		p    Pattern
		want string
	}{
		{"g", fakePattern{global: true}, "g"},
		{"ig", fakePattern{global: true, ignoreCase: true}, "gi"},
		{"mi", fakePattern{ignoreCase: true, multiline: true}, "im"},
		{"mg", fakePattern{global: true, multiline: true}, "gm"},
		{"gim", fakePattern{global: true, ignoreCase: true, multiline: true}, "gim"},
		{"all", fakePattern{true, true, true, true, true}, "gimuy"},
		{"uy", fakePattern{unicode: true, sticky: true}, "uy"},
		{"none", fakePattern{}, ""},
		{"no capabilities", sourceOnly("bla"), ""},
		{"composed string wins", MustCompile("bla", "ysg", nil), "ysg"},
		{"empty composed string falls back", MustCompile("bla", "", nil), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFlags(tt.p); got != tt.want {
				t.Errorf("ExtractFlags() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestCompile tests substitution, named group stripping and flags.
func TestCompile(t *testing.T) {
	re, err := FromSource("`test1` `test2`-`test1`", WithFlags("ig"), WithMethods(testMethods)).Compile(nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if re.Source() != "result1 result2-result1" {
		t.Errorf("Source() = %q", re.Source())
	}
	if !re.IgnoreCase() || !re.Global() || re.Multiline() {
		t.Errorf("flags: ignoreCase=%v global=%v multiline=%v", re.IgnoreCase(), re.Global(), re.Multiline())
	}
	if re.String() != "/result1 result2-result1/ig" {
		t.Errorf("String() = %q", re.String())
	}
	if !re.Engine().IsMatch([]byte("RESULT1 result2-result1")) {
		t.Error("engine did not honour the i flag")
	}
	if re.EnginePattern() != "(?i)result1 result2-result1" {
		t.Errorf("EnginePattern() = %q", re.EnginePattern())
	}
}

// TestCompileSource tests the rewritten source for several inputs.
func TestCompileSource(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		methods Methods
		want    string
	}{
		{"two methods", "`foo` `bar`", MethodMap{"foo": func() string { return "A" }, "bar": func() string { return "B" }}, "A B"},
		{"unknown method", "bla `foo`", testMethods, "bla `foo`"},
		{"no table", "bla `test1`", nil, "bla `test1`"},
		{"angle named group", "(?<foo>bar)", nil, "(bar)"},
		{"quote named group", "(?'foo'bar)", nil, "(bar)"},
		{"named groups from methods", "`foo` `foo2`", NewMethodTable().
			SetString("foo", "(?<foo>bar)").
			SetString("foo2", "(?'foo2'bar)"), "(bar) (bar)"},
		{"non-capturing groups untouched", `(?:a)(?i:b)`, nil, `(?:a)(?i:b)`},
		{"go named group untouched", `(?P<x>a)`, nil, `(?P<x>a)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := FromSource(tt.source).Compile(tt.methods)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if re.Source() != tt.want {
				t.Errorf("Source() = %q, want %q", re.Source(), tt.want)
			}
		})
	}
}

// TestCompileMethodsPrecedence tests that the Compile argument wins over
// the template's own table.
func TestCompileMethodsPrecedence(t *testing.T) {
	tmpl := FromSource("`test1`", WithMethods(testMethods))
	explicit := MethodMap{"test1": func() string { return "explicit" }}

	re, err := tmpl.Compile(explicit)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if re.Source() != "explicit" {
		t.Errorf("Source() = %q, want %q", re.Source(), "explicit")
	}

	re, err = tmpl.Compile(nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if re.Source() != "result1" {
		t.Errorf("Source() = %q, want %q", re.Source(), "result1")
	}
}

// TestSubstitutionOrder tests that passes follow table order and that a
// token introduced by a substitution is only expanded by a later pass.
func TestSubstitutionOrder(t *testing.T) {
	tests := []struct {
		name    string
		methods Methods
		source  string
		want    string
	}{
		// Two names, two passes: "`b`" from a is expanded by the second pass.
		{"introduced token expanded", NewMethodTable().
			SetString("a", "`b`").
			SetString("b", "B"), "`a`", "B"},
		// One name, one pass: the re-introduced token stays.
		{"self reference kept", NewMethodTable().
			SetString("a", "x`a`"), "`a`", "x`a`"},
		// Two names but the chain is three deep.
		{"chain longer than table", NewMethodTable().
			SetString("a", "`b`").
			SetString("b", "`a`"), "`a`", "`a`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := FromSource(tt.source).Compile(tt.methods)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if re.Source() != tt.want {
				t.Errorf("Source() = %q, want %q", re.Source(), tt.want)
			}
		})
	}
}

// TestMethodCalledPerOccurrence tests that methods are invoked for every
// token occurrence.
func TestMethodCalledPerOccurrence(t *testing.T) {
	calls := 0
	methods := NewMethodTable().Set("n", func() string {
		calls++
		return "x"
	})

	re, err := FromSource("`n``n``n`").Compile(methods)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if re.Source() != "xxx" {
		t.Errorf("Source() = %q, want %q", re.Source(), "xxx")
	}
	if calls != 3 {
		t.Errorf("method called %d times, want 3", calls)
	}
}

// TestMethodTableSet tests that replacing a method keeps its position.
func TestMethodTableSet(t *testing.T) {
	table := NewMethodTable().
		SetString("a", "1").
		SetString("b", "2").
		SetString("a", "3")

	if got, want := table.Names(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if v, ok := table.Resolve("a"); !ok || v != "3" {
		t.Errorf("Resolve(a) = (%q, %v), want (\"3\", true)", v, ok)
	}
	if _, ok := table.Resolve("c"); ok {
		t.Error("Resolve(c) found a method")
	}

	var nilTable *MethodTable
	if nilTable.Len() != 0 || nilTable.Names() != nil {
		t.Error("nil table is not empty")
	}
}

// TestMethodMapNames tests that map-backed tables iterate in sorted order.
func TestMethodMapNames(t *testing.T) {
	m := MethodMap{"c": nil, "a": nil, "b": nil}
	if got, want := m.Names(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if _, ok := m.Resolve("a"); ok {
		t.Error("Resolve() found a nil method")
	}
}

// TestGroups tests group discovery on the template source.
func TestGroups(t *testing.T) {
	tests := []struct {
		source string
		want   []Key
	}{
		{`(\w+) (\w+)`, []Key{IndexKey(1), IndexKey(2)}},
		{`(?<firstName>\w+) (\w+) (?'lastName'\w+)`, []Key{NameKey("firstName"), IndexKey(2), NameKey("lastName")}},
		{`(?<namePart>\w+) (?<namePart>\w+)`, []Key{NameKey("namePart")}},
		{`no groups`, []Key{}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := FromSource(tt.source).Groups()
			if err != nil {
				t.Fatalf("Groups() error = %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Groups() = %v, want %v", got, tt.want)
			}
		})
	}
}
