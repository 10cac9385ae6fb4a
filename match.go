package irregular

import (
	"strconv"
)

// Key identifies a capture group in a Result: by Name for named groups,
// by 1-based Index for unnamed ones.
type Key struct {
	Name  string
	Index int
}

// NameKey returns the key of the named group name.
func NameKey(name string) Key { return Key{Name: name} }

// IndexKey returns the key of the unnamed group at 1-based position i.
func IndexKey(i int) Key { return Key{Index: i} }

// IsNamed reports whether k identifies a named group.
func (k Key) IsNamed() bool { return k.Name != "" }

// String returns the group name, or the decimal index for unnamed groups.
func (k Key) String() string {
	if k.IsNamed() {
		return k.Name
	}
	return strconv.Itoa(k.Index)
}

// Submatch is the text captured by one group in one execution.
// A group that did not participate has Matched false and -1 offsets,
// which distinguishes it from a group that matched the empty string.
type Submatch struct {
	Text    string
	Start   int
	End     int
	Matched bool
}

// Result maps every discovered group to the submatches it produced, in
// execution order. Groups sharing a name share one sequence.
type Result map[Key][]Submatch

// Named returns the submatches of the group(s) called name.
func (r Result) Named(name string) []Submatch {
	return r[NameKey(name)]
}

// Indexed returns the submatches of the unnamed group at position i.
func (r Result) Indexed(i int) []Submatch {
	return r[IndexKey(i)]
}

// Strings returns the texts of k's submatches. Groups that did not
// participate yield "".
func (r Result) Strings(k Key) []string {
	subs := r[k]
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.Text
	}
	return out
}

// Match compiles t and runs it against input.
//
// The groups are discovered on the template's source before substitution,
// so groups introduced by method substitutions are not keyed and shift the
// alignment of the groups that follow them.
//
// Every discovered key is present in the Result, with an empty sequence
// when nothing matched. A failed match is not an error.
//
// Example:
//
//	t := irregular.FromSource(`(?<namePart>\w+) (?<namePart>\w+)`)
//	res, _ := t.Match("John Smith")
//	res.Strings(irregular.NameKey("namePart")) // ["John" "Smith"]
func (t *Template) Match(input string) (Result, error) {
	if !t.valid() {
		return nil, ErrInvalidUse
	}
	if !t.hasSource {
		return nil, ErrMissingSource
	}

	keys := groupKeys(t.source)
	re, err := t.Compile(nil)
	if err != nil {
		return nil, err
	}

	res := make(Result, len(keys))
	for _, k := range keys {
		if _, ok := res[k]; !ok {
			res[k] = []Submatch{}
		}
	}

	for _, row := range re.Exec(input) {
		for i, k := range keys {
			sub := Submatch{Start: -1, End: -1}
			if i < len(row) {
				sub = row[i]
			}
			res[k] = append(res[k], sub)
		}
	}
	return res, nil
}
