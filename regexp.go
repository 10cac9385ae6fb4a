package irregular

import (
	"github.com/coregx/coregex/meta"
)

// Regexp is a compiled template: the rewritten source and flags bound to a
// native coregex engine.
//
// A Regexp is safe to use concurrently from multiple goroutines.
//
// Regexp implements Pattern and every flag capability read by ExtractFlags,
// so it can seed a new Template via FromPattern.
type Regexp struct {
	engine *meta.Engine
	native string
	source string
	flags  string
	fs     flagSet
}

// Compile compiles source with flags, expanding tokens from methods.
// It is shorthand for FromSource(source, WithFlags(flags)).Compile(methods).
//
// Example:
//
//	re, err := irregular.Compile("`year`-`month`", "g", irregular.MethodMap{
//	    "year":  func() string { return `(?<year>\d{4})` },
//	    "month": func() string { return `(?<month>\d{2})` },
//	})
func Compile(source, flags string, methods Methods) (*Regexp, error) {
	return FromSource(source, WithFlags(flags)).Compile(methods)
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(source, flags string, methods Methods) *Regexp {
	re, err := Compile(source, flags, methods)
	if err != nil {
		panic("irregular: Compile(`" + source + "`): " + err.Error())
	}
	return re
}

// compileNative validates flags and hands source to the engine.
func compileNative(source, flags string) (*Regexp, error) {
	fs, err := parseFlags(flags)
	if err != nil {
		return nil, &PatternError{Source: source, Flags: flags, Err: err}
	}

	native := fs.enginePrefix() + source
	engine, err := meta.Compile(native)
	if err != nil {
		return nil, &PatternError{Source: source, Flags: flags, Err: err}
	}

	return &Regexp{
		engine: engine,
		native: native,
		source: source,
		flags:  flags,
		fs:     fs,
	}, nil
}

// Source returns the rewritten source, without the engine flag prefix.
func (r *Regexp) Source() string { return r.source }

// Flags returns the flag string the Regexp was compiled with.
func (r *Regexp) Flags() string { return r.flags }

// Global reports whether the g flag is set.
func (r *Regexp) Global() bool { return r.fs.global }

// IgnoreCase reports whether the i flag is set.
func (r *Regexp) IgnoreCase() bool { return r.fs.ignoreCase }

// Multiline reports whether the m flag is set.
func (r *Regexp) Multiline() bool { return r.fs.multiline }

// DotAll reports whether the s flag is set.
func (r *Regexp) DotAll() bool { return r.fs.dotAll }

// Unicode reports whether the u flag is set.
func (r *Regexp) Unicode() bool { return r.fs.unicode }

// Sticky reports whether the y flag is set.
func (r *Regexp) Sticky() bool { return r.fs.sticky }

// Engine returns the underlying coregex engine.
func (r *Regexp) Engine() *meta.Engine { return r.engine }

// EnginePattern returns the pattern compiled by the engine: the source with
// the inline flag prefix for i, m and s.
func (r *Regexp) EnginePattern() string { return r.native }

// String returns the Regexp in /source/flags form.
func (r *Regexp) String() string {
	return "/" + r.source + "/" + r.flags
}

// Exec runs the Regexp against input and returns one row per execution.
// Row i holds the submatches of capture groups 1..n; the whole match is
// not included.
//
// Without the g flag the pattern runs once. With it, the pattern is run
// again from an explicit cursor that starts at 0, moves to the end of each
// match (one byte further after an empty match), and stops once it reaches
// len(input). Every run sees the whole input, so ^ and \b at the cursor
// look at the text before it. With the y flag a match must begin exactly
// at the cursor, otherwise execution stops.
//
// Exec returns nil when nothing matches.
func (r *Regexp) Exec(input string) [][]Submatch {
	b := []byte(input)

	if !r.fs.global {
		loc := r.findAt(b, 0)
		if loc == nil || (r.fs.sticky && loc[0] != 0) {
			return nil
		}
		return [][]Submatch{submatches(input, loc)}
	}

	var rows [][]Submatch
	for cursor := 0; cursor < len(b); {
		loc := r.findAt(b, cursor)
		if loc == nil {
			break
		}
		if r.fs.sticky && loc[0] != cursor {
			break
		}
		rows = append(rows, submatches(input, loc))

		cursor = loc[1]
		if loc[1] == loc[0] {
			cursor++
		}
	}
	return rows
}

// findAt returns the index pairs of the first match starting at or after
// at, searching the full haystack. Unmatched groups have -1 indices.
func (r *Regexp) findAt(b []byte, at int) []int {
	match := r.engine.FindSubmatchAt(b, at)
	if match == nil {
		return nil
	}

	numGroups := match.NumCaptures()
	loc := make([]int, numGroups*2)
	for i := 0; i < numGroups; i++ {
		idx := match.GroupIndex(i)
		if len(idx) >= 2 {
			loc[i*2] = idx[0]
			loc[i*2+1] = idx[1]
		} else {
			loc[i*2] = -1
			loc[i*2+1] = -1
		}
	}
	return loc
}

// submatches converts an index slice from the engine into submatches for
// groups 1..n. Unmatched groups have -1 indices.
func submatches(input string, loc []int) []Submatch {
	n := len(loc)/2 - 1
	if n <= 0 {
		return []Submatch{}
	}
	subs := make([]Submatch, n)
	for i := range subs {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		if start < 0 || end < 0 {
			subs[i] = Submatch{Start: -1, End: -1}
			continue
		}
		subs[i] = Submatch{
			Text:    input[start:end],
			Start:   start,
			End:     end,
			Matched: true,
		}
	}
	return subs
}
