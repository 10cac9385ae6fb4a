package irregular

import (
	"fmt"
	"strings"
)

// Pattern is a native-pattern-like value: anything that carries a pattern
// body. Flags are discovered through the optional interfaces below.
//
// *Regexp implements Pattern together with every flag interface.
type Pattern interface {
	Source() string
}

// Optional capabilities of a Pattern. ExtractFlags prefers a composed flag
// string and falls back to the individual boolean capabilities.
type (
	flagger    interface{ Flags() string }
	globaler   interface{ Global() bool }
	ignorer    interface{ IgnoreCase() bool }
	multiliner interface{ Multiline() bool }
	unicoder   interface{ Unicode() bool }
	stickier   interface{ Sticky() bool }
)

// ExtractFlags returns the flag string of p.
//
// If p reports a non-empty composed flag string it is returned verbatim.
// Otherwise the string is built from the boolean capabilities of p, in the
// fixed order g (Global), i (IgnoreCase), m (Multiline), u (Unicode),
// y (Sticky). Capabilities p does not implement count as unset.
//
// Example:
//
//	re := irregular.MustCompile(`\w+`, "ig", nil)
//	irregular.ExtractFlags(re) // "ig", the composed string wins
func ExtractFlags(p Pattern) string {
	if f, ok := p.(flagger); ok {
		if flags := f.Flags(); flags != "" {
			return flags
		}
	}

	var sb strings.Builder
	if f, ok := p.(globaler); ok && f.Global() {
		sb.WriteByte('g')
	}
	if f, ok := p.(ignorer); ok && f.IgnoreCase() {
		sb.WriteByte('i')
	}
	if f, ok := p.(multiliner); ok && f.Multiline() {
		sb.WriteByte('m')
	}
	if f, ok := p.(unicoder); ok && f.Unicode() {
		sb.WriteByte('u')
	}
	if f, ok := p.(stickier); ok && f.Sticky() {
		sb.WriteByte('y')
	}
	return sb.String()
}

// flagSet is the decoded form of a flag string.
type flagSet struct {
	global     bool
	ignoreCase bool
	multiline  bool
	dotAll     bool
	unicode    bool
	sticky     bool
}

// parseFlags decodes flags. Unknown and repeated flags are rejected.
func parseFlags(flags string) (flagSet, error) {
	var fs flagSet
	for i := 0; i < len(flags); i++ {
		var p *bool
		switch flags[i] {
		case 'g':
			p = &fs.global
		case 'i':
			p = &fs.ignoreCase
		case 'm':
			p = &fs.multiline
		case 's':
			p = &fs.dotAll
		case 'u':
			p = &fs.unicode
		case 'y':
			p = &fs.sticky
		default:
			return flagSet{}, fmt.Errorf("%w %q", ErrInvalidFlag, flags[i])
		}
		if *p {
			return flagSet{}, fmt.Errorf("%w %q (repeated)", ErrInvalidFlag, flags[i])
		}
		*p = true
	}
	return fs, nil
}

// enginePrefix returns the inline flag group the engine needs for fs,
// or "" when no engine-level flag is set. g, u and y are handled outside
// the engine.
func (fs flagSet) enginePrefix() string {
	var sb strings.Builder
	if fs.ignoreCase {
		sb.WriteByte('i')
	}
	if fs.multiline {
		sb.WriteByte('m')
	}
	if fs.dotAll {
		sb.WriteByte('s')
	}
	if sb.Len() == 0 {
		return ""
	}
	return "(?" + sb.String() + ")"
}
