package irregular

import (
	"strings"
)

// The scanners below are not a regex parser. A group spans from an
// unescaped '(' to the first following unescaped ')', so nested groups and
// parentheses inside character classes are not understood.

// isWordByte reports whether c matches the ASCII class \w.
func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// wordEnd returns the index of the first non-word byte at or after i.
func wordEnd(s string, i int) int {
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	return i
}

// closeParen returns the index of the first unescaped ')' at or after i,
// or -1 if there is none.
func closeParen(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case ')':
			return i
		}
		i++
	}
	return -1
}

// namedGroupAt reports whether a named group opener, (?<name> or (?'name',
// starts at s[i]. It returns the group name and the index of the first byte
// of the group body. Either delimiter closes either opener.
func namedGroupAt(s string, i int) (name string, body int, ok bool) {
	if i+3 >= len(s) || s[i] != '(' || s[i+1] != '?' {
		return "", 0, false
	}
	if s[i+2] != '<' && s[i+2] != '\'' {
		return "", 0, false
	}
	start := i + 3
	end := wordEnd(s, start)
	if end == start || end >= len(s) {
		return "", 0, false
	}
	if s[end] != '>' && s[end] != '\'' {
		return "", 0, false
	}
	return s[start:end], end + 1, true
}

// stripGroupNames rewrites every (?<name>body) and (?'name'body) in s into
// (body).
func stripGroupNames(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' {
			end := min(i+2, len(s))
			sb.WriteString(s[i:end])
			i = end
			continue
		}
		if _, body, ok := namedGroupAt(s, i); ok {
			if end := closeParen(s, body); end >= 0 {
				sb.WriteByte('(')
				sb.WriteString(s[body:end])
				sb.WriteByte(')')
				i = end + 1
				continue
			}
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}

// groupKeys returns the keys of the capture groups in s, in source order.
// Named groups are keyed by name; unnamed ones by their 1-based position
// among all discovered groups. Spans opened by "(?" that are neither named
// groups nor (?P<name> groups do not capture and are skipped.
func groupKeys(s string) []Key {
	var keys []Key
	for i := 0; i < len(s); {
		if s[i] == '\\' {
			i += 2
			continue
		}
		if s[i] != '(' {
			i++
			continue
		}
		end := closeParen(s, i+1)
		if end < 0 {
			break
		}
		switch name, _, named := namedGroupAt(s, i); {
		case named:
			keys = append(keys, NameKey(name))
		case strings.HasPrefix(s[i:], "(?P<"), !strings.HasPrefix(s[i:], "(?"):
			keys = append(keys, IndexKey(len(keys)+1))
		}
		i = end + 1
	}
	return keys
}

// tokenAt reports whether a backtick token `name` starts at s[i], returning
// the name and the index just past the closing backtick.
func tokenAt(s string, i int) (name string, end int, ok bool) {
	if s[i] != '`' {
		return "", 0, false
	}
	j := wordEnd(s, i+1)
	if j == i+1 || j >= len(s) || s[j] != '`' {
		return "", 0, false
	}
	return s[i+1 : j], j + 1, true
}

// substitutePass replaces every token in s whose name resolves in m.
// Unresolved tokens are kept verbatim. Replacement text is not rescanned.
func substitutePass(s string, m Methods) string {
	if strings.IndexByte(s, '`') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		name, end, ok := tokenAt(s, i)
		if !ok {
			sb.WriteByte(s[i])
			i++
			continue
		}
		if v, found := m.Resolve(name); found {
			sb.WriteString(v)
		} else {
			sb.WriteString(s[i:end])
		}
		i = end
	}
	return sb.String()
}
