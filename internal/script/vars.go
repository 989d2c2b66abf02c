package script

import (
	"regexp"
	"strings"
)

// Placeholder names are identifiers wrapped in curly braces, the way
// host scripts splice table names into their queries.
var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Resolver maps a placeholder name to its replacement value. The
// boolean reports whether a value was found.
type Resolver func(name string) (string, bool)

// Placeholders returns the distinct placeholder names referenced by
// the statement lines, in order of first appearance.
func Placeholders(lines []string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, line := range lines {
		for _, m := range placeholderPattern.FindAllStringSubmatch(line, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				names = append(names, m[1])
			}
		}
	}

	return names
}

// LookupAssignment finds a string assignment of the form name = "value"
// or name = 'value' in the host file content. The first assignment
// wins when the name is assigned more than once.
func LookupAssignment(content, name string) (string, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b\s*=\s*('([^']*)'|"([^"]*)")`)

	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	if strings.HasPrefix(m[1], "'") {
		return m[2], true
	}
	return m[3], true
}

// Substitute replaces every {name} placeholder the resolver knows
// about and returns the rewritten lines plus the names that stayed
// unresolved. Unresolved placeholders are left in place.
func Substitute(lines []string, resolve Resolver) ([]string, []string) {
	names := Placeholders(lines)
	if len(names) == 0 {
		return lines, nil
	}

	values := make(map[string]string, len(names))
	var unresolved []string
	for _, name := range names {
		if v, ok := resolve(name); ok {
			values[name] = v
		} else {
			unresolved = append(unresolved, name)
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		for name, v := range values {
			line = strings.ReplaceAll(line, "{"+name+"}", v)
		}
		out[i] = line
	}

	return out, unresolved
}
