package core

import "strings"

// EntityKind classifies the role a relation plays within one statement.
type EntityKind int

// Entity kinds, in the order statements produce them.
const (
	// KindSource is a table the statement reads from.
	KindSource EntityKind = iota
	// KindCTE is a named sub-query scoped to the statement.
	KindCTE
	// KindTarget is the table the statement writes its result into.
	KindTarget
)

// String returns the string representation of the kind.
func (k EntityKind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindCTE:
		return "cte"
	case KindTarget:
		return "target"
	default:
		return "unknown"
	}
}

// Entity is one named relation extracted from a SQL statement.
// It is a value record: constructed once by a locator, normalized once,
// and never mutated afterward.
type Entity struct {
	// Kind is the relation role (source, cte, target)
	Kind EntityKind
	// Index is the line position of the entity's defining marker.
	// It is an internal anchor only and never rendered.
	Index int
	// Name is the literal table or CTE identifier as written
	Name string
	// Columns holds the normalized column names, in projection order.
	// Empty when column display is disabled.
	Columns []string
}

// Label renders the diagram node label for the entity. When withColumns
// is set and the entity has columns, the name and the column block are
// separated by a colon; otherwise the label is the name alone.
func (e Entity) Label(withColumns bool) string {
	if !withColumns || len(e.Columns) == 0 {
		return e.Name
	}
	return e.Name + ":\n\n" + strings.Join(e.Columns, "\n")
}
