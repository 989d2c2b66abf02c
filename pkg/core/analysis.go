package core

// Analysis is the structured result of analyzing one SQL statement.
type Analysis struct {
	// Sources are the tables read from, in order of appearance
	Sources []Entity
	// CTEs are the common table expressions in definition order.
	// A nil slice means no WITH clause was present anywhere in the
	// statement; an empty non-nil slice means a WITH clause existed
	// but produced no definitions.
	CTEs []Entity
	// Target is the table written to, or nil for read-only statements
	Target *Entity
}

// HasCTEs reports whether a WITH clause was detected at all.
func (a Analysis) HasCTEs() bool {
	return a.CTEs != nil
}

// UsedCTE returns the CTE that feeds the target table. When a statement
// defines several CTEs, the last-defined one is the one the final SELECT
// reads from. Returns nil when the statement has no CTEs.
func (a Analysis) UsedCTE() *Entity {
	if len(a.CTEs) == 0 {
		return nil
	}
	return &a.CTEs[len(a.CTEs)-1]
}

// Entities returns every extracted entity in presentation order:
// sources first, then CTEs, then the target.
func (a Analysis) Entities() []Entity {
	out := make([]Entity, 0, len(a.Sources)+len(a.CTEs)+1)
	out = append(out, a.Sources...)
	out = append(out, a.CTEs...)
	if a.Target != nil {
		out = append(out, *a.Target)
	}
	return out
}
