package lineage

import (
	"regexp"

	"github.com/leapstack-labs/sqltrail/pkg/core"
)

var (
	withKeyword = regexp.MustCompile(`(?i)\bWITH\b`)
	cteOpener   = regexp.MustCompile(` AS\s*\(`)
	cteName     = regexp.MustCompile(`\b(\w+)\s+AS\b`)
)

// CTEs locates every common table expression definition, in source
// order. The WITH keyword gates the whole statement: when it occurs
// nowhere, CTEs returns nil, which callers must keep distinct from an
// empty non-nil result ("a WITH clause with zero definitions"). For each
// `<name> AS (` line, the column span runs downward to the defining
// SELECT's FROM boundary.
func (a *Analyzer) CTEs(lines []string) ([]core.Entity, error) {
	if !hasWith(lines) {
		a.logger.Info("no CTE detected in statement")
		return nil, nil
	}

	ctes := []core.Entity{}
	for index, line := range lines {
		if !cteOpener.MatchString(line) {
			continue
		}
		m := cteName.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		a.logger.Debug("found CTE", "name", name, "line", index)

		var columns []string
		if a.displayColumns {
			span, err := spanDown(lines, index)
			if err != nil {
				return nil, err
			}
			columns = Normalize(span)
		}

		ctes = append(ctes, core.Entity{
			Kind:    core.KindCTE,
			Index:   index,
			Name:    name,
			Columns: columns,
		})
	}
	return ctes, nil
}

// hasWith reports whether any line contains the WITH keyword.
func hasWith(lines []string) bool {
	for _, line := range lines {
		if withKeyword.MatchString(line) {
			return true
		}
	}
	return false
}
