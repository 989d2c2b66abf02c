package lineage

import (
	"strings"

	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// Sources locates every table the statement reads from, in order of
// appearance. A line matching the table pattern produces a source unless
// it also contains the target table's name, which keeps the write clause
// itself from registering as a read. Columns are extracted upward from
// the matching line exactly as for the target. The same table read twice
// produces two entities; deduplication happens at the graph, where equal
// labels collapse.
func (a *Analyzer) Sources(lines []string, target *core.Entity) ([]core.Entity, error) {
	var sources []core.Entity
	for index, line := range lines {
		name := a.tablePattern.FindString(line)
		if name == "" {
			continue
		}
		if target != nil && strings.Contains(line, target.Name) {
			continue
		}
		a.logger.Debug("found source table", "name", name, "line", index)

		var columns []string
		if a.displayColumns {
			span, err := spanUp(lines, index)
			if err != nil {
				return nil, err
			}
			columns = Normalize(span)
		}

		sources = append(sources, core.Entity{
			Kind:    core.KindSource,
			Index:   index,
			Name:    name,
			Columns: columns,
		})
	}

	if len(sources) == 0 {
		a.logger.Warn("no source tables found in statement")
	}
	return sources, nil
}
