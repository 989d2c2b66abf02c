package lineage

import (
	"strings"

	"github.com/leapstack-labs/sqltrail/pkg/core"
)

const insertOverwrite = "INSERT OVERWRITE"

// Target locates the table the statement writes into. The first line
// containing INSERT OVERWRITE decides the name: taken from that line
// when it matches the table pattern, from the next line trimmed
// otherwise. Later INSERT OVERWRITE lines are ignored. The column anchor
// is the last line in the whole statement containing FROM, and columns
// are extracted upward from there. A statement missing either the name
// or the anchor has no target, which is expected for read-only
// statements and yields nil rather than an error.
func (a *Analyzer) Target(lines []string) (*core.Entity, error) {
	name := a.targetName(lines)
	index := lastFromIndex(lines)
	if name == "" || index < 0 {
		a.logger.Warn("no target table found in statement")
		return nil, nil
	}

	var columns []string
	if a.displayColumns {
		span, err := spanUp(lines, index)
		if err != nil {
			return nil, err
		}
		columns = Normalize(span)
	}

	a.logger.Debug("found target table", "name", name, "line", index)
	return &core.Entity{
		Kind:    core.KindTarget,
		Index:   index,
		Name:    name,
		Columns: columns,
	}, nil
}

// targetName finds the written table's name from the first INSERT
// OVERWRITE line, or "" when the statement writes nowhere.
func (a *Analyzer) targetName(lines []string) string {
	for i, line := range lines {
		if !strings.Contains(line, insertOverwrite) {
			continue
		}
		if name := a.tablePattern.FindString(line); name != "" {
			return name
		}
		if i+1 < len(lines) {
			return strings.TrimSpace(lines[i+1])
		}
		return ""
	}
	return ""
}

// lastFromIndex returns the index of the last line containing FROM,
// scanning from the end, or -1 when no line qualifies.
func lastFromIndex(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if containsFold(lines[i], "FROM") {
			return i
		}
	}
	return -1
}
