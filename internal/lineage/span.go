package lineage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks statements whose clause structure cannot be scanned:
// a SELECT or FROM boundary was never found before the line array ran
// out. Callers skip the offending statement and continue.
var ErrMalformed = errors.New("malformed statement")

// containsFold reports whether the line contains the keyword, ignoring
// case. Keywords are passed in upper case.
func containsFold(line, keyword string) bool {
	return strings.Contains(strings.ToUpper(line), keyword)
}

// spanUp collects the column span above an anchor line: every line above
// the anchor, walking upward until the nearest line containing SELECT,
// inclusive. The span comes back in original (top-down) order with
// leading indentation removed. An anchor that itself contains SELECT has
// an empty span. Running past the start of the array means the statement
// has no SELECT clause above the anchor and is malformed.
func spanUp(lines []string, anchor int) ([]string, error) {
	if anchor < 0 || anchor >= len(lines) {
		return nil, fmt.Errorf("column anchor %d out of range: %w", anchor, ErrMalformed)
	}
	if containsFold(lines[anchor], "SELECT") {
		return nil, nil
	}

	var span []string
	for i := anchor - 1; ; i-- {
		if i < 0 {
			return nil, fmt.Errorf("no SELECT above line %d: %w", anchor, ErrMalformed)
		}
		span = append(span, strings.TrimLeft(lines[i], " \t"))
		if containsFold(lines[i], "SELECT") {
			break
		}
	}

	for i, j := 0, len(span)-1; i < j; i, j = i+1, j-1 {
		span[i], span[j] = span[j], span[i]
	}
	return span, nil
}

// spanDown collects the column span below an anchor line: every line
// from the anchor down to the nearest line containing FROM, exclusive,
// with any preamble before the first line containing SELECT discarded.
// A span with no SELECT at all is empty. Running past the end of the
// array means the statement never closes the clause and is malformed.
func spanDown(lines []string, anchor int) ([]string, error) {
	if anchor < 0 || anchor >= len(lines) {
		return nil, fmt.Errorf("column anchor %d out of range: %w", anchor, ErrMalformed)
	}

	var collected []string
	closed := false
	for i := anchor; i < len(lines); i++ {
		if containsFold(lines[i], "FROM") {
			closed = true
			break
		}
		collected = append(collected, lines[i])
	}
	if !closed {
		return nil, fmt.Errorf("no FROM below line %d: %w", anchor, ErrMalformed)
	}

	for i, line := range collected {
		if containsFold(line, "SELECT") {
			return collected[i:], nil
		}
	}
	return nil, nil
}
