package lineage

import (
	"regexp"
	"strings"
)

var selectKeyword = regexp.MustCompile(`(?i)\bSELECT\b`)

// Normalize reduces raw column-span lines to an ordered list of column
// names: the SELECT keyword is stripped, every line is split on commas
// and flattened to one name per entry, and each entry is trimmed. Empty
// fragments are dropped. Normalize is idempotent and leaves entities
// with no residual SELECT keywords, trailing commas, or stray whitespace.
func Normalize(raw []string) []string {
	var columns []string
	for _, line := range raw {
		line = selectKeyword.ReplaceAllString(line, "")
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			columns = append(columns, part)
		}
	}
	return columns
}
