// Package script lifts SQL statements out of host files. Host scripts
// keep their queries in triple-quoted string literals; a literal
// counts as SQL when a SELECT ... FROM sequence appears in it, and
// everything else (docstrings, plain text) is ignored. Raw .sql files
// bypass the scan and count as a single statement.
package script

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Triple-quoted literals of either quote style, non-greedy so
	// back-to-back literals stay separate.
	tripleQuoted = regexp.MustCompile(`'''[\s\S]*?'''|"""[\s\S]*?"""`)

	// A SELECT eventually followed by FROM marks a literal as SQL.
	selectFrom = regexp.MustCompile(`(?i)\bSELECT\b[\s\S]*?\bFROM\b`)
)

// Statement is one SQL statement lifted out of a host file, split
// into lines for the structural scans downstream.
type Statement struct {
	// Index is the statement's order of appearance in the file.
	Index int
	Lines []string
}

// Statements extracts the SQL statements from content. Raw SQL files
// become a single statement; anything else is scanned for embedded
// triple-quoted literals.
func Statements(path, content string) []Statement {
	if IsSQLPath(path) {
		return FromSQLFile(content)
	}
	return ExtractStatements(content)
}

// ExtractStatements returns every embedded SQL statement in content,
// in order of appearance. The surrounding quotes are dropped and the
// literal body is trimmed before splitting into lines.
func ExtractStatements(content string) []Statement {
	var stmts []Statement

	for _, match := range tripleQuoted.FindAllString(content, -1) {
		inner := match[3 : len(match)-3]
		if !selectFrom.MatchString(inner) {
			continue
		}
		stmts = append(stmts, Statement{
			Index: len(stmts),
			Lines: strings.Split(strings.TrimSpace(inner), "\n"),
		})
	}

	return stmts
}

// FromSQLFile treats an entire raw SQL file as one statement. Files
// holding nothing but whitespace yield no statements.
func FromSQLFile(content string) []Statement {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	return []Statement{{Index: 0, Lines: strings.Split(trimmed, "\n")}}
}

// IsSQLPath reports whether path points at a raw SQL file rather than
// a host script.
func IsSQLPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sql")
}
