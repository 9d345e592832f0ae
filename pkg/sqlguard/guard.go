// Package sqlguard validates generated SQL before it is allowed
// anywhere near a live connection.
package sqlguard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMultipleStatements indicates the query contains multiple SQL statements.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

	// ErrNotSelect indicates the query does not begin with SELECT.
	ErrNotSelect = errors.New("query must begin with SELECT")
)

// mutationKeywords are verbs that must never appear in a generated
// query, matched as whole words outside string literals.
var mutationKeywords = map[string]struct{}{
	"INSERT": {}, "UPDATE": {}, "DELETE": {}, "DROP": {}, "ALTER": {},
	"CREATE": {}, "TRUNCATE": {}, "REPLACE": {}, "EXEC": {},
	"EXECUTE": {}, "CALL": {}, "GRANT": {}, "REVOKE": {}, "MERGE": {},
}

// ValidationResult contains the normalized SQL and any validation error.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateAndNormalize strips the trailing semicolon and rejects
// multi-statement input. Read-only enforcement is separate; see
// EnsureReadOnly.
func ValidateAndNormalize(sqlQuery string) ValidationResult {
	sqlQuery = strings.TrimSpace(sqlQuery)

	if sqlQuery == "" {
		return ValidationResult{NormalizedSQL: sqlQuery}
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	if hasSemicolonOutsideStrings(normalized) {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

// EnsureReadOnly verifies that the query begins with SELECT and that
// no data-mutating keyword appears anywhere outside string literals.
// A query that fails here is discarded, never repaired.
func EnsureReadOnly(sqlQuery string) error {
	trimmed := strings.TrimSpace(sqlQuery)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return ErrNotSelect
	}

	for _, word := range wordsOutsideStrings(trimmed) {
		if _, bad := mutationKeywords[strings.ToUpper(word)]; bad {
			return fmt.Errorf("forbidden keyword %q in generated query", word)
		}
	}
	return nil
}

// wordsOutsideStrings tokenizes identifier-like words, skipping
// single- and double-quoted regions so literals such as
// 'last update' never trip the keyword check.
func wordsOutsideStrings(sqlQuery string) []string {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	var words []string
	var current strings.Builder
	state := stateNormal
	prevChar := rune(0)

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch {
			case char == '\'':
				flush()
				state = stateSingleQuote
			case char == '"':
				flush()
				state = stateDoubleQuote
			case isWordChar(char):
				current.WriteRune(char)
			default:
				flush()
			}
		case stateSingleQuote:
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}
	flush()

	return words
}

func isWordChar(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// hasSemicolonOutsideStrings returns true if the SQL contains any
// semicolon outside of string literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handle both backslash escape (\') and SQL standard escape ('').
			// For a doubled quote this exits and immediately re-enters on the
			// next quote, which correctly keeps us inside the string.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes a trailing semicolon and surrounding
// whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}
