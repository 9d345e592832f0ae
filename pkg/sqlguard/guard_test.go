package sqlguard

import (
	"errors"
	"testing"
)

func TestValidateAndNormalize_ValidQueries(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple select without semicolon",
			input:    "SELECT 1",
			expected: "SELECT 1",
		},
		{
			name:     "simple select with trailing semicolon",
			input:    "SELECT 1;",
			expected: "SELECT 1",
		},
		{
			name:     "trailing semicolon and whitespace",
			input:    "SELECT 1;  ",
			expected: "SELECT 1",
		},
		{
			name:     "leading and trailing whitespace",
			input:    "  SELECT * FROM accounts  ",
			expected: "SELECT * FROM accounts",
		},
		{
			name:     "semicolon inside single quoted string",
			input:    "SELECT * FROM accounts WHERE status = 'open;closed'",
			expected: "SELECT * FROM accounts WHERE status = 'open;closed'",
		},
		{
			name:     "semicolon inside double quoted identifier",
			input:    `SELECT * FROM "odd;table"`,
			expected: `SELECT * FROM "odd;table"`,
		},
		{
			name:     "SQL standard escaped quote",
			input:    "SELECT * FROM employees WHERE name = 'O''Brien'",
			expected: "SELECT * FROM employees WHERE name = 'O''Brien'",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAndNormalize(tt.input)
			if result.Error != nil {
				t.Fatalf("unexpected error: %v", result.Error)
			}
			if result.NormalizedSQL != tt.expected {
				t.Errorf("got %q, want %q", result.NormalizedSQL, tt.expected)
			}
		})
	}
}

func TestValidateAndNormalize_MultipleStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "two statements",
			input: "SELECT 1; SELECT 2",
		},
		{
			name:  "select then drop",
			input: "SELECT * FROM accounts; DROP TABLE accounts",
		},
		{
			name:  "stacked with trailing semicolon",
			input: "SELECT 1; DELETE FROM accounts;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAndNormalize(tt.input)
			if !errors.Is(result.Error, ErrMultipleStatements) {
				t.Errorf("got error %v, want ErrMultipleStatements", result.Error)
			}
		})
	}
}

func TestEnsureReadOnly_AllowsSelects(t *testing.T) {
	queries := []string{
		"SELECT 1",
		"select department, AVG(salary) FROM employees GROUP BY department",
		"SELECT * FROM transactions WHERE note = 'please delete this'",
		`SELECT * FROM "UPDATE"`,
		"SELECT created_at FROM loans WHERE status = 'updated'",
	}

	for _, q := range queries {
		if err := EnsureReadOnly(q); err != nil {
			t.Errorf("EnsureReadOnly(%q) = %v, want nil", q, err)
		}
	}
}

func TestEnsureReadOnly_RejectsMutations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "insert", input: "INSERT INTO accounts VALUES (1)"},
		{name: "update", input: "UPDATE accounts SET balance = 0"},
		{name: "delete", input: "DELETE FROM accounts"},
		{name: "drop", input: "DROP TABLE accounts"},
		{name: "lowercase truncate", input: "truncate table accounts"},
		{name: "select wrapping delete", input: "SELECT * FROM accounts; DELETE FROM accounts"},
		{name: "mutation keyword mid-query", input: "SELECT * FROM accounts WHERE id IN (DELETE FROM accounts RETURNING id)"},
		{name: "execute", input: "EXECUTE prepared_stmt"},
		{name: "call", input: "CALL refresh_balances()"},
		{name: "empty", input: ""},
		{name: "not select", input: "WITH x AS (SELECT 1) SELECT * FROM x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := EnsureReadOnly(tt.input); err == nil {
				t.Errorf("EnsureReadOnly(%q) = nil, want error", tt.input)
			}
		})
	}
}

func TestEnsureReadOnly_KeywordInsideStringLiteral(t *testing.T) {
	q := "SELECT * FROM audit_log WHERE action = 'DROP TABLE attempt'"
	if err := EnsureReadOnly(q); err != nil {
		t.Errorf("keyword inside literal should pass, got %v", err)
	}
}
