// Package logging scrubs credentials from values before they reach the
// log stream. Target-database errors regularly echo the connection
// string back, password included.
package logging

import (
	"regexp"
)

const (
	// MaxQueryLogLength is the maximum length of a query to log.
	MaxQueryLogLength = 200
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Matches password=xxx, pwd=xxx, pass=xxx until the next delimiter.
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches bearer tokens (three base64url segments separated by dots).
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*`)

	// Matches user:pass@host credentials inside URLs.
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from a connection
// string before it is logged.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeError returns an error message safe to log. Errors from
// target-database drivers may quote the full connection string.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeQuery truncates a SQL query for logging.
func SanitizeQuery(query string) string {
	sanitized := passwordPattern.ReplaceAllString(query, "${1}="+RedactedText)
	if len(sanitized) > MaxQueryLogLength {
		return sanitized[:MaxQueryLogLength] + "..."
	}
	return sanitized
}
