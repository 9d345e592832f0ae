package sqlguard

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// QuestionCheckResult describes an injection pattern detected in a
// natural-language question.
type QuestionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckQuestion screens a natural-language question for SQL injection
// patterns before it is embedded in a prompt or matched against
// fallback rules. Questions are free text, so only a positive
// libinjection fingerprint is treated as hostile.
//
// Returns nil if the question looks clean.
func CheckQuestion(question string) *QuestionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(question)
	if isSQLi {
		return &QuestionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
		}
	}
	return nil
}
