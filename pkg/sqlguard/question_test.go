package sqlguard

import (
	"testing"
)

func TestCheckQuestion_CleanQuestions(t *testing.T) {
	questions := []string{
		"What is the average salary by department?",
		"Show me transaction volume for the last 30 days",
		"How many loans were approved this month?",
		"employee headcount per department",
	}

	for _, q := range questions {
		if result := CheckQuestion(q); result != nil {
			t.Errorf("CheckQuestion(%q) flagged clean question with fingerprint %q", q, result.Fingerprint)
		}
	}
}

func TestCheckQuestion_InjectionPatterns(t *testing.T) {
	questions := []string{
		"' OR '1'='1",
		"1; DROP TABLE users --",
		"admin' UNION SELECT password FROM users --",
	}

	for _, q := range questions {
		result := CheckQuestion(q)
		if result == nil {
			t.Errorf("CheckQuestion(%q) = nil, want detection", q)
			continue
		}
		if !result.IsSQLi || result.Fingerprint == "" {
			t.Errorf("CheckQuestion(%q) = %+v, want IsSQLi with fingerprint", q, result)
		}
	}
}
