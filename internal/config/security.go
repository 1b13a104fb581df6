package config

import (
	"regexp"
	"strings"
)

// SensitivePattern represents a pattern that might indicate sensitive data
type SensitivePattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:        "URL Credentials",
		Pattern:     regexp.MustCompile(`(?i)https?://[^/\s:@'"]+:[^/\s@'"]+@`),
		Description: "Mirror URL embeds a username and password",
	},
	{
		Name:        "Token",
		Pattern:     regexp.MustCompile(`(?i)(token|auth[_-]?token|access[_-]?token|bearer)\s*=\s*['"][a-zA-Z0-9_-]{15,}['"]`),
		Description: "Potential authentication token detected",
	},
	{
		Name:        "GitHub Token",
		Pattern:     regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}|github_pat_[a-zA-Z0-9_]{22,}`),
		Description: "Potential GitHub token detected",
	},
	{
		Name:        "Private Key",
		Pattern:     regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY`),
		Description: "Private key material inlined in the config",
	},
}

// SensitiveDataFinding represents a detected sensitive data instance
type SensitiveDataFinding struct {
	PatternName string
	Description string
	Line        int
	Preview     string // Redacted preview of the match
}

// DetectSensitiveData scans configuration content for secrets that should
// not live in a bootstrap config. Findings are reported, never fatal.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		for _, pattern := range sensitivePatterns {
			if pattern.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{
					PatternName: pattern.Name,
					Description: pattern.Description,
					Line:        lineNum + 1,
					Preview:     redactSensitiveValue(line),
				})
			}
		}
	}

	return findings
}

// redactSensitiveValue keeps the key of an assignment and hides the value.
func redactSensitiveValue(line string) string {
	eqIdx := strings.Index(line, "=")
	if eqIdx == -1 {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 12 {
			return trimmed[:12] + "... [REDACTED]"
		}
		return "[REDACTED]"
	}
	return strings.TrimSpace(line[:eqIdx]) + " = [REDACTED]"
}
