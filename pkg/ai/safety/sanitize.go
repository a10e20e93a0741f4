package safety

import "regexp"

const redacted = "[REDACTED]"

type redaction struct {
	pattern *regexp.Regexp
	replace string
}

// Every replacement leaves text none of the patterns can match again, which
// keeps Sanitize idempotent. Values never include '[' or ']'.
var redactions = []redaction{
	{regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9_\-\.=]+`), redacted},
	{regexp.MustCompile(`(?i)\bsk-[A-Za-z0-9_\-]+`), redacted},
	{regexp.MustCompile(`\bAIza[A-Za-z0-9_\-]+`), redacted},
	{regexp.MustCompile(`(?i)API[_\s]?KEY[:\s]*[A-Za-z0-9_\-]+`), redacted},
	{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|token)(\s*[:=]\s*)[^\s\[\]]+`), "${1}${2}" + redacted},
}

// Sanitize redacts credential-shaped substrings from text that is about to
// leave the service.
func Sanitize(text string) string {
	for _, r := range redactions {
		text = r.pattern.ReplaceAllString(text, r.replace)
	}
	return text
}
