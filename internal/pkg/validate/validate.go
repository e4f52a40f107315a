package validate

import "strings"

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email does a minimal shape check. The identity provider is the authority
// on deliverability; this only rejects obviously broken input early.
func Email(value string) bool {
	v := strings.TrimSpace(value)
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 {
		return false
	}
	domain := v[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(v, " \t\n")
}

// NormalizeEmail lowercases and trims for case-insensitive matching.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
