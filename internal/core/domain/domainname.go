package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	schemePattern       = regexp.MustCompile(`^[a-z][a-z0-9+.\-]*://`)
)

var placeholderDomains = map[string]struct{}{
	"n/a":       {},
	"na":        {},
	"unknown":   {},
	"not found": {},
	"none":      {},
	"n":         {},
}

// NormalizeDomain canonicalizes a free-text company URL or domain token into a
// lower-cased bare host: no scheme, no "www.", no port, path, query or
// fragment. It returns "" when nothing host-like remains. The function is
// idempotent.
func NormalizeDomain(raw string) string {
	s := strings.TrimSpace(raw)
	if m := markdownLinkPattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[2])
		if s == "" {
			s = strings.TrimSpace(m[1])
		}
	}
	s = strings.Trim(strings.ToLower(s), "<> ")
	s = schemePattern.ReplaceAllString(s, "")
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "@"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		if !isDigits(s[idx+1:]) {
			return ""
		}
		s = s[:idx]
	}
	if strings.Contains(s, ":") {
		return ""
	}
	for {
		before := s
		s = strings.Trim(s, ".")
		s = strings.TrimPrefix(s, "www.")
		if s == before {
			break
		}
	}
	if s == "" || strings.ContainsAny(s, "[]()<>\"'`,;|\\") || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return ""
	}
	return s
}

// IsValidDomain applies the validity rule shared by validation, re-resolution
// and import: placeholders, tokens shorter than three characters and tokens
// without a dot are invalid.
func IsValidDomain(d string) bool {
	t := strings.ToLower(strings.TrimSpace(d))
	if _, placeholder := placeholderDomains[t]; placeholder {
		return false
	}
	if len(t) < 3 {
		return false
	}
	return strings.Contains(t, ".")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
