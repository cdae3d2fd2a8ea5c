package usecase

import (
	"regexp"
	"strings"
)

const countWords = `\d+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty|fifty|dozens?`

var (
	countListPattern = regexp.MustCompile(`(?i)^(?:` + countWords + `)\s+(?:[\w-]+\s+)?(?:types|kinds|ways|best|top|leading|largest|biggest|popular|great|companies|tools|examples|alternatives|startups|vendors|brands|providers|platforms|apps|firms|agencies|solutions)\b`)
	topNPattern      = regexp.MustCompile(`(?i)^top\s+(?:` + countWords + `)\b`)
	bestNPattern     = regexp.MustCompile(`(?i)\bbest\s+(?:` + countWords + `)\b`)
	theBestPattern   = regexp.MustCompile(`(?i)^the\s+best\b`)
	listWordPattern  = regexp.MustCompile(`(?i)\b(?:director(?:y|ies)|lists?|listings?|guides?|reviews?)\b`)
	// Location names are capitalized, so this one stays case-sensitive.
	inLocationPattern = regexp.MustCompile(`\s(?:in|In)\s+(?:the\s+)?\p{Lu}[\p{L}.'-]*(?:\s+\p{Lu}[\p{L}.'-]*)*\s*$`)
)

// isPlausibleCompanyName rejects article and directory titles that search
// extraction sometimes returns in place of company names.
func isPlausibleCompanyName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	for _, pattern := range []*regexp.Regexp{
		countListPattern,
		topNPattern,
		bestNPattern,
		theBestPattern,
		listWordPattern,
		inLocationPattern,
	} {
		if pattern.MatchString(trimmed) {
			return false
		}
	}
	return true
}
