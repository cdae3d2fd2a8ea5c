package usecase

import (
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// fallbackScore is the local rubric used when the scoring collaborator fails:
// weighted keyword hits against the candidate rationale plus a confidence bonus.
func fallbackScore(candidate domain.Candidate, icp domain.ICP, policy domain.ScoringPolicy) int {
	text := strings.ToLower(candidate.Rationale)

	score := 0
	if containsAnyTerm(text, icp.Industries) {
		score += policy.IndustryWeight
	}
	if containsAnyTerm(text, icp.Workflows) {
		score += policy.WorkflowWeight
	}
	if containsAnyTerm(text, icp.BuyerRoles) {
		score += policy.BuyerRoleWeight
	}
	if policy.ConfidenceBonusDivisor > 0 && candidate.Confidence > 0 {
		score += candidate.Confidence / policy.ConfidenceBonusDivisor
	}
	return min(score, policy.MaxScore)
}

// fallbackAssessment builds the assessment persisted for a fallback-scored
// candidate. Evidence comes from the candidate's own URLs.
func fallbackAssessment(candidate domain.Candidate, icp domain.ICP, policy domain.ScoringPolicy, snippetRunes int) domain.FitAssessment {
	evidence := make([]domain.Evidence, 0, len(candidate.EvidenceURLs))
	for _, url := range candidate.EvidenceURLs {
		evidence = append(evidence, domain.Evidence{URL: url})
	}
	assessed := applyFitPolicy(domain.FitAssessment{
		Rationale:  candidate.Rationale,
		Confidence: candidate.Confidence,
		Evidence:   evidence,
	}, policy, snippetRunes)
	assessed.ICPScore = fallbackScore(candidate, icp, policy)
	return assessed
}

// containsAnyTerm reports whether lowered text contains any non-blank term,
// case-insensitively.
func containsAnyTerm(lowered string, terms []string) bool {
	for _, term := range terms {
		if matchesTerm(lowered, term) {
			return true
		}
	}
	return false
}

func matchesTerm(lowered, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	return needle != "" && strings.Contains(lowered, needle)
}
