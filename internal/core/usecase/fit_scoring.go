package usecase

import (
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// applyFitPolicy runs the deterministic post-processing on a raw assessment:
// evidence dedup first, then the confidence clamp keyed on the surviving
// evidence count.
func applyFitPolicy(raw domain.FitAssessment, policy domain.ScoringPolicy, snippetRunes int) domain.FitAssessment {
	evidence := dedupEvidence(raw.Evidence)
	for i := range evidence {
		evidence[i].Snippet = truncateRunes(strings.TrimSpace(evidence[i].Snippet), snippetRunes)
	}

	return domain.FitAssessment{
		Rationale:  strings.TrimSpace(raw.Rationale),
		Confidence: clampConfidence(raw.Confidence, len(evidence), policy),
		Evidence:   evidence,
		ICPScore:   clampInt(raw.ICPScore, 0, policy.MaxScore),
	}
}

func clampConfidence(raw, evidenceCount int, policy domain.ScoringPolicy) int {
	value := clampInt(raw, 0, 100)
	switch {
	case evidenceCount <= 0:
		return min(value, policy.NoEvidenceCap)
	case evidenceCount == 1:
		return min(value, policy.SingleEvidenceCap)
	case evidenceCount == 2:
		return clampInt(value, policy.TwoEvidenceBand.Min, policy.TwoEvidenceBand.Max)
	default:
		return clampInt(value, policy.MultiEvidenceBand.Min, policy.MultiEvidenceBand.Max)
	}
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
