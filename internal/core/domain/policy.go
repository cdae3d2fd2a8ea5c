package domain

import (
	"errors"
	"fmt"
)

type ConfidenceBand struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// ScoringPolicy holds every threshold the pipeline applies around the scoring
// collaborator.
type ScoringPolicy struct {
	SeedExpansionThreshold       int `json:"seedExpansionThreshold" yaml:"seed_expansion_threshold"`
	CompetitorDiscoveryThreshold int `json:"competitorDiscoveryThreshold" yaml:"competitor_discovery_threshold"`

	NoEvidenceCap     int            `json:"noEvidenceCap" yaml:"no_evidence_cap"`
	SingleEvidenceCap int            `json:"singleEvidenceCap" yaml:"single_evidence_cap"`
	TwoEvidenceBand   ConfidenceBand `json:"twoEvidenceBand" yaml:"two_evidence_band"`
	MultiEvidenceBand ConfidenceBand `json:"multiEvidenceBand" yaml:"multi_evidence_band"`

	HighBandMin    int    `json:"highBandMin" yaml:"high_band_min"`
	MediumBandMin  int    `json:"mediumBandMin" yaml:"medium_band_min"`
	MinClusterSize int    `json:"minClusterSize" yaml:"min_cluster_size"`
	CatchAllLabel  string `json:"catchAllLabel" yaml:"catch_all_label"`

	IndustryWeight         int `json:"industryWeight" yaml:"industry_weight"`
	WorkflowWeight         int `json:"workflowWeight" yaml:"workflow_weight"`
	BuyerRoleWeight        int `json:"buyerRoleWeight" yaml:"buyer_role_weight"`
	ConfidenceBonusDivisor int `json:"confidenceBonusDivisor" yaml:"confidence_bonus_divisor"`
	MaxScore               int `json:"maxScore" yaml:"max_score"`

	MaxCandidateEvidence int `json:"maxCandidateEvidence" yaml:"max_candidate_evidence"`
	ReresolveResults     int `json:"reresolveResults" yaml:"reresolve_results"`
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		SeedExpansionThreshold:       50,
		CompetitorDiscoveryThreshold: 40,

		NoEvidenceCap:     20,
		SingleEvidenceCap: 55,
		TwoEvidenceBand:   ConfidenceBand{Min: 60, Max: 70},
		MultiEvidenceBand: ConfidenceBand{Min: 75, Max: 90},

		HighBandMin:    80,
		MediumBandMin:  60,
		MinClusterSize: 2,
		CatchAllLabel:  "Other Prospects",

		IndustryWeight:         40,
		WorkflowWeight:         30,
		BuyerRoleWeight:        20,
		ConfidenceBonusDivisor: 10,
		MaxScore:               100,

		MaxCandidateEvidence: 3,
		ReresolveResults:     3,
	}
}

// ThresholdFor returns the minimum ICP score a prospect needs to be persisted
// in the given mode. Generate-more shares the seed-expansion bar.
func (p ScoringPolicy) ThresholdFor(mode RunMode) int {
	if mode == ModeCompetitorDiscovery {
		return p.CompetitorDiscoveryThreshold
	}
	return p.SeedExpansionThreshold
}

func (p ScoringPolicy) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(p.SeedExpansionThreshold >= 0 && p.SeedExpansionThreshold <= 100, "seed_expansion_threshold out of range: %d", p.SeedExpansionThreshold)
	check(p.CompetitorDiscoveryThreshold >= 0 && p.CompetitorDiscoveryThreshold <= 100, "competitor_discovery_threshold out of range: %d", p.CompetitorDiscoveryThreshold)
	check(p.TwoEvidenceBand.Min <= p.TwoEvidenceBand.Max, "two_evidence_band min > max")
	check(p.MultiEvidenceBand.Min <= p.MultiEvidenceBand.Max, "multi_evidence_band min > max")
	check(p.MediumBandMin <= p.HighBandMin, "medium_band_min > high_band_min")
	check(p.MinClusterSize >= 1, "min_cluster_size must be >= 1")
	check(p.CatchAllLabel != "", "catch_all_label must not be empty")
	check(p.ConfidenceBonusDivisor > 0, "confidence_bonus_divisor must be > 0")
	check(p.MaxScore > 0, "max_score must be > 0")
	check(p.MaxCandidateEvidence > 0, "max_candidate_evidence must be > 0")
	check(p.ReresolveResults > 0, "reresolve_results must be > 0")

	if len(errs) > 0 {
		return WrapError(ErrInvalidInput, "validate scoring policy", errors.Join(errs...))
	}
	return nil
}
