package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

const adCopyLines = 2

// validateAdCopy enforces the headline plus two lines plus CTA contract and
// returns trimmed copy.
func validateAdCopy(raw domain.AdCopy) (domain.AdCopy, error) {
	out := domain.AdCopy{
		Headline: strings.TrimSpace(raw.Headline),
		CTA:      strings.TrimSpace(raw.CTA),
	}
	var problems []string
	if out.Headline == "" {
		problems = append(problems, "headline is empty")
	}
	if out.CTA == "" {
		problems = append(problems, "cta is empty")
	}
	if len(raw.Lines) != adCopyLines {
		problems = append(problems, fmt.Sprintf("expected %d lines, got %d", adCopyLines, len(raw.Lines)))
	} else {
		for i, line := range raw.Lines {
			line = strings.TrimSpace(line)
			if line == "" {
				problems = append(problems, fmt.Sprintf("line %d is empty", i+1))
			}
			out.Lines = append(out.Lines, line)
		}
	}
	if len(problems) > 0 {
		return domain.AdCopy{}, domain.WrapError(domain.ErrMalformedAdCopy, "validate ad copy", errors.New(strings.Join(problems, "; ")))
	}
	return out, nil
}

func adBrief(cluster domain.Cluster, icp domain.ICP) domain.AdBrief {
	return domain.AdBrief{
		DominantIndustry: cluster.Criteria.DominantIndustry,
		DominantWorkflow: cluster.Criteria.DominantWorkflow,
		BuyerRoles:       append([]string(nil), icp.BuyerRoles...),
	}
}
