package usecase

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

const generalIndustry = "General"

type clusterGroup struct {
	key      string
	industry string
	members  []domain.Company
}

// buildClusters partitions a run's persisted prospects by score band and
// dominant industry. Groups smaller than the policy minimum are folded into a
// single catch-all cluster, which is always last. Returned clusters carry no
// IDs yet.
func buildClusters(prospects []domain.Company, icp domain.ICP, policy domain.ScoringPolicy) []domain.Cluster {
	if len(prospects) == 0 {
		return nil
	}

	groups := make([]*clusterGroup, 0)
	byKey := make(map[string]*clusterGroup)
	for _, prospect := range prospects {
		industry := prospectIndustry(prospect.Rationale, icp)
		key := scoreBand(prospect.ICPScore, policy) + slugify(industry)
		group, ok := byKey[key]
		if !ok {
			group = &clusterGroup{key: key, industry: industry}
			byKey[key] = group
			groups = append(groups, group)
		}
		group.members = append(group.members, prospect)
	}

	clusters := make([]domain.Cluster, 0, len(groups)+1)
	var leftovers []domain.Company
	for _, group := range groups {
		if len(group.members) < policy.MinClusterSize {
			leftovers = append(leftovers, group.members...)
			continue
		}
		clusters = append(clusters, domain.Cluster{
			Key:        group.key,
			Label:      labelFromKey(group.key),
			Criteria:   clusterCriteria(group.members, icp, group.industry),
			CompanyIDs: companyIDs(group.members),
		})
	}

	if len(leftovers) > 0 {
		fallbackIndustry := icp.FirstIndustry()
		if fallbackIndustry == "" {
			fallbackIndustry = generalIndustry
		}
		clusters = append(clusters, domain.Cluster{
			Key:        "other",
			Label:      policy.CatchAllLabel,
			CatchAll:   true,
			Criteria:   clusterCriteria(leftovers, icp, fallbackIndustry),
			CompanyIDs: companyIDs(leftovers),
		})
	}
	return clusters
}

func scoreBand(icpScore int, policy domain.ScoringPolicy) string {
	switch {
	case icpScore >= policy.HighBandMin:
		return "high-"
	case icpScore >= policy.MediumBandMin:
		return "medium-"
	default:
		return "low-"
	}
}

// prospectIndustry is the first ICP industry named in the rationale, else the
// ICP's first industry.
func prospectIndustry(rationale string, icp domain.ICP) string {
	lowered := strings.ToLower(rationale)
	for _, industry := range icp.Industries {
		if matchesTerm(lowered, industry) {
			return strings.TrimSpace(industry)
		}
	}
	if first := strings.TrimSpace(icp.FirstIndustry()); first != "" {
		return first
	}
	return generalIndustry
}

func clusterCriteria(members []domain.Company, icp domain.ICP, industryFallback string) domain.ClusterCriteria {
	var scoreSum, confidenceSum int
	rationales := make([]string, 0, len(members))
	for _, member := range members {
		scoreSum += member.ICPScore
		confidenceSum += member.Confidence
		rationales = append(rationales, strings.ToLower(member.Rationale))
	}

	workflowFallback := strings.TrimSpace(icp.FirstWorkflow())
	return domain.ClusterCriteria{
		AvgICPScore:      roundTenth(float64(scoreSum) / float64(len(members))),
		AvgConfidence:    roundTenth(float64(confidenceSum) / float64(len(members))),
		DominantIndustry: mostFrequentTerm(rationales, icp.Industries, industryFallback),
		DominantWorkflow: mostFrequentTerm(rationales, icp.Workflows, workflowFallback),
		CompanyCount:     len(members),
	}
}

// mostFrequentTerm counts, per term, how many texts mention it. Ties go to the
// term listed first.
func mostFrequentTerm(loweredTexts []string, terms []string, fallback string) string {
	best, bestCount := "", 0
	for _, term := range terms {
		count := 0
		for _, text := range loweredTexts {
			if matchesTerm(text, term) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = strings.TrimSpace(term), count
		}
	}
	if bestCount == 0 {
		return fallback
	}
	return best
}

func slugify(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), "-")
}

// labelFromKey title-cases every hyphen-separated word of a cluster key, so
// "high-fintech" becomes "High Fintech".
func labelFromKey(key string) string {
	parts := strings.Split(key, "-")
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		words = append(words, capitalize(part))
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

func companyIDs(members []domain.Company) []int64 {
	ids := make([]int64, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}
	return ids
}

func roundTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
