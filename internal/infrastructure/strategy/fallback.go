package strategy

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

var (
	namePrefixes = []string{"North", "Blue", "Bright", "Clear", "Iron", "Swift", "Nova", "Summit", "Harbor", "Pine", "Vector", "Atlas"}
	nameSuffixes = []string{"Labs", "Works", "Systems", "Cloud", "Logic", "Stack", "Flow", "Metrics", "Hub", "Ware"}
	domainTLDs   = []string{"com", "io", "co", "dev", "ai"}
)

// Fallback produces deterministic demo data without any network access. The
// same inputs always yield the same candidates and scores.
type Fallback struct{}

func NewFallback() *Fallback { return &Fallback{} }

func (s *Fallback) Name() string { return "fallback" }
func (s *Fallback) Live() bool   { return false }

// Search only answers official-website lookups, with a guessed domain.
func (s *Fallback) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	name, ok := strings.CutSuffix(strings.TrimSpace(query), " official website")
	if !ok || limit == 0 {
		return []domain.SearchResult{}, nil
	}
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "")
	if slug == "" {
		return []domain.SearchResult{}, nil
	}
	return []domain.SearchResult{{
		Title: name,
		URL:   "https://www." + slug + ".com/",
	}}, nil
}

func (s *Fallback) FetchText(_ context.Context, siteDomain string) (string, error) {
	return fmt.Sprintf("%s builds software for modern teams.", siteDomain), nil
}

func (s *Fallback) ExtractICP(_ context.Context, _ string, solution string) (domain.ICP, error) {
	if strings.TrimSpace(solution) == "" {
		solution = "B2B software"
	}
	return domain.ICP{
		Solution:      solution,
		Industries:    []string{"SaaS", "Fintech", "E-commerce"},
		Workflows:     []string{"billing", "reporting", "onboarding"},
		BuyerRoles:    []string{"CFO", "VP Operations", "Head of Growth"},
		Firmographics: domain.Firmographics{Size: "50-500 employees", Geo: "North America"},
	}, nil
}

func (s *Fallback) FindLookalikes(_ context.Context, seed domain.Customer, icp domain.ICP, limit int) ([]domain.Candidate, error) {
	return generateCandidates("seed:"+domain.NormalizeDomain(seed.Domain), icp, limit), nil
}

func (s *Fallback) FindByQuery(_ context.Context, query string, icp domain.ICP, limit int) ([]domain.Candidate, error) {
	return generateCandidates("query:"+query, icp, limit), nil
}

// ScoreFit derives the score from the domain hash and names the matched ICP
// terms in the rationale, so the rubric and clusters behave sensibly.
func (s *Fallback) ScoreFit(_ context.Context, req ports.FitRequest) (domain.FitAssessment, error) {
	h := hashOf("fit:" + req.Domain)
	evidenceCount := int(h % 4)
	evidence := make([]domain.Evidence, 0, evidenceCount)
	for i := 0; i < evidenceCount; i++ {
		evidence = append(evidence, domain.Evidence{
			URL:     fmt.Sprintf("https://%s/%s", req.Domain, []string{"", "customers", "pricing"}[i%3]),
			Snippet: fmt.Sprintf("%s serves %s teams.", req.Name, pick(req.ICP.Industries, h>>3, "B2B")),
		})
	}
	return domain.FitAssessment{
		Rationale:  rationaleFor(req.Name, req.ICP, h),
		Confidence: 40 + int((h>>5)%56),
		Evidence:   evidence,
		ICPScore:   35 + int((h>>11)%61),
	}, nil
}

func (s *Fallback) WriteAd(_ context.Context, brief domain.AdBrief) (domain.AdCopy, error) {
	role := pick(brief.BuyerRoles, 0, "teams")
	return domain.AdCopy{
		Headline: fmt.Sprintf("Better %s for %s", orDefault(brief.DominantWorkflow, "operations"), orDefault(brief.DominantIndustry, "growing companies")),
		Lines: []string{
			fmt.Sprintf("Built for %s who want less busywork.", role),
			"See results in your first month.",
		},
		CTA: "Book a demo",
	}, nil
}

func generateCandidates(seedKey string, icp domain.ICP, limit int) []domain.Candidate {
	if limit <= 0 {
		limit = 5
	}
	count := min(limit, 3+int(hashOf(seedKey)%4))
	out := make([]domain.Candidate, 0, count)
	for i := 0; i < count; i++ {
		h := hashOf(fmt.Sprintf("%s#%d", seedKey, i))
		name := fmt.Sprintf("%s %s", namePrefixes[h%uint64(len(namePrefixes))], nameSuffixes[(h>>8)%uint64(len(nameSuffixes))])
		companyDomain := fmt.Sprintf("%s.%s", strings.ToLower(strings.ReplaceAll(name, " ", "")), domainTLDs[(h>>16)%uint64(len(domainTLDs))])
		out = append(out, domain.Candidate{
			Name:         name,
			Domain:       companyDomain,
			Rationale:    rationaleFor(name, icp, h),
			EvidenceURLs: []string{"https://" + companyDomain + "/"},
			Confidence:   45 + int((h>>24)%50),
		})
	}
	return out
}

func rationaleFor(name string, icp domain.ICP, h uint64) string {
	return fmt.Sprintf("%s serves %s companies with %s tooling aimed at the %s.",
		name,
		pick(icp.Industries, h>>3, "B2B"),
		pick(icp.Workflows, h>>7, "workflow"),
		pick(icp.BuyerRoles, h>>13, "operations lead"),
	)
}

func pick(values []string, h uint64, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[h%uint64(len(values))]
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func hashOf(value string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(value))
	return h.Sum64()
}
