package usecase

import (
	"testing"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func TestBuildClustersPairAndCatchAll(t *testing.T) {
	icp := domain.ICP{
		Industries: []string{"SaaS", "Fintech", "Healthcare", "Retail"},
		Workflows:  []string{"billing", "onboarding"},
	}
	prospects := []domain.Company{
		{ID: 1, ICPScore: 85, Confidence: 80, Rationale: "SaaS billing leader"},
		{ID: 2, ICPScore: 55, Confidence: 40, Rationale: "Fintech lender"},
		{ID: 3, ICPScore: 90, Confidence: 88, Rationale: "saas onboarding and billing"},
		{ID: 4, ICPScore: 65, Confidence: 60, Rationale: "Healthcare provider"},
		{ID: 5, ICPScore: 82, Confidence: 75, Rationale: "Retail chain onboarding"},
	}

	clusters := buildClusters(prospects, icp, domain.DefaultScoringPolicy())
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %+v", len(clusters), clusters)
	}

	genuine := clusters[0]
	if genuine.CatchAll || genuine.Key != "high-saas" || genuine.Label != "High Saas" {
		t.Fatalf("unexpected genuine cluster: %+v", genuine)
	}
	if len(genuine.CompanyIDs) != 2 || genuine.CompanyIDs[0] != 1 || genuine.CompanyIDs[1] != 3 {
		t.Fatalf("unexpected genuine members: %v", genuine.CompanyIDs)
	}
	if genuine.Criteria.AvgICPScore != 87.5 || genuine.Criteria.AvgConfidence != 84 {
		t.Fatalf("unexpected averages: %+v", genuine.Criteria)
	}
	if genuine.Criteria.DominantIndustry != "SaaS" || genuine.Criteria.DominantWorkflow != "billing" {
		t.Fatalf("unexpected dominant terms: %+v", genuine.Criteria)
	}

	catchAll := clusters[1]
	if !catchAll.CatchAll || catchAll.Label != "Other Prospects" {
		t.Fatalf("expected catch-all last, got %+v", catchAll)
	}
	if len(catchAll.CompanyIDs) != 3 || catchAll.Criteria.CompanyCount != 3 {
		t.Fatalf("expected 3 catch-all members, got %v", catchAll.CompanyIDs)
	}
}

func TestBuildClustersMinimumSize(t *testing.T) {
	icp := domain.ICP{Industries: []string{"SaaS", "Fintech"}, Workflows: []string{"billing"}}
	prospects := []domain.Company{
		{ID: 1, ICPScore: 85, Rationale: "saas"},
		{ID: 2, ICPScore: 70, Rationale: "saas"},
		{ID: 3, ICPScore: 40, Rationale: "fintech"},
		{ID: 4, ICPScore: 86, Rationale: "SaaS"},
		{ID: 5, ICPScore: 30, Rationale: "fintech"},
		{ID: 6, ICPScore: 61, Rationale: "nothing relevant"},
	}
	policy := domain.DefaultScoringPolicy()

	catchAlls := 0
	for _, cluster := range buildClusters(prospects, icp, policy) {
		if cluster.CatchAll {
			catchAlls++
			continue
		}
		if len(cluster.CompanyIDs) < policy.MinClusterSize {
			t.Fatalf("cluster %s below minimum size: %v", cluster.Key, cluster.CompanyIDs)
		}
	}
	if catchAlls > 1 {
		t.Fatalf("expected at most one catch-all, got %d", catchAlls)
	}
}

func TestBuildClustersNoCatchAllWithoutSingletons(t *testing.T) {
	icp := domain.ICP{Industries: []string{"SaaS"}, Workflows: []string{"billing"}}
	prospects := []domain.Company{
		{ID: 1, ICPScore: 72, Rationale: "saas"},
		{ID: 2, ICPScore: 72, Rationale: "saas"},
	}
	clusters := buildClusters(prospects, icp, domain.DefaultScoringPolicy())
	if len(clusters) != 1 || clusters[0].Label != "Medium Saas" {
		t.Fatalf("expected single Medium Saas cluster, got %+v", clusters)
	}
}

func TestProspectIndustryFallbacks(t *testing.T) {
	if got := prospectIndustry("anything", domain.ICP{}); got != "General" {
		t.Fatalf("expected General, got %q", got)
	}
	icp := domain.ICP{Industries: []string{"Real Estate", "Insurance"}}
	if got := prospectIndustry("an insurance broker", icp); got != "Insurance" {
		t.Fatalf("expected Insurance, got %q", got)
	}
	if got := prospectIndustry("a bakery", icp); got != "Real Estate" {
		t.Fatalf("expected Real Estate, got %q", got)
	}
	if got := labelFromKey("low-" + slugify("Real Estate")); got != "Low Real Estate" {
		t.Fatalf("unexpected label %q", got)
	}
}
