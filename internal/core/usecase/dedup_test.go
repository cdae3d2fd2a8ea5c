package usecase

import (
	"testing"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func TestDedupCandidatesKeepsHighestConfidence(t *testing.T) {
	in := []domain.Candidate{
		{Name: "Acme", Domain: "https://www.acme.com", Confidence: 40},
		{Name: "Beta", Domain: "beta.io", Confidence: 70},
		{Name: "Acme Inc", Domain: "acme.com/about", Confidence: 80},
		{Name: "Acme Again", Domain: "ACME.com", Confidence: 80},
	}

	out := dedupCandidates(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	if out[0].Domain != "acme.com" || out[0].Name != "Acme Inc" {
		t.Fatalf("expected first-position acme.com held by higher confidence entry, got %+v", out[0])
	}
	if out[1].Domain != "beta.io" {
		t.Fatalf("expected beta.io second, got %s", out[1].Domain)
	}
}

func TestDedupCandidatesInvariant(t *testing.T) {
	in := []domain.Candidate{
		{Domain: "a.com", Confidence: 10},
		{Domain: "b.com", Confidence: 90},
		{Domain: "www.a.com", Confidence: 55},
		{Domain: "http://b.com", Confidence: 20},
		{Domain: "c.com", Confidence: 0},
		{Domain: "a.com", Confidence: 30},
	}
	maxByDomain := map[string]int{}
	for _, c := range in {
		d := domain.NormalizeDomain(c.Domain)
		if c.Confidence > maxByDomain[d] {
			maxByDomain[d] = c.Confidence
		}
	}

	out := dedupCandidates(in)
	seen := map[string]bool{}
	for _, c := range out {
		if seen[c.Domain] {
			t.Fatalf("duplicate domain %s in output", c.Domain)
		}
		seen[c.Domain] = true
		if c.Confidence != maxByDomain[c.Domain] {
			t.Fatalf("domain %s kept confidence %d, want %d", c.Domain, c.Confidence, maxByDomain[c.Domain])
		}
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 domains, got %d", len(out))
	}
}

func TestExcludeKnownDomainsIsIdempotent(t *testing.T) {
	known := domainSet([]string{"acme.com", "https://www.beta.io/"})
	in := []domain.Candidate{{Domain: "acme.com"}, {Domain: "beta.io"}, {Domain: "gamma.dev"}}

	first, dropped := excludeKnownDomains(in, known)
	if dropped != 2 || len(first) != 1 || first[0].Domain != "gamma.dev" {
		t.Fatalf("unexpected first pass: dropped=%d out=%+v", dropped, first)
	}
	second, dropped := excludeKnownDomains(first, known)
	if dropped != 0 || len(second) != 1 {
		t.Fatalf("second pass should not change output: dropped=%d out=%+v", dropped, second)
	}
}

func TestDedupEvidenceCaseInsensitive(t *testing.T) {
	in := []domain.Evidence{
		{URL: "https://acme.com/a", Snippet: "first"},
		{URL: "  HTTPS://ACME.COM/A ", Snippet: "dup"},
		{URL: "https://acme.com/b"},
		{URL: ""},
		{URL: "https://acme.com/b"},
	}
	out := dedupEvidence(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 evidence items, got %d", len(out))
	}
	if out[0].Snippet != "first" || out[1].URL != "https://acme.com/b" {
		t.Fatalf("unexpected evidence order: %+v", out)
	}
}

func TestTruncateCandidateCapsEvidence(t *testing.T) {
	c := truncateCandidate(domain.Candidate{
		Name:         "  Acme ",
		EvidenceURLs: []string{"1", "2", "3", "4", "5"},
	}, 3)
	if c.Name != "Acme" || len(c.EvidenceURLs) != 3 {
		t.Fatalf("unexpected truncation: %+v", c)
	}
	if got := truncateRunes("héllo wörld", 5); got != "héllo" {
		t.Fatalf("truncateRunes = %q", got)
	}
}
