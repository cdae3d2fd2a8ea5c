package strategy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

// CandidateExtractor picks companies out of raw search results.
type CandidateExtractor interface {
	ExtractCandidates(ctx context.Context, seed string, results []domain.SearchResult, icp domain.ICP, limit int) ([]domain.Candidate, error)
}

// Analyst is the language model side of the live strategy.
type Analyst interface {
	ports.ICPExtractor
	ports.FitScorer
	ports.AdCopywriter
	CandidateExtractor
}

// Live is backed by real web search, website fetching and a language model.
type Live struct {
	analyst         Analyst
	searcher        ports.WebSearcher
	fetcher         ports.SiteFetcher
	resultsPerQuery int
	logger          *slog.Logger
}

func NewLive(analyst Analyst, searcher ports.WebSearcher, fetcher ports.SiteFetcher, resultsPerQuery int, logger *slog.Logger) *Live {
	if resultsPerQuery <= 0 {
		resultsPerQuery = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Live{
		analyst:         analyst,
		searcher:        searcher,
		fetcher:         fetcher,
		resultsPerQuery: resultsPerQuery,
		logger:          logger,
	}
}

func (s *Live) Name() string { return "live" }
func (s *Live) Live() bool   { return true }

func (s *Live) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	return s.searcher.Search(ctx, query, limit)
}

func (s *Live) FetchText(ctx context.Context, siteDomain string) (string, error) {
	return s.fetcher.FetchText(ctx, siteDomain)
}

func (s *Live) ExtractICP(ctx context.Context, websiteText, solution string) (domain.ICP, error) {
	return s.analyst.ExtractICP(ctx, websiteText, solution)
}

// FindLookalikes searches for competitors of the seed and lets the analyst pick
// companies out of the results. Results and candidates on the seed's own
// registrable domain are dropped.
func (s *Live) FindLookalikes(ctx context.Context, seed domain.Customer, icp domain.ICP, limit int) ([]domain.Candidate, error) {
	seedDomain := domain.NormalizeDomain(seed.Domain)
	query := lookalikeQuery(seed, seedDomain, icp)

	results, err := s.searcher.Search(ctx, query, s.resultsPerQuery)
	if err != nil {
		return nil, fmt.Errorf("search lookalikes of %s: %w", seedDomain, err)
	}
	seedSite := registrableDomain(seedDomain)
	results = filterResults(results, seedSite)

	candidates, err := s.analyst.ExtractCandidates(ctx, seedDomain, results, icp, limit)
	if err != nil {
		return nil, fmt.Errorf("extract lookalikes of %s: %w", seedDomain, err)
	}
	out := candidates[:0]
	for _, candidate := range candidates {
		if seedSite != "" && registrableDomain(domain.NormalizeDomain(candidate.Domain)) == seedSite {
			continue
		}
		out = append(out, candidate)
	}
	s.logger.Debug("lookalikes found", "seed", seedDomain, "results", len(results), "candidates", len(out))
	return out, nil
}

func (s *Live) FindByQuery(ctx context.Context, query string, icp domain.ICP, limit int) ([]domain.Candidate, error) {
	results, err := s.searcher.Search(ctx, query, s.resultsPerQuery)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return s.analyst.ExtractCandidates(ctx, "", results, icp, limit)
}

func (s *Live) ScoreFit(ctx context.Context, req ports.FitRequest) (domain.FitAssessment, error) {
	return s.analyst.ScoreFit(ctx, req)
}

func (s *Live) WriteAd(ctx context.Context, brief domain.AdBrief) (domain.AdCopy, error) {
	return s.analyst.WriteAd(ctx, brief)
}

func lookalikeQuery(seed domain.Customer, seedDomain string, icp domain.ICP) string {
	subject := strings.TrimSpace(seed.Name)
	if subject == "" {
		subject = seedDomain
	}
	return strings.Join(strings.Fields(fmt.Sprintf("%s competitors alternatives %s", subject, icp.FirstIndustry())), " ")
}

func filterResults(results []domain.SearchResult, seedSite string) []domain.SearchResult {
	if seedSite == "" {
		return results
	}
	out := make([]domain.SearchResult, 0, len(results))
	for _, result := range results {
		if registrableDomain(domain.NormalizeDomain(result.URL)) == seedSite {
			continue
		}
		out = append(out, result)
	}
	return out
}

// registrableDomain returns the eTLD+1 of host, so blog.acme.co.uk and
// acme.co.uk compare equal.
func registrableDomain(host string) string {
	if host == "" {
		return ""
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}
