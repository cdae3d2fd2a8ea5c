package ports

import (
	"context"
	"io"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// WebSearcher runs a free-text web search and returns ordered results.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// SiteFetcher returns cleaned visible text for a domain. DNS failures, refused
// connections and timeouts are reported as domain.ErrSiteDNS,
// domain.ErrSiteRefused and domain.ErrSiteTimeout.
type SiteFetcher interface {
	FetchText(ctx context.Context, siteDomain string) (string, error)
}

// ICPExtractor derives an ideal customer profile from a company's own website.
type ICPExtractor interface {
	ExtractICP(ctx context.Context, websiteText, solution string) (domain.ICP, error)
}

// CandidateFinder expands a seed customer, or a free-text query, into look-alike
// candidates.
type CandidateFinder interface {
	FindLookalikes(ctx context.Context, seed domain.Customer, icp domain.ICP, limit int) ([]domain.Candidate, error)
	FindByQuery(ctx context.Context, query string, icp domain.ICP, limit int) ([]domain.Candidate, error)
}

type FitRequest struct {
	WebsiteText string
	Name        string
	Domain      string
	ICP         domain.ICP
}

// FitScorer returns the raw, unclamped assessment for one candidate.
type FitScorer interface {
	ScoreFit(ctx context.Context, req FitRequest) (domain.FitAssessment, error)
}

// AdCopywriter writes persona-aware ad copy for one cluster.
type AdCopywriter interface {
	WriteAd(ctx context.Context, brief domain.AdBrief) (domain.AdCopy, error)
}

// ProspectStore persists prospects, clusters and ads. CreateCompany returns an
// error of kind domain.ErrDuplicateProspect when the owner already has the domain.
type ProspectStore interface {
	ListOwnerDomains(ctx context.Context, ownerID string) ([]string, error)
	ListRatedProspects(ctx context.Context, ownerID string) ([]domain.Company, error)
	CreateCompany(ctx context.Context, company *domain.Company) error
	CreateCluster(ctx context.Context, cluster *domain.Cluster) error
	CreateAd(ctx context.Context, ad *domain.Ad) error
}

// LookalikeGraph records seed to prospect edges. Implementations are optional.
type LookalikeGraph interface {
	RecordLookalike(ctx context.Context, ownerID, seedDomain string, prospect domain.Company) error
}

// RunQueue publishes/consumes queued run requests.
type RunQueue interface {
	PublishRunRequested(ctx context.Context, req domain.RunRequest) error
	SubscribeRunRequested(ctx context.Context, handler func(context.Context, domain.RunRequest) error) error
}

// SpreadsheetReader parses customer/company rows from an uploaded file.
type SpreadsheetReader interface {
	ReadCustomers(ctx context.Context, body io.Reader) ([]domain.Customer, error)
}

// PipelineMetrics receives run and candidate outcomes.
type PipelineMetrics interface {
	RecordRun(mode domain.RunMode, state domain.RunState, summary domain.RunSummary, seconds float64)
	RecordCandidate(outcome string)
	RecordClusters(clusters, ads int)
}
