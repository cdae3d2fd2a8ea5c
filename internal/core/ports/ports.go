package ports

// Strategy bundles every external collaborator the pipeline talks to. The live
// strategy is backed by real services; the fallback strategy produces
// deterministic data without network access. Live reports which one it is so
// results can be flagged as mock data.
type Strategy interface {
	Name() string
	Live() bool

	WebSearcher
	SiteFetcher
	ICPExtractor
	CandidateFinder
	FitScorer
	AdCopywriter
}
