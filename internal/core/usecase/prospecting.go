package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

const (
	outcomePersisted = "persisted"
	outcomeFailed    = "failed"
	outcomeFallback  = "fallback_scored"
)

var errRunAborted = errors.New("run aborted")

// ProspectingUseCase runs the discovery pipeline: expand seeds into candidates,
// validate and dedup them, score, persist, cluster, then write one ad per
// cluster. Candidates are processed strictly one at a time so progress frames
// stay ordered and the prospect cap is exact.
type ProspectingUseCase struct {
	strategy ports.Strategy
	store    ports.ProspectStore
	graph    ports.LookalikeGraph
	metrics  ports.PipelineMetrics
	policy   domain.ScoringPolicy
	limits   domain.RunLimits
	logger   *slog.Logger
}

func NewProspectingUseCase(
	strategy ports.Strategy,
	store ports.ProspectStore,
	graph ports.LookalikeGraph,
	metrics ports.PipelineMetrics,
	policy domain.ScoringPolicy,
	limits domain.RunLimits,
	logger *slog.Logger,
) *ProspectingUseCase {
	defaults := domain.DefaultRunLimits()
	if limits.DefaultMaxProspects <= 0 {
		limits.DefaultMaxProspects = defaults.DefaultMaxProspects
	}
	if limits.DefaultBatchSize <= 0 {
		limits.DefaultBatchSize = defaults.DefaultBatchSize
	}
	if limits.CandidatesPerSeed <= 0 {
		limits.CandidatesPerSeed = defaults.CandidatesPerSeed
	}
	if limits.MaxEvidenceSnippetRunes <= 0 {
		limits.MaxEvidenceSnippetRunes = defaults.MaxEvidenceSnippetRunes
	}
	if policy.Validate() != nil {
		policy = domain.DefaultScoringPolicy()
	}
	if metrics == nil {
		metrics = noopPipelineMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProspectingUseCase{
		strategy: strategy,
		store:    store,
		graph:    graph,
		metrics:  metrics,
		policy:   policy,
		limits:   limits,
		logger:   logger,
	}
}

// prospectRun is the mutable state of one run. It is confined to the run's
// goroutine.
type prospectRun struct {
	id        string
	ownerID   string
	mode      domain.RunMode
	icp       domain.ICP
	limit     int
	threshold int
	seen      map[string]struct{}
	prospects []domain.Company
	summary   domain.RunSummary
	mock      bool
	started   time.Time
	stream    *progressStream
}

func (r *prospectRun) full() bool {
	return len(r.prospects) >= r.limit
}

// Analyze starts a seed-expansion or competitor-discovery run. The returned
// channel is closed after exactly one terminal frame, or without one if ctx is
// cancelled first.
func (uc *ProspectingUseCase) Analyze(ctx context.Context, req domain.RunRequest) <-chan domain.ProgressEvent {
	stream := newProgressStream(ctx)
	go func() {
		defer stream.fail(errRunAborted)
		uc.analyze(ctx, req, stream)
	}()
	return stream.events()
}

// GenerateMore starts an incremental run driven by the owner's rated prospects.
func (uc *ProspectingUseCase) GenerateMore(ctx context.Context, req domain.GenerateMoreRequest) <-chan domain.ProgressEvent {
	stream := newProgressStream(ctx)
	go func() {
		defer stream.fail(errRunAborted)
		uc.generateMore(ctx, req, stream)
	}()
	return stream.events()
}

// Run drains a run synchronously. The worker uses it for queued requests;
// onProgress, when set, receives every non-terminal message.
func (uc *ProspectingUseCase) Run(ctx context.Context, req domain.RunRequest, onProgress func(message string)) (*domain.RunResult, error) {
	var result *domain.RunResult
	var runErr error
	for event := range uc.Analyze(ctx, req) {
		switch {
		case event.Result != nil:
			result = event.Result
		case event.Error != "":
			runErr = errors.New(event.Error)
		case onProgress != nil:
			onProgress(event.Message)
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	if result == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, errRunAborted
	}
	return result, nil
}

func (uc *ProspectingUseCase) analyze(ctx context.Context, req domain.RunRequest, stream *progressStream) {
	started := time.Now()
	mode := runMode(req)

	seeds, err := validateRunRequest(req, mode)
	if err != nil {
		uc.failRun(stream, mode, started, err)
		return
	}

	stream.start()
	stream.notify("Starting %s run", strings.ReplaceAll(string(mode), "_", " "))

	icp, err := uc.resolveICP(ctx, req, stream)
	if err != nil {
		uc.failRun(stream, mode, started, err)
		return
	}

	run, err := uc.newRun(ctx, req.RunID, req.OwnerID, mode, icp, pickLimit(req.MaxProspects, uc.limits.DefaultMaxProspects), stream, started)
	if err != nil {
		uc.failRun(stream, mode, started, err)
		return
	}
	if own := domain.NormalizeDomain(req.CompanyDomain); own != "" {
		run.seen[own] = struct{}{}
	}
	for _, seed := range seeds {
		if seedDomain := domain.NormalizeDomain(seed.Domain); seedDomain != "" {
			run.seen[seedDomain] = struct{}{}
		}
	}

	failedSeeds := 0
	for _, seed := range seeds {
		if ctx.Err() != nil {
			uc.failRun(stream, mode, started, ctx.Err())
			return
		}
		if run.full() {
			stream.notify("Reached %d prospects, stopping expansion", run.limit)
			break
		}

		seedDomain := seedLabel(seed)
		stream.notify("Searching for companies like %s", seedDomain)
		candidates, err := uc.strategy.FindLookalikes(ctx, seed, icp, uc.limits.CandidatesPerSeed)
		if err != nil {
			failedSeeds++
			uc.logger.Warn("candidate search failed", "run_id", run.id, "seed", seedDomain, "error", err)
			stream.notify("Search failed for %s", seedDomain)
			continue
		}
		stream.notify("Found %d candidates for %s", len(candidates), seedDomain)
		uc.processCandidates(ctx, run, seedDomain, candidates)
	}

	if failedSeeds == len(seeds) {
		uc.failRun(stream, mode, started, domain.WrapError(domain.ErrCollaboratorUnavailable, "expand seeds", errors.New("candidate search failed for every seed")))
		return
	}
	if ctx.Err() != nil {
		uc.failRun(stream, mode, started, ctx.Err())
		return
	}
	uc.finish(ctx, run)
}

func (uc *ProspectingUseCase) generateMore(ctx context.Context, req domain.GenerateMoreRequest, stream *progressStream) {
	started := time.Now()
	mode := domain.ModeGenerateMore

	icp, err := validateGenerateMoreRequest(req)
	if err != nil {
		uc.failRun(stream, mode, started, err)
		return
	}

	stream.start()
	stream.notify("Loading rated prospects")
	rated, err := uc.store.ListRatedProspects(ctx, req.OwnerID)
	if err != nil {
		uc.failRun(stream, mode, started, fmt.Errorf("list rated prospects: %w", err))
		return
	}

	run, err := uc.newRun(ctx, req.RunID, req.OwnerID, mode, icp, pickLimit(req.BatchSize, uc.limits.DefaultBatchSize), stream, started)
	if err != nil {
		uc.failRun(stream, mode, started, err)
		return
	}

	query := buildLearningQuery(rated, icp)
	stream.notify("Searching: %s", query)
	candidates, err := uc.strategy.FindByQuery(ctx, query, icp, max(run.limit*2, uc.limits.CandidatesPerSeed))
	if err != nil {
		uc.failRun(stream, mode, started, domain.WrapError(domain.ErrCollaboratorUnavailable, "generate more", err))
		return
	}
	stream.notify("Found %d candidates", len(candidates))
	uc.processCandidates(ctx, run, "", candidates)
	if ctx.Err() != nil {
		uc.failRun(stream, mode, started, ctx.Err())
		return
	}
	uc.finish(ctx, run)
}

func (uc *ProspectingUseCase) newRun(
	ctx context.Context,
	runID, ownerID string,
	mode domain.RunMode,
	icp domain.ICP,
	limit int,
	stream *progressStream,
	started time.Time,
) (*prospectRun, error) {
	known, err := uc.store.ListOwnerDomains(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner domains: %w", err)
	}
	if strings.TrimSpace(runID) == "" {
		runID = uuid.NewString()
	}
	return &prospectRun{
		id:        runID,
		ownerID:   ownerID,
		mode:      mode,
		icp:       icp,
		limit:     limit,
		threshold: uc.policy.ThresholdFor(mode),
		seen:      domainSet(known),
		prospects: make([]domain.Company, 0, limit),
		summary:   domain.NewRunSummary(limit),
		mock:      !uc.strategy.Live(),
		started:   started,
		stream:    stream,
	}, nil
}

func validateRunRequest(req domain.RunRequest, mode domain.RunMode) ([]domain.Customer, error) {
	const op = "validate run request"
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("ownerId is required"))
	}
	if req.MaxProspects < 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("maxProspects must not be negative"))
	}
	if req.ICP == nil && strings.TrimSpace(req.CompanyDomain) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("either icp or companyDomain is required"))
	}
	if req.ICP != nil {
		if err := req.ICP.Normalized().Validate(); err != nil {
			return nil, err
		}
	}

	switch mode {
	case domain.ModeSeedExpansion:
		if len(req.Customers) == 0 {
			return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("at least one customer is required"))
		}
		for i, customer := range req.Customers {
			if strings.TrimSpace(customer.Domain) == "" {
				return nil, domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("customers[%d].domain is required", i))
			}
		}
		return req.Customers, nil
	case domain.ModeCompetitorDiscovery:
		own := domain.NormalizeDomain(req.CompanyDomain)
		if !domain.IsValidDomain(own) {
			return nil, domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("companyDomain %q is not a valid domain", req.CompanyDomain))
		}
		return []domain.Customer{{Name: own, Domain: own}}, nil
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("unsupported mode %q", mode))
	}
}

func validateGenerateMoreRequest(req domain.GenerateMoreRequest) (domain.ICP, error) {
	const op = "validate generate-more request"
	if strings.TrimSpace(req.OwnerID) == "" {
		return domain.ICP{}, domain.WrapError(domain.ErrInvalidInput, op, errors.New("ownerId is required"))
	}
	if req.BatchSize < 0 {
		return domain.ICP{}, domain.WrapError(domain.ErrInvalidInput, op, errors.New("batchSize must not be negative"))
	}
	icp := req.ICP.Normalized()
	if err := icp.Validate(); err != nil {
		return domain.ICP{}, err
	}
	return icp, nil
}

// resolveICP returns the supplied ICP, or extracts one from the requester's own
// website when none was given.
func (uc *ProspectingUseCase) resolveICP(ctx context.Context, req domain.RunRequest, stream *progressStream) (domain.ICP, error) {
	if req.ICP != nil {
		return req.ICP.Normalized(), nil
	}

	own := domain.NormalizeDomain(req.CompanyDomain)
	stream.notify("Reading %s to build your ideal customer profile", own)
	text, err := uc.strategy.FetchText(ctx, own)
	if err != nil {
		return domain.ICP{}, domain.WrapError(domain.ErrInvalidInput, "extract icp", fmt.Errorf("could not read %s: %s", own, domain.SiteFailureReason(err)))
	}
	icp, err := uc.strategy.ExtractICP(ctx, text, req.Solution)
	if err != nil {
		return domain.ICP{}, domain.WrapError(domain.ErrCollaboratorUnavailable, "extract icp", err)
	}
	icp = icp.Normalized()
	if icp.Solution == "" {
		icp.Solution = strings.TrimSpace(req.Solution)
	}
	if err := icp.Validate(); err != nil {
		return domain.ICP{}, err
	}
	stream.notify("Targeting %s", strings.Join(icp.Industries, ", "))
	return icp, nil
}

func (uc *ProspectingUseCase) processCandidates(ctx context.Context, run *prospectRun, seedDomain string, candidates []domain.Candidate) {
	for _, candidate := range uc.prepareCandidates(run, candidates) {
		if ctx.Err() != nil || run.full() {
			return
		}
		if !domain.IsValidDomain(candidate.Domain) {
			resolved, ok := uc.resolveCandidate(ctx, run, candidate)
			if !ok {
				continue
			}
			candidate = resolved
		}
		if _, ok := run.seen[candidate.Domain]; ok {
			uc.skip(run, domain.SkipDuplicate)
			run.stream.notify("Skipping %s: %s is already known", candidate.Name, candidate.Domain)
			continue
		}
		uc.processCandidate(ctx, run, seedDomain, candidate)
	}
}

// prepareCandidates filters implausible names, then dedups the candidates that
// already carry a valid domain within the batch and against every domain the
// run has seen. Candidates with an invalid domain keep their batch position and
// are re-resolved only when their turn comes, so no corrective search is spent
// once the prospect cap is reached.
func (uc *ProspectingUseCase) prepareCandidates(run *prospectRun, candidates []domain.Candidate) []domain.Candidate {
	plausible := make([]domain.Candidate, 0, len(candidates))
	valid := make([]domain.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = truncateCandidate(candidate, uc.policy.MaxCandidateEvidence)
		if !isPlausibleCompanyName(candidate.Name) {
			uc.skip(run, domain.SkipImplausibleName)
			run.stream.notify("Skipping %q: not a company name", candidate.Name)
			continue
		}
		candidate.Domain = domain.NormalizeDomain(candidate.Domain)
		if domain.IsValidDomain(candidate.Domain) {
			valid = append(valid, candidate)
		}
		plausible = append(plausible, candidate)
	}

	deduped := dedupCandidates(valid)
	for i := len(deduped); i < len(valid); i++ {
		uc.skip(run, domain.SkipDuplicate)
	}
	fresh, known := excludeKnownDomains(deduped, run.seen)
	for i := 0; i < known; i++ {
		uc.skip(run, domain.SkipDuplicate)
	}
	if dropped := len(valid) - len(fresh); dropped > 0 {
		run.stream.notify("Skipped %d duplicate candidates", dropped)
	}

	survivors := make(map[string]domain.Candidate, len(fresh))
	for _, candidate := range fresh {
		survivors[candidate.Domain] = candidate
	}
	out := make([]domain.Candidate, 0, len(plausible))
	for _, candidate := range plausible {
		if !domain.IsValidDomain(candidate.Domain) {
			out = append(out, candidate)
			continue
		}
		if survivor, ok := survivors[candidate.Domain]; ok {
			out = append(out, survivor)
			delete(survivors, candidate.Domain)
		}
	}
	return out
}

// resolveCandidate runs the corrective search for a candidate with an invalid
// domain.
func (uc *ProspectingUseCase) resolveCandidate(ctx context.Context, run *prospectRun, candidate domain.Candidate) (domain.Candidate, bool) {
	resolved, err := reresolveDomain(ctx, uc.strategy, candidate.Name, uc.policy.ReresolveResults)
	if err != nil {
		uc.logger.Warn("domain re-resolution failed", "run_id", run.id, "candidate", candidate.Name, "error", err)
	}
	if resolved != "" {
		run.stream.notify("Resolved %s to %s", candidate.Name, resolved)
		candidate.Domain = resolved
	}

	normalized := domain.NormalizeDomain(candidate.Domain)
	if !domain.IsValidDomain(normalized) {
		uc.skip(run, domain.SkipInvalidDomain)
		run.stream.notify("Skipping %s: no valid domain", candidate.Name)
		return candidate, false
	}
	candidate.Domain = normalized
	return candidate, true
}

func (uc *ProspectingUseCase) processCandidate(ctx context.Context, run *prospectRun, seedDomain string, candidate domain.Candidate) {
	run.seen[candidate.Domain] = struct{}{}
	run.summary.Processed++
	run.stream.notify("Analyzing %s (%s)", candidate.Name, candidate.Domain)

	text, err := uc.strategy.FetchText(ctx, candidate.Domain)
	if err != nil {
		uc.skip(run, domain.SkipFetchFailed)
		run.stream.notify("Skipping %s: %s", candidate.Domain, domain.SiteFailureReason(err))
		return
	}

	assessment := uc.score(ctx, run, candidate, text)
	if assessment.ICPScore < run.threshold {
		uc.skip(run, domain.SkipBelowThreshold)
		run.stream.notify("%s scored %d, below the %d threshold", candidate.Name, assessment.ICPScore, run.threshold)
		return
	}

	company := &domain.Company{
		OwnerID:              run.ownerID,
		Name:                 candidate.Name,
		Domain:               candidate.Domain,
		Source:               domain.SourceExpanded,
		SourceCustomerDomain: seedDomain,
		ICPScore:             assessment.ICPScore,
		Confidence:           assessment.Confidence,
		Status:               domain.StatusNew,
		Rationale:            assessment.Rationale,
		Evidence:             assessment.Evidence,
		CreatedAt:            time.Now().UTC(),
	}
	if err := uc.store.CreateCompany(ctx, company); err != nil {
		if domain.IsKind(err, domain.ErrDuplicateProspect) {
			uc.skip(run, domain.SkipDuplicate)
			run.stream.notify("Skipping %s: already in your prospects", candidate.Domain)
			return
		}
		run.summary.Failed++
		uc.metrics.RecordCandidate(outcomeFailed)
		uc.logger.Error("persist prospect failed", "run_id", run.id, "domain", candidate.Domain, "error", err)
		run.stream.notify("Could not save %s", candidate.Domain)
		return
	}

	run.prospects = append(run.prospects, *company)
	run.summary.Produced++
	uc.metrics.RecordCandidate(outcomePersisted)
	run.stream.notify("Added %s (ICP score %d, confidence %d)", company.Name, company.ICPScore, company.Confidence)

	if uc.graph != nil && seedDomain != "" {
		if err := uc.graph.RecordLookalike(ctx, run.ownerID, seedDomain, *company); err != nil {
			uc.logger.Warn("record lookalike edge failed", "run_id", run.id, "domain", company.Domain, "error", err)
		}
	}
}

// score asks the scoring collaborator first and falls back to the local rubric
// only when that call fails.
func (uc *ProspectingUseCase) score(ctx context.Context, run *prospectRun, candidate domain.Candidate, websiteText string) domain.FitAssessment {
	raw, err := uc.strategy.ScoreFit(ctx, ports.FitRequest{
		WebsiteText: websiteText,
		Name:        candidate.Name,
		Domain:      candidate.Domain,
		ICP:         run.icp,
	})
	if err == nil {
		return applyFitPolicy(raw, uc.policy, uc.limits.MaxEvidenceSnippetRunes)
	}

	uc.logger.Warn("fit scoring failed, using rubric", "run_id", run.id, "domain", candidate.Domain, "error", err)
	run.summary.FallbackScored++
	run.mock = true
	uc.metrics.RecordCandidate(outcomeFallback)
	run.stream.notify("Scoring unavailable for %s, using rubric", candidate.Name)
	return fallbackAssessment(candidate, run.icp, uc.policy, uc.limits.MaxEvidenceSnippetRunes)
}

func (uc *ProspectingUseCase) finish(ctx context.Context, run *prospectRun) {
	clusters := make([]domain.Cluster, 0)
	ads := make([]domain.Ad, 0)

	built := buildClusters(run.prospects, run.icp, uc.policy)
	if len(built) > 0 {
		run.stream.notify("Grouping %d prospects into clusters", len(run.prospects))
	}
	for _, cluster := range built {
		if ctx.Err() != nil {
			uc.failRun(run.stream, run.mode, run.started, ctx.Err())
			return
		}
		cluster.OwnerID = run.ownerID
		cluster.RunID = run.id
		if err := uc.store.CreateCluster(ctx, &cluster); err != nil {
			uc.logger.Error("persist cluster failed", "run_id", run.id, "cluster", cluster.Key, "error", err)
			run.stream.notify("Could not save cluster %s", cluster.Label)
			continue
		}
		clusters = append(clusters, cluster)
		run.stream.notify("Created cluster %s with %d prospects", cluster.Label, len(cluster.CompanyIDs))

		ad, err := uc.writeAd(ctx, cluster, run.icp)
		if err != nil {
			uc.logger.Warn("ad generation failed", "run_id", run.id, "cluster", cluster.Key, "error", err)
			run.stream.notify("Could not create ad for %s", cluster.Label)
			continue
		}
		ads = append(ads, *ad)
		run.stream.notify("Created ad for %s", cluster.Label)
	}
	uc.metrics.RecordClusters(len(clusters), len(ads))

	result := &domain.RunResult{
		RunID:     run.id,
		Prospects: run.prospects,
		Clusters:  clusters,
		Ads:       ads,
		ICP:       run.icp,
		MockData:  run.mock,
		Summary:   run.summary,
	}
	run.stream.notify("Done: %d of %d prospects, %d skipped", run.summary.Produced, run.summary.Requested, run.summary.Skipped)
	uc.metrics.RecordRun(run.mode, domain.RunCompleted, run.summary, time.Since(run.started).Seconds())
	run.stream.complete(result)
}

func (uc *ProspectingUseCase) writeAd(ctx context.Context, cluster domain.Cluster, icp domain.ICP) (*domain.Ad, error) {
	raw, err := uc.strategy.WriteAd(ctx, adBrief(cluster, icp))
	if err != nil {
		return nil, fmt.Errorf("write ad: %w", err)
	}
	adCopy, err := validateAdCopy(raw)
	if err != nil {
		return nil, err
	}
	ad := &domain.Ad{
		ClusterID: cluster.ID,
		Headline:  adCopy.Headline,
		Lines:     adCopy.Lines,
		CTA:       adCopy.CTA,
	}
	if err := uc.store.CreateAd(ctx, ad); err != nil {
		return nil, fmt.Errorf("persist ad: %w", err)
	}
	return ad, nil
}

func (uc *ProspectingUseCase) skip(run *prospectRun, reason domain.SkipReason) {
	run.summary.Skip(reason)
	uc.metrics.RecordCandidate(string(reason))
}

func (uc *ProspectingUseCase) failRun(stream *progressStream, mode domain.RunMode, started time.Time, err error) {
	uc.metrics.RecordRun(mode, domain.RunFailed, domain.RunSummary{}, time.Since(started).Seconds())
	stream.fail(err)
}

func runMode(req domain.RunRequest) domain.RunMode {
	if req.Mode == "" {
		return domain.ModeSeedExpansion
	}
	return req.Mode
}

func pickLimit(requested, fallback int) int {
	if requested > 0 {
		return requested
	}
	return fallback
}

func seedLabel(seed domain.Customer) string {
	if normalized := domain.NormalizeDomain(seed.Domain); normalized != "" {
		return normalized
	}
	return strings.TrimSpace(seed.Domain)
}

type noopPipelineMetrics struct{}

func (noopPipelineMetrics) RecordRun(domain.RunMode, domain.RunState, domain.RunSummary, float64) {}
func (noopPipelineMetrics) RecordCandidate(string)                                                {}
func (noopPipelineMetrics) RecordClusters(int, int)                                               {}
