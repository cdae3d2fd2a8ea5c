package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/prospect-radar/internal/config"
	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
	"github.com/kirillkom/prospect-radar/internal/core/usecase"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/cache/redis"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/fetch/website"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/graph/neo4j"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/importer/xlsx"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/llm/analyst"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/llm/openai"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/queue/nats"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/resilience"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/search/serpapi"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/strategy"
	"github.com/kirillkom/prospect-radar/internal/observability/metrics"
)

type Options struct {
	Service    string
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Strategy ports.Strategy

	Queue       ports.RunQueue
	Prospecting *usecase.ProspectingUseCase
	Submitter   ports.RunSubmitter
	Importer    ports.CompanyImporter

	closeFns []func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	policy, err := config.LoadScoringPolicy(cfg.ScoringPolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring policy: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	app.onClose(func() { _ = db.Close() })
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	repo := postgres.NewProspectRepository(db)

	executor := resilience.NewExecutor(resilienceConfig(cfg)).WithLogger(logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}
	app.onClose(queue.Close)
	app.Queue = queue

	selected, err := app.buildStrategy(ctx, cfg, executor)
	if err != nil {
		return nil, fmt.Errorf("select strategy: %w", err)
	}
	app.Strategy = selected

	var graph ports.LookalikeGraph
	if cfg.Neo4jURI != "" {
		lookalikes, err := neo4j.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase, executor, logger)
		if err != nil {
			logger.Warn("lookalike_graph_unavailable", "error", err)
		} else {
			app.onClose(func() { _ = lookalikes.Close(context.Background()) })
			graph = lookalikes
		}
	}

	var pipelineMetrics ports.PipelineMetrics
	if opts.Registerer != nil {
		pipelineMetrics = metrics.NewPipelineMetrics(opts.Service, opts.Registerer)
	}

	limits := domain.RunLimits{
		DefaultMaxProspects:     cfg.DefaultMaxProspects,
		DefaultBatchSize:        cfg.DefaultBatchSize,
		CandidatesPerSeed:       cfg.CandidatesPerSeed,
		MaxEvidenceSnippetRunes: cfg.MaxEvidenceSnippetRunes,
	}
	app.Prospecting = usecase.NewProspectingUseCase(selected, repo, graph, pipelineMetrics, policy, limits, logger)
	app.Submitter = usecase.NewSubmitRunUseCase(queue)
	app.Importer = usecase.NewImportCompaniesUseCase(xlsx.NewReader(cfg.ImportMaxRows), repo)

	logger.Info("bootstrap_complete",
		"strategy", selected.Name(),
		"lookalike_graph", graph != nil,
		"site_cache", cfg.RedisAddr != "",
	)
	ok = true
	return app, nil
}

// buildStrategy assembles the live collaborators when configured and lets the
// STRATEGY setting choose between them and the fallback.
func (a *App) buildStrategy(ctx context.Context, cfg config.Config, executor *resilience.Executor) (ports.Strategy, error) {
	fallback := strategy.NewFallback()
	if cfg.Strategy == strategy.ModeFallback {
		return strategy.Select(cfg.Strategy, nil, fallback)
	}

	var live ports.Strategy
	liveStrategy, err := a.buildLive(ctx, cfg, executor)
	switch {
	case err == nil:
		live = liveStrategy
	case cfg.Strategy == strategy.ModeLive:
		return nil, err
	default:
		a.Logger.Warn("live_strategy_unavailable", "error", err)
	}
	return strategy.Select(cfg.Strategy, live, fallback)
}

func (a *App) buildLive(ctx context.Context, cfg config.Config, executor *resilience.Executor) (*strategy.Live, error) {
	completer, err := buildCompleter(cfg, executor)
	if err != nil {
		return nil, err
	}

	searcher := serpapi.New(serpapi.Options{
		APIKey:            cfg.SerpAPIKey,
		BaseURL:           cfg.SerpAPIBaseURL,
		RequestsPerSecond: cfg.SerpAPIRPS,
		Burst:             cfg.SerpAPIBurst,
	}, executor)
	if !searcher.Configured() {
		return nil, domain.WrapError(domain.ErrCollaboratorUnavailable, "build live strategy", errors.New("SERPAPI_API_KEY is not set"))
	}

	var fetcher ports.SiteFetcher = website.New(website.Options{
		UserAgent: cfg.FetchUserAgent,
		MaxChars:  cfg.FetchMaxChars,
		Timeout:   time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
	})
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.Logger.Warn("site_cache_unavailable", "error", err)
		} else {
			a.onClose(func() { _ = client.Close() })
			fetcher = redis.NewSiteTextCache(client, fetcher, time.Duration(cfg.SiteCacheTTLMinutes)*time.Minute, a.Logger)
		}
	}

	return strategy.NewLive(analyst.New(completer), searcher, fetcher, cfg.SearchResultsPerQuery, a.Logger), nil
}

func buildCompleter(cfg config.Config, executor *resilience.Executor) (analyst.Completer, error) {
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, executor)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "ollama", "":
		if cfg.OllamaURL == "" {
			return nil, domain.WrapError(domain.ErrCollaboratorUnavailable, "build completer", errors.New("OLLAMA_URL is not set"))
		}
		return ollama.New(cfg.OllamaURL, cfg.OllamaModel, executor), nil
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "build completer", fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider))
	}
}

func resilienceConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		RetryMaxAttempts:        cfg.RetryMaxAttempts,
		RetryInitialBackoff:     time.Duration(cfg.RetryInitialBackoffMS) * time.Millisecond,
		RetryMaxBackoff:         time.Duration(cfg.RetryMaxBackoffMS) * time.Millisecond,
		RetryMultiplier:         2.0,
		AttemptTimeout:          time.Duration(cfg.RetryAttemptTimeoutSecs) * time.Second,
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      uint32(max(cfg.BreakerMinRequests, 0)),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      time.Duration(cfg.BreakerOpenTimeoutSecs) * time.Second,
		BreakerHalfOpenMaxCalls: uint32(max(cfg.BreakerHalfOpenMaxCalls, 0)),
	}
}

func (a *App) onClose(fn func()) {
	a.closeFns = append(a.closeFns, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
