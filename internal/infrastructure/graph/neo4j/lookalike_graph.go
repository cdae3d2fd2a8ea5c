package neo4j

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/resilience"
)

const mergeLookalikeQuery = `
MERGE (s:Company {owner_id: $owner_id, domain: $seed_domain})
MERGE (p:Company {owner_id: $owner_id, domain: $prospect_domain})
SET p.name = $prospect_name,
    p.icp_score = $icp_score,
    p.confidence = $confidence
MERGE (s)-[r:LOOKALIKE]->(p)
SET r.icp_score = $icp_score,
    r.updated_at = timestamp()
`

type cypherRunner interface {
	run(ctx context.Context, query string, params map[string]any) error
}

type driverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (d driverRunner) run(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, d.driver, query, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(d.database))
	return err
}

// LookalikeGraph keeps a seed-to-prospect graph so later runs and the UI can
// walk which customers produced which prospects.
type LookalikeGraph struct {
	driver   neo4j.DriverWithContext
	runner   cypherRunner
	executor *resilience.Executor
	logger   *slog.Logger
}

func Connect(ctx context.Context, uri, username, password, database string, executor *resilience.Executor, logger *slog.Logger) (*LookalikeGraph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	graph := newLookalikeGraph(driverRunner{driver: driver, database: database}, executor, logger)
	graph.driver = driver
	return graph, nil
}

func newLookalikeGraph(runner cypherRunner, executor *resilience.Executor, logger *slog.Logger) *LookalikeGraph {
	if logger == nil {
		logger = slog.Default()
	}
	return &LookalikeGraph{runner: runner, executor: executor, logger: logger}
}

func (g *LookalikeGraph) Close(ctx context.Context) error {
	if g.driver == nil {
		return nil
	}
	return g.driver.Close(ctx)
}

func (g *LookalikeGraph) RecordLookalike(ctx context.Context, ownerID, seedDomain string, prospect domain.Company) error {
	if ownerID == "" || seedDomain == "" || prospect.Domain == "" {
		return domain.WrapError(domain.ErrInvalidInput, "record lookalike", errors.New("owner, seed and prospect domain are required"))
	}
	params := map[string]any{
		"owner_id":        ownerID,
		"seed_domain":     seedDomain,
		"prospect_domain": prospect.Domain,
		"prospect_name":   prospect.Name,
		"icp_score":       int64(prospect.ICPScore),
		"confidence":      int64(prospect.Confidence),
	}
	call := func(ctx context.Context) error {
		return g.runner.run(ctx, mergeLookalikeQuery, params)
	}

	var err error
	if g.executor != nil {
		err = g.executor.Execute(ctx, "neo4j.merge_lookalike", call, classifyNeo4jError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		if classifyNeo4jError(err).Retryable {
			return domain.WrapError(domain.ErrTemporary, "record lookalike", err)
		}
		return fmt.Errorf("record lookalike: %w", err)
	}
	g.logger.Debug("lookalike recorded", "owner_id", ownerID, "seed", seedDomain, "prospect", prospect.Domain)
	return nil
}

func classifyNeo4jError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err), neo4j.IsRetryable(err):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}
