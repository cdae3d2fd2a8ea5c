package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/prospect-radar/internal/bootstrap"
	"github.com/kirillkom/prospect-radar/internal/config"
	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/observability/logging"
	"github.com/kirillkom/prospect-radar/internal/observability/metrics"
)

const service = "worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(service)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:    service,
		Logger:     logger,
		Registerer: workerMetrics.Registerer(),
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	runTimeout := time.Duration(cfg.WorkerRunTimeoutSeconds) * time.Second
	if runTimeout <= 0 {
		runTimeout = 15 * time.Minute
	}

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject, "strategy", app.Strategy.Name())
	err = app.Queue.SubscribeRunRequested(ctx, func(handlerCtx context.Context, req domain.RunRequest) error {
		if !req.RequestedAt.IsZero() {
			workerMetrics.ObserveQueueLag(service, time.Since(req.RequestedAt))
		}
		workerMetrics.StartRun()
		started := time.Now()

		runCtx, cancel := context.WithTimeout(handlerCtx, runTimeout)
		defer cancel()
		result, err := app.Prospecting.Run(runCtx, req, func(message string) {
			logger.Info("prospect_run_progress", "run_id", req.RunID, "owner_id", req.OwnerID, "message", message)
		})
		workerMetrics.FinishRun(service, time.Since(started), err)
		if err != nil {
			return err
		}
		logger.Info("prospect_run_complete",
			"run_id", result.RunID,
			"owner_id", req.OwnerID,
			"produced", result.Summary.Produced,
			"skipped", result.Summary.Skipped,
			"clusters", len(result.Clusters),
			"mock_data", result.MockData,
		)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
