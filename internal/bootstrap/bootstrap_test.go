package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kirillkom/prospect-radar/internal/config"
	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func testApp() *App {
	return &App{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestBuildCompleterRejectsUnknownProvider(t *testing.T) {
	_, err := buildCompleter(config.Config{LLMProvider: "bard"}, nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestBuildCompleterNeedsOllamaURL(t *testing.T) {
	_, err := buildCompleter(config.Config{LLMProvider: "ollama"}, nil)
	if !domain.IsKind(err, domain.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable, got %v", err)
	}
}

func TestBuildStrategyFallbackMode(t *testing.T) {
	app := testApp()
	got, err := app.buildStrategy(context.Background(), config.Config{Strategy: "fallback"}, nil)
	if err != nil {
		t.Fatalf("buildStrategy: %v", err)
	}
	if got.Live() {
		t.Fatalf("expected fallback strategy, got %s", got.Name())
	}
}

func TestBuildStrategyAutoFallsBackWithoutCredentials(t *testing.T) {
	app := testApp()
	cfg := config.Config{Strategy: "auto", LLMProvider: "ollama", OllamaURL: "http://localhost:11434"}
	got, err := app.buildStrategy(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("buildStrategy: %v", err)
	}
	if got.Name() != "fallback" {
		t.Fatalf("expected fallback without a search key, got %s", got.Name())
	}
}

func TestBuildStrategyLiveModeFailsWithoutCredentials(t *testing.T) {
	app := testApp()
	cfg := config.Config{Strategy: "live", LLMProvider: "ollama", OllamaURL: "http://localhost:11434"}
	if _, err := app.buildStrategy(context.Background(), cfg, nil); !domain.IsKind(err, domain.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable, got %v", err)
	}
}

func TestBuildStrategyLiveWithCredentials(t *testing.T) {
	app := testApp()
	cfg := config.Config{
		Strategy:    "live",
		LLMProvider: "ollama",
		OllamaURL:   "http://localhost:11434",
		SerpAPIKey:  "key",
	}
	got, err := app.buildStrategy(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("buildStrategy: %v", err)
	}
	if !got.Live() {
		t.Fatalf("expected live strategy, got %s", got.Name())
	}
}

func TestResilienceConfigMapsUnits(t *testing.T) {
	got := resilienceConfig(config.Config{
		RetryMaxAttempts:        4,
		RetryInitialBackoffMS:   150,
		RetryMaxBackoffMS:       900,
		RetryAttemptTimeoutSecs: 5,
		BreakerMinRequests:      -1,
		BreakerOpenTimeoutSecs:  30,
	})
	if got.RetryInitialBackoff != 150*time.Millisecond || got.RetryMaxBackoff != 900*time.Millisecond {
		t.Fatalf("unexpected backoff: %+v", got)
	}
	if got.AttemptTimeout != 5*time.Second || got.BreakerOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected timeouts: %+v", got)
	}
	if got.BreakerMinRequests != 0 {
		t.Fatalf("negative min requests must clamp to 0, got %d", got.BreakerMinRequests)
	}
}

func TestCloseRunsInReverseOrder(t *testing.T) {
	app := testApp()
	var order []int
	app.onClose(func() { order = append(order, 1) })
	app.onClose(func() { order = append(order, 2) })
	app.Close()
	app.Close()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("unexpected close order: %v", order)
	}
}
