package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

type runQueueFake struct {
	published []domain.RunRequest
	err       error
}

func (f *runQueueFake) PublishRunRequested(_ context.Context, req domain.RunRequest) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, req)
	return nil
}

func (f *runQueueFake) SubscribeRunRequested(context.Context, func(context.Context, domain.RunRequest) error) error {
	return nil
}

func TestSubmitRunPublishesWithRunID(t *testing.T) {
	queue := &runQueueFake{}
	req, _ := seedRequest()
	req.Mode = ""

	runID, err := NewSubmitRunUseCase(queue).Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runID == "" || len(queue.published) != 1 || queue.published[0].RunID != runID {
		t.Fatalf("expected published request with run id %q, got %+v", runID, queue.published)
	}
	if queue.published[0].Mode != domain.ModeSeedExpansion {
		t.Fatalf("expected default mode, got %q", queue.published[0].Mode)
	}
}

func TestSubmitRunRejectsInvalidRequest(t *testing.T) {
	queue := &runQueueFake{}
	_, err := NewSubmitRunUseCase(queue).Submit(context.Background(), domain.RunRequest{OwnerID: "user-1"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if len(queue.published) != 0 {
		t.Fatalf("invalid request must not be published")
	}
}

func TestSubmitRunWrapsQueueError(t *testing.T) {
	req, _ := seedRequest()
	_, err := NewSubmitRunUseCase(&runQueueFake{err: errors.New("nats down")}).Submit(context.Background(), req)
	if err == nil {
		t.Fatalf("expected error")
	}
}
