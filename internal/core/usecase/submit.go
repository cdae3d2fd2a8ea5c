package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

// SubmitRunUseCase queues a run for the worker instead of streaming it.
type SubmitRunUseCase struct {
	queue ports.RunQueue
}

func NewSubmitRunUseCase(queue ports.RunQueue) *SubmitRunUseCase {
	return &SubmitRunUseCase{queue: queue}
}

func (uc *SubmitRunUseCase) Submit(ctx context.Context, req domain.RunRequest) (string, error) {
	req.Mode = runMode(req)
	if _, err := validateRunRequest(req, req.Mode); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.RunID) == "" {
		req.RunID = uuid.NewString()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	if err := uc.queue.PublishRunRequested(ctx, req); err != nil {
		return "", fmt.Errorf("publish run request: %w", err)
	}
	return req.RunID, nil
}
