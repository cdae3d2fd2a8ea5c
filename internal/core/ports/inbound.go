package ports

import (
	"context"
	"io"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// ProspectAnalyzer is the inbound contract for seed-expansion and
// competitor-discovery runs. The returned channel yields progress frames and is
// closed after the single terminal frame.
type ProspectAnalyzer interface {
	Analyze(ctx context.Context, req domain.RunRequest) <-chan domain.ProgressEvent
}

// ProspectGenerator is the inbound contract for incremental "generate more" runs.
type ProspectGenerator interface {
	GenerateMore(ctx context.Context, req domain.GenerateMoreRequest) <-chan domain.ProgressEvent
}

// RunSubmitter queues a run for asynchronous execution by the worker.
type RunSubmitter interface {
	Submit(ctx context.Context, req domain.RunRequest) (runID string, err error)
}

// CompanyImporter bulk-imports companies from a spreadsheet.
type CompanyImporter interface {
	Import(ctx context.Context, ownerID string, body io.Reader) (*domain.ImportResult, error)
}
