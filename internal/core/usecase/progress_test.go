package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func drain(ch <-chan domain.ProgressEvent) []domain.ProgressEvent {
	var out []domain.ProgressEvent
	for event := range ch {
		out = append(out, event)
	}
	return out
}

func TestProgressStreamSingleTerminalFrame(t *testing.T) {
	stream := newProgressStream(context.Background())
	stream.start()
	stream.notify("step %d", 1)
	stream.complete(&domain.RunResult{RunID: "run-1"})
	stream.fail(errors.New("late"))
	if stream.notify("after") {
		t.Fatalf("notify after terminal frame must be dropped")
	}

	events := drain(stream.events())
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Message != "step 1" || events[0].Terminal() {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Result == nil || events[1].Result.RunID != "run-1" {
		t.Fatalf("expected result terminal frame, got %+v", events[1])
	}
	if stream.state != domain.RunCompleted {
		t.Fatalf("expected completed state, got %s", stream.state)
	}
}

func TestProgressStreamFailFromIdle(t *testing.T) {
	stream := newProgressStream(context.Background())
	if stream.notify("ignored") {
		t.Fatalf("idle stream must not emit messages")
	}
	stream.fail(errors.New("bad request"))

	events := drain(stream.events())
	if len(events) != 1 || events[0].Error != "bad request" {
		t.Fatalf("expected single error frame, got %+v", events)
	}
	if stream.state != domain.RunFailed {
		t.Fatalf("expected failed state, got %s", stream.state)
	}
}

func TestProgressStreamCancelledConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := newProgressStream(ctx)
	stream.start()
	cancel()

	if stream.notify("dropped") {
		t.Fatalf("expected notify to report cancelled consumer")
	}
	stream.complete(&domain.RunResult{})
	if events := drain(stream.events()); len(events) != 0 {
		t.Fatalf("expected no frames after cancellation, got %+v", events)
	}
}
