package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

const progressBuffer = 16

// progressStream is the producer side of a run's progress channel. It moves
// idle -> running -> completed|failed, emits at most one terminal frame and
// closes the channel afterwards. It is owned by a single goroutine.
type progressStream struct {
	ctx   context.Context
	ch    chan domain.ProgressEvent
	state domain.RunState
}

func newProgressStream(ctx context.Context) *progressStream {
	return &progressStream{
		ctx:   ctx,
		ch:    make(chan domain.ProgressEvent, progressBuffer),
		state: domain.RunIdle,
	}
}

func (s *progressStream) events() <-chan domain.ProgressEvent {
	return s.ch
}

func (s *progressStream) start() {
	if s.state == domain.RunIdle {
		s.state = domain.RunRunning
	}
}

func (s *progressStream) running() bool {
	return s.state == domain.RunRunning
}

// notify emits a non-terminal message. It returns false once the consumer is
// gone or the run has ended.
func (s *progressStream) notify(format string, args ...any) bool {
	if !s.running() {
		return false
	}
	return s.send(domain.ProgressEvent{Message: fmt.Sprintf(format, args...)})
}

func (s *progressStream) complete(result *domain.RunResult) {
	if !s.running() {
		return
	}
	s.state = domain.RunCompleted
	s.send(domain.ProgressEvent{Result: result})
	close(s.ch)
}

func (s *progressStream) fail(err error) {
	if s.state == domain.RunCompleted || s.state == domain.RunFailed {
		return
	}
	s.state = domain.RunFailed
	message := "run failed"
	if err != nil {
		message = err.Error()
	}
	s.send(domain.ProgressEvent{Error: message})
	close(s.ch)
}

func (s *progressStream) send(event domain.ProgressEvent) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.ch <- event:
		return true
	case <-s.ctx.Done():
		return false
	}
}
