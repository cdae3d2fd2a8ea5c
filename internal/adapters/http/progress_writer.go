package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

const (
	contentTypeNDJSON = "application/x-ndjson"
	contentTypeSSE    = "text/event-stream"
)

// progressWriter streams progress frames either as newline-delimited JSON or as
// server-sent events.
type progressWriter struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	sse     bool
	started bool
}

func newProgressWriter(w http.ResponseWriter, r *http.Request) *progressWriter {
	return &progressWriter{
		w:   w,
		rc:  http.NewResponseController(w),
		sse: strings.Contains(r.Header.Get("Accept"), contentTypeSSE),
	}
}

func (p *progressWriter) begin() {
	if p.started {
		return
	}
	p.started = true
	// Runs outlive the server's write timeout; clear it for this response.
	_ = p.rc.SetWriteDeadline(time.Time{})

	if p.sse {
		p.w.Header().Set("Content-Type", contentTypeSSE)
		p.w.Header().Set("Cache-Control", "no-cache")
		p.w.Header().Set("Connection", "keep-alive")
	} else {
		p.w.Header().Set("Content-Type", contentTypeNDJSON)
	}
	p.w.Header().Set("X-Accel-Buffering", "no")
	p.w.WriteHeader(http.StatusOK)
}

func (p *progressWriter) write(event domain.ProgressEvent) error {
	p.begin()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal progress event: %w", err)
	}
	if p.sse {
		_, err = fmt.Fprintf(p.w, "event: %s\ndata: %s\n\n", sseEventName(event), payload)
	} else {
		_, err = fmt.Fprintf(p.w, "%s\n", payload)
	}
	if err != nil {
		return err
	}
	if err := p.rc.Flush(); err != nil {
		return fmt.Errorf("flush progress event: %w", err)
	}
	return nil
}

func sseEventName(event domain.ProgressEvent) string {
	switch {
	case event.Result != nil:
		return "result"
	case event.Error != "":
		return "error"
	default:
		return "progress"
	}
}
