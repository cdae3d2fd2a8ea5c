package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func TestRunRequestRoundTripKeepsCustomers(t *testing.T) {
	payload, err := encodeRunRequest(domain.RunRequest{
		RunID:     "run-1",
		OwnerID:   "owner-1",
		Mode:      domain.ModeSeedExpansion,
		Customers: []domain.Customer{{Name: "Acme", Domain: "acme.com"}},
	})
	if err != nil {
		t.Fatalf("encodeRunRequest() error = %v", err)
	}
	req, err := decodeRunRequest(payload)
	if err != nil {
		t.Fatalf("decodeRunRequest() error = %v", err)
	}
	if req.RunID != "run-1" || len(req.Customers) != 1 || req.Customers[0].Domain != "acme.com" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestDecodeRunRequestRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{[]byte("doc-123"), []byte(`{"mode":"seed_expansion"}`)} {
		if _, err := decodeRunRequest(data); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("decodeRunRequest(%q) expected invalid input, got %v", data, err)
		}
	}
}

func TestClassifyNATSError(t *testing.T) {
	if class := classifyNATSError(nats.ErrNoServers); !class.Retryable {
		t.Fatalf("no servers should be retryable")
	}
	if class := classifyNATSError(context.Canceled); class.Retryable || class.RecordFailure {
		t.Fatalf("cancellation must not retry or trip the breaker: %+v", class)
	}
	if class := classifyNATSError(nats.ErrMaxPayload); class.Retryable || class.RecordFailure {
		t.Fatalf("oversized payload must not retry or trip the breaker: %+v", class)
	}
	if class := classifyNATSError(errors.New("stream closed")); class.Retryable || !class.RecordFailure {
		t.Fatalf("unknown errors should fail fast and count: %+v", class)
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded("publish", nats.ErrConnectionClosed)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", err)
	}
	if err := wrapTemporaryIfNeeded("publish", nats.ErrMaxPayload); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for oversized payload, got %v", err)
	}
	if err := wrapTemporaryIfNeeded("publish", errors.New("stream closed")); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("permanent error must stay untyped")
	}
	if wrapTemporaryIfNeeded("publish", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
