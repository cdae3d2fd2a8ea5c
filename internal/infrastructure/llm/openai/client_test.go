package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

func TestCompleteRequestsJSONObject(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Fatalf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" {\"icpScore\":70} "},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client, err := New("sk-test", server.URL+"/v1", "gpt-4o-mini", nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != `{"icpScore":70}` {
		t.Fatalf("unexpected content %q", got)
	}
	format, _ := payload["response_format"].(map[string]any)
	if format["type"] != "json_object" || payload["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCompleteMapsRateLimitToTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client, err := New("sk-test", server.URL+"/v1", "gpt-4o-mini", nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.Complete(context.Background(), "s", "u"); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(" ", "", "gpt-4o-mini", nil); !domain.IsKind(err, domain.ErrCollaboratorUnavailable) {
		t.Fatalf("expected collaborator unavailable, got %v", err)
	}
}
