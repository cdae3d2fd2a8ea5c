package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

type searcherFake struct {
	results map[string][]domain.SearchResult
	err     error
	queries []string
}

func (f *searcherFake) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	res := f.results[query]
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func TestReresolveDomainUsesFirstResult(t *testing.T) {
	searcher := &searcherFake{results: map[string][]domain.SearchResult{
		"Acme official website": {
			{URL: "https://www.acme.com/home"},
			{URL: "https://acme-reviews.example.com"},
		},
	}}

	got, err := reresolveDomain(context.Background(), searcher, "Acme", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "acme.com" {
		t.Fatalf("expected acme.com, got %q", got)
	}
	if len(searcher.queries) != 1 {
		t.Fatalf("expected exactly one query, got %d", len(searcher.queries))
	}
}

func TestReresolveDomainNoResults(t *testing.T) {
	got, err := reresolveDomain(context.Background(), &searcherFake{}, "Ghost Co", 3)
	if err != nil || got != "" {
		t.Fatalf("expected empty result, got %q err=%v", got, err)
	}
}

func TestReresolveDomainPropagatesSearchError(t *testing.T) {
	_, err := reresolveDomain(context.Background(), &searcherFake{err: errors.New("boom")}, "Acme", 3)
	if err == nil {
		t.Fatalf("expected error")
	}
}
