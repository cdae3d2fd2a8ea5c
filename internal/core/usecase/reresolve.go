package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

func officialSiteQuery(name string) string {
	return strings.TrimSpace(name) + " official website"
}

// reresolveDomain issues one corrective search for a candidate whose domain is
// invalid and returns the bare host of the first result. It returns "" when
// nothing usable came back.
func reresolveDomain(ctx context.Context, searcher ports.WebSearcher, name string, limit int) (string, error) {
	if searcher == nil || strings.TrimSpace(name) == "" {
		return "", nil
	}
	results, err := searcher.Search(ctx, officialSiteQuery(name), limit)
	if err != nil {
		return "", fmt.Errorf("reresolve %q: %w", name, err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return domain.NormalizeDomain(results[0].URL), nil
}
