package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

const keyPrefix = "prospect:site:"

// SiteTextCache memoizes cleaned website text in Redis. Redis failures never
// fail a fetch; the cache is bypassed instead.
type SiteTextCache struct {
	client *goredis.Client
	next   ports.SiteFetcher
	ttl    time.Duration
	logger *slog.Logger
}

func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewSiteTextCache(client *goredis.Client, next ports.SiteFetcher, ttl time.Duration, logger *slog.Logger) *SiteTextCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteTextCache{client: client, next: next, ttl: ttl, logger: logger}
}

func (c *SiteTextCache) FetchText(ctx context.Context, siteDomain string) (string, error) {
	key := keyPrefix + strings.ToLower(strings.TrimSpace(siteDomain))

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn("site cache read failed", "domain", siteDomain, "error", err)
	}

	text, err := c.next.FetchText(ctx, siteDomain)
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.logger.Warn("site cache write failed", "domain", siteDomain, "error", err)
	}
	return text, nil
}
