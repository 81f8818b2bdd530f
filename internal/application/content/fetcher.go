// Package content 提供文章内容获取服务
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postsmith-ai-api/internal/infrastructure/persistence/redis"
	"postsmith-ai-api/internal/infrastructure/scraper"
	"postsmith-ai-api/pkg/logger"
)

// Fetcher 带缓存的内容获取服务
// 优先走抓取服务，失败时降级为直接抓取 + goquery 提取
type Fetcher struct {
	scraper *scraper.Client
	cache   *redis.Cache
	ttl     time.Duration
}

func NewFetcher(sc *scraper.Client, cache *redis.Cache, ttl time.Duration) *Fetcher {
	return &Fetcher{
		scraper: sc,
		cache:   cache,
		ttl:     ttl,
	}
}

// Fetch 获取并缓存页面内容
// 同一 URL 的并发请求经 singleflight 合并，只触发一次抓取
func (f *Fetcher) Fetch(ctx context.Context, url string) (*scraper.Page, error) {
	if f.cache == nil {
		return f.load(ctx, url)
	}

	raw, err := f.cache.GetOrLoadSafe(ctx, redis.ContentKey(url), f.ttl, func() (interface{}, error) {
		return f.load(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	var page scraper.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return &page, nil
}

func (f *Fetcher) load(ctx context.Context, url string) (*scraper.Page, error) {
	page, err := f.scraper.Scrape(ctx, url)
	if err == nil && page.Markdown != "" {
		return page, nil
	}
	if err != nil {
		logger.Warn(ctx, "scrape service failed, falling back to direct fetch",
			"url", url, "error", err)
	}

	page, derr := f.scraper.FetchReadable(ctx, url)
	if derr != nil {
		if err != nil {
			return nil, fmt.Errorf("scrape failed (%v); direct fetch failed: %w", err, derr)
		}
		return nil, derr
	}
	if page.Markdown == "" {
		return nil, fmt.Errorf("no readable content extracted from %s", url)
	}
	return page, nil
}
