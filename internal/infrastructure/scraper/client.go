// Package scraper 提供网页内容抓取实现
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"postsmith-ai-api/internal/config"
	apperrors "postsmith-ai-api/pkg/errors"
	"postsmith-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("scraper")

// Client 抓取服务客户端，对接 firecrawl 风格的 /v1/scrape API
type Client struct {
	config     *config.ScraperConfig
	httpClient *http.Client
}

// NewClient 创建抓取客户端
func NewClient(cfg *config.ScraperConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			// 在等待预算之上留出网络往返余量
			Timeout: cfg.WaitBudget + 5*time.Second,
		},
	}
}

// HealthCheck 探测抓取服务可达性，供就绪检查使用
// 仅要求服务端响应，不要求特定状态码（部分部署根路径返回 404）
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scrape service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("scrape service returned status %d", resp.StatusCode)
	}
	return nil
}

// Page 抓取结果
type Page struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Title    string `json:"title"`
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	WaitFor         int64    `json:"waitFor,omitempty"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
		Metadata struct {
			Title      string `json:"title"`
			StatusCode int    `json:"statusCode"`
		} `json:"metadata"`
	} `json:"data"`
}

// Scrape 抓取页面内容
// 远端服务不可用或返回失败时交由调用方降级到 FetchReadable
func (c *Client) Scrape(ctx context.Context, url string) (*Page, error) {
	ctx, span := tracer.Start(ctx, "scraper.Scrape",
		trace.WithAttributes(attribute.String("scrape.url", url)))
	defer span.End()

	start := time.Now()

	reqBody := scrapeRequest{
		URL:             url,
		Formats:         c.config.Formats,
		OnlyMainContent: c.config.MainContentOnly,
		WaitFor:         c.config.WaitBudget.Milliseconds(),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.Endpoint+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ScrapeTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.ScrapeDuration.WithLabelValues("markdown").Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.ScrapeTotal.WithLabelValues("rate_limited").Inc()
		return nil, apperrors.New(apperrors.CodeTooManyRequests, "scrape service rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ScrapeTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("scrape service returned status %d", resp.StatusCode)
	}

	var body scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.ScrapeTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode scrape response: %w", err)
	}
	if !body.Success {
		metrics.ScrapeTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("scrape failed: %s", body.Error)
	}

	metrics.ScrapeTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("scrape.markdown_len", len(body.Data.Markdown)))

	return &Page{
		Markdown: body.Data.Markdown,
		HTML:     body.Data.HTML,
		Title:    body.Data.Metadata.Title,
	}, nil
}
