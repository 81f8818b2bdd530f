package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"postsmith-ai-api/pkg/metrics"
)

// 正文候选选择器，按优先级依次尝试
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	".post-content",
	".article-content",
	"#content",
}

// FetchReadable 直接抓取页面并用 goquery 提取正文
// 作为远端抓取服务不可用时的降级路径
func (c *Client) FetchReadable(ctx context.Context, url string) (*Page, error) {
	ctx, span := tracer.Start(ctx, "scraper.FetchReadable")
	defer span.End()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; postsmith-bot/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ScrapeTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.ScrapeDuration.WithLabelValues("html").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.ScrapeTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	// 剥离非正文节点
	doc.Find("script, style, nav, header, footer, aside, form, iframe").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var text string
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			text = extractText(s)
			if len(text) > 200 {
				break
			}
		}
	}
	if text == "" {
		text = extractText(doc.Find("body"))
	}

	metrics.ScrapeTotal.WithLabelValues("ok").Inc()

	return &Page{
		Markdown: text,
		Title:    title,
	}, nil
}

// extractText 按块级元素提取文本，段落间保留空行
func extractText(s *goquery.Selection) string {
	var parts []string
	s.Find("h1, h2, h3, h4, p, li, blockquote, pre").Each(func(_ int, el *goquery.Selection) {
		t := strings.TrimSpace(el.Text())
		if t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(s.Text())
	}
	return strings.Join(parts, "\n\n")
}
