package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postsmith-ai-api/internal/config"
	apperrors "postsmith-ai-api/pkg/errors"
)

func newTestClient(endpoint string) *Client {
	return NewClient(&config.ScraperConfig{
		Endpoint:   endpoint,
		WaitBudget: time.Second,
		Formats:    []string{"markdown"},
	})
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReadableExtractsArticle(t *testing.T) {
	srv := serveHTML(t, `<!DOCTYPE html>
<html>
<head><title>Shipping Faster</title><script>alert("tracking")</script></head>
<body>
<nav><li>Home</li><li>About</li></nav>
<article>
<h1>Shipping Faster</h1>
<p>First paragraph of the article body.</p>
<p>Second paragraph with more detail.</p>
</article>
<footer><p>copyright</p></footer>
</body>
</html>`)

	page, err := newTestClient(srv.URL).FetchReadable(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Shipping Faster", page.Title)
	assert.Contains(t, page.Markdown, "First paragraph of the article body.")
	assert.Contains(t, page.Markdown, "Second paragraph with more detail.")

	// 非正文节点被剥离
	assert.NotContains(t, page.Markdown, "alert")
	assert.NotContains(t, page.Markdown, "Home")
	assert.NotContains(t, page.Markdown, "copyright")
}

func TestFetchReadableFallsBackToBody(t *testing.T) {
	srv := serveHTML(t, `<html><head><title>No Article Tag</title></head>
<body><p>Plain body content without semantic containers.</p></body></html>`)

	page, err := newTestClient(srv.URL).FetchReadable(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, page.Markdown, "Plain body content")
}

func TestFetchReadableNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv.URL).FetchReadable(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestScrapeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"markdown":"# Hello","metadata":{"title":"Hello","statusCode":200}}}`)
	}))
	t.Cleanup(srv.Close)

	page, err := newTestClient(srv.URL).Scrape(context.Background(), "https://example.com/post")
	require.NoError(t, err)
	assert.Equal(t, "# Hello", page.Markdown)
	assert.Equal(t, "Hello", page.Title)
}

func TestScrapeRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv.URL).Scrape(context.Background(), "https://example.com/post")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeTooManyRequests, appErr.Code)
}

func TestScrapeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":false,"error":"target blocked the request"}`)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv.URL).Scrape(context.Background(), "https://example.com/post")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target blocked the request")
}
