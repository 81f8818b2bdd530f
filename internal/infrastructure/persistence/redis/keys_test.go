package redis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentKey(t *testing.T) {
	key := ContentKey("https://blog.example.com/a-very/long/path?with=query")
	assert.True(t, strings.HasPrefix(key, "scrape:"))
	// 哈希后键长固定，与 URL 长度无关
	assert.Len(t, key, len("scrape:")+32)

	// 相同 URL 稳定，不同 URL 区分
	assert.Equal(t, key, ContentKey("https://blog.example.com/a-very/long/path?with=query"))
	assert.NotEqual(t, key, ContentKey("https://blog.example.com/other"))
}

func TestBuildRateLimitKey(t *testing.T) {
	assert.Equal(t, "ratelimit:owner-1:/v1/posts/generate",
		BuildRateLimitKey("owner-1", "/v1/posts/generate"))
}
