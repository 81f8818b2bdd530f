package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "postsmith-ai-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNetError 满足 net.Error 接口
type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string   { return "dial tcp: connection refused" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: KindTimeout,
		},
		{
			name: "wrapped deadline exceeded",
			err:  fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			want: KindTimeout,
		},
		{
			name: "rate limit sentinel",
			err:  fmt.Errorf("llm call: %w", ErrRateLimited),
			want: KindRateLimit,
		},
		{
			name: "too many requests app error",
			err:  apperrors.New(apperrors.CodeTooManyRequests, "scrape service rate limited"),
			want: KindRateLimit,
		},
		{
			name: "net error with timeout",
			err:  fmt.Errorf("scrape: %w", &fakeNetError{timeout: true}),
			want: KindTimeout,
		},
		{
			name: "net error without timeout",
			err:  &fakeNetError{},
			want: KindNetwork,
		},
		{
			name: "post conflict app error",
			err:  apperrors.New(apperrors.CodePostConflict, "post already exists"),
			want: KindConflict,
		},
		{
			name: "scraper app error",
			err:  apperrors.New(apperrors.CodeScraperError, "scrape failed"),
			want: KindNetwork,
		},
		{
			name: "database app error",
			err:  apperrors.New(apperrors.CodeDatabaseError, "insert failed"),
			want: KindNetwork,
		},
		{
			name: "plain error",
			err:  errors.New("something odd"),
			want: KindUnknown,
		},
		{
			name: "nil",
			err:  nil,
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWrapStage(t *testing.T) {
	assert.Nil(t, WrapStage(StageFetch, nil))

	se := WrapStage(StageFetch, context.DeadlineExceeded)
	require.NotNil(t, se)
	assert.Equal(t, StageFetch, se.Stage)
	assert.Equal(t, KindTimeout, se.Kind)
	assert.Contains(t, se.Error(), "stage fetch failed (timeout)")

	// 已包装的错误保留原始阶段标签
	again := WrapStage(StagePersist, fmt.Errorf("outer: %w", se))
	assert.Equal(t, StageFetch, again.Stage)

	// Unwrap 保持错误链可检
	assert.True(t, errors.Is(se, context.DeadlineExceeded))
}
