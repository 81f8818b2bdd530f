package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net"

	apperrors "postsmith-ai-api/pkg/errors"
)

// ErrorKind 阶段错误分类标签
// 分类依据错误类型与哨兵值，而不是错误文案
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindNetwork   ErrorKind = "network"
	KindRateLimit ErrorKind = "rate_limit"
	KindConflict  ErrorKind = "conflict"
	KindUnknown   ErrorKind = "unknown"
)

// ErrRateLimited 供下游客户端在收到 429 时包装返回
var ErrRateLimited = errors.New("rate limited by upstream service")

// StageError 带阶段与分类标签的流水线错误
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// WrapStage 包装阶段错误并自动分类；已是 StageError 时原样返回
func WrapStage(stage Stage, err error) *StageError {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return &StageError{Stage: stage, Kind: Classify(err), Err: err}
}

// Classify 按错误链分类
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, ErrRateLimited) {
		return KindRateLimit
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.CodeTooManyRequests:
			return KindRateLimit
		case apperrors.CodePostConflict:
			return KindConflict
		case apperrors.CodeScraperError, apperrors.CodeDatabaseError, apperrors.CodeCacheError, apperrors.CodeVectorDBError:
			return KindNetwork
		}
	}

	return KindUnknown
}
