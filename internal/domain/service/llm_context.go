// Package service 提供领域层服务与上下文工具
package service

import (
	"context"
	"strings"
)

// llmCallMeta 记录一次 LLM 调用所属的工作流与提供商，
// 由工作流入口写入，观测层回调读取。
type llmCallMeta struct {
	workflow string
	provider string
}

type llmMetaKey struct{}

// WithWorkflowProvider 在 Context 中标记当前 LLM 调用的工作流与提供商。
// 空白字段保留已有值。
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	if ctx == nil {
		return nil
	}

	meta := metaFromContext(ctx)
	if w := strings.TrimSpace(workflow); w != "" {
		meta.workflow = w
	}
	if p := strings.TrimSpace(provider); p != "" {
		meta.provider = p
	}
	return context.WithValue(ctx, llmMetaKey{}, meta)
}

// WorkflowFromContext 读取当前调用所属工作流，未标记时返回 unknown。
func WorkflowFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if w := metaFromContext(ctx).workflow; w != "" {
		return w
	}
	return "unknown"
}

// ProviderFromContext 读取当前调用的模型提供商，未标记时返回 unknown。
func ProviderFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if p := metaFromContext(ctx).provider; p != "" {
		return p
	}
	return "unknown"
}

func metaFromContext(ctx context.Context) llmCallMeta {
	meta, _ := ctx.Value(llmMetaKey{}).(llmCallMeta)
	return meta
}
