package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	llmctx "postsmith-ai-api/internal/domain/service"
	wfmodel "postsmith-ai-api/internal/workflow/model"
	workflowport "postsmith-ai-api/internal/workflow/port"
	workflowprompt "postsmith-ai-api/internal/workflow/prompt"
)

type PostChain struct {
	factory workflowport.ChatModelFactory
}

func NewPostChain(factory workflowport.ChatModelFactory) *PostChain {
	return &PostChain{factory: factory}
}

var postPromptRegistry = workflowprompt.NewRegistry()

// Stream 返回 Eino StreamReader；调用方负责 Close()。
// 约定：流可能在最后返回一个 Content 为空但包含 Usage 的消息，用于 Token 统计。
func (c *PostChain) Stream(ctx context.Context, in *wfmodel.PostGenerateInput) (*schema.StreamReader[*schema.Message], error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Platform) == "" {
		return nil, fmt.Errorf("platform is required")
	}
	if strings.TrimSpace(in.Summary) == "" {
		return nil, fmt.Errorf("summary is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "post_generate", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatPostMessages(ctx, in)
	if err != nil {
		return nil, err
	}
	return chatModel.Stream(ctx, msgs, buildModelOptions(in.Model, in.Temperature, in.MaxTokens)...)
}

func formatPostMessages(ctx context.Context, in *wfmodel.PostGenerateInput) ([]*schema.Message, error) {
	tpl, err := postPromptRegistry.ChatTemplate(workflowprompt.PromptPostGenV1)
	if err != nil {
		return nil, err
	}

	var examples strings.Builder
	for i, ex := range in.Examples {
		fmt.Fprintf(&examples, "--- Example %d (tones: %s) ---\n%s\n\n", i+1, ex.ToneProfile, strings.TrimSpace(ex.Content))
	}
	if examples.Len() == 0 {
		examples.WriteString("(no reference examples available; rely on the tone profile)")
	}

	vars := map[string]any{
		"platform":       strings.TrimSpace(in.Platform),
		"platform_rules": strings.TrimSpace(in.PlatformRules),
		"category":       strings.TrimSpace(in.Category),
		"audience":       strings.TrimSpace(in.Audience),
		"tone_profile":   strings.TrimSpace(in.ToneProfile),
		"summary":        strings.TrimSpace(in.Summary),
		"key_points":     "- " + strings.Join(in.KeyPoints, "\n- "),
		"examples":       strings.TrimSpace(examples.String()),
	}
	return tpl.Format(ctx, vars)
}
