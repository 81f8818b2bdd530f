package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "postsmith-ai-api/internal/domain/service"
	wfmodel "postsmith-ai-api/internal/workflow/model"
	workflownode "postsmith-ai-api/internal/workflow/node"
	workflowport "postsmith-ai-api/internal/workflow/port"
	workflowprompt "postsmith-ai-api/internal/workflow/prompt"
)

type AnalyzeChain struct {
	factory workflowport.ChatModelFactory
}

func NewAnalyzeChain(factory workflowport.ChatModelFactory) *AnalyzeChain {
	return &AnalyzeChain{factory: factory}
}

var analyzePromptRegistry = workflowprompt.NewRegistry()

// Invoke 执行内容分析并解析模型输出的 JSON
func (c *AnalyzeChain) Invoke(ctx context.Context, in *wfmodel.AnalyzeInput) (*wfmodel.AnalyzeResult, *schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, nil, fmt.Errorf("content is required")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "content_analyze", strings.TrimSpace(in.Provider))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Provider))
	if err != nil {
		return nil, nil, err
	}

	tpl, err := analyzePromptRegistry.ChatTemplate(workflowprompt.PromptContentAnalyzeV1)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"title":   strings.TrimSpace(in.Title),
		"url":     strings.TrimSpace(in.URL),
		"content": strings.TrimSpace(in.Content),
	})
	if err != nil {
		return nil, nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildModelOptions(in.Model, in.Temperature, in.MaxTokens)...)
	if err != nil {
		return nil, nil, err
	}
	if outMsg == nil {
		return nil, nil, fmt.Errorf("empty llm response")
	}

	raw := workflownode.ExtractJSONObject(outMsg.Content)
	var result wfmodel.AnalyzeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, outMsg, fmt.Errorf("failed to parse analyze output: %w", err)
	}
	return &result, outMsg, nil
}

func buildModelOptions(modelName string, temperature *float32, maxTokens *int) []model.Option {
	opts := make([]model.Option, 0, 3)
	if temperature != nil {
		opts = append(opts, model.WithTemperature(*temperature))
	}
	if maxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*maxTokens))
	}
	if strings.TrimSpace(modelName) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(modelName)))
	}
	return opts
}
