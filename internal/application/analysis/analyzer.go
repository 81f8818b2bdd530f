// Package analysis 提供文章内容分析服务
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"postsmith-ai-api/internal/domain/entity"
	workflowchain "postsmith-ai-api/internal/workflow/chain"
	wfmodel "postsmith-ai-api/internal/workflow/model"
	workflowport "postsmith-ai-api/internal/workflow/port"
)

// Analysis 结构化分析结果
// ToneProfile 为模型推断的原文语气，画像非法时为 nil
type Analysis struct {
	Category      entity.Category
	Audience      entity.Audience
	Summary       string
	KeyPoints     []string
	PitchStrength int
	ToneProfile   entity.ToneProfile
	Meta          wfmodel.LLMUsageMeta
}

type Analyzer struct {
	chain *workflowchain.AnalyzeChain
}

func NewAnalyzer(factory workflowport.ChatModelFactory) *Analyzer {
	return &Analyzer{
		chain: workflowchain.NewAnalyzeChain(factory),
	}
}

// Analyze 分析文章内容，产出分类、受众、摘要与要点
// 模型给出的非法枚举值回落到 opinion / general，不阻断流水线
func (a *Analyzer) Analyze(ctx context.Context, in *wfmodel.AnalyzeInput) (*Analysis, error) {
	if a == nil || a.chain == nil {
		return nil, fmt.Errorf("analyze workflow not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	result, outMsg, err := a.chain.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, fmt.Errorf("empty analysis summary")
	}

	meta := wfmodel.LLMUsageMeta{
		Provider:    strings.TrimSpace(in.Provider),
		Model:       strings.TrimSpace(in.Model),
		GeneratedAt: time.Now().UTC(),
	}
	if outMsg != nil && outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		meta.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}

	category := entity.Category(strings.TrimSpace(result.Category))
	if !category.Valid() {
		category = entity.CategoryOpinion
	}
	audience := entity.Audience(strings.TrimSpace(result.Audience))
	if !audience.Valid() {
		audience = entity.AudienceGeneral
	}

	return &Analysis{
		Category:      category,
		Audience:      audience,
		Summary:       strings.TrimSpace(result.Summary),
		KeyPoints:     result.KeyPoints,
		PitchStrength: clampPitch(result.PitchStrength),
		ToneProfile:   toneProfileOf(result.ToneProfile),
		Meta:          meta,
	}, nil
}

func clampPitch(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// toneProfileOf 把模型输出的语气画像转成实体类型，非法画像整体丢弃
func toneProfileOf(weights []wfmodel.ToneWeight) entity.ToneProfile {
	if len(weights) == 0 {
		return nil
	}
	profile := make(entity.ToneProfile, 0, len(weights))
	for _, w := range weights {
		profile = append(profile, entity.ToneWeight{
			Tone:   entity.Tone(strings.TrimSpace(w.Tone)),
			Weight: w.Weight,
		})
	}
	if err := profile.Validate(); err != nil {
		return nil
	}
	return profile
}
