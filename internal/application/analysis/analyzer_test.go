package analysis

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postsmith-ai-api/internal/domain/entity"
	wfmodel "postsmith-ai-api/internal/workflow/model"
)

type stubChatModel struct {
	content string
	usage   *schema.TokenUsage
}

func (m *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	msg := &schema.Message{Role: schema.Assistant, Content: m.content}
	if m.usage != nil {
		msg.ResponseMeta = &schema.ResponseMeta{Usage: m.usage}
	}
	return msg, nil
}

func (m *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{{Role: schema.Assistant, Content: m.content}}), nil
}

type stubFactory struct {
	model model.BaseChatModel
}

func (f *stubFactory) Get(_ context.Context, _ string) (model.BaseChatModel, error) {
	return f.model, nil
}

func analyzeInput() *wfmodel.AnalyzeInput {
	return &wfmodel.AnalyzeInput{
		Provider: "openai",
		Model:    "gpt-4o-mini",
		URL:      "https://blog.example.com/post",
		Title:    "A Post",
		Content:  "long article body",
	}
}

func TestAnalyzerParsesModelOutput(t *testing.T) {
	// 模型输出 JSON 前后夹杂文本也要能解析
	a := NewAnalyzer(&stubFactory{model: &stubChatModel{
		content: "Here is the analysis:\n```json\n" +
			`{"category":"product_launch","audience":"founders","summary":"A launch recap.","key_points":["pricing","timeline"],"pitch_strength":85,"tone_profile":[{"tone":"bold","weight":60},{"tone":"direct","weight":40}]}` +
			"\n```\nHope this helps.",
		usage: &schema.TokenUsage{PromptTokens: 80, CompletionTokens: 30},
	}})

	result, err := a.Analyze(context.Background(), analyzeInput())
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryProductLaunch, result.Category)
	assert.Equal(t, entity.AudienceFounders, result.Audience)
	assert.Equal(t, "A launch recap.", result.Summary)
	assert.Equal(t, []string{"pricing", "timeline"}, result.KeyPoints)
	assert.Equal(t, 85, result.PitchStrength)
	assert.Equal(t, entity.ToneProfile{
		{Tone: entity.ToneBold, Weight: 60},
		{Tone: entity.ToneDirect, Weight: 40},
	}, result.ToneProfile)
	assert.Equal(t, 80, result.Meta.PromptTokens)
	assert.Equal(t, 30, result.Meta.CompletionTokens)
}

func TestAnalyzerClampsPitchAndDropsInvalidToneProfile(t *testing.T) {
	a := NewAnalyzer(&stubFactory{model: &stubChatModel{
		content: `{"category":"opinion","audience":"general","summary":"Fine.","key_points":[],"pitch_strength":140,"tone_profile":[{"tone":"sarcastic","weight":100}]}`,
	}})

	result, err := a.Analyze(context.Background(), analyzeInput())
	require.NoError(t, err)
	assert.Equal(t, 100, result.PitchStrength)
	// 含非法语气的画像整体丢弃
	assert.Nil(t, result.ToneProfile)
}

func TestAnalyzerFallsBackOnInvalidEnums(t *testing.T) {
	a := NewAnalyzer(&stubFactory{model: &stubChatModel{
		content: `{"category":"celebrity_gossip","audience":"martians","summary":"Still a usable summary.","key_points":[]}`,
	}})

	result, err := a.Analyze(context.Background(), analyzeInput())
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryOpinion, result.Category)
	assert.Equal(t, entity.AudienceGeneral, result.Audience)
}

func TestAnalyzerRejectsEmptySummary(t *testing.T) {
	a := NewAnalyzer(&stubFactory{model: &stubChatModel{
		content: `{"category":"opinion","audience":"general","summary":"  ","key_points":[]}`,
	}})

	_, err := a.Analyze(context.Background(), analyzeInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty analysis summary")
}

func TestAnalyzerRejectsUnparsableOutput(t *testing.T) {
	a := NewAnalyzer(&stubFactory{model: &stubChatModel{
		content: "sorry, I cannot analyze this article",
	}})

	_, err := a.Analyze(context.Background(), analyzeInput())
	require.Error(t, err)
}

func TestAnalyzerNilInput(t *testing.T) {
	a := NewAnalyzer(&stubFactory{model: &stubChatModel{content: "{}"}})
	_, err := a.Analyze(context.Background(), nil)
	require.Error(t, err)
}
