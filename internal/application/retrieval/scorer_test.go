package retrieval

import (
	"testing"

	"postsmith-ai-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func exampleWithTones(weights ...entity.ToneWeight) *entity.TrainingExample {
	return &entity.TrainingExample{ToneProfile: entity.ToneProfile(weights)}
}

func TestToneMatchScorer(t *testing.T) {
	scorer := &ToneMatchScorer{Tolerance: 10}

	want := entity.ToneProfile{
		{Tone: entity.ToneWitty, Weight: 60},
		{Tone: entity.ToneDirect, Weight: 40},
	}

	// witty 60 对 55（差 5）、direct 40 对 45（差 5）均在容差内
	example := exampleWithTones(
		entity.ToneWeight{Tone: entity.ToneWitty, Weight: 55},
		entity.ToneWeight{Tone: entity.ToneDirect, Weight: 45},
	)
	assert.Equal(t, 2.0, scorer.Score(want, example))

	// witty 60 对 30 超出容差，只有 direct 计分
	partial := exampleWithTones(
		entity.ToneWeight{Tone: entity.ToneWitty, Weight: 30},
		entity.ToneWeight{Tone: entity.ToneDirect, Weight: 35},
	)
	assert.Equal(t, 1.0, scorer.Score(want, partial))

	// 示例缺失的语气不参与比较，空画像得 0 分
	empty := exampleWithTones()
	assert.Equal(t, 0.0, scorer.Score(want, empty))

	// 请求中的低权重语气不因示例缺失而命中：bold 10 对缺失不计分
	lowWeight := entity.ToneProfile{
		{Tone: entity.ToneCasual, Weight: 90},
		{Tone: entity.ToneBold, Weight: 10},
	}
	casualOnly := exampleWithTones(entity.ToneWeight{Tone: entity.ToneCasual, Weight: 90})
	assert.Equal(t, 1.0, scorer.Score(lowWeight, casualOnly))

	// 分数上界为请求画像的分量数
	identical := exampleWithTones(
		entity.ToneWeight{Tone: entity.ToneWitty, Weight: 60},
		entity.ToneWeight{Tone: entity.ToneDirect, Weight: 40},
	)
	assert.Equal(t, float64(len(want)), scorer.Score(want, identical))
}

func TestToneMatchScorerToleranceBoundary(t *testing.T) {
	scorer := &ToneMatchScorer{Tolerance: 10}
	want := entity.ToneProfile{{Tone: entity.ToneCasual, Weight: 50}}

	// 差值恰好等于容差时计分
	atBoundary := exampleWithTones(entity.ToneWeight{Tone: entity.ToneCasual, Weight: 40})
	assert.Equal(t, 1.0, scorer.Score(want, atBoundary))

	// 超出一个单位不计分
	beyond := exampleWithTones(entity.ToneWeight{Tone: entity.ToneCasual, Weight: 39})
	assert.Equal(t, 0.0, scorer.Score(want, beyond))
}

func TestWeightedDistanceScorer(t *testing.T) {
	scorer := &WeightedDistanceScorer{}

	want := entity.ToneProfile{
		{Tone: entity.ToneWitty, Weight: 60},
		{Tone: entity.ToneDirect, Weight: 40},
	}

	// 完全一致的画像距离为 0
	identical := exampleWithTones(
		entity.ToneWeight{Tone: entity.ToneWitty, Weight: 60},
		entity.ToneWeight{Tone: entity.ToneDirect, Weight: 40},
	)
	assert.Equal(t, 0.0, scorer.Score(want, identical))

	// |60-55| + |40-45| = 10
	near := exampleWithTones(
		entity.ToneWeight{Tone: entity.ToneWitty, Weight: 55},
		entity.ToneWeight{Tone: entity.ToneDirect, Weight: 45},
	)
	assert.Equal(t, -10.0, scorer.Score(want, near))

	// 示例独有的语气计入距离：|60-60| + |40-0| + 40(bold)
	extra := exampleWithTones(
		entity.ToneWeight{Tone: entity.ToneWitty, Weight: 60},
		entity.ToneWeight{Tone: entity.ToneBold, Weight: 40},
	)
	assert.Equal(t, -80.0, scorer.Score(want, extra))

	// 距离小者分数更高
	assert.Greater(t, scorer.Score(want, near), scorer.Score(want, extra))
}

func TestNewScorer(t *testing.T) {
	assert.Equal(t, StrategyToneMatch, NewScorer(StrategyToneMatch, 10).Name())
	assert.Equal(t, StrategyWeightedDistance, NewScorer(StrategyWeightedDistance, 0).Name())
	// 未知策略回落到 tone_match
	assert.Equal(t, StrategyToneMatch, NewScorer("no-such-strategy", 10).Name())
	// semantic 的兜底打分同样使用 tone_match
	assert.Equal(t, StrategyToneMatch, NewScorer(StrategySemantic, 10).Name())
}
