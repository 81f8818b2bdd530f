package retrieval

import (
	"math"

	"postsmith-ai-api/internal/domain/entity"
)

// Scorer 语气匹配打分器，分高者优先
type Scorer interface {
	Name() string
	Score(want entity.ToneProfile, example *entity.TrainingExample) float64
}

// NewScorer 按策略名创建打分器，未知策略回落到 tone_match
func NewScorer(strategy string, tolerance int) Scorer {
	switch strategy {
	case StrategyWeightedDistance:
		return &WeightedDistanceScorer{}
	default:
		return &ToneMatchScorer{Tolerance: tolerance}
	}
}

// ToneMatchScorer 计数打分器
// 只对请求画像与示例画像共有的语气分量计分，权重落在容差范围内得 1 分
// 示例缺失的语气不参与比较，权重再低也不算命中
type ToneMatchScorer struct {
	Tolerance int
}

func (s *ToneMatchScorer) Name() string { return StrategyToneMatch }

func (s *ToneMatchScorer) Score(want entity.ToneProfile, example *entity.TrainingExample) float64 {
	score := 0.0
	for _, w := range want {
		got, ok := example.ToneProfile.Lookup(w.Tone)
		if !ok {
			continue
		}
		if abs(w.Weight-got) <= s.Tolerance {
			score++
		}
	}
	return score
}

// WeightedDistanceScorer 距离打分器
// 对请求与示例画像的语气并集求 L1 距离，取负值使距离小者分高
type WeightedDistanceScorer struct{}

func (s *WeightedDistanceScorer) Name() string { return StrategyWeightedDistance }

func (s *WeightedDistanceScorer) Score(want entity.ToneProfile, example *entity.TrainingExample) float64 {
	dist := 0.0
	seen := make(map[entity.Tone]bool, len(want))
	for _, w := range want {
		seen[w.Tone] = true
		dist += math.Abs(float64(w.Weight - example.ToneProfile.Weight(w.Tone)))
	}
	for _, w := range example.ToneProfile {
		if !seen[w.Tone] {
			dist += float64(w.Weight)
		}
	}
	return -dist
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
