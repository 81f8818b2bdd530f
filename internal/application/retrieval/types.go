// Package retrieval 提供示例检索引擎
package retrieval

import (
	"context"

	"postsmith-ai-api/internal/domain/entity"
)

// 检索策略名
const (
	StrategyToneMatch        = "tone_match"
	StrategyWeightedDistance = "weighted_distance"
	StrategySemantic         = "semantic"
)

// 降级层级
const (
	LevelExact   = "exact"
	LevelRelaxed = "relaxed"
	LevelRecency = "recency"
	LevelEmpty   = "empty"
)

// Query 检索请求
type Query struct {
	OwnerID     string
	Platform    entity.Platform
	Category    entity.Category
	Audience    entity.Audience
	Ownership   *entity.Ownership
	ToneProfile entity.ToneProfile
	// Summary 语义检索策略下用于生成查询向量
	Summary string
	TopK    int
}

// ScoredExample 带分数的检索结果
type ScoredExample struct {
	Example *entity.TrainingExample
	Score   float64
}

// Result 检索结果
// Level 标记结果来自哪一级降级；空结果不是错误
type Result struct {
	Examples []*ScoredExample
	Level    string
	Strategy string
}

// Retriever 检索引擎接口
type Retriever interface {
	Retrieve(ctx context.Context, q *Query) (*Result, error)
}
