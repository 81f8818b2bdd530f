package retrieval

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/pkg/logger"
	"postsmith-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("retrieval")

// candidatePoolSize 每级取出的候选数量，留出打分重排的余量
const candidatePoolSize = 64

// Finder 分类 + 语气画像检索引擎
// 降级阶梯：精确匹配 -> 逐级放宽过滤维度 -> 按时间兜底；空结果不视为错误
type Finder struct {
	repo   repository.ExampleRepository
	scorer Scorer
}

func NewFinder(repo repository.ExampleRepository, scorer Scorer) *Finder {
	return &Finder{repo: repo, scorer: scorer}
}

func (f *Finder) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	ctx, span := tracer.Start(ctx, "retrieval.Finder.Retrieve",
		trace.WithAttributes(
			attribute.String("retrieval.platform", string(q.Platform)),
			attribute.String("retrieval.category", string(q.Category)),
			attribute.Int("retrieval.top_k", q.TopK),
		))
	defer span.End()

	// 过滤维度按选择性从低到高逐级放宽：先丢 platform，再丢 category，最后只剩 owner
	filters := []struct {
		level  string
		filter repository.ExampleFilter
	}{
		{LevelExact, f.filter(q, &q.Platform, &q.Category, &q.Audience)},
		{LevelRelaxed, f.filter(q, nil, &q.Category, &q.Audience)},
		{LevelRelaxed, f.filter(q, nil, nil, &q.Audience)},
	}

	for _, step := range filters {
		candidates, err := f.repo.Find(ctx, step.filter)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}
		scored := f.rank(q, candidates)
		span.SetAttributes(attribute.String("retrieval.level", step.level))
		f.record(step.level, len(scored))
		return &Result{Examples: scored, Level: step.level, Strategy: f.scorer.Name()}, nil
	}

	// 兜底：按创建时间取全库最近的示例，不限 owner
	recent, err := f.repo.FindRecent(ctx, q.TopK)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		logger.Info(ctx, "retrieval found no examples", "owner_id", q.OwnerID)
		f.record(LevelEmpty, 0)
		return &Result{Examples: nil, Level: LevelEmpty, Strategy: f.scorer.Name()}, nil
	}

	scored := make([]*ScoredExample, 0, len(recent))
	for _, ex := range recent {
		scored = append(scored, &ScoredExample{Example: ex, Score: f.scorer.Score(q.ToneProfile, ex)})
	}
	span.SetAttributes(attribute.String("retrieval.level", LevelRecency))
	f.record(LevelRecency, len(scored))
	return &Result{Examples: scored, Level: LevelRecency, Strategy: f.scorer.Name()}, nil
}

func (f *Finder) filter(q *Query, p *entity.Platform, c *entity.Category, a *entity.Audience) repository.ExampleFilter {
	return repository.ExampleFilter{
		OwnerID:   q.OwnerID,
		Platform:  p,
		Category:  c,
		Audience:  a,
		Ownership: q.Ownership,
		Limit:     candidatePoolSize,
	}
}

// rank 打分排序并截取 TopK
// 候选来自仓储层的时间倒序查询，sort.SliceStable 保证同分时新示例靠前
func (f *Finder) rank(q *Query, candidates []*entity.TrainingExample) []*ScoredExample {
	scored := make([]*ScoredExample, 0, len(candidates))
	for _, ex := range candidates {
		scored = append(scored, &ScoredExample{
			Example: ex,
			Score:   f.scorer.Score(q.ToneProfile, ex),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if q.TopK > 0 && len(scored) > q.TopK {
		scored = scored[:q.TopK]
	}
	return scored
}

func (f *Finder) record(level string, count int) {
	metrics.RetrievalFallbackTotal.WithLabelValues(level).Inc()
	metrics.RetrievalExamplesReturned.WithLabelValues(f.scorer.Name()).Observe(float64(count))
}
