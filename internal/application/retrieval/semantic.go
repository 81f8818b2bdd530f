package retrieval

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/internal/infrastructure/persistence/milvus"
	"postsmith-ai-api/pkg/logger"
	"postsmith-ai-api/pkg/metrics"
)

// SemanticRetriever 基于摘要向量的语义检索策略
// Milvus 或 Embedder 不可用时降级到分类 + 语气检索，不阻断流水线
type SemanticRetriever struct {
	fallback *Finder
	embedder embedding.Embedder
	vectors  *milvus.Repository
	repo     repository.ExampleRepository
	scorer   Scorer
}

func NewSemanticRetriever(fallback *Finder, embedder embedding.Embedder, vectors *milvus.Repository, repo repository.ExampleRepository, scorer Scorer) *SemanticRetriever {
	return &SemanticRetriever{
		fallback: fallback,
		embedder: embedder,
		vectors:  vectors,
		repo:     repo,
		scorer:   scorer,
	}
}

func (r *SemanticRetriever) Retrieve(ctx context.Context, q *Query) (*Result, error) {
	ctx, span := tracer.Start(ctx, "retrieval.SemanticRetriever.Retrieve",
		trace.WithAttributes(attribute.Int("retrieval.top_k", q.TopK)))
	defer span.End()

	if r.embedder == nil || r.vectors == nil || q.Summary == "" {
		return r.degrade(ctx, q, nil)
	}

	vectors, err := r.embedder.EmbedStrings(ctx, []string{q.Summary})
	if err != nil || len(vectors) == 0 {
		return r.degrade(ctx, q, err)
	}
	query := toFloat32(vectors[0])

	start := time.Now()
	hits, err := r.vectors.SearchExamples(ctx, &milvus.SearchParams{
		OwnerID:     q.OwnerID,
		QueryVector: query,
		Platform:    string(q.Platform),
		TopK:        q.TopK,
	})
	metrics.MilvusSearchDuration.WithLabelValues(milvus.CollectionExampleEmbeddings).
		Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MilvusSearchTotal.WithLabelValues(milvus.CollectionExampleEmbeddings, "error").Inc()
		return r.degrade(ctx, q, err)
	}
	metrics.MilvusSearchTotal.WithLabelValues(milvus.CollectionExampleEmbeddings, "ok").Inc()

	if len(hits) == 0 {
		return r.degrade(ctx, q, nil)
	}

	ids := make([]string, 0, len(hits))
	scoreByID := make(map[string]float64, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
		scoreByID[h.ID] = float64(h.Score)
	}

	examples, err := r.repo.FindByIDs(ctx, q.OwnerID, ids)
	if err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return r.degrade(ctx, q, nil)
	}

	scored := make([]*ScoredExample, 0, len(examples))
	for _, ex := range examples {
		scored = append(scored, &ScoredExample{Example: ex, Score: scoreByID[ex.ID]})
	}

	metrics.RetrievalFallbackTotal.WithLabelValues(LevelExact).Inc()
	metrics.RetrievalExamplesReturned.WithLabelValues(StrategySemantic).Observe(float64(len(scored)))
	span.SetAttributes(attribute.Int("retrieval.result_count", len(scored)))

	return &Result{Examples: scored, Level: LevelExact, Strategy: StrategySemantic}, nil
}

func (r *SemanticRetriever) degrade(ctx context.Context, q *Query, cause error) (*Result, error) {
	if cause != nil {
		logger.Warn(ctx, "semantic retrieval unavailable, degrading to tone match",
			"owner_id", q.OwnerID, "error", cause)
	}
	return r.fallback.Retrieve(ctx, q)
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
