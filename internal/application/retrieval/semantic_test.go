package retrieval

import (
	"context"
	"testing"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/internal/infrastructure/persistence/milvus"
	"postsmith-ai-api/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticRetrieverDegradesWithoutVectorStack(t *testing.T) {
	repo := &fakeExampleRepo{
		byFilter: func(f repository.ExampleFilter) []*entity.TrainingExample {
			return []*entity.TrainingExample{
				newExample("a", entity.ToneWeight{Tone: entity.ToneWitty, Weight: 60}),
			}
		},
	}
	fallback := NewFinder(repo, &ToneMatchScorer{Tolerance: 10})
	retriever := NewSemanticRetriever(fallback, nil, nil, repo, &ToneMatchScorer{Tolerance: 10})

	q := testQuery()
	q.Summary = "a post about building SSE endpoints"
	result, err := retriever.Retrieve(context.Background(), q)
	require.NoError(t, err)

	// 向量组件缺失时降级到语气检索，不阻断流程
	assert.Equal(t, StrategyToneMatch, result.Strategy)
	require.Len(t, result.Examples, 1)
	assert.Equal(t, "a", result.Examples[0].Example.ID)
}

func TestMilvusSearchMetricLabels(t *testing.T) {
	// WithLabelValues 在标签数不匹配时 panic，这里固定检索路径使用的标签形状
	assert.NotPanics(t, func() {
		metrics.MilvusSearchDuration.WithLabelValues(milvus.CollectionExampleEmbeddings).Observe(0)
		metrics.MilvusSearchTotal.WithLabelValues(milvus.CollectionExampleEmbeddings, "ok").Inc()
		metrics.MilvusSearchTotal.WithLabelValues(milvus.CollectionExampleEmbeddings, "error").Inc()
	})
}
