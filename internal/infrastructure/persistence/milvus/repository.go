// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Repository 向量检索仓储
type Repository struct {
	client *Client
}

// NewRepository 创建向量检索仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// SearchParams 检索参数
type SearchParams struct {
	OwnerID     string
	QueryVector []float32
	Platform    string
	Category    string
	TopK        int
}

// SearchResult 检索结果
type SearchResult struct {
	ID      string
	Score   float32
	Summary string
}

// CreateCollection 创建集合
func (r *Repository) CreateCollection(ctx context.Context, schema *entity.Schema) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", schema.CollectionName)))
	defer span.End()

	collName := r.client.CollectionName(schema.CollectionName)
	schema.CollectionName = collName

	err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context, collection string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	collName := r.client.CollectionName(collection)

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// CreatePartition 创建 owner 分区
func (r *Repository) CreatePartition(ctx context.Context, collection, ownerID string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreatePartition",
		trace.WithAttributes(
			attribute.String("collection", collection),
			attribute.String("partition", PartitionName(ownerID)),
		))
	defer span.End()

	collName := r.client.CollectionName(collection)
	return r.client.milvus.CreatePartition(ctx, collName, PartitionName(ownerID))
}

// SearchExamples 按摘要向量检索相似示例
func (r *Repository) SearchExamples(ctx context.Context, params *SearchParams) ([]*SearchResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.SearchExamples",
		trace.WithAttributes(
			attribute.String("owner_id", params.OwnerID),
			attribute.Int("top_k", params.TopK),
		))
	defer span.End()

	collName := r.client.CollectionName(CollectionExampleEmbeddings)
	partitionName := PartitionName(params.OwnerID)

	// 分区尚未创建时（例如新 owner），直接返回空结果，避免 Milvus 报 partition not found。
	if has, err := r.client.milvus.HasPartition(ctx, collName, partitionName); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to check partition: %w", err)
	} else if !has {
		return []*SearchResult{}, nil
	}

	// 构建过滤表达式
	filter := fmt.Sprintf(`owner_id == "%s"`, params.OwnerID)
	if params.Platform != "" {
		filter += fmt.Sprintf(` && platform == "%s"`, params.Platform)
	}
	if params.Category != "" {
		filter += fmt.Sprintf(` && category == "%s"`, params.Category)
	}

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		[]string{partitionName},
		filter,
		[]string{"id", "summary"},
		[]entity.Vector{entity.FloatVector(params.QueryVector)},
		"vector",
		entity.COSINE,
		params.TopK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var searchResults []*SearchResult
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			sr := &SearchResult{
				Score: result.Scores[i],
			}
			if idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
				sr.ID = idCol.Data()[i]
			}
			if sumCol, ok := result.Fields.GetColumn("summary").(*entity.ColumnVarChar); ok {
				sr.Summary = sumCol.Data()[i]
			}
			searchResults = append(searchResults, sr)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(searchResults)))
	return searchResults, nil
}

// InsertExamples 插入示例向量
func (r *Repository) InsertExamples(ctx context.Context, ownerID string, embeddings []*ExampleEmbedding) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.InsertExamples",
		trace.WithAttributes(
			attribute.String("owner_id", ownerID),
			attribute.Int("count", len(embeddings)),
		))
	defer span.End()

	if len(embeddings) == 0 {
		return nil
	}

	collName := r.client.CollectionName(CollectionExampleEmbeddings)
	partitionName := PartitionName(ownerID)

	// 确保分区存在
	has, _ := r.client.milvus.HasPartition(ctx, collName, partitionName)
	if !has {
		if err := r.CreatePartition(ctx, CollectionExampleEmbeddings, ownerID); err != nil {
			return err
		}
	}

	ids := make([]string, len(embeddings))
	vectors := make([][]float32, len(embeddings))
	ownerIDs := make([]string, len(embeddings))
	platforms := make([]string, len(embeddings))
	categories := make([]string, len(embeddings))
	summaries := make([]string, len(embeddings))

	for i, e := range embeddings {
		ids[i] = e.ID
		vectors[i] = e.Vector
		ownerIDs[i] = e.OwnerID
		platforms[i] = e.Platform
		categories[i] = e.Category
		summaries[i] = e.Summary
	}

	idCol := entity.NewColumnVarChar("id", ids)
	vectorCol := entity.NewColumnFloatVector("vector", VectorDimension, vectors)
	ownerCol := entity.NewColumnVarChar("owner_id", ownerIDs)
	platformCol := entity.NewColumnVarChar("platform", platforms)
	categoryCol := entity.NewColumnVarChar("category", categories)
	summaryCol := entity.NewColumnVarChar("summary", summaries)

	_, err := r.client.milvus.Insert(ctx, collName, partitionName,
		idCol, vectorCol, ownerCol, platformCol, categoryCol, summaryCol)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert examples: %w", err)
	}

	return nil
}

// DeleteExample 删除示例向量
func (r *Repository) DeleteExample(ctx context.Context, ownerID, exampleID string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.DeleteExample",
		trace.WithAttributes(attribute.String("example_id", exampleID)))
	defer span.End()

	collName := r.client.CollectionName(CollectionExampleEmbeddings)
	partitionName := PartitionName(ownerID)

	if has, err := r.client.milvus.HasPartition(ctx, collName, partitionName); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check partition: %w", err)
	} else if !has {
		return nil
	}

	filter := fmt.Sprintf(`id == "%s"`, exampleID)
	if err := r.client.milvus.Delete(ctx, collName, partitionName, filter); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete example: %w", err)
	}
	return nil
}

// EnsureExampleEmbeddingsCollection 确保 example_embeddings 集合与索引可用（不存在则创建）。
// 约束：不会做 drop/rebuild 等破坏性操作。
func (r *Repository) EnsureExampleEmbeddingsCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	exists, err := r.client.HasCollection(ctx, CollectionExampleEmbeddings)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.CreateCollection(ctx, ExampleEmbeddingsSchema()); err != nil {
			return err
		}
		// 新建集合时创建索引；若失败，允许后续由运维介入。
		_ = r.CreateIndex(ctx, CollectionExampleEmbeddings)
	}

	return r.client.LoadCollection(ctx, CollectionExampleEmbeddings)
}
