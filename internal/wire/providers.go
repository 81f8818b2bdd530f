// Package wire 提供依赖注入配置
package wire

import (
	"context"

	einoembedding "github.com/cloudwego/eino/components/embedding"

	"postsmith-ai-api/internal/application/content"
	"postsmith-ai-api/internal/application/retrieval"
	"postsmith-ai-api/internal/config"
	"postsmith-ai-api/internal/domain/repository"
	infraembedding "postsmith-ai-api/internal/infrastructure/embedding"
	"postsmith-ai-api/internal/infrastructure/persistence/milvus"
	"postsmith-ai-api/internal/infrastructure/persistence/postgres"
	"postsmith-ai-api/internal/infrastructure/persistence/redis"
	"postsmith-ai-api/internal/infrastructure/scraper"
	"postsmith-ai-api/pkg/logger"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient    *postgres.Client
	TxManager   *postgres.TxManager
	ExampleRepo *postgres.ExampleRepository
	PostRepo    *postgres.PostRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMilvusClientOptional 提供可选的 Milvus 客户端（不可达时不阻塞启动）
func ProvideMilvusClientOptional(ctx context.Context, cfg *config.Config) (*milvus.Client, func(), error) {
	client, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus not available, vector features disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMilvusRepositoryOptional 提供可选的 Milvus 仓储
func ProvideMilvusRepositoryOptional(client *milvus.Client) *milvus.Repository {
	if client == nil {
		return nil
	}
	return milvus.NewRepository(client)
}

// ProvideEmbedderOptional 提供可选的 Embedder（不可用时禁用向量检索/索引）
func ProvideEmbedderOptional(ctx context.Context, cfg *config.Config) (einoembedding.Embedder, error) {
	embedder, err := infraembedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Warn(ctx, "embedding not available, vector features disabled", "error", err.Error())
		return nil, nil
	}
	return embedder, nil
}

// ProvideScraperClient 提供抓取客户端
func ProvideScraperClient(cfg *config.Config) *scraper.Client {
	return scraper.NewClient(&cfg.Scraper)
}

// ProvideFetcher 提供内容抓取器
func ProvideFetcher(sc *scraper.Client, cache *redis.Cache, cfg *config.Config) *content.Fetcher {
	return content.NewFetcher(sc, cache, cfg.Cache.ContentTTL)
}

// ProvideScorer 按配置提供打分器
func ProvideScorer(cfg *config.Config) retrieval.Scorer {
	return retrieval.NewScorer(cfg.Pipeline.Retrieval.Strategy, cfg.Pipeline.Retrieval.ToneTolerance)
}

// ProvideRetriever 按配置选择检索引擎
// semantic 策略在向量依赖不可用时回退到类目检索
func ProvideRetriever(cfg *config.Config, finder *retrieval.Finder, embedder einoembedding.Embedder, vectors *milvus.Repository, repo repository.ExampleRepository, scorer retrieval.Scorer) retrieval.Retriever {
	if cfg.Pipeline.Retrieval.Strategy == retrieval.StrategySemantic && embedder != nil && vectors != nil {
		return retrieval.NewSemanticRetriever(finder, embedder, vectors, repo, scorer)
	}
	return finder
}

// ProvidePipelineConfig 提供流水线配置
func ProvidePipelineConfig(cfg *config.Config) *config.PipelineConfig {
	return &cfg.Pipeline
}
