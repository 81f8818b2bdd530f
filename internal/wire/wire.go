//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"postsmith-ai-api/internal/application/analysis"
	"postsmith-ai-api/internal/application/pipeline"
	"postsmith-ai-api/internal/application/retrieval"
	"postsmith-ai-api/internal/config"
	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/internal/infrastructure/llm"
	"postsmith-ai-api/internal/infrastructure/persistence/postgres"
	"postsmith-ai-api/internal/infrastructure/persistence/redis"
	"postsmith-ai-api/internal/interfaces/http/handler"
	"postsmith-ai-api/internal/interfaces/http/router"
	workflowchain "postsmith-ai-api/internal/workflow/chain"
	workflowport "postsmith-ai-api/internal/workflow/port"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MilvusAppSet,
		EmbeddingSet,
		PipelineSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewExampleRepository,
	postgres.NewPostRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.ExampleRepository), new(*postgres.ExampleRepository)),
	wire.Bind(new(repository.PostRepository), new(*postgres.PostRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
)

// MilvusAppSet API 网关可选 Milvus（不可达时不阻塞启动）
var MilvusAppSet = wire.NewSet(
	ProvideMilvusClientOptional,
	ProvideMilvusRepositoryOptional,
)

// EmbeddingSet 可选 Embedder（不可用时禁用向量检索/索引）
var EmbeddingSet = wire.NewSet(
	ProvideEmbedderOptional,
)

// PipelineSet 生成流水线提供者集合
var PipelineSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	workflowchain.NewPostChain,
	analysis.NewAnalyzer,
	ProvideScraperClient,
	ProvideFetcher,
	ProvideScorer,
	retrieval.NewFinder,
	ProvideRetriever,
	ProvidePipelineConfig,
	pipeline.NewOrchestrator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewGenerateHandler,
	handler.NewPostHandler,
	handler.NewExampleHandler,
	handler.NewRetrievalHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
