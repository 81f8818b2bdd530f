// Package main 系统初始化入口
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"postsmith-ai-api/internal/config"
	"postsmith-ai-api/internal/infrastructure/persistence/milvus"
	"postsmith-ai-api/internal/infrastructure/persistence/postgres"
	"postsmith-ai-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 执行数据库迁移
	fmt.Println("Running database migrations...")
	if err := postgres.Migrate(ctx, dataLayer.PgClient); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	fmt.Println("Database migrations completed.")

	// 4. 初始化 Milvus 集合（不可达时跳过，服务端会降级为类目检索）
	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		fmt.Printf("Milvus not available, skipping vector collection setup: %v\n", err)
	} else {
		defer milvusClient.Close()
		repo := milvus.NewRepository(milvusClient)
		fmt.Println("Ensuring example embeddings collection...")
		if err := repo.EnsureExampleEmbeddingsCollection(ctx); err != nil {
			log.Fatalf("failed to ensure example embeddings collection: %v", err)
		}
		fmt.Println("Example embeddings collection ready.")
	}

	fmt.Println("Bootstrap completed successfully.")
}
