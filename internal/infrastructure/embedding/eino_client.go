// Package embedding 提供摘要向量化所需的 Embedder
package embedding

import (
	"context"
	"fmt"

	"postsmith-ai-api/internal/config"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
)

const defaultModel = "text-embedding-3-small"

// NewEinoEmbedder 创建基于 Eino OpenAI 适配器的 Embedder
//
// Dimension 需与 Milvus 集合的向量维度一致，配置后透传给服务端。
func NewEinoEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	conf := &openai.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.Endpoint,
		Model:   model,
	}
	if cfg.Dimension > 0 {
		dims := cfg.Dimension
		conf.Dimensions = &dims
	}

	embedder, err := openai.NewEmbedder(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino embedder: %w", err)
	}
	return embedder, nil
}
