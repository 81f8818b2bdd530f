package repository

import (
	"context"

	"postsmith-ai-api/internal/domain/entity"
)

type PostRepository interface {
	// Create 持久化生成结果
	// (owner_id, source_url) 冲突时返回 ErrDuplicatePost
	Create(ctx context.Context, post *entity.GeneratedPost) error
	GetByID(ctx context.Context, ownerID, id string) (*entity.GeneratedPost, error)
	GetBySourceURL(ctx context.Context, ownerID, sourceURL string) (*entity.GeneratedPost, error)
	List(ctx context.Context, ownerID string, platform *entity.Platform, pagination Pagination) (*PagedResult[*entity.GeneratedPost], error)
	Delete(ctx context.Context, ownerID, id string) error
}
