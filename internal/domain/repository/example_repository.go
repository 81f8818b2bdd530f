package repository

import (
	"context"

	"postsmith-ai-api/internal/domain/entity"
)

// ExampleFilter 示例检索过滤条件
// 为 nil 的维度不参与过滤，检索引擎通过逐级置 nil 实现条件放宽
type ExampleFilter struct {
	OwnerID   string
	Platform  *entity.Platform
	Category  *entity.Category
	Audience  *entity.Audience
	Ownership *entity.Ownership
	Limit     int
}

type ExampleRepository interface {
	Create(ctx context.Context, example *entity.TrainingExample) error
	GetByID(ctx context.Context, ownerID, id string) (*entity.TrainingExample, error)
	List(ctx context.Context, ownerID string, pagination Pagination) (*PagedResult[*entity.TrainingExample], error)
	Delete(ctx context.Context, ownerID, id string) error

	// Find 按过滤条件查询候选示例，供检索引擎在内存中打分
	Find(ctx context.Context, filter ExampleFilter) ([]*entity.TrainingExample, error)
	// FindRecent 按创建时间倒序返回全库示例（兜底检索层，不按 owner 过滤）
	FindRecent(ctx context.Context, limit int) ([]*entity.TrainingExample, error)
	// FindByIDs 按 ID 批量查询，保持入参顺序（语义检索回表用）
	FindByIDs(ctx context.Context, ownerID string, ids []string) ([]*entity.TrainingExample, error)
}
