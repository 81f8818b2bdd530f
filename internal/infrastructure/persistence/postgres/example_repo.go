// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
)

type ExampleRepository struct {
	client *Client
}

func NewExampleRepository(client *Client) *ExampleRepository {
	return &ExampleRepository{client: client}
}

func (r *ExampleRepository) Create(ctx context.Context, example *entity.TrainingExample) error {
	ctx, span := tracer.Start(ctx, "postgres.ExampleRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(example).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create training example: %w", err)
	}
	return nil
}

func (r *ExampleRepository) GetByID(ctx context.Context, ownerID, id string) (*entity.TrainingExample, error) {
	ctx, span := tracer.Start(ctx, "postgres.ExampleRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var example entity.TrainingExample
	if err := db.First(&example, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get training example: %w", err)
	}
	return &example, nil
}

func (r *ExampleRepository) List(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.TrainingExample], error) {
	ctx, span := tracer.Start(ctx, "postgres.ExampleRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.TrainingExample{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count training examples: %w", err)
	}

	var examples []*entity.TrainingExample
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&examples).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list training examples: %w", err)
	}

	return repository.NewPagedResult(examples, total, pagination), nil
}

func (r *ExampleRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ExampleRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&entity.TrainingExample{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to delete training example: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ExampleRepository) Find(ctx context.Context, filter repository.ExampleFilter) ([]*entity.TrainingExample, error) {
	ctx, span := tracer.Start(ctx, "postgres.ExampleRepository.Find")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.TrainingExample{}).Where("owner_id = ?", filter.OwnerID)
	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Audience != nil {
		query = query.Where("audience = ?", *filter.Audience)
	}
	if filter.Ownership != nil {
		query = query.Where("ownership = ?", *filter.Ownership)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var examples []*entity.TrainingExample
	if err := query.Order("created_at DESC").Find(&examples).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find training examples: %w", err)
	}
	return examples, nil
}

func (r *ExampleRepository) FindRecent(ctx context.Context, limit int) ([]*entity.TrainingExample, error) {
	ctx, span := tracer.Start(ctx, "postgres.ExampleRepository.FindRecent")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var examples []*entity.TrainingExample
	if err := db.Order("created_at DESC").
		Limit(limit).
		Find(&examples).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find recent training examples: %w", err)
	}
	return examples, nil
}

func (r *ExampleRepository) FindByIDs(ctx context.Context, ownerID string, ids []string) ([]*entity.TrainingExample, error) {
	ctx, span := tracer.Start(ctx, "postgres.ExampleRepository.FindByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	db := getDB(ctx, r.client.db)
	var examples []*entity.TrainingExample
	if err := db.Where("owner_id = ? AND id IN ?", ownerID, ids).Find(&examples).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find training examples by ids: %w", err)
	}

	// 保持入参顺序
	byID := make(map[string]*entity.TrainingExample, len(examples))
	for _, e := range examples {
		byID[e.ID] = e
	}
	ordered := make([]*entity.TrainingExample, 0, len(examples))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			ordered = append(ordered, e)
		}
	}
	return ordered, nil
}
