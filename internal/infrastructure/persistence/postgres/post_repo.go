package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
)

// uniqueViolation PostgreSQL 唯一约束错误码
const uniqueViolation = "23505"

type PostRepository struct {
	client *Client
}

func NewPostRepository(client *Client) *PostRepository {
	return &PostRepository{client: client}
}

func (r *PostRepository) Create(ctx context.Context, post *entity.GeneratedPost) error {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(post).Error; err != nil {
		if isDuplicateKey(err) {
			return repository.ErrDuplicatePost
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create generated post: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, ownerID, id string) (*entity.GeneratedPost, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var post entity.GeneratedPost
	if err := db.First(&post, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generated post: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) GetBySourceURL(ctx context.Context, ownerID, sourceURL string) (*entity.GeneratedPost, error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.GetBySourceURL")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var post entity.GeneratedPost
	if err := db.First(&post, "owner_id = ? AND source_url = ?", ownerID, sourceURL).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generated post by source url: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context, ownerID string, platform *entity.Platform, pagination repository.Pagination) (*repository.PagedResult[*entity.GeneratedPost], error) {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.GeneratedPost{}).Where("owner_id = ?", ownerID)
	if platform != nil {
		query = query.Where("platform = ?", *platform)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count generated posts: %w", err)
	}

	var posts []*entity.GeneratedPost
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&posts).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generated posts: %w", err)
	}

	return repository.NewPagedResult(posts, total, pagination), nil
}

func (r *PostRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PostRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&entity.GeneratedPost{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to delete generated post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// isDuplicateKey 判断唯一约束冲突（兼容 gorm 错误翻译与原生 pg 错误码）
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
