package postgres

import (
	"context"
	"fmt"

	"postsmith-ai-api/internal/domain/entity"
)

// Migrate 执行表结构迁移并补充 GORM 无法表达的索引
func Migrate(ctx context.Context, client *Client) error {
	ctx, span := tracer.Start(ctx, "postgres.Migrate")
	defer span.End()

	db := client.db.WithContext(ctx)

	if err := db.AutoMigrate(
		&entity.TrainingExample{},
		&entity.GeneratedPost{},
	); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	// tone_profile 上的 GIN 索引，加速按语气成分的 jsonb 包含查询
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_examples_tone_profile ON training_examples USING GIN (tone_profile)`,
		`CREATE INDEX IF NOT EXISTS idx_examples_owner_created ON training_examples (owner_id, created_at DESC)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
