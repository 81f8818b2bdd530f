package entity

import (
	"time"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// GeneratedPost 一次流水线运行的持久化产物
// (owner_id, source_url) 上有唯一约束，重复生成同一来源视为冲突而非新纪录
type GeneratedPost struct {
	ID            string      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID       string      `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:uq_posts_owner_source,priority:1"`
	SourceURL     string      `json:"source_url" gorm:"type:text;not null;uniqueIndex:uq_posts_owner_source,priority:2"`
	RunID         string      `json:"run_id" gorm:"type:uuid;index"`
	Platform      Platform    `json:"platform" gorm:"type:varchar(16);not null"`
	Category      Category    `json:"category" gorm:"type:varchar(32)"`
	Audience      Audience    `json:"audience" gorm:"type:varchar(16)"`
	Ownership     Ownership   `json:"ownership" gorm:"type:varchar(16);not null;default:original"`
	PitchStrength int         `json:"pitch_strength" gorm:"not null;default:50"`
	ToneProfile   ToneProfile `json:"tone_profile" gorm:"type:jsonb"`
	Title         string      `json:"title" gorm:"type:text"`
	Summary       string      `json:"summary" gorm:"type:text"`
	Content       string      `json:"content" gorm:"type:text;not null"`
	Status        PostStatus  `json:"status" gorm:"type:varchar(16);not null;default:draft"`
	ModelUsed     string      `json:"model_used,omitempty" gorm:"type:varchar(64)"`
	TokensUsed    int         `json:"tokens_used,omitempty"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

func (GeneratedPost) TableName() string {
	return "generated_posts"
}
