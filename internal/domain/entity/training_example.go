package entity

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
)

var ValidPlatforms = []Platform{
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformFacebook,
}

func (p Platform) Valid() bool {
	for _, v := range ValidPlatforms {
		if p == v {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryTechTutorial    Category = "tech_tutorial"
	CategoryProductLaunch   Category = "product_launch"
	CategoryIndustryNews    Category = "industry_news"
	CategoryPersonalStory   Category = "personal_story"
	CategoryCaseStudy       Category = "case_study"
	CategoryOpinion         Category = "opinion"
	CategoryBehindTheScenes Category = "behind_the_scenes"
)

var ValidCategories = []Category{
	CategoryTechTutorial,
	CategoryProductLaunch,
	CategoryIndustryNews,
	CategoryPersonalStory,
	CategoryCaseStudy,
	CategoryOpinion,
	CategoryBehindTheScenes,
}

func (c Category) Valid() bool {
	for _, v := range ValidCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Audience string

const (
	AudienceDevelopers Audience = "developers"
	AudienceFounders   Audience = "founders"
	AudienceMarketers  Audience = "marketers"
	AudienceDesigners  Audience = "designers"
	AudienceExecutives Audience = "executives"
	AudienceStudents   Audience = "students"
	AudienceCreators   Audience = "creators"
	AudienceInvestors  Audience = "investors"
	AudienceGeneral    Audience = "general"
)

var ValidAudiences = []Audience{
	AudienceDevelopers,
	AudienceFounders,
	AudienceMarketers,
	AudienceDesigners,
	AudienceExecutives,
	AudienceStudents,
	AudienceCreators,
	AudienceInvestors,
	AudienceGeneral,
}

func (a Audience) Valid() bool {
	for _, v := range ValidAudiences {
		if a == v {
			return true
		}
	}
	return false
}

type Ownership string

const (
	OwnershipOriginal Ownership = "original"
	OwnershipCurated  Ownership = "curated"
)

func (o Ownership) Valid() bool {
	return o == OwnershipOriginal || o == OwnershipCurated
}

// TrainingExample 检索语料库中的一条示例帖子
// 向量列仅在开启语义检索策略时填充：text_embedding 对应正文，summary_embedding 对应摘要
type TrainingExample struct {
	ID               string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID          string          `json:"owner_id" gorm:"type:uuid;index;not null"`
	Platform         Platform        `json:"platform" gorm:"type:varchar(16);not null;index:idx_examples_pca,priority:1"`
	Category         Category        `json:"category" gorm:"type:varchar(32);not null;index:idx_examples_pca,priority:2"`
	Audience         Audience        `json:"audience" gorm:"type:varchar(16);not null;index:idx_examples_pca,priority:3"`
	Ownership        Ownership       `json:"ownership" gorm:"type:varchar(16);not null;default:original"`
	PitchStrength    int             `json:"pitch_strength" gorm:"not null;default:50"`
	ToneProfile      ToneProfile     `json:"tone_profile" gorm:"type:jsonb;not null"`
	Content          string          `json:"content" gorm:"type:text;not null"`
	Summary          string          `json:"summary" gorm:"type:text"`
	TextEmbedding    pq.Float64Array `json:"-" gorm:"type:float8[]"`
	SummaryEmbedding pq.Float64Array `json:"-" gorm:"type:float8[]"`
	SourceURL        string          `json:"source_url,omitempty" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (TrainingExample) TableName() string {
	return "training_examples"
}

// Validate 校验示例的分类字段与语气画像
func (e *TrainingExample) Validate() error {
	if !e.Platform.Valid() {
		return fmt.Errorf("invalid platform: %s", e.Platform)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("invalid category: %s", e.Category)
	}
	if !e.Audience.Valid() {
		return fmt.Errorf("invalid audience: %s", e.Audience)
	}
	if !e.Ownership.Valid() {
		return fmt.Errorf("invalid ownership: %s", e.Ownership)
	}
	if e.PitchStrength < 0 || e.PitchStrength > 100 {
		return fmt.Errorf("pitch strength must be within 0..100, got %d", e.PitchStrength)
	}
	if err := e.ToneProfile.Validate(); err != nil {
		return fmt.Errorf("invalid tone profile: %w", err)
	}
	if e.Content == "" {
		return fmt.Errorf("content must not be empty")
	}
	return nil
}
