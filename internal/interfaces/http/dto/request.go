package dto

import (
	"fmt"
	"net/url"
	"strings"

	"postsmith-ai-api/internal/domain/entity"
)

// ToneWeightRequest 请求中的单个语气分量
type ToneWeightRequest struct {
	Tone   string `json:"tone" binding:"required"`
	Weight int    `json:"weight" binding:"required"`
}

// GeneratePostRequest 帖子生成请求
type GeneratePostRequest struct {
	SourceURL   string              `json:"source_url" binding:"required"`
	Platform    string              `json:"platform" binding:"required"`
	Ownership   string              `json:"ownership,omitempty"`
	ToneProfile []ToneWeightRequest `json:"tone_profile,omitempty"`

	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Validate 校验请求并转换为领域类型
// tone_profile 省略时返回 nil 画像，由编排器注入默认值
func (r *GeneratePostRequest) Validate() (entity.Platform, *entity.Ownership, entity.ToneProfile, error) {
	u, err := url.Parse(strings.TrimSpace(r.SourceURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", nil, nil, fmt.Errorf("source_url must be a valid http(s) url")
	}

	platform := entity.Platform(strings.TrimSpace(r.Platform))
	if !platform.Valid() {
		return "", nil, nil, fmt.Errorf("invalid platform: %s", r.Platform)
	}

	var ownership *entity.Ownership
	if strings.TrimSpace(r.Ownership) != "" {
		o := entity.Ownership(strings.TrimSpace(r.Ownership))
		if !o.Valid() {
			return "", nil, nil, fmt.Errorf("invalid ownership: %s", r.Ownership)
		}
		ownership = &o
	}

	var profile entity.ToneProfile
	if len(r.ToneProfile) > 0 {
		profile = make(entity.ToneProfile, 0, len(r.ToneProfile))
		for _, w := range r.ToneProfile {
			profile = append(profile, entity.ToneWeight{
				Tone:   entity.Tone(strings.TrimSpace(w.Tone)),
				Weight: w.Weight,
			})
		}
		if err := profile.Validate(); err != nil {
			return "", nil, nil, err
		}
	}

	return platform, ownership, profile, nil
}

// CreateExampleRequest 语料示例创建请求
type CreateExampleRequest struct {
	Platform      string              `json:"platform" binding:"required"`
	Category      string              `json:"category" binding:"required"`
	Audience      string              `json:"audience" binding:"required"`
	Ownership     string              `json:"ownership" binding:"required"`
	PitchStrength int                 `json:"pitch_strength,omitempty"`
	ToneProfile   []ToneWeightRequest `json:"tone_profile" binding:"required"`
	Content       string              `json:"content" binding:"required"`
	Summary       string              `json:"summary,omitempty"`
	SourceURL     string              `json:"source_url,omitempty"`
}

// ToExample 转换为领域实体并校验
func (r *CreateExampleRequest) ToExample(ownerID string) (*entity.TrainingExample, error) {
	profile := make(entity.ToneProfile, 0, len(r.ToneProfile))
	for _, w := range r.ToneProfile {
		profile = append(profile, entity.ToneWeight{
			Tone:   entity.Tone(strings.TrimSpace(w.Tone)),
			Weight: w.Weight,
		})
	}

	example := &entity.TrainingExample{
		OwnerID:       ownerID,
		Platform:      entity.Platform(strings.TrimSpace(r.Platform)),
		Category:      entity.Category(strings.TrimSpace(r.Category)),
		Audience:      entity.Audience(strings.TrimSpace(r.Audience)),
		Ownership:     entity.Ownership(strings.TrimSpace(r.Ownership)),
		PitchStrength: r.PitchStrength,
		ToneProfile:   profile,
		Content:       strings.TrimSpace(r.Content),
		Summary:       strings.TrimSpace(r.Summary),
		SourceURL:     strings.TrimSpace(r.SourceURL),
	}
	if err := example.Validate(); err != nil {
		return nil, err
	}
	return example, nil
}

// RetrievalPreviewRequest 检索调试请求
type RetrievalPreviewRequest struct {
	Platform    string              `json:"platform" binding:"required"`
	Category    string              `json:"category" binding:"required"`
	Audience    string              `json:"audience" binding:"required"`
	Ownership   string              `json:"ownership,omitempty"`
	ToneProfile []ToneWeightRequest `json:"tone_profile" binding:"required"`
	TopK        int                 `json:"top_k,omitempty"`
}
