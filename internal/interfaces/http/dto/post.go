package dto

import (
	"time"

	"postsmith-ai-api/internal/domain/entity"
)

// PostResponse 生成帖子响应
type PostResponse struct {
	ID            string             `json:"id"`
	SourceURL     string             `json:"source_url"`
	Platform      string             `json:"platform"`
	Category      string             `json:"category,omitempty"`
	Audience      string             `json:"audience,omitempty"`
	Ownership     string             `json:"ownership,omitempty"`
	PitchStrength int                `json:"pitch_strength"`
	ToneProfile   entity.ToneProfile `json:"tone_profile,omitempty"`
	Title         string             `json:"title,omitempty"`
	Summary       string             `json:"summary,omitempty"`
	Content       string             `json:"content"`
	Status        string             `json:"status"`
	ModelUsed     string             `json:"model_used,omitempty"`
	TokensUsed    int                `json:"tokens_used,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FromPost 实体转响应
func FromPost(p *entity.GeneratedPost) *PostResponse {
	return &PostResponse{
		ID:            p.ID,
		SourceURL:     p.SourceURL,
		Platform:      string(p.Platform),
		Category:      string(p.Category),
		Audience:      string(p.Audience),
		Ownership:     string(p.Ownership),
		PitchStrength: p.PitchStrength,
		ToneProfile:   p.ToneProfile,
		Title:         p.Title,
		Summary:       p.Summary,
		Content:       p.Content,
		Status:        string(p.Status),
		ModelUsed:     p.ModelUsed,
		TokensUsed:    p.TokensUsed,
		CreatedAt:     p.CreatedAt,
	}
}

// ExampleResponse 语料示例响应
type ExampleResponse struct {
	ID            string             `json:"id"`
	Platform      string             `json:"platform"`
	Category      string             `json:"category"`
	Audience      string             `json:"audience"`
	Ownership     string             `json:"ownership"`
	PitchStrength int                `json:"pitch_strength"`
	ToneProfile   entity.ToneProfile `json:"tone_profile"`
	Content       string             `json:"content"`
	Summary       string             `json:"summary,omitempty"`
	SourceURL     string             `json:"source_url,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FromExample 实体转响应
func FromExample(e *entity.TrainingExample) *ExampleResponse {
	return &ExampleResponse{
		ID:            e.ID,
		Platform:      string(e.Platform),
		Category:      string(e.Category),
		Audience:      string(e.Audience),
		Ownership:     string(e.Ownership),
		PitchStrength: e.PitchStrength,
		ToneProfile:   e.ToneProfile,
		Content:       e.Content,
		Summary:       e.Summary,
		SourceURL:     e.SourceURL,
		CreatedAt:     e.CreatedAt,
	}
}

// ScoredExampleResponse 检索调试响应项
type ScoredExampleResponse struct {
	Example *ExampleResponse `json:"example"`
	Score   float64          `json:"score"`
}

// RetrievalPreviewResponse 检索调试响应
type RetrievalPreviewResponse struct {
	Examples []*ScoredExampleResponse `json:"examples"`
	Level    string                   `json:"level"`
	Strategy string                   `json:"strategy"`
}
