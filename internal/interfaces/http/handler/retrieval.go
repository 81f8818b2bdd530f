// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strings"

	"postsmith-ai-api/internal/application/retrieval"
	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/interfaces/http/dto"
	"postsmith-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RetrievalHandler 检索调试处理器
// 暴露流水线内部的示例检索，便于观察降级路径与打分
type RetrievalHandler struct {
	retriever retrieval.Retriever
}

// NewRetrievalHandler 创建检索调试处理器
func NewRetrievalHandler(retriever retrieval.Retriever) *RetrievalHandler {
	return &RetrievalHandler{retriever: retriever}
}

// Preview 预览一次检索
// @Summary 预览示例检索
// @Description 按给定维度和语气画像执行检索，返回命中示例与降级层级
// @Tags Retrieval
// @Accept json
// @Produce json
// @Param request body dto.RetrievalPreviewRequest true "检索请求"
// @Success 200 {object} dto.Response[dto.RetrievalPreviewResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/retrieval/preview [post]
func (h *RetrievalHandler) Preview(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RetrievalPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	platform := entity.Platform(strings.TrimSpace(req.Platform))
	if !platform.Valid() {
		dto.BadRequest(c, "invalid platform: "+req.Platform)
		return
	}
	category := entity.Category(strings.TrimSpace(req.Category))
	if !category.Valid() {
		dto.BadRequest(c, "invalid category: "+req.Category)
		return
	}
	audience := entity.Audience(strings.TrimSpace(req.Audience))
	if !audience.Valid() {
		dto.BadRequest(c, "invalid audience: "+req.Audience)
		return
	}

	var ownership *entity.Ownership
	if raw := strings.TrimSpace(req.Ownership); raw != "" {
		o := entity.Ownership(raw)
		if !o.Valid() {
			dto.BadRequest(c, "invalid ownership: "+req.Ownership)
			return
		}
		ownership = &o
	}

	profile := make(entity.ToneProfile, 0, len(req.ToneProfile))
	for _, w := range req.ToneProfile {
		profile = append(profile, entity.ToneWeight{
			Tone:   entity.Tone(strings.TrimSpace(w.Tone)),
			Weight: w.Weight,
		})
	}
	if err := profile.Validate(); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.retriever.Retrieve(ctx, &retrieval.Query{
		OwnerID:     ownerID,
		Platform:    platform,
		Category:    category,
		Audience:    audience,
		Ownership:   ownership,
		ToneProfile: profile,
		TopK:        req.TopK,
	})
	if err != nil {
		logger.Error(ctx, "failed to preview retrieval", err)
		dto.InternalError(c, "failed to preview retrieval")
		return
	}

	examples := make([]*dto.ScoredExampleResponse, 0, len(result.Examples))
	for _, scored := range result.Examples {
		examples = append(examples, &dto.ScoredExampleResponse{
			Example: dto.FromExample(scored.Example),
			Score:   scored.Score,
		})
	}
	dto.Success(c, &dto.RetrievalPreviewResponse{
		Examples: examples,
		Level:    result.Level,
		Strategy: result.Strategy,
	})
}
