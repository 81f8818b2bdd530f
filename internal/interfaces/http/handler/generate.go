// Package handler 提供 HTTP 请求处理器
package handler

import (
	"io"

	"postsmith-ai-api/internal/application/pipeline"
	"postsmith-ai-api/internal/config"
	"postsmith-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// GenerateHandler 帖子生成处理器
// 以 SSE 单通道推送流水线的 progress / content / notice 事件
type GenerateHandler struct {
	orchestrator *pipeline.Orchestrator
	cfg          *config.Config
}

// NewGenerateHandler 创建帖子生成处理器
func NewGenerateHandler(orchestrator *pipeline.Orchestrator, cfg *config.Config) *GenerateHandler {
	return &GenerateHandler{
		orchestrator: orchestrator,
		cfg:          cfg,
	}
}

// Generate 生成帖子
// @Summary 从 URL 生成平台帖子
// @Description 抓取源文章并流式生成帖子，事件通过 SSE 推送
// @Tags Posts
// @Accept json
// @Produce text/event-stream
// @Param request body dto.GeneratePostRequest true "生成请求"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/posts/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req dto.GeneratePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	platform, ownership, profile, err := req.Validate()
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Provider, req.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	events := h.orchestrator.Run(c.Request.Context(), &pipeline.Request{
		OwnerID:     ownerID,
		SourceURL:   req.SourceURL,
		Platform:    platform,
		Ownership:   ownership,
		ToneProfile: profile,
		Provider:    provider,
		Model:       model,
	})

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				// 流水线结束，通道关闭
				return false
			}
			switch ev.Type {
			case pipeline.EventProgress:
				c.SSEvent("progress", ev.Progress)
			case pipeline.EventContent:
				c.SSEvent("content", ev.Content)
			case pipeline.EventNotice:
				c.SSEvent("notice", ev.Notice)
			}
			return true

		case <-c.Request.Context().Done():
			// 客户端断开，流水线通过 ctx 取消
			return false
		}
	})
}
