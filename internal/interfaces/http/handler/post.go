// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"strings"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/internal/interfaces/http/dto"
	"postsmith-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PostHandler 生成帖子管理处理器
type PostHandler struct {
	postRepo repository.PostRepository
}

// NewPostHandler 创建帖子管理处理器
func NewPostHandler(postRepo repository.PostRepository) *PostHandler {
	return &PostHandler{postRepo: postRepo}
}

// PostListResponse 帖子列表响应
type PostListResponse struct {
	Posts []*dto.PostResponse `json:"posts"`
}

// ListPosts 列出当前所有者的帖子
// @Summary 列出帖子
// @Tags Posts
// @Produce json
// @Param platform query string false "平台过滤"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[handler.PostListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	var platform *entity.Platform
	if raw := strings.TrimSpace(c.Query("platform")); raw != "" {
		p := entity.Platform(raw)
		if !p.Valid() {
			dto.BadRequest(c, "invalid platform: "+raw)
			return
		}
		platform = &p
	}

	pageReq := dto.BindPage(c)
	result, err := h.postRepo.List(ctx, ownerID, platform, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list posts", err)
		dto.InternalError(c, "failed to list posts")
		return
	}

	posts := make([]*dto.PostResponse, 0, len(result.Items))
	for i := range result.Items {
		posts = append(posts, dto.FromPost(result.Items[i]))
	}
	dto.SuccessWithPage(c, &PostListResponse{Posts: posts}, dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total)))
}

// GetPost 获取单个帖子
// @Summary 获取帖子
// @Tags Posts
// @Produce json
// @Param id path string true "帖子 ID"
// @Success 200 {object} dto.Response[dto.PostResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	post, err := h.postRepo.GetByID(ctx, ownerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			dto.NotFound(c, "post not found")
			return
		}
		logger.Error(ctx, "failed to get post", err)
		dto.InternalError(c, "failed to get post")
		return
	}

	dto.Success(c, dto.FromPost(post))
}

// DeletePost 删除帖子
// @Summary 删除帖子
// @Tags Posts
// @Produce json
// @Param id path string true "帖子 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	if err := h.postRepo.Delete(ctx, ownerID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			dto.NotFound(c, "post not found")
			return
		}
		logger.Error(ctx, "failed to delete post", err)
		dto.InternalError(c, "failed to delete post")
		return
	}

	dto.NoContent(c)
}
