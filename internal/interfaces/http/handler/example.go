// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"errors"
	"fmt"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/internal/infrastructure/persistence/milvus"
	"postsmith-ai-api/internal/interfaces/http/dto"
	"postsmith-ai-api/pkg/logger"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/gin-gonic/gin"
)

// ExampleHandler 语料示例管理处理器
// 开启向量索引时，行写入与向量写入在同一事务单元中成败与共
type ExampleHandler struct {
	exampleRepo repository.ExampleRepository
	embedder    embedding.Embedder
	vectors     *milvus.Repository
	tx          repository.Transactor
}

// NewExampleHandler 创建语料示例管理处理器
func NewExampleHandler(exampleRepo repository.ExampleRepository, embedder embedding.Embedder, vectors *milvus.Repository, tx repository.Transactor) *ExampleHandler {
	return &ExampleHandler{
		exampleRepo: exampleRepo,
		embedder:    embedder,
		vectors:     vectors,
		tx:          tx,
	}
}

// ExampleListResponse 示例列表响应
type ExampleListResponse struct {
	Examples []*dto.ExampleResponse `json:"examples"`
}

// CreateExample 创建语料示例
// @Summary 创建语料示例
// @Tags Examples
// @Accept json
// @Produce json
// @Param request body dto.CreateExampleRequest true "示例内容"
// @Success 201 {object} dto.Response[dto.ExampleResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/examples [post]
func (h *ExampleHandler) CreateExample(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateExampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	example, err := req.ToExample(ownerID)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	if err := h.createExample(ctx, example); err != nil {
		logger.Error(ctx, "failed to create example", err)
		dto.InternalError(c, "failed to create example")
		return
	}

	dto.Created(c, dto.FromExample(example))
}

// ListExamples 列出当前所有者的示例
// @Summary 列出语料示例
// @Tags Examples
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[handler.ExampleListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/examples [get]
func (h *ExampleHandler) ListExamples(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	pageReq := dto.BindPage(c)
	result, err := h.exampleRepo.List(ctx, ownerID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list examples", err)
		dto.InternalError(c, "failed to list examples")
		return
	}

	examples := make([]*dto.ExampleResponse, 0, len(result.Items))
	for i := range result.Items {
		examples = append(examples, dto.FromExample(result.Items[i]))
	}
	dto.SuccessWithPage(c, &ExampleListResponse{Examples: examples}, dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total)))
}

// GetExample 获取单个示例
// @Summary 获取语料示例
// @Tags Examples
// @Produce json
// @Param id path string true "示例 ID"
// @Success 200 {object} dto.Response[dto.ExampleResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/examples/{id} [get]
func (h *ExampleHandler) GetExample(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	example, err := h.exampleRepo.GetByID(ctx, ownerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			dto.NotFound(c, "example not found")
			return
		}
		logger.Error(ctx, "failed to get example", err)
		dto.InternalError(c, "failed to get example")
		return
	}

	dto.Success(c, dto.FromExample(example))
}

// DeleteExample 删除示例
// @Summary 删除语料示例
// @Tags Examples
// @Produce json
// @Param id path string true "示例 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/examples/{id} [delete]
func (h *ExampleHandler) DeleteExample(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, err := currentOwnerID(c)
	if err != nil {
		dto.Unauthorized(c, err.Error())
		return
	}

	id := c.Param("id")
	if err := h.exampleRepo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			dto.NotFound(c, "example not found")
			return
		}
		logger.Error(ctx, "failed to delete example", err)
		dto.InternalError(c, "failed to delete example")
		return
	}

	if h.vectors != nil {
		if err := h.vectors.DeleteExample(ctx, ownerID, id); err != nil {
			logger.Warn(ctx, "failed to delete example embedding", "example_id", id, "error", err.Error())
		}
	}

	dto.NoContent(c)
}

// createExample 写入示例行并建立向量索引
// 向量组件可用时两者在同一事务单元执行，索引失败回滚行写入
func (h *ExampleHandler) createExample(ctx context.Context, example *entity.TrainingExample) error {
	if h.embedder == nil || h.vectors == nil || h.tx == nil {
		return h.exampleRepo.Create(ctx, example)
	}

	return h.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := h.exampleRepo.Create(txCtx, example); err != nil {
			return err
		}
		return h.indexExample(txCtx, example)
	})
}

// indexExample 计算示例向量并写入 Milvus
func (h *ExampleHandler) indexExample(ctx context.Context, example *entity.TrainingExample) error {
	text := example.Summary
	if text == "" {
		text = example.Content
	}

	vectors, err := h.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("embed example: %w", err)
	}
	if len(vectors) == 0 {
		return fmt.Errorf("embed example: empty embedding result")
	}

	vec := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		vec[i] = float32(v)
	}

	err = h.vectors.InsertExamples(ctx, example.OwnerID, []*milvus.ExampleEmbedding{{
		ID:       example.ID,
		Vector:   vec,
		OwnerID:  example.OwnerID,
		Platform: string(example.Platform),
		Category: string(example.Category),
		Summary:  example.Summary,
	}})
	if err != nil {
		return fmt.Errorf("index example embedding: %w", err)
	}
	return nil
}
