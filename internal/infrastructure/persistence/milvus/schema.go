// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionExampleEmbeddings 示例摘要向量集合
	CollectionExampleEmbeddings = "example_embeddings"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// ExampleEmbeddingsSchema 示例向量 Collection Schema
func ExampleEmbeddingsSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionExampleEmbeddings,
		Description:    "Training example summary vectors for semantic retrieval",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "owner_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "platform",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "16",
				},
			},
			{
				Name:     "category",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "summary",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// ExampleEmbedding 示例向量数据结构
type ExampleEmbedding struct {
	ID       string    `json:"id"`
	Vector   []float32 `json:"vector"`
	OwnerID  string    `json:"owner_id"`
	Platform string    `json:"platform"`
	Category string    `json:"category"`
	Summary  string    `json:"summary"`
}

// PartitionName 按 owner 分区
func PartitionName(ownerID string) string {
	return "owner_" + strings.ReplaceAll(ownerID, "-", "_")
}
