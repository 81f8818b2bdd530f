// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, handlers *Handlers) {
	// 帖子管理
	posts := v1.Group("/posts")
	{
		posts.POST("/generate", handlers.Generate.Generate) // SSE
		posts.GET("", handlers.Post.ListPosts)
		posts.GET("/:id", handlers.Post.GetPost)
		posts.DELETE("/:id", handlers.Post.DeletePost)
	}

	// 语料示例管理
	examples := v1.Group("/examples")
	{
		examples.GET("", handlers.Example.ListExamples)
		examples.POST("", handlers.Example.CreateExample)
		examples.GET("/:id", handlers.Example.GetExample)
		examples.DELETE("/:id", handlers.Example.DeleteExample)
	}

	// 检索调试
	retrieval := v1.Group("/retrieval")
	{
		retrieval.POST("/preview", handlers.Retrieval.Preview)
	}
}
