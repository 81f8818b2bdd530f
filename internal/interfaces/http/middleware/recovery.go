// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"postsmith-ai-api/pkg/errors"
	"postsmith-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery Panic 恢复中间件
//
// 生成接口以 SSE 流式返回，响应头一旦写出就无法再回退为 JSON 错误，
// 此时只能中断连接并记录日志。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", r),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				// SSE 已开始推送，无法再写 JSON 响应
				c.Abort()
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    errors.CodeInternalError,
				"message": "internal server error",
			})
		}()

		c.Next()
	}
}
