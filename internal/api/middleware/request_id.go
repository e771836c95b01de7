package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	// requestIDMaxLen 外部传入的 Request-ID 最大长度
	requestIDMaxLen = 64
)

// RequestID 请求追踪 ID 中间件
// 从请求头 X-Request-ID 读取，缺失或过长时生成 UUID，
// 写入 gin.Context 并回写响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
