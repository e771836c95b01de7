package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"presensi/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// maxBytes: 允许的最大请求体字节数（如 8<<20 = 8MB，容纳员工导入文件）
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		var tooLarge *http.MaxBytesError
		for _, err := range c.Errors {
			if errors.As(err.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Request body too large")
				return
			}
		}
	}
}
