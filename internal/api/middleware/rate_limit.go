package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"presensi/pkg/response"
)

// RateLimiter 滑动窗口计数器（pkg/redis.Client 实现）
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// 已认证请求按用户计数，否则按客户端 IP
// limiter 为 nil 时降级放行（与 JWTAuth 策略一致）
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("presensi:rate_limit:%s:%s", rateLimitSubject(c), c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitSubject(c *gin.Context) string {
	if id, ok := c.Get(CtxSubjectID); ok {
		return fmt.Sprintf("%s:%v", c.GetString(CtxRole), id)
	}
	return c.ClientIP()
}
