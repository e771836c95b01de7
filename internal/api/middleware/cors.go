package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS 跨域中间件（gin-contrib/cors），仅放行配置中的来源
func CORS(allowOrigins []string) gin.HandlerFunc {
	origins := make([]string, 0, len(allowOrigins))
	for _, o := range allowOrigins {
		origins = append(origins, strings.TrimRight(o, "/"))
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-QR-Token", "X-QR-Expires-In", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
