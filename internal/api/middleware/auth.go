package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"presensi/pkg/jwt"
	"presensi/pkg/response"
)

// 上下文键
const (
	CtxSubjectID = "subject_id"
	CtxRole      = "role"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

// BlacklistChecker 查询 Token 是否已注销
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// blacklist 为 nil 时（Redis 不可用）跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, blacklist BlacklistChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Token is invalid or expired")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			// Redis 出错时降级放行
			if err == nil && revoked {
				response.Unauthorized(c, "Token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(CtxSubjectID, claims.SubjectID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前主体是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		current, _ := role.(string)
		for _, r := range allowedRoles {
			if current == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "You do not have access to this resource")
		c.Abort()
	}
}
