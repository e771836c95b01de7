package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"presensi/internal/api/middleware"
	"presensi/pkg/response"
)

// MustGetSubjectID 从 Gin 上下文中安全提取当前主体 ID（admins.id 或 employees.id）。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSubjectID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.CtxSubjectID)
	if !exists {
		response.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return id, true
}

// tokenInfo 当前 Token 的 jti 与过期时间，用于登出
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(middleware.CtxTokenJTI)
	exp, _ := c.Get(middleware.CtxTokenExp)
	expiresAt, _ := exp.(time.Time)
	return jti, expiresAt
}

// parseIDParam 解析路径中的正整数 ID，失败时写入 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
