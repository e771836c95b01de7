package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"presensi/internal/dto"
	"presensi/internal/service"
	"presensi/internal/validation"
	"presensi/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// AdminLogin 管理员登录
// POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.authSvc.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// EmployeeLogin 员工登录（NIK + 密码）
// POST /api/employee/login
func (h *AuthHandler) EmployeeLogin(c *gin.Context) {
	var req dto.EmployeeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.authSvc.EmployeeLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出，当前 Token 进入黑名单
// POST /api/admin/logout, /api/employee/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, expiresAt := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		response.InternalError(c)
		return
	}
	response.OKMessage(c, "Logged out", nil)
}

// AdminMe 当前管理员
// GET /api/admin/me
func (h *AuthHandler) AdminMe(c *gin.Context) {
	adminID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	admin, err := h.authSvc.AdminProfile(c.Request.Context(), adminID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, admin)
}

// EmployeeMe 当前员工
// GET /api/employee/me
func (h *AuthHandler) EmployeeMe(c *gin.Context) {
	employeeID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	employee, err := h.authSvc.EmployeeProfile(c.Request.Context(), employeeID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, employee)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, err.Error())
	case errors.Is(err, service.ErrInvalidNIKPassword):
		response.Error(c, http.StatusUnauthorized, 11002, err.Error())
	case errors.Is(err, service.ErrLoginFieldsRequired):
		response.Error(c, http.StatusBadRequest, 11003, err.Error())
	case errors.Is(err, service.ErrAdminNotFound):
		response.Error(c, http.StatusNotFound, 11004, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.Error(c, http.StatusNotFound, 12001, err.Error())
	default:
		response.InternalError(c)
	}
}
