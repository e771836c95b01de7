package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"presensi/internal/dto"
	"presensi/internal/service"
	"presensi/internal/validation"
	"presensi/pkg/response"
)

// WorkScheduleHandler 班次与考勤二维码 HTTP 处理器
type WorkScheduleHandler struct {
	wsSvc service.WorkScheduleService
	qrSvc service.QRService
}

// NewWorkScheduleHandler 创建 WorkScheduleHandler
func NewWorkScheduleHandler(wsSvc service.WorkScheduleService, qrSvc service.QRService) *WorkScheduleHandler {
	return &WorkScheduleHandler{wsSvc: wsSvc, qrSvc: qrSvc}
}

// List 班次列表
// GET /api/admin/work-schedules
func (h *WorkScheduleHandler) List(c *gin.Context) {
	result, err := h.wsSvc.List(c.Request.Context())
	if err != nil {
		h.handleWorkScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 班次详情（含员工数）
// GET /api/admin/work-schedules/:id
func (h *WorkScheduleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.wsSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleWorkScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Create 新增班次
// POST /api/admin/work-schedules
func (h *WorkScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.wsSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleWorkScheduleError(c, err)
		return
	}

	response.Created(c, result)
}

// Update 更新班次（乐观锁）
// PUT /api/admin/work-schedules/:id
func (h *WorkScheduleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.wsSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleWorkScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除班次
// DELETE /api/admin/work-schedules/:id
func (h *WorkScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.wsSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleWorkScheduleError(c, err)
		return
	}

	response.OKMessage(c, "Work schedule deleted", nil)
}

// QRCode 为班次签发考勤二维码
// POST /api/admin/work-schedules/:id/qr[?format=png&size=256]
func (h *WorkScheduleHandler) QRCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if c.Query("format") == "png" {
		size, _ := strconv.Atoi(c.Query("size"))
		png, result, err := h.qrSvc.GeneratePNG(c.Request.Context(), id, size)
		if err != nil {
			h.handleWorkScheduleError(c, err)
			return
		}
		c.Header("X-QR-Token", result.QRToken)
		c.Header("X-QR-Expires-In", strconv.Itoa(result.ExpiresIn))
		c.Data(http.StatusOK, "image/png", png)
		return
	}

	result, err := h.qrSvc.Generate(c.Request.Context(), id)
	if err != nil {
		h.handleWorkScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *WorkScheduleHandler) handleWorkScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkScheduleNotFound):
		response.Error(c, http.StatusNotFound, 13001, err.Error())
	case errors.Is(err, service.ErrWorkScheduleConflict):
		response.Error(c, http.StatusConflict, 13002, err.Error())
	case errors.Is(err, validation.ErrInvalidTimeRange):
		response.Error(c, http.StatusBadRequest, 13003, err.Error())
	default:
		response.InternalError(c)
	}
}
