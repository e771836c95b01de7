package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"presensi/internal/dto"
	"presensi/internal/service"
	"presensi/internal/validation"
	"presensi/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance 导出考勤记录
// GET /api/admin/attendance/export?date_from&date_to&employee_id&status
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendance(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoRecords):
		response.Error(c, http.StatusNotFound, 15001, err.Error())
	case errors.Is(err, service.ErrInvalidDateFilter):
		response.Error(c, http.StatusBadRequest, 14010, err.Error())
	default:
		response.InternalError(c)
	}
}
